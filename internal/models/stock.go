package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock is a tracked ticker. Prediction fields are written only by the
// prediction operation.
type Stock struct {
	Base
	Symbol         string              `gorm:"size:20;not null;uniqueIndex" json:"symbol"`
	Name           string              `gorm:"size:255;not null" json:"name"`
	LastPrice      decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"last_price"`
	PredictedPrice decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"predicted_price"`
	PredictionDate *time.Time          `json:"prediction_date"`
	ModelAccuracy  *float64            `json:"model_accuracy"`

	PriceHistory []PriceHistory `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE" json:"price_history,omitempty"`
}
