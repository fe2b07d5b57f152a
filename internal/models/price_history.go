package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PriceHistory is one daily OHLCV bar. (StockID, Date) is unique.
type PriceHistory struct {
	ID         uint            `gorm:"primaryKey" json:"-"`
	StockID    uint            `gorm:"not null;uniqueIndex:uq_price_history_stock_date" json:"-"`
	Date       datatypes.Date  `gorm:"not null;uniqueIndex:uq_price_history_stock_date" json:"date"`
	OpenPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"open_price"`
	HighPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"high_price"`
	LowPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"low_price"`
	ClosePrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"close_price"`
	Volume     int64           `gorm:"not null" json:"volume"`
}

// TableName pins the table name used by the SQL migrations.
func (PriceHistory) TableName() string { return "price_history" }
