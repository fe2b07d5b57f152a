package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"stockstalk/internal/marketdata"
	"stockstalk/internal/models"
	"stockstalk/internal/services"
)

const dateLayout = "2006-01-02"

// StockResponse is the list representation of a stock.
type StockResponse struct {
	ID             uint       `json:"id"`
	Symbol         string     `json:"symbol"`
	Name           string     `json:"name"`
	LastPrice      *string    `json:"last_price"`
	UpdatedAt      time.Time  `json:"updated_at"`
	PredictedPrice *string    `json:"predicted_price"`
	PredictionDate *time.Time `json:"prediction_date"`
	ModelAccuracy  *float64   `json:"model_accuracy"`
}

// PriceHistoryResponse is one stored daily bar.
type PriceHistoryResponse struct {
	Date       string `json:"date"`
	OpenPrice  string `json:"open_price"`
	HighPrice  string `json:"high_price"`
	LowPrice   string `json:"low_price"`
	ClosePrice string `json:"close_price"`
	Volume     int64  `json:"volume"`
}

// StockDetailResponse is a stock with its embedded history, newest first.
type StockDetailResponse struct {
	StockResponse
	PriceHistory []PriceHistoryResponse `json:"price_history"`
}

// StockDetailsResponse is a refreshed stock merged with the provider's
// descriptive fields.
type StockDetailsResponse struct {
	StockDetailResponse
	marketdata.Extended
}

// PredictionResponse is the outcome of a price prediction.
type PredictionResponse struct {
	Symbol         string    `json:"symbol"`
	PredictedPrice string    `json:"predicted_price"`
	PredictionDate time.Time `json:"prediction_date"`
	Accuracy       float64   `json:"accuracy"`
}

// WatchlistResponse is a watchlist with its member stocks.
type WatchlistResponse struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Stocks    []StockResponse `json:"stocks"`
	CreatedAt time.Time       `json:"created_at"`
}

func fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func fixedNull(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := fixed(d.Decimal)
	return &s
}

func serializeStock(s *models.Stock) StockResponse {
	return StockResponse{
		ID:             s.ID,
		Symbol:         s.Symbol,
		Name:           s.Name,
		LastPrice:      fixedNull(s.LastPrice),
		UpdatedAt:      s.UpdatedAt,
		PredictedPrice: fixedNull(s.PredictedPrice),
		PredictionDate: s.PredictionDate,
		ModelAccuracy:  s.ModelAccuracy,
	}
}

func serializeStocks(stocks []models.Stock) []StockResponse {
	out := make([]StockResponse, len(stocks))
	for i := range stocks {
		out[i] = serializeStock(&stocks[i])
	}
	return out
}

func serializeHistory(rows []models.PriceHistory) []PriceHistoryResponse {
	out := make([]PriceHistoryResponse, len(rows))
	for i, r := range rows {
		out[i] = PriceHistoryResponse{
			Date:       time.Time(r.Date).Format(dateLayout),
			OpenPrice:  fixed(r.OpenPrice),
			HighPrice:  fixed(r.HighPrice),
			LowPrice:   fixed(r.LowPrice),
			ClosePrice: fixed(r.ClosePrice),
			Volume:     r.Volume,
		}
	}
	return out
}

func serializeStockDetail(s *models.Stock) StockDetailResponse {
	return StockDetailResponse{
		StockResponse: serializeStock(s),
		PriceHistory:  serializeHistory(s.PriceHistory),
	}
}

func serializeStockDetails(d *services.StockDetails) StockDetailsResponse {
	return StockDetailsResponse{
		StockDetailResponse: serializeStockDetail(d.Stock),
		Extended:            d.Extended,
	}
}

func serializePrediction(p *services.Prediction) PredictionResponse {
	return PredictionResponse{
		Symbol:         p.Symbol,
		PredictedPrice: fixed(p.PredictedPrice),
		PredictionDate: p.PredictionDate,
		Accuracy:       p.Accuracy,
	}
}

func serializeWatchlist(w *models.Watchlist) WatchlistResponse {
	return WatchlistResponse{
		ID:        w.ID,
		Name:      w.Name,
		Stocks:    serializeStocks(w.Stocks),
		CreatedAt: w.CreatedAt,
	}
}

func serializeWatchlists(watchlists []models.Watchlist) []WatchlistResponse {
	out := make([]WatchlistResponse, len(watchlists))
	for i := range watchlists {
		out[i] = serializeWatchlist(&watchlists[i])
	}
	return out
}
