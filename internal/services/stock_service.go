package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "stockstalk/internal/errors"
	"stockstalk/internal/forecast"
	"stockstalk/internal/logger"
	"stockstalk/internal/marketdata"
	"stockstalk/internal/models"
	"stockstalk/internal/pagination"
)

// predictionWindowDays bounds how far back PredictPrice reads stored history.
const predictionWindowDays = 60

// relatedSuffixes are probed after the literal symbol on every search.
var relatedSuffixes = []string{".X", "-USD", ".DE"}

// fallbackSuffixes are probed only when nothing else resolved.
var fallbackSuffixes = []string{"", ".X", "-USD"}

// stockService handles stock lookup, refresh and prediction.
type stockService struct {
	db          *gorm.DB
	gateway     marketdata.Gateway
	predictor   *forecast.Predictor
	historyDays int
	now         func() time.Time
}

// NewStockService creates a new StockServicer. historyDays is the window a
// detail refresh fetches.
func NewStockService(db *gorm.DB, gateway marketdata.Gateway, predictor *forecast.Predictor, historyDays int) StockServicer {
	return &stockService{
		db:          db,
		gateway:     gateway,
		predictor:   predictor,
		historyDays: historyDays,
		now:         time.Now,
	}
}

// ListStocks returns a paginated list of stocks ordered by symbol.
func (s *stockService) ListStocks(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Stock{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var stocks []models.Stock
	if err := base.Order("symbol ASC").Scopes(pagination.Paginate(page)).Find(&stocks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(stocks, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetStockByID returns a stock with its stored history, newest first.
func (s *stockService) GetStockByID(id uint) (*models.Stock, error) {
	var stock models.Stock
	err := s.db.Preload("PriceHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("date DESC")
	}).First(&stock, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStockNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stock, nil
}

// CreateStock inserts a new stock. Symbols are stored upper-case.
func (s *stockService) CreateStock(input StockInput) (*models.Stock, error) {
	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required")
	}

	stock := &models.Stock{
		Symbol:    symbol,
		Name:      strings.TrimSpace(input.Name),
		LastPrice: roundNull(input.LastPrice),
	}
	if err := s.db.Create(stock).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperrors.ErrDuplicateStock
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return stock, nil
}

// UpdateStock replaces the writable fields of a stock.
func (s *stockService) UpdateStock(id uint, input StockInput) (*models.Stock, error) {
	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required")
	}

	var stock models.Stock
	if err := s.db.First(&stock, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStockNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err := s.db.Model(&stock).Updates(map[string]interface{}{
		"symbol":     symbol,
		"name":       strings.TrimSpace(input.Name),
		"last_price": roundNull(input.LastPrice),
	}).Error
	if err != nil {
		if isDuplicate(err) {
			return nil, apperrors.ErrDuplicateStock
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetStockByID(id)
}

// DeleteStock removes a stock along with its history and watchlist memberships.
func (s *stockService) DeleteStock(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var stock models.Stock
		if err := tx.First(&stock, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrStockNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Exec("DELETE FROM watchlist_stocks WHERE stock_id = ?", id).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("stock_id = ?", id).Delete(&models.PriceHistory{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&stock).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// SearchStocks resolves query against the provider and upserts every match.
// The literal symbol is tried first, then a fixed set of suffixed variants.
// When none of those resolve, a fallback set is probed instead.
func (s *stockService) SearchStocks(ctx context.Context, query string) ([]models.Stock, error) {
	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" {
		return nil, apperrors.ErrMissingQuery
	}

	var quotes []*marketdata.Quote

	q, err := s.gateway.Profile(ctx, query)
	switch {
	case err == nil:
		if q.ShortName != "" {
			quotes = append(quotes, q)
		}
	case errors.Is(err, marketdata.ErrSymbolNotFound):
	default:
		return nil, apperrors.Raw(apperrors.ErrMarketData, err)
	}

	for _, suffix := range relatedSuffixes {
		if q := s.probe(ctx, query+suffix); q != nil {
			quotes = append(quotes, q)
		}
	}

	stocks, err := s.upsertQuotes(quotes)
	if err != nil {
		return nil, err
	}
	if len(stocks) > 0 {
		return stocks, nil
	}

	quotes = quotes[:0]
	for _, suffix := range fallbackSuffixes {
		if q := s.probe(ctx, query+suffix); q != nil {
			quotes = append(quotes, q)
		}
	}
	return s.upsertQuotes(quotes)
}

// probe returns the quote for symbol when it resolves to a named instrument.
// Provider errors are logged and treated as no match.
func (s *stockService) probe(ctx context.Context, symbol string) *marketdata.Quote {
	q, err := s.gateway.Profile(ctx, symbol)
	if err != nil {
		if !errors.Is(err, marketdata.ErrSymbolNotFound) {
			logger.Get().Warnw("symbol probe failed", "symbol", symbol, "provider", s.gateway.Name(), "error", err)
		}
		return nil
	}
	if q.ShortName == "" {
		return nil
	}
	return q
}

func (s *stockService) upsertQuotes(quotes []*marketdata.Quote) ([]models.Stock, error) {
	stocks := make([]models.Stock, 0, len(quotes))
	for _, q := range quotes {
		stock, err := s.upsertQuote(q)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, *stock)
	}
	return stocks, nil
}

// upsertQuote creates or updates the stock keyed by q.Symbol.
func (s *stockService) upsertQuote(q *marketdata.Quote) (*models.Stock, error) {
	var stock models.Stock
	err := s.db.Where(models.Stock{Symbol: q.Symbol}).
		Assign(map[string]interface{}{
			"name":       q.DisplayName(q.Symbol),
			"last_price": quotePrice(q),
		}).
		FirstOrCreate(&stock).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stock, nil
}

// RefreshDetails saves the current quote onto the stock, then fetches the
// configured history window and replaces the stored rows in one transaction.
// A failed history fetch keeps the new quote and the old rows.
func (s *stockService) RefreshDetails(ctx context.Context, id uint) (*StockDetails, error) {
	var stock models.Stock
	if err := s.db.First(&stock, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStockNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	q, err := s.gateway.Profile(ctx, stock.Symbol)
	if err != nil {
		return nil, apperrors.Raw(apperrors.ErrMarketData, err)
	}

	updates := map[string]interface{}{"name": q.DisplayName(stock.Name)}
	if q.Price != nil {
		updates["last_price"] = quotePrice(q)
	}
	if err := s.db.Model(&stock).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	end := s.now()
	start := end.AddDate(0, 0, -s.historyDays)
	bars, err := s.gateway.History(ctx, stock.Symbol, start, end)
	if err != nil {
		return nil, apperrors.Raw(apperrors.ErrMarketData, err)
	}
	rows := historyRows(stock.ID, bars)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("stock_id = ?", stock.ID).Delete(&models.PriceHistory{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	refreshed, err := s.GetStockByID(stock.ID)
	if err != nil {
		return nil, err
	}
	return &StockDetails{Stock: refreshed, Extended: q.Extended}, nil
}

// PredictPrice fits a model on the stored history of the last 60 days and
// writes the estimate onto the stock.
func (s *stockService) PredictPrice(id uint) (*Prediction, error) {
	var stock models.Stock
	if err := s.db.First(&stock, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStockNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := s.now()
	cutoff := datatypes.Date(utcDay(now.AddDate(0, 0, -predictionWindowDays)))

	var history []models.PriceHistory
	if err := s.db.Where("stock_id = ? AND date >= ?", id, cutoff).Order("date ASC").Find(&history).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	obs := make([]forecast.Observation, len(history))
	for i, h := range history {
		obs[i] = forecast.Observation{
			Open:   h.OpenPrice.InexactFloat64(),
			High:   h.HighPrice.InexactFloat64(),
			Low:    h.LowPrice.InexactFloat64(),
			Close:  h.ClosePrice.InexactFloat64(),
			Volume: float64(h.Volume),
		}
	}

	res, err := s.predictor.Predict(obs)
	if err != nil {
		if errors.Is(err, forecast.ErrInsufficientData) {
			return nil, apperrors.ErrInsufficientData
		}
		return nil, apperrors.Raw(apperrors.ErrPrediction, err)
	}

	price := decimal.NewFromFloat(res.Price).Round(2)
	err = s.db.Model(&stock).Updates(map[string]interface{}{
		"predicted_price": decimal.NewNullDecimal(price),
		"prediction_date": now,
		"model_accuracy":  res.Accuracy,
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("price predicted",
		"symbol", stock.Symbol,
		"predicted_price", price.String(),
		"accuracy", res.Accuracy,
		"train_size", res.TrainSize,
		"test_size", res.TestSize,
	)

	return &Prediction{
		Symbol:         stock.Symbol,
		PredictedPrice: price,
		PredictionDate: now,
		Accuracy:       res.Accuracy,
	}, nil
}

// GetPriceHistory returns every stored history row for a stock, newest first.
func (s *stockService) GetPriceHistory(id uint) ([]models.PriceHistory, error) {
	var count int64
	if err := s.db.Model(&models.Stock{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrStockNotFound
	}

	history := []models.PriceHistory{}
	if err := s.db.Where("stock_id = ?", id).Order("date DESC").Find(&history).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return history, nil
}

// historyRows converts bars to rows, keeping the last bar for any repeated date.
func historyRows(stockID uint, bars []marketdata.Bar) []models.PriceHistory {
	index := make(map[time.Time]int, len(bars))
	rows := make([]models.PriceHistory, 0, len(bars))
	for _, b := range bars {
		day := utcDay(b.Date)
		row := models.PriceHistory{
			StockID:    stockID,
			Date:       datatypes.Date(day),
			OpenPrice:  b.Open,
			HighPrice:  b.High,
			LowPrice:   b.Low,
			ClosePrice: b.Close,
			Volume:     b.Volume,
		}
		if i, ok := index[day]; ok {
			rows[i] = row
			continue
		}
		index[day] = len(rows)
		rows = append(rows, row)
	}
	return rows
}

func quotePrice(q *marketdata.Quote) decimal.NullDecimal {
	if q.Price == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*q.Price).Round(2))
}

func roundNull(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(d.Decimal.Round(2))
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
