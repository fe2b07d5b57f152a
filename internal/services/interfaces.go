package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stockstalk/internal/marketdata"
	"stockstalk/internal/models"
	"stockstalk/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// StockInput carries the writable stock fields for create and update.
type StockInput struct {
	Symbol    string
	Name      string
	LastPrice decimal.NullDecimal
}

// StockDetails is a refreshed stock together with the descriptive quote
// fields that are returned but not stored.
type StockDetails struct {
	Stock    *models.Stock
	Extended marketdata.Extended
}

// Prediction is the persisted outcome of a price prediction.
type Prediction struct {
	Symbol         string
	PredictedPrice decimal.Decimal
	PredictionDate time.Time
	Accuracy       float64
}

// StockServicer defines the contract for stock-related business logic.
type StockServicer interface {
	ListStocks(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error)
	GetStockByID(id uint) (*models.Stock, error)
	CreateStock(input StockInput) (*models.Stock, error)
	UpdateStock(id uint, input StockInput) (*models.Stock, error)
	DeleteStock(id uint) error
	SearchStocks(ctx context.Context, query string) ([]models.Stock, error)
	RefreshDetails(ctx context.Context, id uint) (*StockDetails, error)
	PredictPrice(id uint) (*Prediction, error)
	GetPriceHistory(id uint) ([]models.PriceHistory, error)
}

// WatchlistServicer defines the contract for watchlist business logic. Every
// operation is scoped to the owning user.
type WatchlistServicer interface {
	CreateWatchlist(userID uint, name string) (*models.Watchlist, error)
	GetUserWatchlists(userID uint) ([]models.Watchlist, error)
	GetWatchlistByID(userID, watchlistID uint) (*models.Watchlist, error)
	DeleteWatchlist(userID, watchlistID uint) error
	AddStock(userID, watchlistID, stockID uint) (*models.Watchlist, error)
	RemoveStock(userID, watchlistID, stockID uint) (*models.Watchlist, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
