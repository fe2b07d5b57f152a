package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "stockstalk/internal/errors"
	"stockstalk/internal/models"
)

// watchlistService handles watchlist business logic.
type watchlistService struct {
	db *gorm.DB
}

// NewWatchlistService creates a new WatchlistServicer.
func NewWatchlistService(db *gorm.DB) WatchlistServicer {
	return &watchlistService{db: db}
}

func preloadStocks(db *gorm.DB) *gorm.DB {
	return db.Order("symbol ASC")
}

// CreateWatchlist creates a watchlist for userID. An empty name falls back to
// the default watchlist name.
func (s *watchlistService) CreateWatchlist(userID uint, name string) (*models.Watchlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = models.DefaultWatchlistName
	}

	watchlist := &models.Watchlist{UserID: userID, Name: name}
	if err := s.db.Create(watchlist).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperrors.ErrDuplicateWatchlist
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	watchlist.Stocks = []models.Stock{}
	return watchlist, nil
}

// GetUserWatchlists returns every watchlist owned by userID with its stocks.
func (s *watchlistService) GetUserWatchlists(userID uint) ([]models.Watchlist, error) {
	watchlists := []models.Watchlist{}
	err := s.db.Where("user_id = ?", userID).
		Preload("Stocks", preloadStocks).
		Order("id ASC").
		Find(&watchlists).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return watchlists, nil
}

// GetWatchlistByID returns a watchlist owned by userID with its stocks.
func (s *watchlistService) GetWatchlistByID(userID, watchlistID uint) (*models.Watchlist, error) {
	var watchlist models.Watchlist
	err := s.db.Where("id = ? AND user_id = ?", watchlistID, userID).
		Preload("Stocks", preloadStocks).
		First(&watchlist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWatchlistNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if watchlist.Stocks == nil {
		watchlist.Stocks = []models.Stock{}
	}
	return &watchlist, nil
}

// DeleteWatchlist removes a watchlist and its memberships. The stocks stay.
func (s *watchlistService) DeleteWatchlist(userID, watchlistID uint) error {
	watchlist, err := s.GetWatchlistByID(userID, watchlistID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(watchlist).Association("Stocks").Clear(); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&models.Watchlist{}, watchlist.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// AddStock adds stockID to the watchlist. Adding an existing member is a no-op.
func (s *watchlistService) AddStock(userID, watchlistID, stockID uint) (*models.Watchlist, error) {
	watchlist, stock, err := s.lookup(userID, watchlistID, stockID)
	if err != nil {
		return nil, err
	}

	var count int64
	err = s.db.Table("watchlist_stocks").
		Where("watchlist_id = ? AND stock_id = ?", watchlist.ID, stock.ID).
		Count(&count).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		if err := s.db.Model(watchlist).Association("Stocks").Append(stock); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetWatchlistByID(userID, watchlistID)
}

// RemoveStock removes stockID from the watchlist. Removing a stock that is
// not a member leaves the watchlist unchanged.
func (s *watchlistService) RemoveStock(userID, watchlistID, stockID uint) (*models.Watchlist, error) {
	watchlist, stock, err := s.lookup(userID, watchlistID, stockID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(watchlist).Association("Stocks").Delete(stock); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetWatchlistByID(userID, watchlistID)
}

// lookup loads the owned watchlist and the stock, in that order.
func (s *watchlistService) lookup(userID, watchlistID, stockID uint) (*models.Watchlist, *models.Stock, error) {
	var watchlist models.Watchlist
	if err := s.db.Where("id = ? AND user_id = ?", watchlistID, userID).First(&watchlist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrWatchlistNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var stock models.Stock
	if err := s.db.First(&stock, stockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrStockNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &watchlist, &stock, nil
}
