package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"stockstalk/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestStock creates a stock with a unique symbol and a last price of 100.00.
func CreateTestStock(t *testing.T, db *gorm.DB) *models.Stock {
	t.Helper()
	return CreateTestStockWithSymbol(t, db, fmt.Sprintf("TST%d", nextID()))
}

// CreateTestStockWithSymbol creates a stock with the given symbol.
func CreateTestStockWithSymbol(t *testing.T, db *gorm.DB, symbol string) *models.Stock {
	t.Helper()

	stock := &models.Stock{
		Symbol:    symbol,
		Name:      symbol + " Corp",
		LastPrice: decimal.NewNullDecimal(decimal.NewFromInt(100)),
	}
	if err := db.Create(stock).Error; err != nil {
		t.Fatalf("failed to create test stock: %v", err)
	}
	return stock
}

// CreateTestHistory inserts days consecutive daily bars for stockID ending
// on endDay (inclusive). Prices rise by one per day starting at 100.
func CreateTestHistory(t *testing.T, db *gorm.DB, stockID uint, endDay time.Time, days int) []models.PriceHistory {
	t.Helper()

	y, m, d := endDay.UTC().Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	rows := make([]models.PriceHistory, 0, days)
	for i := 0; i < days; i++ {
		day := end.AddDate(0, 0, i-days+1)
		base := decimal.NewFromInt(int64(100 + i))
		rows = append(rows, models.PriceHistory{
			StockID:    stockID,
			Date:       datatypes.Date(day),
			OpenPrice:  base.Sub(decimal.RequireFromString("0.50")),
			HighPrice:  base.Add(decimal.NewFromInt(1)),
			LowPrice:   base.Sub(decimal.NewFromInt(1)),
			ClosePrice: base,
			Volume:     int64(1_000_000 + i*1_000),
		})
	}
	if len(rows) > 0 {
		if err := db.Create(&rows).Error; err != nil {
			t.Fatalf("failed to create test history: %v", err)
		}
	}
	return rows
}

// CreateTestWatchlist creates a watchlist for userID with a unique name.
func CreateTestWatchlist(t *testing.T, db *gorm.DB, userID uint) *models.Watchlist {
	t.Helper()

	watchlist := &models.Watchlist{
		UserID: userID,
		Name:   fmt.Sprintf("Watchlist %d", nextID()),
	}
	if err := db.Create(watchlist).Error; err != nil {
		t.Fatalf("failed to create test watchlist: %v", err)
	}
	return watchlist
}
