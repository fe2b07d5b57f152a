package models

// DefaultWatchlistName is used when a watchlist is created without a name.
const DefaultWatchlistName = "Default Watchlist"

// Watchlist is a named set of stocks owned by one user.
type Watchlist struct {
	Base
	UserID uint    `gorm:"not null;uniqueIndex:uq_watchlists_user_name" json:"user_id"`
	Name   string  `gorm:"size:100;not null;uniqueIndex:uq_watchlists_user_name" json:"name"`
	Stocks []Stock `gorm:"many2many:watchlist_stocks;" json:"stocks"`
}
