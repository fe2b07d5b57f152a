// Package errors defines AppError and the sentinels services return. The API
// layer maps them to a status code and a flat {"error": message} body.
package errors

import "net/http"

// AppError carries a stable code, the client-facing message and the HTTP
// status. Internal holds the cause for logs and is never rendered.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Internal }

// Is matches any AppError with the same code, so copies made by Wrap,
// WithMessage and Raw still satisfy errors.Is against their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func derive(sentinel *AppError, message string, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// Wrap keeps the sentinel's message and attaches internal as the cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return derive(sentinel, sentinel.Message, internal)
}

// WithMessage replaces the sentinel's message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return derive(sentinel, message, sentinel.Internal)
}

// Raw reports internal's own text to the client. Provider and model
// failures go out this way.
func Raw(sentinel *AppError, internal error) *AppError {
	return derive(sentinel, internal.Error(), internal)
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Stock errors.
var (
	ErrStockNotFound    = &AppError{Code: "STOCK_NOT_FOUND", Message: "Stock not found", StatusCode: http.StatusNotFound}
	ErrDuplicateStock   = &AppError{Code: "DUPLICATE_STOCK", Message: "A stock with this symbol already exists", StatusCode: http.StatusBadRequest}
	ErrMissingQuery     = &AppError{Code: "MISSING_QUERY", Message: "Query parameter 'q' is required", StatusCode: http.StatusBadRequest}
	ErrInsufficientData = &AppError{Code: "INSUFFICIENT_DATA", Message: "Insufficient data for prediction", StatusCode: http.StatusBadRequest}
	ErrMarketData       = &AppError{Code: "MARKET_DATA_ERROR", Message: "Market data provider error", StatusCode: http.StatusInternalServerError}
	ErrPrediction       = &AppError{Code: "PREDICTION_ERROR", Message: "Prediction failed", StatusCode: http.StatusInternalServerError}
)

// Watchlist errors.
var (
	ErrWatchlistNotFound  = &AppError{Code: "WATCHLIST_NOT_FOUND", Message: "Watchlist not found", StatusCode: http.StatusNotFound}
	ErrDuplicateWatchlist = &AppError{Code: "DUPLICATE_WATCHLIST", Message: "A watchlist with this name already exists", StatusCode: http.StatusBadRequest}
)
