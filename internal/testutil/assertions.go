package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "stockstalk/internal/errors"
)

// AssertAppError fails unless err unwraps to an *AppError carrying code.
func AssertAppError(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("want AppError %s, got %T: %v", code, err, err)
	}
	if appErr.Code != code {
		t.Errorf("want code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}

// AssertNoError stops the test on a non-nil err.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertPrice compares a stored price against its canonical two-place form.
func AssertPrice(t *testing.T, got decimal.NullDecimal, want string) {
	t.Helper()
	if !got.Valid {
		t.Errorf("want price %s, got null", want)
		return
	}
	if s := got.Decimal.StringFixed(2); s != want {
		t.Errorf("want price %s, got %s", want, s)
	}
}
