// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// tickerRegex accepts exchange-suffixed, crypto-pair and index symbols such
// as BRK.B, BTC-USD, ^GSPC and EURUSD=X.
var tickerRegex = regexp.MustCompile(`^[A-Za-z0-9.\-^=]{1,20}$`)

const maxWatchlistName = 100

// Register installs the custom tags on Gin's validator and makes field
// errors report JSON names.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		setup(v)
	}
}

func setup(v *validator.Validate) {
	_ = v.RegisterValidation("ticker", validateTicker)
	_ = v.RegisterValidation("watchlist_name", validateWatchlistName)
	v.RegisterTagNameFunc(jsonName)
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		name, _, _ = strings.Cut(f.Tag.Get("form"), ",")
	}
	return name
}

func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validateWatchlistName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	return name != "" && utf8.RuneCountInString(name) <= maxWatchlistName
}

// Describe renders a binding error as one line per failing field, joined by
// "; ". Errors that are not validation failures come back unchanged.
func Describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Field()+" "+reason(fe))
	}
	return strings.Join(msgs, "; ")
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "ticker":
		return "must be a ticker of 1-20 letters, digits or . - ^ ="
	case "watchlist_name":
		return fmt.Sprintf("must be non-blank and at most %d characters", maxWatchlistName)
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
