package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicate reports a unique-index violation. Connections opened with
// TranslateError yield gorm.ErrDuplicatedKey; the message match covers the
// rest.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}
