package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateKeyErr reports whether err is a unique-constraint
// violation. TranslateError covers most cases via gorm.ErrDuplicatedKey;
// the string checks catch drivers that surface the raw database error.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	switch {
	case strings.Contains(err.Error(), "duplicate key value violates unique constraint"): // postgres 23505
		return true
	case strings.Contains(err.Error(), "Error 1062"): // mysql
		return true
	case strings.Contains(err.Error(), "UNIQUE constraint failed"): // sqlite
		return true
	}

	return false
}
