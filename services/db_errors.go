package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"reviewbase-api/models"
	"reviewbase-api/permissions"
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isUniqueViolation recognizes unique-constraint failures across drivers.
// gorm translates them to ErrDuplicatedKey where the driver supports it; the
// string checks cover postgres and sqlite messages that slip through.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// denied converts a policy refusal into the right error kind: anonymous
// actors get 401, known actors lacking rights get 403.
func denied(actor permissions.Actor, message string) error {
	if !actor.Authenticated {
		return models.ErrorUnauthorized{Message: "authentication required"}
	}
	return models.ErrorForbidden{Message: message}
}
