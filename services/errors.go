package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ValidationError reports input the caller can fix. Transports surface Message as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports an unknown id.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with Id %d not found.", e.Resource, e.ID)
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// notFoundOr converts gorm.ErrRecordNotFound into a NotFoundError and wraps anything else.
func notFoundOr(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return fmt.Errorf("loading %s %d: %w", resource, id, err)
}

// logFailure logs caller mistakes at warn and everything else at error.
func logFailure(logger *zap.Logger, subject, op string, id uint, err error) {
	if IsValidation(err) || IsNotFound(err) {
		logger.Warn(subject+" request rejected", zap.String("op", op), zap.Uint("id", id), zap.String("reason", err.Error()))
		return
	}
	logger.Error(subject+" operation failed", zap.String("op", op), zap.Uint("id", id), zap.Error(err))
}
