package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrRecognitionFailed = errors.New("recognition failed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidImage      = errors.New("invalid image")
	ErrNoRecipient       = errors.New("no email address for report")
)

// notFound maps gorm's missing-record error onto ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
