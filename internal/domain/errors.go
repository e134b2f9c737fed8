package domain

import "errors"

var (
	ErrWebhookNotConfigured = errors.New("no tutor webhook configured")
	ErrRequestInFlight      = errors.New("request already in flight")
	ErrUploadInProgress     = errors.New("upload already in progress")
	ErrEmptyMessage         = errors.New("empty message")
	ErrUserNotFound         = errors.New("user not found")
)
