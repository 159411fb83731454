package domain

import "errors"

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrStorageClosed = errors.New("storage record is closed")
var ErrStorageNotFound = errors.New("storage record not found")
var ErrRequestNotFound = errors.New("request not found")
var ErrStorageAlreadyLinked = errors.New("request already has a linked storage")
var ErrProductNotFound = errors.New("product not found")
var ErrForbidden = errors.New("access forbidden")
var ErrValidation = errors.New("validation failed")

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrSessionNotFound = errors.New("session not found")
var ErrInvalidToken = errors.New("invalid token")
