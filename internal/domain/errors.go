package domain

import "errors"

var (
	// ErrNotFound is returned by a KVStore for a missing key
	ErrNotFound = errors.New("key not found")

	// ErrNoActiveRoom is returned when a message is sent without room context
	ErrNoActiveRoom = errors.New("no active room")

	ErrRoomNotFound     = errors.New("room not found")
	ErrEmptyMessage     = errors.New("message has neither text nor image")
	ErrEmptyTitle       = errors.New("room title is required")
	ErrOTPNotRequested  = errors.New("no otp has been requested")
	ErrInvalidOTP       = errors.New("invalid otp")
	ErrNotAuthenticated = errors.New("not authenticated")
)
