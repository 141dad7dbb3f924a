package domain

import "errors"

var (
	ErrDeviceNotFound       = errors.New("device not found")
	ErrDeviceNotConnected   = errors.New("device not connected")
	ErrConnectionClosed     = errors.New("connection closed")
	ErrSendBufferFull       = errors.New("send buffer full")
	ErrInvalidMessage       = errors.New("invalid message")
	ErrMissingBroadcastData = errors.New("missing broadcast data")
)
