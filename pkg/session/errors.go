package session

import "errors"

var (
	ErrInvalidSessionID = errors.New("invalid session id")
	ErrLockTimeout      = errors.New("lock acquisition timeout")
	ErrWriterClosed     = errors.New("session writer closed")
)
