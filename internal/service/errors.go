package service

import "errors"

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameExists      = errors.New("game already exists")
	ErrAlreadyQueued   = errors.New("player already in queue")
	ErrInvalidSquare   = errors.New("invalid square")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrUnknownMessage  = errors.New("unknown message type")
	ErrArchiveDisabled = errors.New("archive is disabled")
)
