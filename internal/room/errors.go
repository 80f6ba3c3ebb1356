package room

import "errors"

var (
	ErrRoomFull            = errors.New("room is full")
	ErrClientAlreadyInRoom = errors.New("client is already in room")
	ErrClientNotInRoom     = errors.New("client is not in room")
	ErrNotEnoughPlayers    = errors.New("not enough players")
	ErrNotYourTurn         = errors.New("it is not your turn")
	ErrGameNotOver         = errors.New("game is not over")
	ErrEmptyPlayerID       = errors.New("player id is empty")
)
