package game

import "errors"

var (
	ErrIllegalMove      = errors.New("illegal move")
	ErrGameOver         = errors.New("game is over")
	ErrNotYourTurn      = errors.New("piece does not belong to the side to move")
	ErrInvalidPromotion = errors.New("invalid promotion piece")
	ErrInvalidTurn      = errors.New("side to move must be white or black")
)
