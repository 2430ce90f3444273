package gameerrors

import "errors"

// Action rejection sentinels. Used by both game and ws packages so each
// layer can decide what to report without string matching.
var (
	ErrNotInPlayPhase    = errors.New("not in play phase")
	ErrNotInJudgePhase   = errors.New("not in judging phase")
	ErrJudgeCannotSubmit = errors.New("judge cannot submit")
	ErrNotJudge          = errors.New("only the judge can pick")
	ErrCardNotInHand     = errors.New("card not in hand")
	ErrAlreadySubmitted  = errors.New("already submitted")
	ErrInvalidWinner     = errors.New("invalid winner pick")
	ErrAdminOnly         = errors.New("admin only")
	ErrGameRunning       = errors.New("game already running")
	ErrPaused            = errors.New("cannot do that while paused")
	ErrReservedID        = errors.New("invalid player id")
)
