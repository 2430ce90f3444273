package game

// Phase is the current stage of the round life cycle.
type Phase int

const (
	PhaseLobby Phase = iota
	PhasePlay
	PhaseJudge
	PhaseResults
	PhasePaused
	PhaseFinished
)

// String returns the protocol string for a Phase.
func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhasePlay:
		return "play"
	case PhaseJudge:
		return "judge"
	case PhaseResults:
		return "results"
	case PhasePaused:
		return "paused"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}
