package game

import (
	"xyzzy-server/gameerrors"
	"xyzzy-server/packs"
)

// Submission is one response card played into the current round.
type Submission struct {
	Card    packs.ResponseCard
	WasAuto bool
}

// Submissions tracks the current round's played cards, one per non-judge
// player. The judge-exclusion and one-submission rules are enforced here;
// phase and card-ownership rules are the session's job since they need
// round and hand state.
type Submissions struct {
	byPlayer map[string]Submission
	order    []string
}

// NewSubmissions creates an empty tracker.
func NewSubmissions() *Submissions {
	return &Submissions{byPlayer: make(map[string]Submission)}
}

// Add records a submission for playerID. It rejects the round's judge and
// duplicate submissions. The auto path passes the same way; its callers
// have already verified neither rule can fire.
func (s *Submissions) Add(playerID, judgeID string, sub Submission) error {
	if playerID == judgeID {
		return gameerrors.ErrJudgeCannotSubmit
	}
	if _, ok := s.byPlayer[playerID]; ok {
		return gameerrors.ErrAlreadySubmitted
	}
	s.byPlayer[playerID] = sub
	s.order = append(s.order, playerID)
	return nil
}

// Has reports whether playerID has a recorded submission.
func (s *Submissions) Has(playerID string) bool {
	_, ok := s.byPlayer[playerID]
	return ok
}

// Get returns the submission for playerID.
func (s *Submissions) Get(playerID string) (Submission, bool) {
	sub, ok := s.byPlayer[playerID]
	return sub, ok
}

// Len reports the number of recorded submissions.
func (s *Submissions) Len() int { return len(s.byPlayer) }

// PlayerIDs returns submitting player ids in submission order.
func (s *Submissions) PlayerIDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Clear empties the tracker and returns the cards that were held, so the
// caller can discard them back to the response deck.
func (s *Submissions) Clear() []packs.ResponseCard {
	cards := make([]packs.ResponseCard, 0, len(s.order))
	for _, id := range s.order {
		cards = append(cards, s.byPlayer[id].Card)
	}
	s.byPlayer = make(map[string]Submission)
	s.order = nil
	return cards
}
