package game

import (
	"errors"
	"fmt"
	"time"

	"xyzzy-server/gameerrors"
)

// startNewRound advances to the next round: new round number, rotated
// judge, fresh prompt, topped-up hands, play deadline. Aborts back to the
// lobby when fewer than two players exist or the prompt pool is empty.
// Reachable from results expiry, admin start, and admin force-next-round.
func (s *Session) startNewRound() {
	if s.players.Len() < 2 {
		s.addChat(systemEntry(s.now(), "Need at least 2 players to start rounds."))
		s.setPhase(PhaseLobby, 0)
		s.broadcastState()
		return
	}

	s.roundNum++
	for _, card := range s.submissions.Clear() {
		s.responses.Discard(card)
	}
	s.winnerID = ""

	s.judgeID = s.players.NextJudge(s.judgeID)
	s.ensureHands()

	if s.currentPrompt != nil {
		s.prompts.Discard(*s.currentPrompt)
		s.currentPrompt = nil
	}
	card, ok := s.prompts.Draw()
	if !ok {
		s.addChat(systemEntry(s.now(), "No prompt cards available. Check enabled packs."))
		s.setPhase(PhaseLobby, 0)
		s.broadcastState()
		return
	}
	s.currentPrompt = &card

	judgeName := "?"
	if j := s.players.Get(s.judgeID); j != nil {
		judgeName = j.Name
	}
	s.addChat(systemEntry(s.now(), fmt.Sprintf("Round %d started. Judge: %s", s.roundNum, judgeName)))

	s.setPhase(PhasePlay, s.playDuration())
	s.broadcastState()
	s.broadcastHands()
	s.broadcast(PromptCardMsg{Type: "prompt_card", Card: *promptView(s.currentPrompt)})

	s.scheduleBotAction(s.cfg.BotSubmitDelayMS, ActionBotSubmit)
}

// submitCard plays one card from p's hand into the round. The auto path
// (timeout fill-in, bots) uses the same hand-removal and record step but
// marks the submission; its callers have already verified phase, role,
// and hand state.
func (s *Session) submitCard(p *Player, text string, auto bool) error {
	if s.phase != PhasePlay {
		return gameerrors.ErrNotInPlayPhase
	}
	idx := -1
	for i, c := range p.Hand {
		if c.Text == text {
			idx = i
			break
		}
	}
	if idx < 0 {
		return gameerrors.ErrCardNotInHand
	}
	card := p.Hand[idx]
	if err := s.submissions.Add(p.ID, s.judgeID, Submission{Card: card, WasAuto: auto}); err != nil {
		return err
	}
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	return nil
}

func (s *Session) handleSubmitCard(a Action) {
	p := s.players.Get(a.Ctx.PlayerID)
	if p == nil || a.Text == "" {
		return
	}
	if err := s.submitCard(p, a.Text, false); err != nil {
		s.sendError(a.Send, rejectionMessage(err))
		return
	}

	s.addChat(systemEntry(s.now(), fmt.Sprintf("%s submitted.", p.Name)))
	s.ensureHands()
	s.broadcastHands()
	s.broadcastState()

	// Bots keep pace with human submissions.
	s.scheduleBotAction(s.cfg.BotFollowDelayMS, ActionBotSubmit)

	s.checkAllSubmitted()
}

// checkAllSubmitted advances to judging the moment every non-judge player
// has a recorded submission. Safe to call redundantly; the phase guard in
// finishPlayToJudging makes the transition idempotent.
func (s *Session) checkAllSubmitted() {
	if s.phase != PhasePlay {
		return
	}
	needed := s.players.Len() - 1
	if needed > 0 && s.submissions.Len() >= needed {
		s.addChat(systemEntry(s.now(), "All submissions in. Moving to judging."))
		s.finishPlayToJudging()
	}
}

// finishPlayToJudging ends the play phase: auto-submits a random hand
// card for every non-judge player still missing, then either reveals the
// submissions in randomized order and opens judging, or skips straight to
// results when nobody submitted. Only the first trigger to observe
// phase == play performs the transition.
func (s *Session) finishPlayToJudging() {
	if s.phase != PhasePlay {
		return
	}

	for _, p := range s.players.All() {
		if p.ID == s.judgeID || len(p.Hand) == 0 || s.submissions.Has(p.ID) {
			continue
		}
		idx := s.rng.Intn(len(p.Hand))
		card := p.Hand[idx]
		if err := s.submissions.Add(p.ID, s.judgeID, Submission{Card: card, WasAuto: true}); err != nil {
			continue
		}
		p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
		s.addChat(systemEntry(s.now(), fmt.Sprintf("%s auto-submitted.", p.Name)))
	}
	s.ensureHands()

	if s.submissions.Len() == 0 {
		s.addChat(systemEntry(s.now(), "No submissions. Skipping round."))
		s.winnerID = ""
		s.setPhase(PhaseResults, s.resultsDuration())
		s.recordRound(nil, true)
		s.broadcastState()
		s.broadcastHands()
		s.broadcast(SubmissionsRevealMsg{Type: "submissions_reveal", List: []SubmissionView{}})
		return
	}

	s.setPhase(PhaseJudge, s.judgeDuration())
	s.broadcastState()
	s.broadcastHands()

	// Reveal order is freshly randomized so the judge cannot map entries
	// back to submission order.
	list := s.submissionViews()
	s.rng.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
	s.broadcast(SubmissionsRevealMsg{Type: "submissions_reveal", List: list})

	s.scheduleBotAction(s.cfg.BotJudgeDelayMS, ActionBotJudge)
}

func (s *Session) submissionViews() []SubmissionView {
	ids := s.submissions.PlayerIDs()
	list := make([]SubmissionView, 0, len(ids))
	for _, id := range ids {
		sub, _ := s.submissions.Get(id)
		list = append(list, SubmissionView{ID: id, Text: sub.Card.Text})
	}
	return list
}

func (s *Session) handleJudgePick(a Action) {
	p := s.players.Get(a.Ctx.PlayerID)
	if p == nil || a.WinnerID == "" {
		return
	}
	if s.phase != PhaseJudge {
		s.sendError(a.Send, rejectionMessage(gameerrors.ErrNotInJudgePhase))
		return
	}
	if p.ID != s.judgeID {
		s.sendError(a.Send, rejectionMessage(gameerrors.ErrNotJudge))
		return
	}
	if !s.resolveWinner(a.WinnerID, false) {
		s.sendError(a.Send, rejectionMessage(gameerrors.ErrInvalidWinner))
	}
}

// resolveWinner is the single resolution point for a round: judge picks,
// bot judges, and timeout auto-picks all land here. It increments the
// winner's score, checks the score limit, and moves to results or
// finished. Calling it again after the round resolved is a no-op because
// the phase is no longer judge.
func (s *Session) resolveWinner(winnerID string, auto bool) bool {
	if s.phase != PhaseJudge {
		return false
	}
	if !s.submissions.Has(winnerID) {
		return false
	}

	winner := s.players.Get(winnerID)
	s.winnerID = winnerID
	winnerName := "Someone"
	if winner != nil {
		winner.Score++
		winnerName = winner.Name
	}
	s.addChat(systemEntry(s.now(), fmt.Sprintf("%s won the round.", winnerName)))
	s.recordRound(winner, auto)

	result := RoundResultMsg{
		Type:        "round_result",
		WinnerID:    winnerID,
		WinnerName:  winnerName,
		Submissions: s.submissionViews(),
		Prompt:      promptText(s.currentPrompt),
	}

	limit := s.settings.ScoreLimit
	if limit > 0 && winner != nil && winner.Score >= limit {
		s.addChat(systemEntry(s.now(), fmt.Sprintf("%s reached %d points and wins the game!", winner.Name, limit)))
		s.setPhase(PhaseFinished, 0)
		s.recordGame(winner)
		s.broadcastState()
		s.broadcastHands()
		s.broadcast(result)
		return true
	}

	s.setPhase(PhaseResults, s.resultsDuration())
	s.broadcastState()
	s.broadcastHands()
	s.broadcast(result)
	return true
}

// handlePhaseTimeout resolves a phase deadline. The action carries the
// phase and round it was armed for; anything else is a stale timer and is
// dropped.
func (s *Session) handlePhaseTimeout(a Action) {
	if a.Phase != s.phase || a.Round != s.roundNum {
		return
	}

	switch s.phase {
	case PhasePlay:
		s.finishPlayToJudging()

	case PhaseJudge:
		if j := s.players.Get(s.judgeID); j != nil && j.IsBot {
			s.botJudgePickIfNeeded()
			return
		}
		ids := s.submissions.PlayerIDs()
		if len(ids) > 0 {
			s.addChat(systemEntry(s.now(), "Judge timed out. Auto-picking winner."))
			s.resolveWinner(ids[s.rng.Intn(len(ids))], true)
			return
		}
		s.winnerID = ""
		s.setPhase(PhaseResults, s.resultsDuration())
		s.broadcastState()

	case PhaseResults:
		s.startNewRound()
	}
}

// scheduleBotAction queues a bot automation action after a simulated
// thinking delay, if bots are enabled.
func (s *Session) scheduleBotAction(delayMS int, t ActionType) {
	if !s.bots.Enabled || s.bots.Count == 0 {
		return
	}
	d := time.Duration(delayMS) * time.Millisecond
	if d <= 0 {
		d = time.Millisecond
	}
	s.sched.ScheduleDelay(d, Action{Type: t, Round: s.roundNum})
}

// rejectionMessage maps a rejection sentinel to the human-readable notice
// sent back to the offending client.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, gameerrors.ErrNotInPlayPhase):
		return "Not in play phase."
	case errors.Is(err, gameerrors.ErrNotInJudgePhase):
		return "Not in judging phase."
	case errors.Is(err, gameerrors.ErrJudgeCannotSubmit):
		return "Judge cannot submit."
	case errors.Is(err, gameerrors.ErrNotJudge):
		return "Only judge can pick."
	case errors.Is(err, gameerrors.ErrCardNotInHand):
		return "Card not in hand."
	case errors.Is(err, gameerrors.ErrAlreadySubmitted):
		return "Already submitted."
	case errors.Is(err, gameerrors.ErrInvalidWinner):
		return "Invalid winner pick."
	case errors.Is(err, gameerrors.ErrAdminOnly):
		return "Admin only."
	case errors.Is(err, gameerrors.ErrGameRunning):
		return "Game already running."
	case errors.Is(err, gameerrors.ErrPaused):
		return "Cannot do that while paused."
	case errors.Is(err, gameerrors.ErrReservedID):
		return "Invalid playerId."
	default:
		return err.Error()
	}
}
