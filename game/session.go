package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"xyzzy-server/config"
	"xyzzy-server/deck"
	"xyzzy-server/gameerrors"
	"xyzzy-server/packs"
	"xyzzy-server/storage"
	"xyzzy-server/wsutil"
)

// Transport is the outbound side of the message bus. Broadcast fans a
// message out to every connection; DisconnectPlayer drops the connection
// bound to a kicked player. Per-player unicast goes through Player.Send.
type Transport interface {
	Broadcast(data []byte)
	DisconnectPlayer(playerID string)
}

// Session is the single shared game. It owns all round state (registry,
// decks, submissions, bots, chat, timers) and mutates it exclusively
// from the Run loop, which consumes Actions one at a time. Timer expiry
// and bot delays re-enter the loop as internal actions, so two
// near-simultaneous triggers can never act on the same pre-transition
// state.
type Session struct {
	// ID changes on every reset; history records group by it.
	ID string

	cfg      *config.Config
	settings config.Settings

	loadPacks func() []packs.Pack
	allPacks  []packs.Pack

	players     *Registry
	prompts     *deck.Deck[packs.PromptCard]
	responses   *deck.Deck[packs.ResponseCard]
	submissions *Submissions
	bots        BotsView
	chat        *ChatLog

	phase            Phase
	phaseBeforePause Phase
	roundNum         int
	judgeID          string
	currentPrompt    *packs.PromptCard
	winnerID         string
	phaseEndsAt      time.Time

	sched *Scheduler
	rng   *rand.Rand
	now   func() time.Time

	transport Transport
	store     storage.HistoryStore

	Actions chan Action
	Done    chan struct{}
	quit    chan struct{}
}

// NewSession creates a session in the lobby phase. rng may be nil for a
// time-seeded source; tests pass a seeded one for deterministic shuffles
// and picks. loadPacks is called on every deck rebuild.
func NewSession(cfg *config.Config, settings config.Settings, loadPacks func() []packs.Pack, store storage.HistoryStore) *Session {
	if loadPacks == nil {
		loadPacks = func() []packs.Pack { return nil }
	}
	s := &Session{
		ID:          uuid.NewString(),
		cfg:         cfg,
		settings:    settings,
		loadPacks:   loadPacks,
		players:     NewRegistry(),
		submissions: NewSubmissions(),
		chat:        NewChatLog(),
		phase:       PhaseLobby,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
		store:       store,
		Actions:     make(chan Action, 64),
		Done:        make(chan struct{}),
		quit:        make(chan struct{}),
	}
	s.prompts = deck.New[packs.PromptCard](s.rng)
	s.responses = deck.New[packs.ResponseCard](s.rng)
	s.sched = newScheduler(s.Actions, s.Done)
	s.rebuildDecks()
	return s
}

// SetTransport attaches the outbound message bus. Must be called before Run.
func (s *Session) SetTransport(t Transport) { s.transport = t }

// SetRand replaces the random source. Must be called before Run.
func (s *Session) SetRand(rng *rand.Rand) {
	s.rng = rng
	s.prompts = deck.New[packs.PromptCard](rng)
	s.responses = deck.New[packs.ResponseCard](rng)
	s.rebuildDecks()
}

// Run is the session's main loop. It processes actions sequentially and
// should be run as a goroutine.
func (s *Session) Run() {
	for {
		select {
		case a := <-s.Actions:
			s.handle(a)
		case <-s.quit:
			s.sched.CancelAll()
			close(s.Done)
			return
		}
	}
}

// Close stops the session loop and its timers.
func (s *Session) Close() {
	close(s.quit)
}

// Dispatch queues an action for the session loop, dropping it if the
// session has shut down.
func (s *Session) Dispatch(a Action) {
	select {
	case s.Actions <- a:
	case <-s.Done:
	}
}

func (s *Session) handle(a Action) {
	switch a.Type {
	case ActionHello:
		s.handleHello(a)
	case ActionRegister:
		s.handleRegister(a)
	case ActionChat:
		s.handleChat(a)
	case ActionSubmitCard:
		s.handleSubmitCard(a)
	case ActionJudgePick:
		s.handleJudgePick(a)
	case ActionRequestState:
		s.handleRequestState(a)
	case ActionClientGone:
		s.handleClientGone(a)
	case ActionSetSettings:
		s.handleSetSettings(a)
	case ActionSetBots:
		s.handleSetBots(a)
	case ActionStartGame:
		s.handleStartGame(a)
	case ActionNextRound:
		s.handleNextRound(a)
	case ActionPauseToggle:
		s.handlePauseToggle(a)
	case ActionResetGame:
		s.handleResetGame(a)
	case ActionClearChat:
		s.handleClearChat(a)
	case ActionKick:
		s.handleKick(a)
	case ActionPhaseTimeout:
		s.handlePhaseTimeout(a)
	case ActionTick:
		s.broadcastPhaseTimer()
	case ActionBotSubmit:
		s.botSubmitIfNeeded()
	case ActionBotJudge:
		s.botJudgePickIfNeeded()
	}
}

// --- connection lifecycle ---

func (s *Session) handleHello(a Action) {
	s.unicast(a.Send, ServerHelloMsg{
		Type:     "server_hello",
		Phase:    s.phase.String(),
		RoundNum: s.roundNum,
		Settings: s.settings,
		Bots:     s.bots,
	})
	s.unicast(a.Send, PacksListMsg{Type: "packs_list", Packs: buildPackViews(s.allPacks)})
	s.unicast(a.Send, ChatHistoryMsg{Type: "chat_history", Log: s.chat.All()})
	s.unicast(a.Send, s.stateMsg())
	s.unicast(a.Send, s.phaseTimerMsg())
}

func (s *Session) handleRegister(a Action) {
	if IsBotID(a.Ctx.PlayerID) {
		s.sendError(a.Send, rejectionMessage(gameerrors.ErrReservedID))
		return
	}

	p := s.players.Get(a.Ctx.PlayerID)
	if p == nil {
		p = &Player{
			ID:        a.Ctx.PlayerID,
			Name:      a.Name,
			Connected: true,
			IsAdmin:   a.Ctx.IsAdmin,
			Send:      a.Send,
		}
		s.players.Add(p)
		s.addChat(systemEntry(s.now(), fmt.Sprintf("%s joined.", p.Name)))
	} else {
		oldName := p.Name
		if a.Name != "" {
			p.Name = a.Name
		}
		p.Connected = true
		p.Send = a.Send
		if a.Ctx.IsAdmin {
			p.IsAdmin = true
		}
		if oldName != p.Name {
			s.addChat(systemEntry(s.now(), fmt.Sprintf("%s is now %s.", oldName, p.Name)))
		} else {
			s.addChat(systemEntry(s.now(), fmt.Sprintf("%s rejoined.", p.Name)))
		}
	}

	s.unicast(a.Send, AdminStatusMsg{Type: "admin_status", IsAdmin: p.IsAdmin})
	s.unicast(a.Send, SettingsMsg{Type: "settings", Settings: s.settings, Bots: s.bots})

	s.ensureHands()
	s.broadcastHands()
	s.broadcastState()
}

func (s *Session) handleClientGone(a Action) {
	p := s.players.Get(a.Ctx.PlayerID)
	if p == nil || p.Send != a.Send {
		// A newer connection already took over this seat.
		return
	}
	p.Connected = false
	p.Send = nil
	s.addChat(systemEntry(s.now(), fmt.Sprintf("%s left.", p.Name)))
	s.broadcastState()
}

func (s *Session) handleChat(a Action) {
	p := s.players.Get(a.Ctx.PlayerID)
	if p == nil || a.Text == "" {
		return
	}
	s.addChat(playerEntry(s.now(), p.Name, a.Text))
}

func (s *Session) handleRequestState(a Action) {
	s.broadcastState()
	s.unicast(a.Send, SettingsMsg{Type: "settings", Settings: s.settings, Bots: s.bots})
	s.unicast(a.Send, s.phaseTimerMsg())
	if p := s.players.Get(a.Ctx.PlayerID); p != nil {
		s.unicast(a.Send, HandMsg{Type: "hand", Hand: handTexts(p)})
	}
}

// --- admin actions ---

// requireAdmin reports whether the acting player holds admin rights,
// unicasting a rejection otherwise. The sticky flag on the Player record
// is authoritative; the connection context only promoted it at register.
func (s *Session) requireAdmin(a Action) bool {
	p := s.players.Get(a.Ctx.PlayerID)
	if p == nil || !p.IsAdmin {
		s.sendError(a.Send, rejectionMessage(gameerrors.ErrAdminOnly))
		return false
	}
	return true
}

func (s *Session) handleSetSettings(a Action) {
	if !s.requireAdmin(a) || a.Settings == nil {
		return
	}
	s.settings = a.Settings.Clamp(s.settings)

	// In-memory settings are authoritative; persistence is fire-and-forget.
	snapshot := s.settings
	path := s.cfg.SettingsPath
	go config.SaveSettings(path, snapshot)

	s.rebuildDecks()
	s.ensureHands()
	s.broadcastHands()

	s.addChat(systemEntry(s.now(), "Admin updated settings."))
	s.broadcast(SettingsMsg{Type: "settings", Settings: s.settings, Bots: s.bots})
	s.broadcastState()
}

func (s *Session) handleSetBots(a Action) {
	if !s.requireAdmin(a) {
		return
	}
	s.setBots(a.BotsEnabled, a.BotCount)

	state := "disabled"
	if s.bots.Enabled {
		state = "enabled"
	}
	s.addChat(systemEntry(s.now(), fmt.Sprintf("Bots %s (%d).", state, s.bots.Count)))
	s.broadcast(SettingsMsg{Type: "settings", Settings: s.settings, Bots: s.bots})
	s.broadcastState()
}

func (s *Session) handleStartGame(a Action) {
	if !s.requireAdmin(a) {
		return
	}
	if s.phase != PhaseLobby && s.phase != PhaseFinished {
		s.sendError(a.Send, rejectionMessage(gameerrors.ErrGameRunning))
		return
	}

	s.rebuildDecksAndHands()
	s.addChat(systemEntry(s.now(), "Game started by admin."))
	s.startNewRound()
}

func (s *Session) handleNextRound(a Action) {
	if !s.requireAdmin(a) {
		return
	}
	if s.phase == PhasePaused {
		s.sendError(a.Send, rejectionMessage(gameerrors.ErrPaused))
		return
	}
	s.addChat(systemEntry(s.now(), "Admin forced next round."))
	s.startNewRound()
}

func (s *Session) handlePauseToggle(a Action) {
	if !s.requireAdmin(a) {
		return
	}

	if s.phase == PhasePaused {
		// Resume with a fresh full duration; time elapsed before the
		// pause is not preserved.
		back := s.phaseBeforePause
		switch back {
		case PhasePlay:
			s.setPhase(PhasePlay, s.playDuration())
		case PhaseJudge:
			s.setPhase(PhaseJudge, s.judgeDuration())
		case PhaseResults:
			s.setPhase(PhaseResults, s.resultsDuration())
		default:
			s.setPhase(back, 0)
		}
		s.addChat(systemEntry(s.now(), "Game resumed by admin."))
		s.broadcastState()
		return
	}

	if s.phase != PhasePlay && s.phase != PhaseJudge && s.phase != PhaseResults {
		s.sendError(a.Send, "Nothing to pause.")
		return
	}

	s.phaseBeforePause = s.phase
	s.setPhase(PhasePaused, 0)
	s.addChat(systemEntry(s.now(), "Game paused by admin."))
	s.broadcastState()
}

func (s *Session) handleResetGame(a Action) {
	if !s.requireAdmin(a) {
		return
	}

	s.setPhase(PhaseLobby, 0)
	s.phaseBeforePause = PhaseLobby
	s.roundNum = 0
	s.judgeID = ""
	s.currentPrompt = nil
	s.submissions = NewSubmissions()
	s.winnerID = ""
	s.ID = uuid.NewString()

	for _, p := range s.players.All() {
		p.Score = 0
		p.Hand = nil
	}

	s.rebuildDecks()
	s.ensureHands()
	s.broadcastHands()

	s.addChat(systemEntry(s.now(), "Game reset by admin."))
	s.broadcastState()
}

func (s *Session) handleClearChat(a Action) {
	if !s.requireAdmin(a) {
		return
	}
	s.chat.Clear()
	s.broadcast(ChatHistoryMsg{Type: "chat_history", Log: []ChatEntry{}})
	s.addChat(systemEntry(s.now(), "Chat cleared by admin."))
}

func (s *Session) handleKick(a Action) {
	if !s.requireAdmin(a) || a.TargetID == "" {
		return
	}
	p := s.players.Get(a.TargetID)
	if p == nil {
		return
	}

	if p.IsBot {
		s.removePlayer(a.TargetID)
		s.addChat(systemEntry(s.now(), fmt.Sprintf("%s was removed (bot).", p.Name)))
		s.broadcastState()
		return
	}

	s.unicast(p.Send, KickedMsg{Type: "kicked", Message: "You were kicked by admin."})
	s.removePlayer(a.TargetID)
	if s.transport != nil {
		s.transport.DisconnectPlayer(a.TargetID)
	}
	s.addChat(systemEntry(s.now(), fmt.Sprintf("%s was kicked by admin.", p.Name)))
	s.broadcastState()
}

// removePlayer deletes a player and returns their hand to the response
// discard pile so the cards stay in circulation.
func (s *Session) removePlayer(id string) {
	p := s.players.Remove(id)
	if p == nil {
		return
	}
	for _, c := range p.Hand {
		s.responses.Discard(c)
	}
	p.Hand = nil
}

// --- deck and hand upkeep ---

// rebuildDecks reloads packs and rebuilds both piles from the enabled
// card pool. An empty enabled-pack list means every pack.
func (s *Session) rebuildDecks() {
	s.allPacks = s.loadPacks()
	enabled := packs.Enabled(s.allPacks, s.settings.EnabledPacks)
	prompts, responses := packs.Pool(enabled)
	s.prompts.Initialize(prompts)
	s.responses.Initialize(responses)
}

// rebuildDecksAndHands is the game-start/reset variant: hands and the
// round's held cards are dropped before the rebuild so no card exists
// both in a hand and in the fresh draw pile, then everyone is dealt
// back up. A mid-round settings change goes through rebuildDecks alone
// and leaves hands and submissions intact.
func (s *Session) rebuildDecksAndHands() {
	for _, p := range s.players.All() {
		p.Hand = nil
	}
	s.submissions = NewSubmissions()
	s.currentPrompt = nil
	s.rebuildDecks()
	s.ensureHands()
	s.broadcastHands()
}

// ensureHands tops every hand up to the configured size, stopping early
// if the response pool runs dry.
func (s *Session) ensureHands() {
	for _, p := range s.players.All() {
		for len(p.Hand) < s.settings.HandSize {
			card, ok := s.responses.Draw()
			if !ok {
				return
			}
			p.Hand = append(p.Hand, card)
		}
	}
}

// --- phase plumbing ---

func (s *Session) setPhase(p Phase, d time.Duration) {
	s.phase = p
	s.sched.CancelAll()
	if d > 0 {
		s.phaseEndsAt = s.now().Add(d)
		s.sched.ScheduleDeadline(d, Action{Type: ActionPhaseTimeout, Phase: p, Round: s.roundNum})
		s.sched.StartTick(time.Second, Action{Type: ActionTick})
	} else {
		s.phaseEndsAt = time.Time{}
	}
	s.broadcastPhaseTimer()
}

func (s *Session) playDuration() time.Duration {
	return time.Duration(s.settings.PlaySeconds) * time.Second
}

func (s *Session) judgeDuration() time.Duration {
	return time.Duration(s.settings.JudgeSeconds) * time.Second
}

func (s *Session) resultsDuration() time.Duration {
	return time.Duration(s.settings.ResultsSeconds) * time.Second
}

// --- outbound helpers ---

func (s *Session) broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling broadcast", "tag", "game", "err", err)
		return
	}
	if s.transport != nil {
		s.transport.Broadcast(data)
	}
}

func (s *Session) unicast(ch chan []byte, v any) {
	if ch == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling unicast", "tag", "game", "err", err)
		return
	}
	wsutil.SafeSend(ch, data)
}

func (s *Session) sendError(ch chan []byte, msg string) {
	s.unicast(ch, ErrorMsg{Type: "error_msg", Message: msg})
}

func (s *Session) addChat(e ChatEntry) {
	s.chat.Append(e)
	s.broadcast(ChatUpdateMsg{Type: "chat_update", Entry: e})
}

func (s *Session) stateMsg() StateMsg {
	return StateMsg{
		Type:             "state",
		Phase:            s.phase.String(),
		RoundNum:         s.roundNum,
		JudgeID:          s.judgeID,
		CurrentPrompt:    promptView(s.currentPrompt),
		SubmissionsCount: s.submissions.Len(),
		WinnerID:         s.winnerID,
		ScoreLimit:       s.settings.ScoreLimit,
		Leaders:          s.topLeaders(),
		Players:          buildPlayerViews(s.players),
		Bots:             s.bots,
	}
}

func (s *Session) broadcastState() {
	s.broadcast(s.stateMsg())
}

func (s *Session) broadcastHands() {
	for _, p := range s.players.All() {
		if p.Send == nil {
			continue
		}
		s.unicast(p.Send, HandMsg{Type: "hand", Hand: handTexts(p)})
	}
}

func (s *Session) phaseTimerMsg() PhaseTimerMsg {
	var end int64
	if !s.phaseEndsAt.IsZero() {
		end = s.phaseEndsAt.UnixMilli()
	}
	return PhaseTimerMsg{Type: "phase_timer", Phase: s.phase.String(), EndTS: end}
}

func (s *Session) broadcastPhaseTimer() {
	s.broadcast(s.phaseTimerMsg())
}

// topLeaders returns the ids of players sharing the highest positive score.
func (s *Session) topLeaders() []string {
	top := 0
	for _, p := range s.players.All() {
		if p.Score > top {
			top = p.Score
		}
	}
	leaders := []string{}
	if top == 0 {
		return leaders
	}
	for _, p := range s.players.All() {
		if p.Score == top {
			leaders = append(leaders, p.ID)
		}
	}
	return leaders
}

// recordRound writes one resolved round to the history store off the
// action path.
func (s *Session) recordRound(winner *Player, auto bool) {
	if s.store == nil {
		return
	}
	judgeName := ""
	if j := s.players.Get(s.judgeID); j != nil {
		judgeName = j.Name
	}
	rec := storage.RoundRecord{
		GameID:          s.ID,
		RoundNum:        s.roundNum,
		JudgeID:         s.judgeID,
		JudgeName:       judgeName,
		PromptText:      promptText(s.currentPrompt),
		SubmissionCount: s.submissions.Len(),
		AutoResolved:    auto,
	}
	if winner != nil {
		rec.WinnerID = winner.ID
		rec.WinnerName = winner.Name
	}
	store := s.store
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.InsertRoundResult(ctx, rec); err != nil {
			slog.Error("persisting round result", "tag", "storage", "err", err)
		}
	}()
}

// recordGame writes the finished game to the history store off the
// action path.
func (s *Session) recordGame(winner *Player) {
	if s.store == nil || winner == nil {
		return
	}
	rec := storage.GameRecord{
		GameID:      s.ID,
		WinnerID:    winner.ID,
		WinnerName:  winner.Name,
		WinnerScore: winner.Score,
		Rounds:      s.roundNum,
		PlayerCount: s.players.Len(),
	}
	store := s.store
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.InsertGameResult(ctx, rec); err != nil {
			slog.Error("persisting game result", "tag", "storage", "err", err)
		}
	}()
}

func promptText(card *packs.PromptCard) string {
	if card == nil {
		return ""
	}
	return card.Text
}
