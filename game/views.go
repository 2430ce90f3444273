package game

import (
	"xyzzy-server/config"
	"xyzzy-server/packs"
)

// Outbound messages. Everything the session emits is one of these structs
// serialized to JSON; the transport treats them as opaque bytes.

// PlayerView is the public listing of one player.
type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
	IsAdmin   bool   `json:"isAdmin"`
	IsBot     bool   `json:"isBot"`
}

// PromptView is the judge-visible prompt card.
type PromptView struct {
	Text string `json:"text"`
	Pick int    `json:"pick"`
}

// BotsView reports the synthetic-player configuration.
type BotsView struct {
	Enabled bool `json:"enabled"`
	Count   int  `json:"count"`
}

// PackView is the public summary of one loaded card pack.
type PackView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PromptCount   int    `json:"promptCount"`
	ResponseCount int    `json:"responseCount"`
}

// SubmissionView is one revealed submission. ID is the submitting player.
type SubmissionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ServerHelloMsg is the first message a new connection receives.
type ServerHelloMsg struct {
	Type     string          `json:"type"`
	Phase    string          `json:"phase"`
	RoundNum int             `json:"roundNum"`
	Settings config.Settings `json:"settings"`
	Bots     BotsView        `json:"bots"`
}

// StateMsg is the full public state snapshot broadcast to everyone.
type StateMsg struct {
	Type             string       `json:"type"`
	Phase            string       `json:"phase"`
	RoundNum         int          `json:"roundNum"`
	JudgeID          string       `json:"judgeId"`
	CurrentPrompt    *PromptView  `json:"currentPrompt"`
	SubmissionsCount int          `json:"submissionsCount"`
	WinnerID         string       `json:"winnerId"`
	ScoreLimit       int          `json:"scoreLimit"`
	Leaders          []string     `json:"leaders"`
	Players          []PlayerView `json:"players"`
	Bots             BotsView     `json:"bots"`
}

// HandMsg is the unicast hand contents for one player.
type HandMsg struct {
	Type string   `json:"type"`
	Hand []string `json:"hand"`
}

// PhaseTimerMsg carries the current phase deadline (0 when none).
type PhaseTimerMsg struct {
	Type  string `json:"type"`
	Phase string `json:"phase"`
	EndTS int64  `json:"endTs"`
}

// PromptCardMsg announces the round's prompt card.
type PromptCardMsg struct {
	Type string     `json:"type"`
	Card PromptView `json:"card"`
}

// SubmissionsRevealMsg lists the round's submissions in randomized order.
type SubmissionsRevealMsg struct {
	Type string           `json:"type"`
	List []SubmissionView `json:"list"`
}

// RoundResultMsg announces the round winner and reveals all submissions.
type RoundResultMsg struct {
	Type        string           `json:"type"`
	WinnerID    string           `json:"winnerId"`
	WinnerName  string           `json:"winnerName"`
	Submissions []SubmissionView `json:"submissions"`
	Prompt      string           `json:"prompt"`
}

// SettingsMsg carries the current settings and bot configuration.
type SettingsMsg struct {
	Type     string          `json:"type"`
	Settings config.Settings `json:"settings"`
	Bots     BotsView        `json:"bots"`
}

// AdminStatusMsg confirms a connection's admin standing.
type AdminStatusMsg struct {
	Type    string `json:"type"`
	IsAdmin bool   `json:"isAdmin"`
}

// PacksListMsg lists the loaded card packs.
type PacksListMsg struct {
	Type  string     `json:"type"`
	Packs []PackView `json:"packs"`
}

// ChatHistoryMsg replaces the client's chat log.
type ChatHistoryMsg struct {
	Type string      `json:"type"`
	Log  []ChatEntry `json:"log"`
}

// ChatUpdateMsg appends one entry to the client's chat log.
type ChatUpdateMsg struct {
	Type  string    `json:"type"`
	Entry ChatEntry `json:"entry"`
}

// ErrorMsg reports a rejected action to the originating client.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// KickedMsg tells a client they were removed by the admin.
type KickedMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// buildPlayerViews lists players in registry order.
func buildPlayerViews(r *Registry) []PlayerView {
	players := make([]PlayerView, 0, r.Len())
	for _, p := range r.All() {
		players = append(players, PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Score:     p.Score,
			Connected: p.Connected,
			IsAdmin:   p.IsAdmin,
			IsBot:     p.IsBot,
		})
	}
	return players
}

// buildPackViews summarizes loaded packs for the client.
func buildPackViews(all []packs.Pack) []PackView {
	views := make([]PackView, 0, len(all))
	for _, p := range all {
		views = append(views, PackView{
			ID:            p.ID,
			Name:          p.Name,
			PromptCount:   len(p.Prompts),
			ResponseCount: len(p.Responses),
		})
	}
	return views
}

func promptView(card *packs.PromptCard) *PromptView {
	if card == nil {
		return nil
	}
	return &PromptView{Text: card.Text, Pick: card.Pick}
}

func handTexts(p *Player) []string {
	texts := make([]string, len(p.Hand))
	for i, c := range p.Hand {
		texts[i] = c.Text
	}
	return texts
}
