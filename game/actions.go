package game

import "xyzzy-server/config"

// ActionType enumerates the kinds of actions a session can process.
type ActionType int

const (
	ActionHello ActionType = iota
	ActionRegister
	ActionChat
	ActionSubmitCard
	ActionJudgePick
	ActionRequestState
	ActionClientGone

	ActionSetSettings
	ActionSetBots
	ActionStartGame
	ActionNextRound
	ActionPauseToggle
	ActionResetGame
	ActionClearChat
	ActionKick

	ActionPhaseTimeout // internal: phase deadline expired
	ActionTick         // internal: periodic timer broadcast
	ActionBotSubmit    // internal: bot thinking delay elapsed during play
	ActionBotJudge     // internal: bot thinking delay elapsed during judging
)

// ConnCtx identifies the connection an action arrived on. It is produced
// at registration time by the transport layer; IsAdmin reflects the
// credential presented on this connection, while the sticky admin flag
// lives on the Player record.
type ConnCtx struct {
	PlayerID string
	IsAdmin  bool
}

// Action is one unit of work for the session loop. Exactly one of the
// payload fields is meaningful per Type.
type Action struct {
	Type ActionType
	Ctx  ConnCtx

	// Send is the originating client's send channel, used for unicast
	// replies (hello payloads, rejections).
	Send chan []byte

	Name        string
	Text        string
	WinnerID    string
	TargetID    string
	Settings    *config.Settings
	BotsEnabled bool
	BotCount    int

	// Phase and Round guard internal timer actions against firing for a
	// phase that has already ended.
	Phase Phase
	Round int
}
