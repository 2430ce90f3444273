package game

import (
	"fmt"
	"strings"
)

// BotIDPrefix is the reserved id namespace for synthetic players. Human
// registrations with this prefix are rejected.
const BotIDPrefix = "bot_"

// maxBots caps the synthetic player count.
const maxBots = 12

var botNames = []string{
	"Botman", "CardGoblin", "PunSplicer", "NeonLlama", "ChaosGremlin",
	"MemeEngine", "TrashWizard", "SpookyCPU", "GigaGoose", "ByteBanshee",
	"SnarkSprite", "DiceGobbo", "TinfoilOracle", "LagDragon", "WiredWitch",
}

// IsBotID reports whether id falls in the reserved bot namespace.
func IsBotID(id string) bool {
	return strings.HasPrefix(id, BotIDPrefix)
}

func botID(i int) string {
	return fmt.Sprintf("%s%02d", BotIDPrefix, i)
}

func botName(i int) string {
	return fmt.Sprintf("%s #%d", botNames[i%len(botNames)], i+1)
}

// setBots reconciles the registry with the requested synthetic player
// count (clamped to 0..12), adding and removing bots as needed and
// topping up hands afterward.
func (s *Session) setBots(enabled bool, count int) {
	if count < 0 {
		count = 0
	}
	if count > maxBots {
		count = maxBots
	}
	s.bots.Enabled = enabled
	s.bots.Count = count

	if !s.bots.Enabled || s.bots.Count == 0 {
		s.bots.Enabled = false
		s.bots.Count = 0
		s.removeBots(0)
		return
	}

	for i := 0; i < s.bots.Count; i++ {
		s.addBot(i)
	}
	s.removeBots(s.bots.Count)
	s.ensureHands()
	s.broadcastHands()
}

func (s *Session) addBot(i int) {
	id := botID(i)
	if s.players.Get(id) != nil {
		return
	}
	p := &Player{
		ID:        id,
		Name:      botName(i),
		Connected: true,
		IsBot:     true,
	}
	s.players.Add(p)
	s.addChat(systemEntry(s.now(), fmt.Sprintf("%s joined (bot).", p.Name)))
}

// removeBots deletes every bot at slot index >= target, returning their
// hands to the discard pile.
func (s *Session) removeBots(target int) {
	for _, id := range s.players.IDs() {
		if !IsBotID(id) {
			continue
		}
		var slot int
		if _, err := fmt.Sscanf(id, BotIDPrefix+"%d", &slot); err != nil {
			continue
		}
		if slot < target {
			continue
		}
		p := s.players.Get(id)
		s.removePlayer(id)
		s.addChat(systemEntry(s.now(), fmt.Sprintf("%s left (bot).", p.Name)))
	}
}

// botSubmitIfNeeded plays a uniformly random hand card for every bot that
// still owes a submission. Invoked after round start, after any human
// submission, and from thinking-delay actions; it re-validates phase and
// role every time since triggers overlap.
func (s *Session) botSubmitIfNeeded() {
	if s.phase != PhasePlay || !s.bots.Enabled || s.bots.Count == 0 {
		return
	}

	submitted := false
	for _, p := range s.players.All() {
		if !p.IsBot || p.ID == s.judgeID || s.submissions.Has(p.ID) || len(p.Hand) == 0 {
			continue
		}
		card := p.Hand[s.rng.Intn(len(p.Hand))]
		if err := s.submitCard(p, card.Text, true); err != nil {
			continue
		}
		s.addChat(systemEntry(s.now(), fmt.Sprintf("%s submitted.", p.Name)))
		submitted = true
	}
	if !submitted {
		return
	}

	s.ensureHands()
	s.broadcastHands()
	s.broadcastState()
	s.checkAllSubmitted()
}

// botJudgePickIfNeeded resolves the round when a bot occupies the judge
// seat, picking uniformly at random among existing submissions.
func (s *Session) botJudgePickIfNeeded() {
	if s.phase != PhaseJudge || !s.bots.Enabled || s.bots.Count == 0 {
		return
	}
	judge := s.players.Get(s.judgeID)
	if judge == nil || !judge.IsBot {
		return
	}

	ids := s.submissions.PlayerIDs()
	if len(ids) == 0 {
		return
	}
	s.addChat(systemEntry(s.now(), fmt.Sprintf("%s (bot judge) picked a winner.", judge.Name)))
	s.resolveWinner(ids[s.rng.Intn(len(ids))], false)
}
