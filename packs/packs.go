package packs

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const (
	maxCardTextLen = 220
	maxPackNameLen = 64
)

// PromptCard is a judge-visible card defining the round's theme.
type PromptCard struct {
	Text   string
	Pick   int
	PackID string
}

// ResponseCard is a card held in a player's hand and submitted as an answer.
type ResponseCard struct {
	Text   string
	PackID string
}

// Pack is a named bundle of prompt and response cards, loadable as a unit.
type Pack struct {
	ID        string
	Name      string
	Prompts   []PromptCard
	Responses []ResponseCard
}

// packFile is the on-disk JSON shape. The field names predate this server.
type packFile struct {
	Name       string `json:"name"`
	BlackCards []struct {
		Text string `json:"text"`
	} `json:"blackCards"`
	WhiteCards []string `json:"whiteCards"`
}

var spaceRun = regexp.MustCompile(`\s+`)

// sanitize trims, collapses internal whitespace, and truncates to max runes.
func sanitize(s string, max int) string {
	s = spaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	if r := []rune(s); len(r) > max {
		s = string(r[:max])
	}
	return s
}

// LoadDir reads every *.json pack in dir. Malformed files and malformed
// entries are skipped, not errors: a pack that cannot be parsed is simply
// absent. The result is sorted by pack name.
func LoadDir(dir string) []Pack {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("packs directory unreadable", "tag", "packs", "dir", dir, "err", err)
		return nil
	}

	var packs []Pack
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable pack", "tag", "packs", "file", e.Name(), "err", err)
			continue
		}
		var pf packFile
		if err := json.Unmarshal(raw, &pf); err != nil {
			slog.Warn("skipping malformed pack", "tag", "packs", "file", e.Name(), "err", err)
			continue
		}

		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		p := Pack{
			ID:   id,
			Name: sanitize(pf.Name, maxPackNameLen),
		}
		if p.Name == "" {
			p.Name = id
		}
		for _, b := range pf.BlackCards {
			text := sanitize(b.Text, maxCardTextLen)
			if text == "" {
				continue
			}
			p.Prompts = append(p.Prompts, PromptCard{Text: text, Pick: 1, PackID: id})
		}
		for _, w := range pf.WhiteCards {
			text := sanitize(w, maxCardTextLen)
			if text == "" {
				continue
			}
			p.Responses = append(p.Responses, ResponseCard{Text: text, PackID: id})
		}
		packs = append(packs, p)
	}

	sort.Slice(packs, func(i, j int) bool { return packs[i].Name < packs[j].Name })
	return packs
}

// Enabled filters packs by id. An empty id list means every pack is enabled.
func Enabled(all []Pack, enabledIDs []string) []Pack {
	if len(enabledIDs) == 0 {
		return all
	}
	set := make(map[string]struct{}, len(enabledIDs))
	for _, id := range enabledIDs {
		set[id] = struct{}{}
	}
	var out []Pack
	for _, p := range all {
		if _, ok := set[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Pool flattens the given packs into the full prompt and response card pool.
func Pool(enabled []Pack) (prompts []PromptCard, responses []ResponseCard) {
	for _, p := range enabled {
		prompts = append(prompts, p.Prompts...)
		responses = append(responses, p.Responses...)
	}
	return prompts, responses
}
