package config

import (
	"encoding/json"
	"log/slog"
	"os"
)

// Settings are the admin-tunable game parameters. They are clamped on
// every write and round-trip unchanged to the settings file.
type Settings struct {
	EnabledPacks   []string `json:"enabledPacks"`
	ScoreLimit     int      `json:"scoreLimit"`
	PlaySeconds    int      `json:"playSeconds"`
	JudgeSeconds   int      `json:"judgeSeconds"`
	ResultsSeconds int      `json:"resultsSeconds"`
	HandSize       int      `json:"handSize"`
}

// DefaultSettings returns the out-of-the-box game settings.
func DefaultSettings() Settings {
	return Settings{
		EnabledPacks:   []string{},
		ScoreLimit:     7,
		PlaySeconds:    35,
		JudgeSeconds:   25,
		ResultsSeconds: 10,
		HandSize:       10,
	}
}

// Clamp forces every field into its permitted range, falling back to the
// corresponding field of prev for values that are out of range or zero.
func (s Settings) Clamp(prev Settings) Settings {
	if s.EnabledPacks == nil {
		s.EnabledPacks = prev.EnabledPacks
	}
	s.ScoreLimit = clampInt(s.ScoreLimit, 1, 50, prev.ScoreLimit)
	s.PlaySeconds = clampInt(s.PlaySeconds, 10, 120, prev.PlaySeconds)
	s.JudgeSeconds = clampInt(s.JudgeSeconds, 10, 120, prev.JudgeSeconds)
	s.ResultsSeconds = clampInt(s.ResultsSeconds, 5, 60, prev.ResultsSeconds)
	s.HandSize = clampInt(s.HandSize, 5, 15, prev.HandSize)
	return s
}

func clampInt(n, min, max, def int) int {
	if n == 0 {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// LoadSettings reads settings from path, returning clamped defaults on any
// problem (missing file, malformed JSON).
func LoadSettings(path string) Settings {
	def := DefaultSettings()
	raw, err := os.ReadFile(path)
	if err != nil {
		return def
	}
	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		slog.Warn("settings file malformed, using defaults", "tag", "config", "path", path, "err", err)
		return def
	}
	return s.Clamp(def)
}

// SaveSettings persists settings to path. In-memory state is authoritative;
// a failed write is logged and otherwise ignored.
func SaveSettings(path string, s Settings) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		slog.Error("marshaling settings", "tag", "config", "err", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Error("writing settings file", "tag", "config", "path", path, "err", err)
	}
}
