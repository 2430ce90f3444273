package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestClampRanges(t *testing.T) {
	prev := DefaultSettings()
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{
			name: "zero fields keep previous",
			in:   Settings{},
			want: prev,
		},
		{
			name: "below minimums",
			in: Settings{
				EnabledPacks:   []string{"base"},
				ScoreLimit:     -3,
				PlaySeconds:    1,
				JudgeSeconds:   2,
				ResultsSeconds: 1,
				HandSize:       1,
			},
			want: Settings{
				EnabledPacks:   []string{"base"},
				ScoreLimit:     1,
				PlaySeconds:    10,
				JudgeSeconds:   10,
				ResultsSeconds: 5,
				HandSize:       5,
			},
		},
		{
			name: "above maximums",
			in: Settings{
				EnabledPacks:   []string{},
				ScoreLimit:     999,
				PlaySeconds:    500,
				JudgeSeconds:   500,
				ResultsSeconds: 500,
				HandSize:       99,
			},
			want: Settings{
				EnabledPacks:   []string{},
				ScoreLimit:     50,
				PlaySeconds:    120,
				JudgeSeconds:   120,
				ResultsSeconds: 60,
				HandSize:       15,
			},
		},
		{
			name: "in range passes through",
			in: Settings{
				EnabledPacks:   []string{"a", "b"},
				ScoreLimit:     10,
				PlaySeconds:    60,
				JudgeSeconds:   30,
				ResultsSeconds: 15,
				HandSize:       8,
			},
			want: Settings{
				EnabledPacks:   []string{"a", "b"},
				ScoreLimit:     10,
				PlaySeconds:    60,
				JudgeSeconds:   30,
				ResultsSeconds: 15,
				HandSize:       8,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Clamp(prev)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestClampNilPacksKeepsPrevious(t *testing.T) {
	prev := DefaultSettings()
	prev.EnabledPacks = []string{"base"}

	got := Settings{ScoreLimit: 5}.Clamp(prev)
	if !reflect.DeepEqual(got.EnabledPacks, []string{"base"}) {
		t.Errorf("nil pack list should keep previous, got %v", got.EnabledPacks)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s := DefaultSettings()
	s.ScoreLimit = 12
	s.EnabledPacks = []string{"base", "expansion"}

	SaveSettings(path, s)
	got := LoadSettings(path)
	if !reflect.DeepEqual(got, s) {
		t.Errorf("round trip changed settings: got %+v, want %+v", got, s)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	got := LoadSettings(filepath.Join(t.TempDir(), "nope.json"))
	if !reflect.DeepEqual(got, DefaultSettings()) {
		t.Errorf("missing file should yield defaults, got %+v", got)
	}
}

func TestLoadSettingsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := LoadSettings(path)
	if !reflect.DeepEqual(got, DefaultSettings()) {
		t.Errorf("malformed file should yield defaults, got %+v", got)
	}
}

func TestLoadSettingsClampsStoredValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"scoreLimit": 9999, "handSize": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got := LoadSettings(path)
	if got.ScoreLimit != 50 || got.HandSize != 5 {
		t.Errorf("stored values not clamped: %+v", got)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ADMIN_KEY", "sekrit")
	cfg := Load()
	if cfg.Port != 9090 {
		t.Errorf("PORT override not applied: %d", cfg.Port)
	}
	if cfg.AdminKey != "sekrit" {
		t.Errorf("ADMIN_KEY override not applied: %q", cfg.AdminKey)
	}
}
