package game

import (
	"reflect"
	"testing"
)

func TestRegistryInsertionOrder(t *testing.T) {
	r := NewRegistry()
	r.Add(&Player{ID: "c"})
	r.Add(&Player{ID: "a"})
	r.Add(&Player{ID: "b"})
	r.Add(&Player{ID: "a"}) // duplicate, no-op

	if r.Len() != 3 {
		t.Fatalf("expected 3 players, got %d", r.Len())
	}
	if got := r.IDs(); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Errorf("insertion order lost: %v", got)
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	r.Add(&Player{ID: "a"})
	r.Add(&Player{ID: "b"})

	if p := r.Remove("a"); p == nil || p.ID != "a" {
		t.Fatalf("Remove returned %v", p)
	}
	if r.Get("a") != nil {
		t.Error("removed player still retrievable")
	}
	if p := r.Remove("a"); p != nil {
		t.Error("second remove should return nil")
	}
	if got := r.IDs(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("order not compacted: %v", got)
	}
}

func TestNextJudgeRotation(t *testing.T) {
	r := NewRegistry()
	r.Add(&Player{ID: "a"})
	r.Add(&Player{ID: "b"})
	r.Add(&Player{ID: "c"})

	tests := []struct {
		current string
		want    string
	}{
		{"", "a"},       // first round
		{"a", "b"},      // normal rotation
		{"b", "c"},      // normal rotation
		{"c", "a"},      // wraps around
		{"ghost", "a"},  // missing current resets to first
	}
	for _, tc := range tests {
		if got := r.NextJudge(tc.current); got != tc.want {
			t.Errorf("NextJudge(%q) = %q, want %q", tc.current, got, tc.want)
		}
	}
}

func TestNextJudgeAfterJudgeLeaves(t *testing.T) {
	r := NewRegistry()
	r.Add(&Player{ID: "a"})
	r.Add(&Player{ID: "b"})
	r.Add(&Player{ID: "c"})

	r.Remove("b")
	if got := r.NextJudge("b"); got != "a" {
		t.Errorf("rotation after removed judge should reset to first, got %q", got)
	}
}

func TestNextJudgeEmptyRegistry(t *testing.T) {
	r := NewRegistry()
	if got := r.NextJudge("a"); got != "" {
		t.Errorf("empty registry should yield no judge, got %q", got)
	}
}
