package game

import (
	"errors"
	"reflect"
	"testing"

	"xyzzy-server/gameerrors"
	"xyzzy-server/packs"
)

func TestSubmissionsRejectJudge(t *testing.T) {
	s := NewSubmissions()
	err := s.Add("judge", "judge", Submission{Card: packs.ResponseCard{Text: "x"}})
	if !errors.Is(err, gameerrors.ErrJudgeCannotSubmit) {
		t.Errorf("expected ErrJudgeCannotSubmit, got %v", err)
	}
	if s.Len() != 0 {
		t.Error("rejected submission was recorded")
	}
}

func TestSubmissionsRejectDuplicate(t *testing.T) {
	s := NewSubmissions()
	if err := s.Add("p1", "judge", Submission{Card: packs.ResponseCard{Text: "first"}}); err != nil {
		t.Fatal(err)
	}
	err := s.Add("p1", "judge", Submission{Card: packs.ResponseCard{Text: "second"}})
	if !errors.Is(err, gameerrors.ErrAlreadySubmitted) {
		t.Errorf("expected ErrAlreadySubmitted, got %v", err)
	}

	sub, ok := s.Get("p1")
	if !ok || sub.Card.Text != "first" {
		t.Errorf("original submission overwritten: %+v", sub)
	}
}

func TestSubmissionsOrderAndClear(t *testing.T) {
	s := NewSubmissions()
	s.Add("p2", "judge", Submission{Card: packs.ResponseCard{Text: "b"}})
	s.Add("p1", "judge", Submission{Card: packs.ResponseCard{Text: "a"}})

	if got := s.PlayerIDs(); !reflect.DeepEqual(got, []string{"p2", "p1"}) {
		t.Errorf("submission order lost: %v", got)
	}

	cards := s.Clear()
	if len(cards) != 2 || cards[0].Text != "b" || cards[1].Text != "a" {
		t.Errorf("Clear returned wrong cards: %+v", cards)
	}
	if s.Len() != 0 || s.Has("p1") {
		t.Error("tracker not emptied")
	}
}
