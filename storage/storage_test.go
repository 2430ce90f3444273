package storage

import (
	"context"
	"testing"
)

func TestNewStoreEmptyURL(t *testing.T) {
	s, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("empty URL should disable persistence, got %v", err)
	}
	if s != nil {
		t.Fatal("expected nil store for empty URL")
	}
}

func TestNilStoreIsNoOp(t *testing.T) {
	var s *Store
	ctx := context.Background()

	if err := s.InsertRoundResult(ctx, RoundRecord{GameID: "g1"}); err != nil {
		t.Errorf("nil store InsertRoundResult: %v", err)
	}
	if err := s.InsertGameResult(ctx, GameRecord{GameID: "g1"}); err != nil {
		t.Errorf("nil store InsertGameResult: %v", err)
	}
	entries, err := s.ListLeaderboard(ctx, 10)
	if err != nil || entries != nil {
		t.Errorf("nil store ListLeaderboard: %v %v", entries, err)
	}
	s.Close()
}
