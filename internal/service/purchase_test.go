package service

import (
	"errors"
	"testing"

	"dp-server/internal/model"
)

func TestEnsureCoveredRoundsOpenOK(t *testing.T) {
	rounds := []model.Round{
		{ID: 1, RoundID: "r1", Status: 1},
		{ID: 2, RoundID: "r2", Status: 1},
		{ID: 3, RoundID: "r3", Status: 1},
	}
	if err := ensureCoveredRoundsOpen(rounds, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureCoveredRoundsOpenNotEnough(t *testing.T) {
	rounds := []model.Round{
		{ID: 1, RoundID: "r1", Status: 1},
	}
	if err := ensureCoveredRoundsOpen(rounds, 3); !errors.Is(err, ErrInsufficientOpenRounds) {
		t.Fatalf("error: %v, want ErrInsufficientOpenRounds", err)
	}
}

func TestEnsureCoveredRoundsOpenRejectsPublished(t *testing.T) {
	// 并发开奖把其中一期推进到已开奖，整单拒绝
	rounds := []model.Round{
		{ID: 1, RoundID: "r1", Status: 1},
		{ID: 2, RoundID: "r2", Status: 2, WinningNumbers: "2,7,11"},
	}
	if err := ensureCoveredRoundsOpen(rounds, 2); !errors.Is(err, ErrRoundClosed) {
		t.Fatalf("error: %v, want ErrRoundClosed", err)
	}
}

func TestEnsureCoveredRoundsOpenRejectsDrawnButOpenStatus(t *testing.T) {
	// 号码已写入但状态列尚未更新的中间态同样拒绝
	rounds := []model.Round{
		{ID: 1, RoundID: "r1", Status: 1, WinningNumbers: "2,7,11"},
	}
	if err := ensureCoveredRoundsOpen(rounds, 1); !errors.Is(err, ErrRoundClosed) {
		t.Fatalf("error: %v, want ErrRoundClosed", err)
	}
}

func TestEnsureCoveredRoundsOpenRejectsSettled(t *testing.T) {
	rounds := []model.Round{
		{ID: 1, RoundID: "r1", Status: 3, WinningNumbers: "2,7,11"},
		{ID: 2, RoundID: "r2", Status: 1},
	}
	if err := ensureCoveredRoundsOpen(rounds, 2); !errors.Is(err, ErrRoundClosed) {
		t.Fatalf("error: %v, want ErrRoundClosed", err)
	}
}
