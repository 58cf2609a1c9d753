package service

import (
	"testing"

	"dp-server/internal/model"

	decimal "github.com/shopspring/decimal"
)

func TestSplitPoolNoWinners(t *testing.T) {
	s := splitPool(decimal.NewFromInt(1000), 0)
	if s.Pool != "1000.00" {
		t.Fatalf("pool: %s", s.Pool)
	}
	if s.ClubProfit != "300.00" {
		t.Fatalf("club profit: %s", s.ClubProfit)
	}
	if s.WinnersPool != "700.00" {
		t.Fatalf("winners pool: %s", s.WinnersPool)
	}
	if s.PerWinner != "0.00" {
		t.Fatalf("per winner: %s", s.PerWinner)
	}
	// 无中奖者时 70% 部分整体作为余数
	if s.Remainder != "700.00" {
		t.Fatalf("remainder: %s", s.Remainder)
	}
}

func TestSplitPoolEvenSplit(t *testing.T) {
	// 140 = 7张5个号的票，2位中奖者恰好除尽
	s := splitPool(decimal.NewFromInt(140), 2)
	if s.ClubProfit != "42.00" || s.WinnersPool != "98.00" {
		t.Fatalf("split: profit=%s winners=%s", s.ClubProfit, s.WinnersPool)
	}
	if s.PerWinner != "49.00" || s.Remainder != "0.00" {
		t.Fatalf("per=%s remainder=%s", s.PerWinner, s.Remainder)
	}
}

func TestSplitPoolRemainder(t *testing.T) {
	// 700 / 3 = 233.333... 每人233.33，剩 0.01
	s := splitPool(decimal.NewFromInt(1000), 3)
	if s.PerWinner != "233.33" {
		t.Fatalf("per winner: %s", s.PerWinner)
	}
	if s.Remainder != "0.01" {
		t.Fatalf("remainder: %s", s.Remainder)
	}
}

func TestSplitPoolZero(t *testing.T) {
	s := splitPool(decimal.Zero, 0)
	if s.Pool != "0.00" || s.ClubProfit != "0.00" || s.WinnersPool != "0.00" || s.PerWinner != "0.00" || s.Remainder != "0.00" {
		t.Fatalf("zero pool split: %+v", s)
	}
}

func TestSplitPoolFromFloat(t *testing.T) {
	s := splitPoolFromFloat(260, 1)
	if s.ClubProfit != "78.00" {
		t.Fatalf("club profit: %s", s.ClubProfit)
	}
	if s.PerWinner != "182.00" || s.Remainder != "0.00" {
		t.Fatalf("per=%s remainder=%s", s.PerWinner, s.Remainder)
	}
}

func TestBuildPayoutOverviewUndrawnRound(t *testing.T) {
	// 未开奖的期次可以查总览：有当前奖池和参与人数，中奖清单为空
	round := &model.Round{RoundID: "r1", Status: 1, WinningNumbers: ""}
	out := buildPayoutOverview(round, 5, 3, 200, nil)

	if out.RoundID != "r1" || out.Status != 1 || out.WinningNumbers != "" {
		t.Fatalf("round fields: %+v", out)
	}
	if out.TotalBoards != 5 || out.TotalPlayers != 3 {
		t.Fatalf("totals: boards=%d players=%d", out.TotalBoards, out.TotalPlayers)
	}
	if len(out.Winners) != 0 {
		t.Fatalf("winners: %d, want 0", len(out.Winners))
	}
	if out.Split.Pool != "200.00" || out.Split.ClubProfit != "60.00" {
		t.Fatalf("split: %+v", out.Split)
	}
	if out.Split.PerWinner != "0.00" || out.Split.Remainder != "140.00" {
		t.Fatalf("split: per=%s remainder=%s", out.Split.PerWinner, out.Split.Remainder)
	}
}

func TestBuildPayoutOverviewWithWinners(t *testing.T) {
	round := &model.Round{RoundID: "r1", Status: 3, WinningNumbers: "2,7,11"}
	rows := []model.WinnerRow{
		{BoardID: "b1", PlayerID: "p1", FirstName: "Anna", LastName: "Jensen", ChosenNumbers: "2,5,7,11,14", NumbersMatched: 3},
		{BoardID: "b2", PlayerID: "p2", FirstName: "", LastName: "Nielsen", ChosenNumbers: "2,7,11,12,16", NumbersMatched: 3},
	}
	out := buildPayoutOverview(round, 7, 4, 140, rows)

	if len(out.Winners) != 2 {
		t.Fatalf("winners: %d", len(out.Winners))
	}
	if out.Winners[0].PlayerName != "Anna Jensen" || out.Winners[1].PlayerName != "Nielsen" {
		t.Fatalf("names: %q, %q", out.Winners[0].PlayerName, out.Winners[1].PlayerName)
	}
	if out.Winners[0].Share != "49.00" || out.Winners[1].Share != "49.00" {
		t.Fatalf("shares: %s, %s", out.Winners[0].Share, out.Winners[1].Share)
	}
	if out.Split.Remainder != "0.00" {
		t.Fatalf("remainder: %s", out.Split.Remainder)
	}
}
