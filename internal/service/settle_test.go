package service

import (
	"testing"

	"dp-server/internal/model"
)

func TestWinningRecordsOnlyFullMatches(t *testing.T) {
	boards := []model.Board{
		{BoardID: "b1", PlayerID: "p1", ChosenNumbers: "2,5,7,11,14"},  // 命中 3
		{BoardID: "b2", PlayerID: "p2", ChosenNumbers: "1,3,4,6,8"},    // 命中 0
		{BoardID: "b3", PlayerID: "p3", ChosenNumbers: "2,7,9,10,13"},  // 命中 2
		{BoardID: "b4", PlayerID: "p1", ChosenNumbers: "2,7,11,12,16"}, // 命中 3
		{BoardID: "b5", PlayerID: "p4", ChosenNumbers: "5,7,8,9,15"},   // 命中 1
	}

	records := winningRecords("r1", boards, "2,7,11")
	if len(records) != 2 {
		t.Fatalf("records: %d, want 2", len(records))
	}
	if records[0].BoardID != "b1" || records[1].BoardID != "b4" {
		t.Fatalf("record boards: %s, %s", records[0].BoardID, records[1].BoardID)
	}
	for _, r := range records {
		if r.RoundID != "r1" {
			t.Fatalf("round_id: %s", r.RoundID)
		}
		if int(r.NumbersMatched) != winningNumbersCount {
			t.Fatalf("numbers_matched: %d", r.NumbersMatched)
		}
	}
	if records[0].PlayerID != "p1" || records[1].PlayerID != "p1" {
		t.Fatalf("player ids: %s, %s", records[0].PlayerID, records[1].PlayerID)
	}
}

func TestWinningRecordsPartialMatchesExcluded(t *testing.T) {
	// 命中 1/2 个号码的票不产生结算记录
	boards := []model.Board{
		{BoardID: "b1", PlayerID: "p1", ChosenNumbers: "1,2,3,4,5"},          // 命中 1
		{BoardID: "b2", PlayerID: "p2", ChosenNumbers: "2,7,9,10,11,12,13,14"}, // 命中 2
	}
	records := winningRecords("r1", boards, "2,7,15")
	if len(records) != 0 {
		t.Fatalf("records: %d, want 0", len(records))
	}
}

func TestWinningRecordsEmptyRound(t *testing.T) {
	records := winningRecords("r1", nil, "2,7,11")
	if len(records) != 0 {
		t.Fatalf("records: %d, want 0", len(records))
	}
}
