package common

import (
	"testing"
	"time"
)

func TestGetWeekCutoff(t *testing.T) {
	// 2026-01-07 是周三，截止应为同周周六 2026-01-10 17:00（哥本哈根时间）
	wed := time.Date(2026, 1, 7, 12, 0, 0, 0, clubLocation)
	want := time.Date(2026, 1, 10, 17, 0, 0, 0, clubLocation).Unix()
	if got := GetWeekCutoff(wed); got != want {
		t.Fatalf("wednesday cutoff: got %d want %d", got, want)
	}

	// 周日算上一周的第7天，截止仍是本周（已过去的）周六
	sun := time.Date(2026, 1, 11, 10, 0, 0, 0, clubLocation)
	wantSun := time.Date(2026, 1, 10, 17, 0, 0, 0, clubLocation).Unix()
	if got := GetWeekCutoff(sun); got != wantSun {
		t.Fatalf("sunday cutoff: got %d want %d", got, wantSun)
	}

	// 周六当天 17:00 之前与之后，截止时间相同（都是当天 17:00）
	sat := time.Date(2026, 1, 10, 9, 0, 0, 0, clubLocation)
	if got := GetWeekCutoff(sat); got != wantSun {
		t.Fatalf("saturday cutoff: got %d want %d", got, wantSun)
	}
}

func TestGetWeekRange(t *testing.T) {
	wed := time.Date(2026, 1, 7, 12, 0, 0, 0, clubLocation)
	start, end := GetWeekRange(wed)
	wantStart := time.Date(2026, 1, 5, 0, 0, 0, 0, clubLocation).Unix()
	wantEnd := time.Date(2026, 1, 12, 0, 0, 0, 0, clubLocation).Unix()
	if start != wantStart || end != wantEnd {
		t.Fatalf("week range: got [%d, %d) want [%d, %d)", start, end, wantStart, wantEnd)
	}

	// 周一本身应落在以它开头的一周
	mon := time.Date(2026, 1, 5, 0, 0, 0, 0, clubLocation)
	s2, _ := GetWeekRange(mon)
	if s2 != wantStart {
		t.Fatalf("monday should start its own week: got %d want %d", s2, wantStart)
	}
}
