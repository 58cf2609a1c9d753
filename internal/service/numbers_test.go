package service

import (
	"testing"
)

func TestValidateBoardNumbers(t *testing.T) {
	cases := []struct {
		name string
		nums []int
		ok   bool
	}{
		{"min count", []int{1, 2, 3, 4, 5}, true},
		{"max count", []int{1, 2, 3, 4, 5, 6, 7, 8}, true},
		{"boundary values", []int{1, 16, 8, 9, 10}, true},
		{"too few", []int{1, 2, 3, 4}, false},
		{"too many", []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, false},
		{"out of range high", []int{1, 2, 3, 4, 17}, false},
		{"out of range low", []int{0, 2, 3, 4, 5}, false},
		{"duplicate", []int{1, 2, 3, 4, 4}, false},
		{"empty", nil, false},
	}
	for _, c := range cases {
		err := validateBoardNumbers(c.nums)
		if c.ok && err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("%s: expected error, got nil", c.name)
		}
	}
}

func TestValidateWinningNumbers(t *testing.T) {
	if err := validateWinningNumbers([]int{3, 9, 16}); err != nil {
		t.Fatalf("valid winning numbers rejected: %v", err)
	}
	for _, nums := range [][]int{
		{1, 2},          // 少于3个
		{1, 2, 3, 4},    // 多于3个
		{1, 2, 2},       // 重复
		{0, 2, 3},       // 越界
		{1, 2, 17},      // 越界
		nil,             // 空
	} {
		if err := validateWinningNumbers(nums); err == nil {
			t.Fatalf("expected error for %v", nums)
		}
	}
}

func TestPriceForCount(t *testing.T) {
	want := map[int]float64{5: 20, 6: 40, 7: 80, 8: 160}
	for count, price := range want {
		if got := priceForCount(count); got != price {
			t.Fatalf("count %d: got %v want %v", count, got, price)
		}
	}
	if got := priceForCount(4); got != 0 {
		t.Fatalf("invalid count should price 0, got %v", got)
	}
}

func TestNumbersToCSV(t *testing.T) {
	if got := numbersToCSV([]int{16, 1, 9, 4, 12}); got != "1,4,9,12,16" {
		t.Fatalf("got %q", got)
	}
	if got := numbersToCSV(nil); got != "" {
		t.Fatalf("empty input should give empty csv, got %q", got)
	}
}

func TestMatchedCount(t *testing.T) {
	cases := []struct {
		chosen  string
		winning string
		want    int
	}{
		{"1,4,9,12,16", "4,9,16", 3},
		{"1,4,9,12,16", "4,9,2", 2},
		{"1,4,9,12,16", "2,3,5", 0},
		{"1,2,3,4,5,6,7,8", "1,8,16", 2},
		{"", "1,2,3", 0},
	}
	for _, c := range cases {
		if got := matchedCount(c.chosen, c.winning); got != c.want {
			t.Fatalf("matchedCount(%q, %q) = %d, want %d", c.chosen, c.winning, got, c.want)
		}
	}
}
