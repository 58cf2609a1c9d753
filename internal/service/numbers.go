package service

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// 号码规则：合法号码为 1..16；购彩一张票选 5~8 个互不相同的号码，
// 开奖号码固定为 3 个互不相同的号码。
const (
	numberMin = 1
	numberMax = 16

	boardNumbersMin = 5
	boardNumbersMax = 8

	winningNumbersCount = 3
)

// 价格阶梯：票价由所选号码个数唯一决定
var priceByCount = map[int]float64{
	5: 20,
	6: 40,
	7: 80,
	8: 160,
}

var (
	ErrInvalidSelection      = errors.New("invalid number selection")
	ErrInvalidWinningNumbers = errors.New("invalid winning numbers")
)

// validateBoardNumbers 校验购彩号码：个数 5~8、范围 1..16、互不相同
func validateBoardNumbers(nums []int) error {
	if len(nums) < boardNumbersMin || len(nums) > boardNumbersMax {
		return ErrInvalidSelection
	}
	seen := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		if n < numberMin || n > numberMax {
			return ErrInvalidSelection
		}
		if _, dup := seen[n]; dup {
			return ErrInvalidSelection
		}
		seen[n] = struct{}{}
	}
	return nil
}

// validateWinningNumbers 校验开奖号码：恰好 3 个、范围 1..16、互不相同
func validateWinningNumbers(nums []int) error {
	if len(nums) != winningNumbersCount {
		return ErrInvalidWinningNumbers
	}
	seen := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		if n < numberMin || n > numberMax {
			return ErrInvalidWinningNumbers
		}
		if _, dup := seen[n]; dup {
			return ErrInvalidWinningNumbers
		}
		seen[n] = struct{}{}
	}
	return nil
}

// priceForCount 按号码个数取票价，个数非法返回 0
func priceForCount(count int) float64 {
	return priceByCount[count]
}

// numbersToCSV 规范化号码存储格式：升序去重后的CSV（如 "1,4,9,12,16"）
func numbersToCSV(nums []int) string {
	sorted := make([]int, len(nums))
	copy(sorted, nums)
	sort.Ints(sorted)

	parts := make([]string, 0, len(sorted))
	for _, n := range sorted {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ",")
}

// csvToSet 解析CSV号码串为集合，非法片段忽略
func csvToSet(csv string) map[int]struct{} {
	set := make(map[int]struct{})
	for _, p := range strings.Split(csv, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if n, err := strconv.Atoi(p); err == nil {
			set[n] = struct{}{}
		}
	}
	return set
}

// matchedCount 计算票面号码与开奖号码的命中个数
func matchedCount(chosenCSV, winningCSV string) int {
	winning := csvToSet(winningCSV)
	matched := 0
	for n := range csvToSet(chosenCSV) {
		if _, ok := winning[n]; ok {
			matched++
		}
	}
	return matched
}
