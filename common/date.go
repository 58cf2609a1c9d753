package common

import (
	"time"
)

// 俱乐部在丹麦运营，所有开奖窗口按哥本哈根时间计算
var clubLocation = mustLoadLocation("Europe/Copenhagen")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// 获取当天 00:00:00 和 第二天 00:00:00
func GetTodayRange(t time.Time) (start, end int64) {
	year, month, day := t.In(clubLocation).Date()

	startTime := time.Date(year, month, day, 0, 0, 0, 0, clubLocation)
	endTime := startTime.AddDate(0, 0, 1)

	return startTime.Unix(), endTime.Unix()
}

// 获取当周周一 00:00:00 和 下周一 00:00:00（每周一期的开奖窗口）
func GetWeekRange(t time.Time) (start, end int64) {
	t = t.In(clubLocation)

	// 周日是0，周一是1 ... 周六是6
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	year, month, day := t.Date()
	monday := time.Date(year, month, day, 0, 0, 0, 0, clubLocation).AddDate(0, 0, -(weekday - 1))
	nextMonday := monday.AddDate(0, 0, 7)

	return monday.Unix(), nextMonday.Unix()
}

// 本周六 17:00:00，默认的购彩截止时间
func GetWeekCutoff(t time.Time) int64 {
	t = t.In(clubLocation)

	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	year, month, day := t.Date()
	saturday := time.Date(year, month, day, 17, 0, 0, 0, clubLocation).AddDate(0, 0, 6-weekday)

	return saturday.Unix()
}
