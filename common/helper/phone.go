package helper

import (
	"regexp"
	"strings"
)

// 丹麦手机号为8位数字，可带 +45 前缀
var phoneRe = regexp.MustCompile(`^(?:\+45)?[2-9]\d{7}$`)

func ValidateMobile(mobile string) bool {
	return phoneRe.MatchString(strings.TrimSpace(mobile))
}

// 手机号码脱敏
func MaskPhone(mobile string) string {
	m := strings.TrimPrefix(strings.TrimSpace(mobile), "+45")
	if len(m) != 8 {
		return "Xxxx"
	}

	return m[:2] + "****" + m[6:]
}

func MaskName(name string) string {
	if len(name) == 0 {
		return ""
	}
	runes := []rune(name)
	if len(runes) == 1 {
		return "*"
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-1)
}
