package state

import "fmt"

// State 期次状态
const (
	StateOpen      = "open"      // 开放购彩
	StatePublished = "published" // 已开奖(开奖号码已公布)
	StateSettled   = "settled"   // 已结算
)

// Event 期次事件
const (
	EvtPublish = "publish"
	EvtSettle  = "settle"
)

// NextState 根据当前状态与事件计算下一个状态，非法转换报错
// 注意：settled --settle--> settled 是合法的，结算允许按相同号码重算
func NextState(cur, evt string) (string, error) {
	switch cur {
	case StateOpen:
		if evt == EvtPublish {
			return StatePublished, nil
		}
	case StatePublished:
		if evt == EvtSettle {
			return StateSettled, nil
		}
	case StateSettled:
		if evt == EvtSettle {
			return StateSettled, nil
		}
	}
	return cur, fmt.Errorf("invalid transition: %s --%s--> ?", cur, evt)
}

// FromStatusCode 数值状态码转字符串状态
func FromStatusCode(code int8) string {
	switch code {
	case 1:
		return StateOpen
	case 2:
		return StatePublished
	case 3:
		return StateSettled
	default:
		return ""
	}
}
