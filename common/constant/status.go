package constant

// deposit status 充值单状态（单向流转：待审核 → 已通过/已拒绝）
const (
	DepositPending  = 1 // 待审核
	DepositApproved = 2 // 已通过，计入余额
	DepositRejected = 3 // 已拒绝
)

var DepositStatusDesc = map[int]string{
	DepositPending:  "pending",
	DepositApproved: "approved",
	DepositRejected: "rejected",
}

func GetDepositStatusDesc(status int) string {
	if desc, exists := DepositStatusDesc[status]; exists {
		return desc
	}
	return "unknown"
}

// round status 期次状态
const (
	RoundOpen      = 1 // 开放购彩
	RoundPublished = 2 // 已开奖
	RoundSettled   = 3 // 已结算
)

var RoundStatusDesc = map[int]string{
	RoundOpen:      "open",
	RoundPublished: "published",
	RoundSettled:   "settled",
}

func GetRoundStatusDesc(status int) string {
	if desc, exists := RoundStatusDesc[status]; exists {
		return desc
	}
	return "unknown"
}

// player status
const (
	PlayerActive   = 1 // 正常
	PlayerDisabled = 2 // 禁用，不能购彩
)
