package redis

// Redis Key 定义与构造器
// 统一管理业务使用的 Redis Key，避免散落的魔法字符串，便于统一维护与变更。

const (
	// PrefixPurchaseIdemResult：购彩幂等“结果缓存”Key 的前缀。
	// 作用：缓存某个 idempotency key 对应的第一次成功结果（PurchaseOutput JSON），用于后续重复请求直接返回。
	PrefixPurchaseIdemResult = "board:idem:result:"
	// PrefixPurchaseIdemLock：购彩幂等“进行中锁”Key 的前缀。
	// 作用：使用 SETNX + TTL 标记 idempotency key 正在处理，吸收瞬时重复请求，减轻数据库压力。
	PrefixPurchaseIdemLock = "board:idem:lock:"

	// PrefixRoundInfo：期次信息缓存（购彩截止时间等），用于前端倒计时等快速查询
	PrefixRoundInfo = "round:info:"
	// PrefixRoundResult：开奖号码缓存
	PrefixRoundResult = "round:result:"

	// PrefixTokenBlacklist：已注销 token 黑名单
	PrefixTokenBlacklist = "auth:token:blacklist:"
)

// IdemResultKey：构造幂等“结果缓存”的完整 Key。
// 形如：board:idem:result:{idempotency_key}
func IdemResultKey(k string) string { return PrefixPurchaseIdemResult + k }

// IdemLockKey：构造幂等“进行中锁”的完整 Key。
// 形如：board:idem:lock:{idempotency_key}
func IdemLockKey(k string) string { return PrefixPurchaseIdemLock + k }

// RoundInfoKey：构造期次信息缓存 Key。形如：round:info:{round_id}
func RoundInfoKey(roundID string) string { return PrefixRoundInfo + roundID }

// RoundResultKey：构造开奖号码缓存 Key。形如：round:result:{round_id}
func RoundResultKey(roundID string) string { return PrefixRoundResult + roundID }

// TokenBlacklistKey：构造注销 token 黑名单 Key
func TokenBlacklistKey(jti string) string { return PrefixTokenBlacklist + jti }
