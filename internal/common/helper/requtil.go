package helper

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	beegocontext "github.com/beego/beego/v2/server/web/context"
)

// IsJSONContentType 判断是否为 JSON 请求
func IsJSONContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.Contains(ct, "json")
}

// 金额格式校验：非负，最多两位小数（预编译正则）
var moneyRe = regexp.MustCompile(`^(?:0|[1-9]\d*)(?:\.\d{1,2})?$`)

// IsMoneyFormat 判断金额格式
func IsMoneyFormat(s string) bool {
	return moneyRe.MatchString(strings.TrimSpace(s))
}

// 默认输入保护参数
const (
	defaultJSONMaxBytes int64         = 1 << 20 // 1MB
	defaultParseTimeout time.Duration = 1 * time.Second
)

type deadlineReader struct {
	r        io.Reader
	deadline time.Time
}

func (dr *deadlineReader) Read(p []byte) (int, error) {
	if time.Now().After(dr.deadline) {
		return 0, fmt.Errorf("read timeout")
	}
	return dr.r.Read(p)
}

// jsonBodyReader 在 JSON 分支下为请求体增加大小限制与解析超时保护
func jsonBodyReader(ctx *beegocontext.Context) io.Reader {
	lr := io.LimitReader(ctx.Request.Body, defaultJSONMaxBytes)
	return &deadlineReader{r: lr, deadline: time.Now().Add(defaultParseTimeout)}
}

// GetTraceID 统一提取 trace_id：优先从中间件注入的数据取，其次从常见请求头降级
func GetTraceID(ctx *beegocontext.Context) string {
	if v := ctx.Input.GetData("trace_id"); v != nil {
		return fmt.Sprint(v)
	}
	if h := strings.TrimSpace(ctx.Input.Header("X-Trace-ID")); h != "" {
		return h
	}
	if h := strings.TrimSpace(ctx.Input.Header("Trace-Id")); h != "" {
		return h
	}
	return ""
}

// GetContextString 从中间件注入的数据中取字符串（如 player_id / admin_username）
func GetContextString(ctx *beegocontext.Context, key string) string {
	if v := ctx.Input.GetData(key); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// parseByContentType 按 Content-Type 选择解析函数，减少重复 if/else 分支
func parseByContentType[T any](ctx *beegocontext.Context,
	jsonParser func(io.Reader) (T, bool, string),
	formParser func(*beegocontext.Context) (T, bool, string),
) (T, bool, string) {
	ct := ctx.Input.Header("Content-Type")
	if IsJSONContentType(ct) {
		return jsonParser(jsonBodyReader(ctx))
	}
	return formParser(ctx)
}

// parseNumbersCSV 解析表单中的号码串（如 "1,4,9,12,16"）为整型切片
func parseNumbersCSV(s string) ([]int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	parts := strings.Split(s, ",")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, false
		}
		nums = append(nums, n)
	}
	return nums, true
}

// -------- Purchase helpers --------

// PurchaseParsed 为解析后的购彩入参（与控制器/服务层解耦）
// 注意：player_id 不在请求体中，由认证中间件从 Token 解出
type PurchaseParsed struct {
	RoundId      string `json:"round_id"`
	Numbers      []int  `json:"numbers"`
	RepeatRounds int    `json:"repeat_rounds"`
	/*
		幂等键：客户端生成并随请求传入，用于在网络重试/超时重发/服务端重试时保证"同一业务请求只生效一次"。
		使用约定：
		- 对于"同一次购彩"的所有重试，请传相同的 idempotency_key；
		- 业务语义不同（如号码/期次/会员不同）的请求必须使用不同的 key；
		- 建议生成方式：UUID（推荐）。
		服务端幂等保证（多层防护）：
		1) Redis 进行中锁（约45秒）：并发重复请求直接返回 202，并携带 Retry-After: 1；
		2) MySQL 唯一键：在事务内先插入 idempotency_keys(idempotency_key)，若已存在则视为重复请求，返回首次请求的结果；
		3) 结果缓存：首次成功结果会写入 Redis（短期缓存），后续重复可直接读缓存快速返回。
	*/
	IdempotencyKey string `json:"idempotency_key"`
}

// ParsePurchaseFromJSON 解析 JSON 到 PurchaseParsed。失败返回 false 与错误消息。
func ParsePurchaseFromJSON(r io.Reader) (PurchaseParsed, bool, string) {
	var out PurchaseParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return PurchaseParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

// ParsePurchaseFromForm 从表单读取字段并做强校验，返回 PurchaseParsed。
func ParsePurchaseFromForm(ctx *beegocontext.Context) (PurchaseParsed, bool, string) {
	var out PurchaseParsed
	out.RoundId = strings.TrimSpace(ctx.Input.Query("round_id"))
	if out.RoundId == "" {
		return PurchaseParsed{}, false, "round_id required"
	}

	nums, ok := parseNumbersCSV(ctx.Input.Query("numbers"))
	if !ok {
		return PurchaseParsed{}, false, "numbers must be a comma separated list of integers"
	}
	out.Numbers = nums

	if rr := strings.TrimSpace(ctx.Input.Query("repeat_rounds")); rr != "" {
		n, err := strconv.Atoi(rr)
		if err != nil || n < 0 {
			return PurchaseParsed{}, false, "repeat_rounds must be a non-negative integer"
		}
		out.RepeatRounds = n
	}

	out.IdempotencyKey = strings.TrimSpace(ctx.Input.Query("idempotency_key"))
	if out.IdempotencyKey == "" {
		return PurchaseParsed{}, false, "idempotency_key required"
	}
	return out, true, ""
}

// ValidatePurchase 对通用字段做二次校验（适用于 JSON 与 FORM）。
// 号码的业务规则（个数/范围/去重）由服务层校验，这里只做输入保护。
func ValidatePurchase(in *PurchaseParsed) (bool, string) {
	if in.RoundId == "" || len(in.Numbers) == 0 || in.IdempotencyKey == "" {
		return false, "missing or invalid fields"
	}
	// 额外长度保护，避免异常超长输入
	if len(in.RoundId) > 64 || len(in.IdempotencyKey) > 64 || len(in.Numbers) > 32 {
		return false, "invalid request"
	}
	if in.RepeatRounds < 0 || in.RepeatRounds > 100 {
		return false, "repeat_rounds out of range"
	}
	return true, ""
}

// ParseAndValidatePurchase 按 Content-Type 自动解析并做统一校验
func ParseAndValidatePurchase(ctx *beegocontext.Context) (PurchaseParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParsePurchaseFromJSON, ParsePurchaseFromForm)
	if !ok {
		return PurchaseParsed{}, false, msg
	}
	if ok, msg := ValidatePurchase(&out); !ok {
		return PurchaseParsed{}, false, msg
	}
	return out, true, ""
}

// -------- Publish helpers --------

type PublishParsed struct {
	RoundId string `json:"round_id"`
	Numbers []int  `json:"numbers"` // 开奖号码，恰好3个
}

func ParsePublishFromJSON(r io.Reader) (PublishParsed, bool, string) {
	var out PublishParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return PublishParsed{}, false, "invalid request"
	}
	return out, true, ""
}

func ParsePublishFromForm(ctx *beegocontext.Context) (PublishParsed, bool, string) {
	var out PublishParsed
	out.RoundId = strings.TrimSpace(ctx.Input.Query("round_id"))
	nums, ok := parseNumbersCSV(ctx.Input.Query("numbers"))
	if !ok {
		return PublishParsed{}, false, "numbers must be a comma separated list of integers"
	}
	out.Numbers = nums
	return out, true, ""
}

func ValidatePublish(in *PublishParsed) (bool, string) {
	if in.RoundId == "" || len(in.Numbers) == 0 {
		return false, "invalid request"
	}
	if len(in.RoundId) > 64 {
		return false, "invalid request"
	}
	if len(in.Numbers) != 3 {
		return false, "numbers must contain exactly 3 values"
	}
	return true, ""
}

// ParseAndValidatePublish 按 Content-Type 自动解析并校验
func ParseAndValidatePublish(ctx *beegocontext.Context) (PublishParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParsePublishFromJSON, ParsePublishFromForm)
	if !ok {
		return PublishParsed{}, false, msg
	}
	if ok, msg := ValidatePublish(&out); !ok {
		return PublishParsed{}, false, msg
	}
	return out, true, ""
}

// -------- Settle helpers --------

type SettleParsed struct {
	RoundId string `json:"round_id"`
}

func ParseSettleFromJSON(r io.Reader) (SettleParsed, bool, string) {
	var out SettleParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return SettleParsed{}, false, "invalid request"
	}
	return out, true, ""
}

func ParseSettleFromForm(ctx *beegocontext.Context) (SettleParsed, bool, string) {
	var out SettleParsed
	out.RoundId = strings.TrimSpace(ctx.Input.Query("round_id"))
	return out, true, ""
}

func ValidateSettle(in *SettleParsed) (bool, string) {
	if strings.TrimSpace(in.RoundId) == "" || len(in.RoundId) > 64 {
		return false, "invalid request"
	}
	return true, ""
}

func ParseAndValidateSettle(ctx *beegocontext.Context) (SettleParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseSettleFromJSON, ParseSettleFromForm)
	if !ok {
		return SettleParsed{}, false, msg
	}
	if ok, msg := ValidateSettle(&out); !ok {
		return SettleParsed{}, false, msg
	}
	return out, true, ""
}

// -------- Deposit helpers --------

type DepositParsed struct {
	PayRef string `json:"pay_ref"`
	Amount string `json:"amount"`
}

func ParseDepositFromJSON(r io.Reader) (DepositParsed, bool, string) {
	var out DepositParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return DepositParsed{}, false, "invalid request"
	}
	return out, true, ""
}

func ParseDepositFromForm(ctx *beegocontext.Context) (DepositParsed, bool, string) {
	var out DepositParsed
	out.PayRef = strings.TrimSpace(ctx.Input.Query("pay_ref"))
	out.Amount = strings.TrimSpace(ctx.Input.Query("amount"))
	return out, true, ""
}

func ValidateDeposit(in *DepositParsed) (bool, string) {
	in.PayRef = strings.TrimSpace(in.PayRef)
	in.Amount = strings.TrimSpace(in.Amount)
	if in.PayRef == "" || len(in.PayRef) > 64 {
		return false, "pay_ref required"
	}
	if in.Amount == "" || len(in.Amount) > 32 || !IsMoneyFormat(in.Amount) {
		return false, "amount must be numeric with up to 2 decimals"
	}
	return true, ""
}

func ParseAndValidateDeposit(ctx *beegocontext.Context) (DepositParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseDepositFromJSON, ParseDepositFromForm)
	if !ok {
		return DepositParsed{}, false, msg
	}
	if ok, msg := ValidateDeposit(&out); !ok {
		return DepositParsed{}, false, msg
	}
	return out, true, ""
}

// -------- Deposit review helpers --------

type DepositReviewParsed struct {
	DepositId string `json:"deposit_id"`
	Action    string `json:"action"` // approve | reject
}

func ParseDepositReviewFromJSON(r io.Reader) (DepositReviewParsed, bool, string) {
	var out DepositReviewParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return DepositReviewParsed{}, false, "invalid request"
	}
	return out, true, ""
}

func ParseDepositReviewFromForm(ctx *beegocontext.Context) (DepositReviewParsed, bool, string) {
	var out DepositReviewParsed
	out.DepositId = strings.TrimSpace(ctx.Input.Query("deposit_id"))
	out.Action = strings.TrimSpace(ctx.Input.Query("action"))
	return out, true, ""
}

func ValidateDepositReview(in *DepositReviewParsed) (bool, string) {
	in.Action = strings.ToLower(strings.TrimSpace(in.Action))
	if strings.TrimSpace(in.DepositId) == "" || len(in.DepositId) > 64 {
		return false, "deposit_id required"
	}
	if in.Action != "approve" && in.Action != "reject" {
		return false, "action must be approve|reject"
	}
	return true, ""
}

func ParseAndValidateDepositReview(ctx *beegocontext.Context) (DepositReviewParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseDepositReviewFromJSON, ParseDepositReviewFromForm)
	if !ok {
		return DepositReviewParsed{}, false, msg
	}
	if ok, msg := ValidateDepositReview(&out); !ok {
		return DepositReviewParsed{}, false, msg
	}
	return out, true, ""
}

// -------- Round create helpers --------

type RoundCreateParsed struct {
	ExpiresAt int64 `json:"expires_at"` // 毫秒时间戳，0=默认本周六17:00
}

func ParseRoundCreateFromJSON(r io.Reader) (RoundCreateParsed, bool, string) {
	var out RoundCreateParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return RoundCreateParsed{}, false, "invalid request"
	}
	return out, true, ""
}

func ParseRoundCreateFromForm(ctx *beegocontext.Context) (RoundCreateParsed, bool, string) {
	var out RoundCreateParsed
	if ts := strings.TrimSpace(ctx.Input.Query("expires_at")); ts != "" {
		v, err := strconv.ParseInt(ts, 10, 64)
		if err != nil || v < 0 {
			return RoundCreateParsed{}, false, "expires_at must be a millisecond timestamp"
		}
		out.ExpiresAt = v
	}
	return out, true, ""
}

func ParseAndValidateRoundCreate(ctx *beegocontext.Context) (RoundCreateParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseRoundCreateFromJSON, ParseRoundCreateFromForm)
	if !ok {
		return RoundCreateParsed{}, false, msg
	}
	if out.ExpiresAt < 0 {
		return RoundCreateParsed{}, false, "expires_at must be a millisecond timestamp"
	}
	return out, true, ""
}

// -------- Player create helpers --------

type PlayerCreateParsed struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

func ParsePlayerCreateFromJSON(r io.Reader) (PlayerCreateParsed, bool, string) {
	var out PlayerCreateParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return PlayerCreateParsed{}, false, "invalid request"
	}
	return out, true, ""
}

func ParsePlayerCreateFromForm(ctx *beegocontext.Context) (PlayerCreateParsed, bool, string) {
	var out PlayerCreateParsed
	out.FirstName = strings.TrimSpace(ctx.Input.Query("first_name"))
	out.LastName = strings.TrimSpace(ctx.Input.Query("last_name"))
	out.Email = strings.TrimSpace(ctx.Input.Query("email"))
	out.Phone = strings.TrimSpace(ctx.Input.Query("phone"))
	out.Password = ctx.Input.Query("password")
	return out, true, ""
}

// ValidatePlayerCreate 输入保护；邮箱/手机号/密码强度由服务层校验
func ValidatePlayerCreate(in *PlayerCreateParsed) (bool, string) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.FirstName == "" && in.LastName == "" {
		return false, "first_name or last_name required"
	}
	if len(in.FirstName) > 64 || len(in.LastName) > 64 {
		return false, "name too long"
	}
	if in.Email == "" || len(in.Email) > 128 {
		return false, "email required"
	}
	if len(in.Phone) > 16 {
		return false, "invalid phone"
	}
	if in.Password == "" || len(in.Password) > 128 {
		return false, "password required"
	}
	return true, ""
}

func ParseAndValidatePlayerCreate(ctx *beegocontext.Context) (PlayerCreateParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParsePlayerCreateFromJSON, ParsePlayerCreateFromForm)
	if !ok {
		return PlayerCreateParsed{}, false, msg
	}
	if ok, msg := ValidatePlayerCreate(&out); !ok {
		return PlayerCreateParsed{}, false, msg
	}
	return out, true, ""
}

// -------- Player status helpers --------

type PlayerStatusParsed struct {
	PlayerId string `json:"player_id"`
	Action   string `json:"action"` // enable | disable
}

func ParsePlayerStatusFromJSON(r io.Reader) (PlayerStatusParsed, bool, string) {
	var out PlayerStatusParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return PlayerStatusParsed{}, false, "invalid request"
	}
	return out, true, ""
}

func ParsePlayerStatusFromForm(ctx *beegocontext.Context) (PlayerStatusParsed, bool, string) {
	var out PlayerStatusParsed
	out.PlayerId = strings.TrimSpace(ctx.Input.Query("player_id"))
	out.Action = strings.TrimSpace(ctx.Input.Query("action"))
	return out, true, ""
}

func ValidatePlayerStatus(in *PlayerStatusParsed) (bool, string) {
	in.Action = strings.ToLower(strings.TrimSpace(in.Action))
	if strings.TrimSpace(in.PlayerId) == "" || len(in.PlayerId) > 64 {
		return false, "player_id required"
	}
	if in.Action != "enable" && in.Action != "disable" {
		return false, "action must be enable|disable"
	}
	return true, ""
}

func ParseAndValidatePlayerStatus(ctx *beegocontext.Context) (PlayerStatusParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParsePlayerStatusFromJSON, ParsePlayerStatusFromForm)
	if !ok {
		return PlayerStatusParsed{}, false, msg
	}
	if ok, msg := ValidatePlayerStatus(&out); !ok {
		return PlayerStatusParsed{}, false, msg
	}
	return out, true, ""
}

// -------- Operator create helpers --------

type OperatorCreateParsed struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func ParseOperatorCreateFromJSON(r io.Reader) (OperatorCreateParsed, bool, string) {
	var out OperatorCreateParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return OperatorCreateParsed{}, false, "invalid request"
	}
	return out, true, ""
}

func ParseOperatorCreateFromForm(ctx *beegocontext.Context) (OperatorCreateParsed, bool, string) {
	var out OperatorCreateParsed
	out.Username = strings.TrimSpace(ctx.Input.Query("username"))
	out.Password = ctx.Input.Query("password")
	return out, true, ""
}

func ValidateOperatorCreate(in *OperatorCreateParsed) (bool, string) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || len(in.Username) > 64 {
		return false, "username required"
	}
	if in.Password == "" || len(in.Password) > 128 {
		return false, "password required"
	}
	return true, ""
}

func ParseAndValidateOperatorCreate(ctx *beegocontext.Context) (OperatorCreateParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseOperatorCreateFromJSON, ParseOperatorCreateFromForm)
	if !ok {
		return OperatorCreateParsed{}, false, msg
	}
	if ok, msg := ValidateOperatorCreate(&out); !ok {
		return OperatorCreateParsed{}, false, msg
	}
	return out, true, ""
}

// -------- Login helpers --------

type LoginParsed struct {
	Role     string `json:"role"` // player | admin
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func ParseLoginFromJSON(r io.Reader) (LoginParsed, bool, string) {
	var out LoginParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return LoginParsed{}, false, "invalid request"
	}
	return out, true, ""
}

func ParseLoginFromForm(ctx *beegocontext.Context) (LoginParsed, bool, string) {
	var out LoginParsed
	out.Role = strings.TrimSpace(ctx.Input.Query("role"))
	out.Email = strings.TrimSpace(ctx.Input.Query("email"))
	out.Username = strings.TrimSpace(ctx.Input.Query("username"))
	out.Password = ctx.Input.Query("password")
	return out, true, ""
}

func ValidateLogin(in *LoginParsed) (bool, string) {
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if in.Role == "" {
		in.Role = "player"
	}
	if in.Role != "player" && in.Role != "admin" {
		return false, "role must be player|admin"
	}
	if in.Password == "" || len(in.Password) > 128 {
		return false, "password required"
	}
	if in.Role == "player" {
		if strings.TrimSpace(in.Email) == "" || len(in.Email) > 128 {
			return false, "email required"
		}
	} else {
		if strings.TrimSpace(in.Username) == "" || len(in.Username) > 64 {
			return false, "username required"
		}
	}
	return true, ""
}

func ParseAndValidateLogin(ctx *beegocontext.Context) (LoginParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseLoginFromJSON, ParseLoginFromForm)
	if !ok {
		return LoginParsed{}, false, msg
	}
	if ok, msg := ValidateLogin(&out); !ok {
		return LoginParsed{}, false, msg
	}
	return out, true, ""
}
