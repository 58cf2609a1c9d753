package routers

import (
	"dp-server/internal/controller/api"
	"dp-server/internal/metrics"
	"dp-server/internal/middleware"

	beego "github.com/beego/beego/v2/server/web"
)

// init 注册HTTP路由与全局过滤器
// 配置在 main 中加载晚于包初始化，CORS/限流开关由过滤器在请求时自查
func init() {
	// 全局过滤器（按执行顺序）
	// 1. Panic Recovery（最先执行，捕获所有 panic）
	beego.InsertFilter("/*", beego.BeforeRouter, middleware.RecoveryFilter)

	// 2. 请求ID注入
	beego.InsertFilter("/*", beego.BeforeRouter, middleware.RequestIDFilter)

	// 3. CORS 处理（启用与否由过滤器内部判断）
	beego.InsertFilter("/*", beego.BeforeExec, middleware.CORSFilter)

	// 4. HTTP 指标收集
	beego.InsertFilter("/*", beego.BeforeExec, metrics.HTTPMetricsFilter)
	beego.InsertFilter("/*", beego.FinishRouter, metrics.HTTPMetricsAfter)

	// 健康检查（无需认证）
	beego.Router("/healthz", &api.HealthController{}, "get:Healthz")
	beego.Router("/readyz", &api.HealthController{}, "get:Readyz")

	// 登录/注销（无需认证）
	beego.Router("/api/auth/login", &api.AuthController{}, "post:Login")
	beego.Router("/api/auth/logout", &api.AuthController{}, "post:Logout")

	// 期次查询（公开只读）
	beego.Router("/api/round/current", &api.RoundController{}, "get:GetCurrent")
	beego.Router("/api/round/:round_id", &api.RoundController{}, "get:GetRound")

	// ========== 会员 API（JWT 会员令牌） ==========

	// 购板接口：会员认证 + 限流
	beego.InsertFilter("/api/purchase", beego.BeforeExec, middleware.PlayerAuthFilter)
	beego.InsertFilter("/api/purchase", beego.BeforeExec, middleware.RateLimitFilter)
	beego.Router("/api/purchase", &api.PurchaseController{}, "post:Purchase")

	// 会员自助查询（只能查询自己的数据）
	beego.InsertFilter("/api/player/*", beego.BeforeExec, middleware.PlayerAuthFilter)
	beego.Router("/api/player/balance", &api.PlayerController{}, "get:Balance")
	beego.Router("/api/player/boards", &api.PlayerController{}, "get:Boards")
	beego.Router("/api/player/deposits", &api.PlayerController{}, "get:Deposits")
	beego.Router("/api/player/deposit", &api.PlayerController{}, "get:Deposit")

	// 充值提交：会员认证 + 限流
	beego.InsertFilter("/api/deposit", beego.BeforeExec, middleware.PlayerAuthFilter)
	beego.InsertFilter("/api/deposit", beego.BeforeExec, middleware.RateLimitFilter)
	beego.Router("/api/deposit", &api.DepositController{}, "post:Submit")

	// ========== 管理 API（JWT 管理员令牌） ==========

	beego.InsertFilter("/api/admin/*", beego.BeforeExec, middleware.AdminAuthFilter)
	beego.Router("/api/admin/round", &api.AdminController{}, "post:CreateRound")
	beego.Router("/api/admin/publish", &api.PublishController{}, "post:Publish")
	beego.Router("/api/admin/settle", &api.SettleController{}, "post:Settle")
	beego.Router("/api/admin/payout_overview", &api.AdminController{}, "get:PayoutOverview")
	beego.Router("/api/admin/settlement", &api.AdminController{}, "get:SettlementInfo")
	beego.Router("/api/admin/deposits", &api.AdminController{}, "get:ListDeposits")
	beego.Router("/api/admin/deposit/review", &api.AdminController{}, "patch:ReviewDeposit")

	// 会员与操作员管理（会员不开放自助注册，由后台开户）
	beego.Router("/api/admin/player", &api.AdminPlayerController{}, "post:Create")
	beego.Router("/api/admin/players", &api.AdminPlayerController{}, "get:List")
	beego.Router("/api/admin/player/status", &api.AdminPlayerController{}, "patch:Status")
	beego.Router("/api/admin/operator", &api.AdminPlayerController{}, "post:CreateOperator")
}
