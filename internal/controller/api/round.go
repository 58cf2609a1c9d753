package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	infmysql "dp-server/internal/infra/mysql"
	infrds "dp-server/internal/infra/redis"
	"dp-server/internal/model"
	"dp-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
	goredis "github.com/redis/go-redis/v9"
)

// RoundController 提供期次信息与开奖结果查询接口
// GET /api/round/:round_id
// 返回 { ok, round_info, draw_result }
// - round_info 与 draw_result 优先从 Redis 读取
// - 缓存均未命中时回源数据库并回填 Redis，期次不存在则 404
// - draw_result 仅在开奖号码已公布后存在

type RoundController struct {
	beego.Controller
}

func (c *RoundController) GetRound() {
	roundID := c.Ctx.Input.Param(":round_id")
	if roundID == "" {
		c.CustomAbort(400, "round_id is required")
		return
	}

	r := infrds.Client()
	if r == nil {
		c.CustomAbort(503, "redis unavailable")
		return
	}

	ctx := context.Background()

	var roundInfo map[string]any
	var drawResult map[string]any

	// 读取期次信息缓存
	if bs, err := r.Get(ctx, infrds.RoundInfoKey(roundID)).Bytes(); err == nil {
		_ = json.Unmarshal(bs, &roundInfo)
	} else if err != goredis.Nil {
		// 非不存在错误，视为服务不可用
		c.CustomAbort(503, "redis error")
		return
	}

	// 读取开奖结果缓存
	if bs, err := r.Get(ctx, infrds.RoundResultKey(roundID)).Bytes(); err == nil {
		_ = json.Unmarshal(bs, &drawResult)
	} else if err != goredis.Nil {
		c.CustomAbort(503, "redis error")
		return
	}

	if roundInfo == nil && drawResult == nil {
		// DB fallback：从数据库读取，并回填 Redis
		rs, err := model.GetRoundSnapshot(ctx, infmysql.SQLX(), roundID)
		if err != nil {
			if err == sql.ErrNoRows {
				c.CustomAbort(404, "round not found")
				return
			}
			c.CustomAbort(503, "db error")
			return
		}
		roundInfo = map[string]any{
			"round_id":   rs.RoundID,
			"status":     rs.Status,
			"expires_at": rs.ExpiresAt,
		}
		if rs.WinningNumbers != "" {
			drawResult = map[string]any{
				"round_id":        rs.RoundID,
				"winning_numbers": rs.WinningNumbers,
				"draw_time":       rs.DrawTime,
			}
		}
		if b, e := json.Marshal(roundInfo); e == nil {
			_ = r.Set(ctx, infrds.RoundInfoKey(roundID), b, 20*time.Second).Err()
		}
		if drawResult != nil {
			if b, e := json.Marshal(drawResult); e == nil {
				_ = r.Set(ctx, infrds.RoundResultKey(roundID), b, 2*time.Minute).Err()
			}
		}
	}

	c.Data["json"] = map[string]any{
		"ok":          true,
		"round_info":  roundInfo,
		"draw_result": drawResult,
	}
	_ = c.ServeJSON()
}

// GetCurrent 查询当前开放期次：GET /api/round/current
// 无开放期次时返回 404
func (c *RoundController) GetCurrent() {
	rd, err := newRoundService().CurrentRound(context.Background())
	if err != nil {
		if errors.Is(err, service.ErrRoundNotFound) {
			c.CustomAbort(404, "no open round")
			return
		}
		c.CustomAbort(503, "db error")
		return
	}

	c.Data["json"] = map[string]any{
		"ok": true,
		"round_info": map[string]any{
			"round_id":   rd.RoundID,
			"status":     rd.Status,
			"expires_at": rd.ExpiresAt,
		},
	}
	_ = c.ServeJSON()
}
