package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"dp-server/common"
	"dp-server/common/logger"
	"dp-server/internal/config"
	infmysql "dp-server/internal/infra/mysql"
	infrds "dp-server/internal/infra/redis"
	"dp-server/internal/worker"
	_ "dp-server/routers"

	beego "github.com/beego/beego/v2/server/web"
	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. 加载配置（Nacos > etcd > 本地文件）
	cfg, err := config.Load(rootCtx)
	if err != nil {
		fmt.Printf("[Boot] 配置加载失败: %v\n", err)
		panic(err)
	}
	config.Set(cfg)
	config.SetCurrent(cfg)

	// 2. 初始化日志
	logger.InitLogger()
	defer logger.Sync()
	if cfg.Server.LogLevel != "" {
		logger.SetLevel(cfg.Server.LogLevel)
	}
	logger.Info("[Boot] 配置与日志已就绪", zap.Int("port", cfg.Server.Port))

	// 3. 初始化 MySQL（sqlx 连接池，注入全局句柄）
	db := common.InitDB(cfg.Database.DSN, cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns)
	infmysql.UseDB(db.DB)

	// 4. 初始化 Redis（幂等锁/结果缓存/限流/令牌黑名单）
	infrds.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := infrds.Ping(rootCtx, 2*time.Second); err != nil {
		logger.Warn("[Boot] Redis ping 失败，降级启动", zap.Error(err))
	}

	// 5. 配置热更新监听（仅 Nacos 配置源下生效）
	if err := config.StartWatch(rootCtx, func(oldCfg, newCfg *config.Config) {
		config.Set(newCfg)
		if newCfg.Server.LogLevel != "" && (oldCfg == nil || oldCfg.Server.LogLevel != newCfg.Server.LogLevel) {
			logger.SetLevel(newCfg.Server.LogLevel)
		}
		logger.Info("[Boot] 动态配置已生效",
			zap.Int("repeat_max_rounds", newCfg.Lottery.RepeatMaxRounds),
			zap.Bool("enforce_cutoff", newCfg.Lottery.EnforceCutoff))
	}); err != nil {
		logger.Warn("[Boot] 配置监听启动失败", zap.Error(err))
	}

	// 6. 启动后台 worker：Outbox 分发 + MQ 消费落库
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	worker.StartOutboxDispatcher(workerCtx, &wg)
	worker.StartInboxConsumer(workerCtx, &wg)

	// 7. Prometheus 指标端口（与业务端口分离）
	if cfg.Observability.EnableProm {
		promAddr := cfg.Observability.PromAddr
		if promAddr == "" {
			promAddr = ":9100"
		}
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("[Boot] Prometheus 指标服务启动", zap.String("addr", promAddr))
			if err := http.ListenAndServe(promAddr, mux); err != nil {
				logger.Error("[Boot] 指标服务退出", zap.Error(err))
			}
		}()
	}

	// 8. 启动 HTTP 服务
	beego.BConfig.CopyRequestBody = true
	beego.BConfig.RunMode = beego.PROD
	if cfg.Server.Port > 0 {
		beego.BConfig.Listen.HTTPPort = cfg.Server.Port
	}
	go func() {
		beego.Run()
	}()
	logger.Info("[Boot] HTTP 服务已启动", zap.Int("port", beego.BConfig.Listen.HTTPPort))

	// 等待退出信号，按序停 worker
	<-rootCtx.Done()
	logger.Info("[Boot] 收到退出信号，开始优雅关闭")

	cancelWorkers()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		logger.Warn("[Boot] worker 关闭超时，强制退出")
	}

	_ = db.Close()
	logger.Info("[Boot] 进程退出")
}
