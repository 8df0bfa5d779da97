package app

import (
	"errors"
	"fmt"

	"github.com/stockflow/internal/config"
	"github.com/stockflow/internal/logger"
	"github.com/stockflow/internal/provider"
	"github.com/stockflow/internal/router"
	"github.com/stockflow/internal/worker"
)

// BuildRunner 构建服务运行器，返回的 cleanup 用于释放容器资源
func BuildRunner(cfg *config.Config, mode string) (*Runner, func(), error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	if mode == "" {
		mode = ModeAll
	}
	if mode != ModeAll && mode != ModeAPI && mode != ModeWorker {
		return nil, nil, fmt.Errorf("unknown mode: %s", mode)
	}

	container := provider.NewContainer(cfg)
	if container.DB == nil {
		container.Close()
		return nil, nil, errors.New("database not initialized")
	}

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Addr(), engine))
	}

	// 初始化报表预热 Worker；all 模式下队列未启用时跳过
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		if err != nil {
			container.Close()
			return nil, nil, err
		}
		services = append(services, workerService)
	} else if mode == ModeAll {
		logger.Infow("worker_skipped", "reason", "queue_disabled")
	}

	return NewRunner(services...), container.Close, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, cleanup, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer cleanup()

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
