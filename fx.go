package gossip

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-gossip/config"
	gossipcore "github.com/dep2p/go-gossip/internal/core/gossip"
)

// buildFxApp 构建 Fx 应用
func buildFxApp(svc *Service, cfg *config.GossipConfig, o *options) *fx.App {
	var modules []fx.Option

	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置与外部依赖
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Supply(cfg))
	if o.registerer != nil {
		reg := o.registerer
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return reg }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. gossip 核心模块
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, gossipcore.Module())

	// ════════════════════════════════════════════════════════════════════════
	// 3. 用户自定义模块
	// ════════════════════════════════════════════════════════════════════════
	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 4. Service 组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Populate(&svc.codec, &svc.filter, &svc.metrics))

	// ════════════════════════════════════════════════════════════════════════
	// 5. Fx 配置
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	return fx.New(modules...)
}
