package gossip

import "errors"

// 公共错误定义
var (
	// ErrNotStarted 服务未启动
	ErrNotStarted = errors.New("gossip service not started")

	// ErrAlreadyStarted 服务已启动
	ErrAlreadyStarted = errors.New("gossip service already started")

	// ErrNoTopology 未配置拓扑组件
	ErrNoTopology = errors.New("gossip service has no topology")
)
