// Package lib 包含基础设施工具库
//
// 本目录包含与架构组件无关的通用工具库：
//
//   - multiaddr: 多地址格式解析与套接字地址转换
//
// # 与 pkg/ 其他目录的关系
//
// pkg/ 目录包含三类内容：
//
//   - interfaces/: 外部协作组件接口
//   - types/: 公共类型定义
//   - lib/: 基础设施工具库（本目录）
package lib
