// Package main 提供 gossipctl 命令行入口
//
// gossipctl 用于检查 gossip 节点记录：
//
//	gossipctl classify /ip4/93.184.216.34/tcp/3000 /ip6/::1/tcp/3000
//	gossipctl encode -addr /ip4/93.184.216.34/tcp/3000 -topic 1:high -topic 2
//	gossipctl decode 0a20...
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	gossip "github.com/dep2p/go-gossip"
	"github.com/dep2p/go-gossip/internal/util/logger"
	"github.com/dep2p/go-gossip/pkg/lib/multiaddr"
	"github.com/dep2p/go-gossip/pkg/types"
)

var log = logger.Logger("gossipctl")

// errUsage 命令行用法错误
var errUsage = errors.New("usage error")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run 解析全局参数并分派子命令
func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("gossipctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configFile := fs.String("config", "", "配置文件路径（JSON 或 YAML）")
	allowPrivate := fs.Bool("allow-private", false, "接受非全局地址")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printHelp(out)
		return fmt.Errorf("%w: missing command", errUsage)
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "version":
		fmt.Fprintln(out, gossip.VersionInfo())
		return nil
	case "help":
		printHelp(out)
		return nil
	}

	opts := []gossip.Option{}
	if *configFile != "" {
		opts = append(opts, gossip.WithConfigFile(*configFile))
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "allow-private" {
			opts = append(opts, gossip.WithAllowPrivateAddresses(*allowPrivate))
		}
	})

	svc, err := gossip.Start(ctx, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Stop(ctx) }()

	switch cmd {
	case "classify":
		return runClassify(svc, cmdArgs, out)
	case "encode":
		return runEncode(svc, cmdArgs, out)
	case "decode":
		return runDecode(svc, cmdArgs, out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// classify
// ═══════════════════════════════════════════════════════════════════════════

func runClassify(svc *gossip.Service, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: classify needs at least one multiaddr", errUsage)
	}

	var errs error
	for _, s := range args {
		addr, err := multiaddr.NewMultiaddr(s)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", s, err))
			continue
		}
		c := svc.Classify(addr)
		fmt.Fprintf(out, "%s\tvalid=%t\tglobal=%t\ttype=%s\n", addr, c.Valid, c.Global, c.Type)
	}
	return errs
}

// ═══════════════════════════════════════════════════════════════════════════
// encode
// ═══════════════════════════════════════════════════════════════════════════

// topicFlags 可重复的 -topic 参数，格式 <topic>[:<interest>]
type topicFlags []types.Subscription

func (t *topicFlags) String() string {
	parts := make([]string, len(*t))
	for i, s := range *t {
		parts[i] = fmt.Sprintf("%d:%s", s.Topic, s.Interest)
	}
	return strings.Join(parts, ",")
}

func (t *topicFlags) Set(v string) error {
	topicStr, interestStr, _ := strings.Cut(v, ":")
	topic, err := strconv.ParseUint(topicStr, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid topic %q: %w", topicStr, err)
	}
	interest, err := types.ParseInterestLevel(interestStr)
	if err != nil {
		return err
	}
	*t = append(*t, types.Subscription{Topic: types.Topic(topic), Interest: interest})
	return nil
}

func runEncode(svc *gossip.Service, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	idStr := fs.String("id", "", "节点 ID（Base58，缺省随机生成）")
	addrStr := fs.String("addr", "", "节点公布的 multiaddr（可选）")
	var topics topicFlags
	fs.Var(&topics, "topic", "订阅 <topic>[:low|normal|high]，可重复")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	p := types.NodeProfile{Subscriptions: topics}
	if *idStr == "" {
		p.ID = types.RandomNodeID()
	} else {
		id, err := types.ParseNodeID(*idStr)
		if err != nil {
			return fmt.Errorf("id %q: %w", *idStr, err)
		}
		p.ID = id
	}
	if *addrStr != "" {
		addr, err := multiaddr.NewMultiaddr(*addrStr)
		if err != nil {
			return fmt.Errorf("addr %q: %w", *addrStr, err)
		}
		p.Addr = addr
	}

	b, err := svc.EncodeProfile(p)
	if err != nil {
		return err
	}
	log.Debug("编码节点记录", "node", p.ID.ShortString(), "bytes", len(b))
	fmt.Fprintln(out, hex.EncodeToString(b))
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// decode
// ═══════════════════════════════════════════════════════════════════════════

func runDecode(svc *gossip.Service, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: decode needs at least one hex record", errUsage)
	}

	var errs error
	for i, s := range args {
		b, err := hex.DecodeString(strings.TrimSpace(s))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		p, err := svc.DecodeProfile(b)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}

		addr := "<none>"
		if p.Addr != nil {
			addr = p.Addr.String()
		}
		fmt.Fprintf(out, "id=%s\taddr=%s\taccepted=%t\n", p.ID, addr, svc.Accepts(p))
		for _, sub := range p.Subscriptions {
			fmt.Fprintf(out, "\ttopic=%s\tinterest=%s\n", sub.Topic, sub.Interest)
		}
	}
	return errs
}

// printHelp 打印帮助信息
func printHelp(out io.Writer) {
	fmt.Fprintln(out, "gossipctl - gossip 节点记录检查工具")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "用法:")
	fmt.Fprintln(out, "  gossipctl [-config path] [-allow-private] <command> [args]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "命令:")
	fmt.Fprintln(out, "  classify <multiaddr>...            地址分类")
	fmt.Fprintln(out, "  encode [-id] [-addr] [-topic]...   编码单条记录，输出十六进制")
	fmt.Fprintln(out, "  decode <hex>...                    解码记录")
	fmt.Fprintln(out, "  version                            显示版本信息")
}
