package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/tenantkit/pkg/business/xstatus"
	"github.com/omeyang/tenantkit/pkg/config/xconf"
)

// exitError 表示需要非零退出码但已完成输出的场景。
// 命令内部已完成所有输出，main 只需设置退出码。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }

// usageError 表示调用方参数错误，映射到退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createValidateCommand(),
		createStatusCommand(),
	}
}

// createValidateCommand 创建 validate 子命令。
func createValidateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "校验配置文件并输出生效配置",
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdValidate(cmd.String("config"))
		},
	}
}

// createStatusCommand 创建 status 子命令。
func createStatusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Aliases:   []string{"s"},
		Usage:     "查询租户启停状态",
		ArgsUsage: "<tenant-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "租户管理服务地址（优先于配置文件）",
			},
			&cli.BoolFlag{
				Name:  "insecure",
				Usage: "允许 http:// 非加密连接（仅开发环境）",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdStatus(ctx, statusOptions{
				configPath: cmd.String("config"),
				host:       cmd.String("host"),
				insecure:   cmd.Bool("insecure"),
				timeout:    cmd.Duration("timeout"),
				args:       cmd.Args().Slice(),
			})
		},
	}
}

// cmdValidate 加载配置文件，应用默认值并校验，输出生效配置。
func cmdValidate(configPath string) error {
	if configPath == "" {
		return &usageError{msg: "validate 命令需要通过 --config 指定配置文件"}
	}

	settings, err := xconf.LoadSettings(configPath)
	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	fmt.Printf("配置有效: %s\n", configPath)
	fmt.Printf("系统租户: %s\n", settings.SystemTenant())
	fmt.Printf("状态服务: %s (超时: %s, 缓存: %s)\n",
		settings.Status.Host, settings.Status.Timeout, settings.Status.CacheTTL)
	if len(settings.Cache.Caches) > 0 {
		fmt.Printf("缓存列表: %s\n", strings.Join(settings.Cache.Caches, ", "))
	}
	if settings.Cache.WarmUpSchedule != "" {
		fmt.Printf("预热计划: %s\n", settings.Cache.WarmUpSchedule)
	}
	fmt.Printf("审计流: %s (上限: %d)\n", settings.Guard.AuditStream, settings.Guard.AuditMaxLen)
	return nil
}

// statusOptions 汇总 status 命令的入参。
type statusOptions struct {
	configPath string
	host       string
	insecure   bool
	timeout    time.Duration
	args       []string
}

// cmdStatus 查询租户启停状态。
// 设计决策: 租户停用时返回非零退出码（通过 exitError），
// 使脚本和探针能直接根据退出码判断租户状态。
func cmdStatus(ctx context.Context, opts statusOptions) error {
	if len(opts.args) != 1 {
		return &usageError{msg: "status 命令需要且仅需要一个租户 ID 参数"}
	}

	tenantID, err := uuid.Parse(opts.args[0])
	if err != nil {
		return &usageError{msg: fmt.Sprintf("无效的租户 ID %q: %v", opts.args[0], err)}
	}

	cfg, err := resolveStatusConfig(opts)
	if err != nil {
		return err
	}

	client, err := xstatus.NewClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	active, err := client.IsActive(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("查询租户状态失败: %w", err)
	}

	fmt.Printf("租户: %s\n", tenantID)
	if !active {
		fmt.Printf("状态: 停用\n")
		return &exitError{code: 1}
	}
	fmt.Printf("状态: 启用\n")
	return nil
}

// resolveStatusConfig 解析状态查询配置。
// 地址优先级：--host > 配置文件 status.host。
// CLI 为一次性查询，禁用本地缓存与重试。
func resolveStatusConfig(opts statusOptions) (xstatus.Config, error) {
	cfg := xstatus.Config{
		Host:          opts.host,
		AllowInsecure: opts.insecure,
		Timeout:       opts.timeout,
		CacheTTL:      -1,
		MaxAttempts:   1,
	}

	if cfg.Host == "" {
		if opts.configPath == "" {
			return xstatus.Config{}, &usageError{msg: "status 命令需要通过 --host 或 --config 指定服务地址"}
		}
		settings, err := xconf.LoadSettings(opts.configPath)
		if err != nil {
			return xstatus.Config{}, fmt.Errorf("加载配置失败: %w", err)
		}
		cfg.Host = settings.Status.Host
		cfg.AllowInsecure = settings.Status.AllowInsecure || opts.insecure
	}

	return cfg, nil
}

// setupSignalHandler 设置信号处理。
// 设计决策: 第一次信号优雅取消，第二次信号强制退出（退出码 130 = 128 + SIGINT）。
// 当命令阻塞时，用户可通过再次 Ctrl+C 强制退出。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel() // 第一次信号: 优雅取消

		<-sigCh
		signal.Stop(sigCh) // 回收订阅
		os.Exit(130)       // 第二次信号: 强制退出
	}()
}
