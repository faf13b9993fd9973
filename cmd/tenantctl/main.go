// tenantctl 是 tenantkit 的命令行运维工具。
//
// 用法:
//
//	tenantctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config   配置文件路径 (YAML/JSON)
//	-t, --timeout  命令超时时间 (默认: 10s)
//
// 命令:
//
//	validate            校验配置文件并输出生效配置
//	status <tenant-id>  查询租户启停状态
//	help                显示帮助信息
//
// status 命令说明:
//
//	查询地址优先级：--host > 配置文件 status.host。
//	CLI 为一次性查询，不启用本地缓存与重试，直接反映服务端状态。
//
// 退出码:
//
//	0: 命令执行成功（status 命令: 租户处于启用状态）
//	1: 命令执行失败或租户已停用（status 命令）
//	2: 参数错误（无效租户 ID、缺少必需参数、未知命令等）
//
// 示例:
//
//	tenantctl -c tenantkit.yaml validate
//	tenantctl -c tenantkit.yaml status 11111111-1111-1111-1111-111111111111
//	tenantctl status --host https://tenants.example.com 1111...
//	tenantctl status --host http://localhost:8080 --insecure 1111...
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
)

// defaultTimeout 默认超时时间。
const defaultTimeout = 10 * time.Second

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:    "tenantctl",
		Usage:   "tenantkit 命令行运维工具",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径 (YAML/JSON)",
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Usage:   "命令超时时间",
				Value:   defaultTimeout,
			},
		},
		Commands:       createCommands(),
		DefaultCommand: "help",
		Authors: []any{
			"TenantKit Team",
		},
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射，确保与文档退出码契约一致。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			// ExitCoder 错误（如未知命令）的消息需在此输出，
			// 替代 HandleExitCoder 的默认 os.Exit 行为。
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
		Description: `tenantctl 用于多租户后端的日常运维：
校验 tenantkit 配置文件，以及向租户管理服务查询租户启停状态。

主要命令:
  validate            加载配置文件，应用默认值并校验，输出生效配置
  status <tenant-id>  查询租户启停状态
    --host            租户管理服务地址（优先于配置文件）
    --insecure        允许 http:// 非加密连接（仅开发环境）`,
	}
}

func run() int {
	app := createApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandler(cancel)

	if err := app.Run(ctx, os.Args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		// CLI 框架产生的参数错误（如未知 flag、未知命令）也返回退出码 2，
		// 与文档契约"参数错误 → 退出码 2"保持一致。
		if isCLIUsageError(err) {
			// ExitErrHandler 或 flag 解析器已向 stderr 输出错误详情，此处仅设置退出码
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	return 0
}

// isCLIUsageError 判断错误是否来自 CLI 框架的参数解析。
// urfave/cli 对未知命令返回 ExitCoder，对未知 flag 返回 flag 包的解析错误。
func isCLIUsageError(err error) bool {
	if _, ok := err.(cli.ExitCoder); ok {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "flag provided but not defined") ||
		strings.Contains(msg, "flag needs an argument")
}
