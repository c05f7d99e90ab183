package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/crypto-navi/api/internal/app"
	"github.com/crypto-navi/api/internal/config"
	"github.com/crypto-navi/api/internal/logger"
	"github.com/crypto-navi/api/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiGreen = "\033[32m"
	ansiBlue  = "\033[34m"
	ansiCyan  = "\033[36m"
)

func main() {
	printStartupBanner()

	// 設定の読み込み
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.JWT.SecretKey) {
			stdLog.Fatalf("JWT secret が弱いか既定値のままです。本番環境では強いランダム値を設定してください")
		}
	} else if isWeakSecret(cfg.JWT.SecretKey) {
		stdLog.Printf("警告: JWT secret が弱いか既定値のままです。本番環境では必ず変更してください")
	}

	// データベースの初期化
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("データベースの初期化に失敗しました: %v", err)
	}

	// テーブルの自動マイグレーション
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("データベースのマイグレーションに失敗しました: %v", err)
	}

	// 既定管理者アカウントの初期化
	defaultAdminUser := os.Getenv("CN_DEFAULT_ADMIN_USERNAME")
	defaultAdminPass := os.Getenv("CN_DEFAULT_ADMIN_PASSWORD")
	if cfg.Server.Mode == "release" && defaultAdminPass == "" {
		stdLog.Printf("警告: CN_DEFAULT_ADMIN_PASSWORD が未設定のため既定管理者の初期化をスキップしました")
	} else if err := models.InitDefaultAdmin(defaultAdminUser, defaultAdminPass); err != nil {
		stdLog.Printf("警告: 既定管理者の初期化に失敗しました: %v", err)
	}

	// Gin モードの設定
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// コマンドライン引数の解釈
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "起動モード: all (既定), api, worker")
	flag.Parse()

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("サービスの実行に失敗しました: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + " ██████╗██████╗ ██╗   ██╗██████╗ ████████╗ ██████╗     ███╗   ██╗ █████╗ ██╗   ██╗██╗" + ansiReset)
	fmt.Println(ansiCyan + "██╔════╝██╔══██╗╚██╗ ██╔╝██╔══██╗╚══██╔══╝██╔═══██╗    ████╗  ██║██╔══██╗██║   ██║██║" + ansiReset)
	fmt.Println(ansiCyan + "██║     ██████╔╝ ╚████╔╝ ██████╔╝   ██║   ██║   ██║    ██╔██╗ ██║███████║██║   ██║██║" + ansiReset)
	fmt.Println(ansiCyan + "██║     ██╔══██╗  ╚██╔╝  ██╔═══╝    ██║   ██║   ██║    ██║╚██╗██║██╔══██║╚██╗ ██╔╝██║" + ansiReset)
	fmt.Println(ansiCyan + "╚██████╗██║  ██║   ██║   ██║        ██║   ╚██████╔╝    ██║ ╚████║██║  ██║ ╚████╔╝ ██║" + ansiReset)
	fmt.Println(ansiCyan + " ╚═════╝╚═╝  ╚═╝   ╚═╝   ╚═╝        ╚═╝    ╚═════╝     ╚═╝  ╚═══╝╚═╝  ╚═╝  ╚═══╝  ╚═╝" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "Crypto Navi API" + ansiReset)
	fmt.Println(ansiBlue + "• API: https://github.com/crypto-navi/api" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
