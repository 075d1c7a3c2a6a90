package main

import (
	"flag"
	"log"
	"strings"

	"budget/config"
	"budget/database"
	"budget/middleware"
	"budget/repository"
	"budget/router"
	"budget/service"

	"github.com/joho/godotenv"
)

// @title 个人预算管理 API
// @version 1.0
// @description 账单、收入、类别、目标与通知管理，提供月度汇总、日历、导出和理财建议
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	envFile     string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&envFile, "env", ".env", "环境变量文件路径，不存在时忽略")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("预算管理 v1.0.0")
		return
	}

	// .env 中的 BUDGET_* 变量会覆盖配置文件
	if err := godotenv.Load(envFile); err == nil {
		log.Printf("已加载环境变量文件: %s", envFile)
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	opts := service.Options{
		Advisor:  service.NewAdvisor(cfg.Advisor),
		Reminder: cfg.Reminder,
	}

	// 操作日志事件发布，连接失败时只记日志
	if cfg.Broker.Enabled {
		publisher, err := service.NewAMQPPublisher(&cfg.Broker)
		if err != nil {
			log.Printf("警告: 连接消息队列失败，操作日志事件不会发布: %v", err)
		} else {
			defer publisher.Close()
			opts.Publisher = publisher
		}
	}

	if emailService := service.NewEmailService(&cfg.Email); emailService.Configured() {
		opts.Sender = emailService
	} else {
		log.Println("邮件服务未配置，账单提醒只生成站内通知")
	}

	svc := service.NewServices(repository.NewGormStore(database.GetDB()), opts)

	middleware.InitJWT(cfg)

	r := router.SetupRouter(cfg, svc)

	log.Printf("==========================================")
	log.Printf("  💰 预算管理已启动")
	log.Printf("==========================================")
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API接口:  http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
