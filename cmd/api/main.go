package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appbook "github.com/xiebiao/library/internal/application/book"
	apploan "github.com/xiebiao/library/internal/application/loan"
	appstaff "github.com/xiebiao/library/internal/application/staff"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/staff"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/notifier"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
	"github.com/xiebiao/library/pkg/response"
	"github.com/xiebiao/library/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go提供等价的Wire版本）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化监控指标
	metrics.InitMetrics()

	// 3. 初始化分布式追踪（可选）
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化追踪失败: %v", err)
		}
		defer shutdown(context.Background())
		fmt.Printf("✓ 追踪已启用: %s\n", cfg.Tracing.Endpoint)
	}

	// 4. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 5. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 6. 依赖注入（手动组装）
	// 学习要点：依赖注入链
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	bookRepo := mysql.NewBookRepository(db)
	loanRepo := mysql.NewLoanRepository(db)
	staffRepo := mysql.NewStaffRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	bookCache := redis.NewBookCache(redisClient, cfg.Redis.BookCacheTTL)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	bookService := book.NewService(bookRepo)
	loanService := loan.NewService(loanRepo, bookRepo, txManager)
	staffService := staff.NewService(staffRepo)

	// 应用层
	createBookUseCase := appbook.NewCreateBookUseCase(bookService)
	getBookUseCase := appbook.NewGetBookUseCase(bookService, bookCache)
	updateBookUseCase := appbook.NewUpdateBookUseCase(bookService, bookCache)
	deleteBookUseCase := appbook.NewDeleteBookUseCase(bookService, bookCache)
	findBooksUseCase := appbook.NewFindBooksUseCase(bookService)
	createLoanUseCase := apploan.NewCreateLoanUseCase(loanService, bookService)
	returnLoanUseCase := apploan.NewReturnLoanUseCase(loanService)
	findLoansUseCase := apploan.NewFindLoansUseCase(loanService)
	loansByBookUseCase := apploan.NewLoansByBookUseCase(loanService, bookService)
	registerUseCase := appstaff.NewRegisterUseCase(staffService)
	loginUseCase := appstaff.NewLoginUseCase(staffService, jwtManager, sessionStore)
	logoutUseCase := appstaff.NewLogoutUseCase(sessionStore)

	// 接口层
	bookHandler := handler.NewBookHandler(
		createBookUseCase, getBookUseCase, updateBookUseCase,
		deleteBookUseCase, findBooksUseCase,
	)
	loanHandler := handler.NewLoanHandler(
		createLoanUseCase, returnLoanUseCase, findLoansUseCase, loansByBookUseCase,
	)
	staffHandler := handler.NewStaffHandler(registerUseCase, loginUseCase, logoutUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 7. 启动逾期通知器（可选）
	if cfg.Notifier.Enabled {
		publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化消息发布者失败: %v", err)
		}
		defer publisher.Close()

		overdueNotifier := notifier.New(loanService, publisher, cfg.Notifier.ScanInterval, cfg.MQ.Exchange)
		go overdueNotifier.Run(ctx)
	}

	// 8. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Logger(), middleware.Metrics(), gin.Recovery())

	// 9. 注册路由
	registerRoutes(r, bookHandler, loanHandler, staffHandler, authMiddleware)

	// 10. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("   监控指标: http://localhost%s/metrics\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	bookHandler *handler.BookHandler,
	loanHandler *handler.LoanHandler,
	staffHandler *handler.StaffHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档路由
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	// 生产环境建议禁用Swagger或添加访问控制
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 馆员模块（注册/登录公开,登出需要登录）
		staffGroup := v1.Group("/staff")
		{
			staffGroup.POST("/register", staffHandler.Register)
			staffGroup.POST("/login", staffHandler.Login)
			staffGroup.POST("/logout", authMiddleware.RequireAuth(), staffHandler.Logout)
		}

		// 图书模块（查询公开,变更需要登录）
		books := v1.Group("/books")
		{
			books.GET("", bookHandler.FindBooks)
			books.GET("/:id", bookHandler.GetBook)
			books.GET("/:id/loans", loanHandler.LoansByBook)

			books.POST("", authMiddleware.RequireAuth(), bookHandler.CreateBook)
			books.PUT("/:id", authMiddleware.RequireAuth(), bookHandler.UpdateBook)
			books.DELETE("/:id", authMiddleware.RequireAuth(), bookHandler.DeleteBook)
		}

		// 借阅模块（查询公开,办理借出/归还需要登录）
		loans := v1.Group("/loans")
		{
			loans.GET("", loanHandler.FindLoans)

			loans.POST("", authMiddleware.RequireAuth(), loanHandler.CreateLoan)
			loans.PATCH("/:id", authMiddleware.RequireAuth(), loanHandler.ReturnLoan)
		}
	}
}
