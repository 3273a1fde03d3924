package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	announcementapp "github.com/taxnova/backoffice/internal/announcement/application"
	announcementdomain "github.com/taxnova/backoffice/internal/announcement/domain"
	announcementmysql "github.com/taxnova/backoffice/internal/announcement/infrastructure/persistence/mysql"
	announcementhttp "github.com/taxnova/backoffice/internal/announcement/interfaces/http"
	archiveapp "github.com/taxnova/backoffice/internal/archive/application"
	archivemysql "github.com/taxnova/backoffice/internal/archive/infrastructure/persistence/mysql"
	archivestorage "github.com/taxnova/backoffice/internal/archive/infrastructure/storage"
	archivehttp "github.com/taxnova/backoffice/internal/archive/interfaces/http"
	catalogapp "github.com/taxnova/backoffice/internal/catalog/application"
	catalogdomain "github.com/taxnova/backoffice/internal/catalog/domain"
	catalogmysql "github.com/taxnova/backoffice/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/taxnova/backoffice/internal/catalog/interfaces/http"
	documentapp "github.com/taxnova/backoffice/internal/document/application"
	documentdomain "github.com/taxnova/backoffice/internal/document/domain"
	documentmysql "github.com/taxnova/backoffice/internal/document/infrastructure/persistence/mysql"
	documenthttp "github.com/taxnova/backoffice/internal/document/interfaces/http"
	profileapp "github.com/taxnova/backoffice/internal/profile/application"
	profiledomain "github.com/taxnova/backoffice/internal/profile/domain"
	profilemysql "github.com/taxnova/backoffice/internal/profile/infrastructure/persistence/mysql"
	profilehttp "github.com/taxnova/backoffice/internal/profile/interfaces/http"
	requestapp "github.com/taxnova/backoffice/internal/request/application"
	requestdomain "github.com/taxnova/backoffice/internal/request/domain"
	requestmysql "github.com/taxnova/backoffice/internal/request/infrastructure/persistence/mysql"
	requesthttp "github.com/taxnova/backoffice/internal/request/interfaces/http"
	walletapp "github.com/taxnova/backoffice/internal/wallet/application"
	walletdomain "github.com/taxnova/backoffice/internal/wallet/domain"
	walletmysql "github.com/taxnova/backoffice/internal/wallet/infrastructure/persistence/mysql"
	wallethttp "github.com/taxnova/backoffice/internal/wallet/interfaces/http"
	"github.com/taxnova/backoffice/pkg/cache"
	"github.com/taxnova/backoffice/pkg/config"
	"github.com/taxnova/backoffice/pkg/db"
	"github.com/taxnova/backoffice/pkg/logger"
	"github.com/taxnova/backoffice/pkg/metrics"
	"github.com/taxnova/backoffice/pkg/middleware"
	"github.com/taxnova/backoffice/pkg/mq"
)

var configPath = flag.String("config", "configs/config.toml", "config file path")

// publisher 统一的事件发布接口，Kafka 不可用时退化为空实现
type publisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

func main() {
	flag.Parse()

	// 1. 初始化配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 初始化日志
	if err := logger.Init(cfg.Logger); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 3. 初始化指标
	m := metrics.New(cfg.ServiceName)

	// 4. 初始化基础设施
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Auto Migrate (仅用于开发方便)
	if cfg.Environment == "dev" {
		if err := database.AutoMigrate(
			&catalogdomain.ServiceOffering{},
			&profiledomain.Profile{},
			&requestdomain.ServiceRequest{},
			&documentdomain.DocumentRecord{},
			&announcementdomain.Notification{},
			&walletdomain.RoyaltyEntry{},
			&walletdomain.PayoutRequest{},
		); err != nil {
			slog.Error("failed to migrate database", "error", err)
		}
	}

	// Kafka（可选，未启用时事件静默丢弃）
	var events publisher = mq.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			slog.Error("failed to init kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		events = producer
	}

	// Redis（可选，未启用时档案读缓存关闭）
	var profileCache profileapp.ProfileCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.New(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			slog.Error("failed to init redis", "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		profileCache = redisCache
	}

	// 5. 初始化仓储
	profileRepo := profilemysql.NewProfileRepository(database.DB)
	offeringRepo := catalogmysql.NewOfferingRepository(database.DB)
	requestRepo := requestmysql.NewRequestRepository(database.DB)
	documentRepo := documentmysql.NewDocumentRepository(database.DB)
	notificationRepo := announcementmysql.NewNotificationRepository(database.DB)
	royaltyRepo := walletmysql.NewRoyaltyRepository(database.DB)
	payoutRepo := walletmysql.NewPayoutRepository(database.DB)
	tableStore := archivemysql.NewTableStore(database.DB)
	objectStore := archivestorage.NewLocalStore(cfg.Archive.StorageRoot)

	// 6. 初始化应用服务
	minPayout, err := decimal.NewFromString(cfg.Wallet.MinPayout)
	if err != nil {
		slog.Error("invalid wallet.min_payout", "value", cfg.Wallet.MinPayout, "error", err)
		os.Exit(1)
	}

	profileSvc := profileapp.NewProfileService(profileRepo, events, profileCache, time.Duration(cfg.Redis.TTL)*time.Second)
	catalogSvc := catalogapp.NewCatalogService(offeringRepo)
	requestSvc := requestapp.NewRequestService(requestRepo)
	reviewSvc := documentapp.NewReviewService(documentRepo, profileRepo, events, m)
	walletSvc := walletapp.NewWalletService(royaltyRepo, payoutRepo, profileRepo, events, m, minPayout)
	announcementSvc := announcementapp.NewAnnouncementService(notificationRepo, profileRepo, events, m)
	archiveSvc := archiveapp.NewArchiveService(tableStore, objectStore, events, m, archiveapp.Options{
		ChunkSize:       cfg.Archive.ChunkSize,
		Label:           cfg.Archive.Label,
		Platform:        cfg.ServiceName,
		DocumentBucket:  cfg.Archive.DocumentBucket,
		AvatarBucket:    cfg.Archive.AvatarBucket,
		PermanentBucket: cfg.Archive.PermanentBucket,
	})

	// 7. 初始化接口层
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging(), middleware.CORS(), middleware.Metrics(m))

	profilehttp.NewHandler(r, profileSvc)
	cataloghttp.NewHandler(r, catalogSvc)
	requesthttp.NewHandler(r, requestSvc)
	documenthttp.NewHandler(r, reviewSvc)
	wallethttp.NewHandler(r, walletSvc)
	announcementhttp.NewHandler(r, announcementSvc)
	archivehttp.NewHandler(r, archiveSvc)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	// 8. 启动服务
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// 9. 优雅关闭
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down server...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}
