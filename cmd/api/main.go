package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/cache"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/logging"
	"app/internal/metrics"
	"app/internal/realtime"
	"app/internal/server"
	"app/internal/usecase"
	auth "app/internal/usecase/auth_usecase"
)

func main() {
	//.envはあれば読む（本番は環境変数だけ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.Init(cfg.ServiceName, cfg.IsDev())
	logging.SetLevel(cfg.LogLevel)

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect failed")
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.UserProfile{},
		&model.Address{},
		&model.Device{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.WishlistEntry{},
		&model.AuditLog{},
		&model.InventoryAdjustment{},
	); err != nil {
		logger.Fatal().Err(err).Msg("auto migrate failed")
	}

	//Redis（一覧キャッシュ）
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	catalogCache := cache.New(rdb)

	//Kafkaへ変更イベントを流すproducerと、SSE用のプロセス内hub
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	producer := realtime.NewProducer(cfg.KafkaBrokers, 256, logger)
	producer.Start(ctx)

	hub := realtime.NewHub()
	notifier := realtime.NewNotifier(hub, producer, cfg.ServiceName)

	m := metrics.New()

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	profileRepo := infraRepo.NewUserProfileGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	deviceRepo := infraRepo.NewDeviceGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := auth.SystemClock{}
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTAccessTokenIssuer(cfg.JWTSecret)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)
	catalogUC := usecase.NewCatalogUsecase(deviceRepo, orderRepo, orderItemRepo, cartRepo, cartItemRepo, catalogCache)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, deviceRepo, orderRepo, orderItemRepo)
	orderUC := usecase.NewOrderUsecase(txManager, addressRepo, profileRepo, notifier, m)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo, notifier, m)
	adminDeviceUC := usecase.NewAdminDeviceUsecase(deviceRepo, inventoryRepo, auditRepo, notifier, catalogCache)
	adminUserUC := usecase.NewAdminUserUsecase(userRepo, profileRepo, auditRepo, notifier)
	wishlistUC := usecase.NewWishlistUsecase(wishlistRepo, deviceRepo)
	profileUC := usecase.NewProfileUsecase(profileRepo, addressRepo)

	//Handler生成
	deps := server.Deps{
		Auth:        handler.NewAuthHandler(registerUC, loginUC, wishlistUC),
		Device:      handler.NewDeviceHandler(catalogUC),
		Cart:        handler.NewCartHandler(cartUC),
		Order:       handler.NewOrderHandler(orderUC),
		Wishlist:    handler.NewWishlistHandler(wishlistUC),
		Profile:     handler.NewProfileHandler(profileUC),
		Events:      handler.NewEventsHandler(hub, m),
		AdminOrder:  handler.NewAdminOrderHandler(adminOrderUC),
		AdminDevice: handler.NewAdminDeviceHandler(adminDeviceUC),
		AdminUser:   handler.NewAdminUserHandler(adminUserUC),
	}

	e := server.New(cfg, logger, m)
	server.RegisterRoutes(e, cfg, deps)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx, e, cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		//未送信の変更イベントを吐き切ってから終わる
		producer.Close()
		producer.WaitClosed()
		_ = rdb.Close()
		return nil
	})

	logger.Info().Str("port", cfg.Port).Msg("api started")

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("shutdown")
		os.Exit(1)
	}
}
