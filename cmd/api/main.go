package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/auditlog"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/kafka"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logging"
	"storefront/internal/seed"
	"storefront/internal/server"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"
	"storefront/internal/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	app := &cli.App{
		Name:  "storefront",
		Usage: "Frippy Froppy storefront API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file to load before reading the environment",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{Name: "serve", Usage: "migrate, seed and serve the HTTP API", Action: serve},
			{Name: "migrate", Usage: "apply database migrations", Action: migrate},
			{Name: "seed", Usage: "create the admin user and starter products", Action: seedDB},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("storefront failed")
	}
}

// 設定・ロガー・DBをまとめて用意する
func bootstrap(c *cli.Context) (config.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	log := logging.New(cfg)

	gormDB, err := db.Connect(cfg, log)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, log, gormDB, nil
}

func migrate(c *cli.Context) error {
	_, log, gormDB, err := bootstrap(c)
	if err != nil {
		return err
	}
	if err := db.Migrate(c.Context, gormDB); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}

func seedDB(c *cli.Context) error {
	cfg, log, gormDB, err := bootstrap(c)
	if err != nil {
		return err
	}
	return newSeeder(gormDB, log).Run(c.Context, cfg.AdminEmail, cfg.AdminPassword)
}

func newSeeder(gormDB *gorm.DB, log *logrus.Logger) *seed.Seeder {
	return seed.NewSeeder(
		infraRepo.NewUserGormRepository(gormDB),
		infraRepo.NewProductGormRepository(gormDB),
		auth.NewBcryptPasswordHasher(12),
		log,
	)
}

func serve(c *cli.Context) error {
	cfg, log, gormDB, err := bootstrap(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB準備
	if err := db.Migrate(ctx, gormDB); err != nil {
		return err
	}
	if err := newSeeder(gormDB, log).Run(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	sessionRepo := infraRepo.NewSessionGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//セッション（トークン）
	sessions := auth.NewJWTSessionStore(sessionRepo, cfg.JWTSecret, cfg.SessionTTL, &uuidGenerator{}, &realClock{})

	//注文確定後の副作用
	ordersLog := auditlog.NewFileWriter(cfg.OrdersLogPath, cfg.OrdersLogCurrency)
	hooks := []usecase.OrderCreatedHook{ordersLog}
	if cfg.KafkaEnabled() {
		pub, err := kafka.NewOrderPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		if err != nil {
			return err
		}
		defer pub.Close()
		hooks = append(hooks, pub)
		log.WithField("topic", cfg.KafkaOrderTopic).Info("order events enabled")
	}

	//Usecase生成
	loginUC := auth.NewLoginUsecase(userRepo, auth.NewBcryptPasswordVerifier(), sessions, validator.NewAuthValidator())
	productUC := usecase.NewProductUsecase(productRepo, log)
	orderUC := usecase.NewOrderUsecase(txManager, validator.NewOrderValidator(), cfg.DeliveryFee, log, hooks...)
	adminOrderUC := usecase.NewAdminOrderUsecase(orderRepo, ordersLog, log)

	//Handler生成
	e := server.New(server.Handlers{
		Auth:         handler.NewAuthHandler(loginUC),
		Products:     handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Orders:       handler.NewOrderHandler(orderUC),
		AdminOrders:  handler.NewAdminOrderHandler(adminOrderUC),
	}, sessions, log)

	//Server起動
	return server.Start(ctx, e, cfg.Addr(), log)
}
