package main

import (
	"context"
	"time"

	"threadshop/internal/handler"
	"threadshop/internal/infra/db"
	"threadshop/internal/infra/metrics"
	"threadshop/internal/infra/payment"
	infraRepo "threadshop/internal/infra/repository"
	"threadshop/internal/infra/storage"
	"threadshop/internal/server"
	"threadshop/internal/usecase"
	auth "threadshop/internal/usecase/auth_usecase"
	"threadshop/internal/validator"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			if migrate {
				if err := db.Migrate(a.db); err != nil {
					return err
				}
			}
			return serve(cmd.Context(), a)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run migrations before serving")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	cfg, log := a.cfg, a.log

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(a.db)
	productRepo := infraRepo.NewProductGormRepository(a.db)
	cartRepo := infraRepo.NewCartGormRepository(a.db)
	orderRepo := infraRepo.NewOrderGormRepository(a.db)
	orderProductRepo := infraRepo.NewOrderProductGormRepository(a.db)
	sessionRepo := infraRepo.NewSessionGormRepository(a.db)
	auditLogRepo := infraRepo.NewAuditLogGormRepository(a.db)
	tx := infraRepo.NewTxManagerGorm(a.db)

	//外部サービス
	var signer usecase.ImageSigner = storage.NoopSigner{}
	if cfg.S3Bucket != "" {
		s3Signer, err := storage.NewS3Signer(ctx, storage.S3Config{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			TTL:             cfg.ImageURLTTL,
		})
		if err != nil {
			return err
		}
		signer = s3Signer
	} else {
		log.Warn("S3_BUCKET is empty; product images will be omitted")
	}
	gateway := payment.NewStripeGateway(cfg.StripeSecretKey)
	m := metrics.New()

	//usecaseに渡す部品
	clock := auth.SystemClock{}
	v := validator.NewAuthValidator()
	hasher := auth.NewBcryptPasswordHasher(auth.PasswordCost)
	codec := auth.NewSessionTokenCodec(cfg.SessionSecret)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, v)
	loginUC := auth.NewLoginUsecase(userRepo, sessionRepo, auth.NewBcryptPasswordVerifier(), codec, v, auth.UUIDGenerator{}, clock, cfg.SessionTTL)
	logoutUC := auth.NewLogoutUsecase(sessionRepo, codec, clock)
	sessions := auth.NewSessionAuthenticator(sessionRepo, codec, clock)

	userUC := usecase.NewUserUsecase(tx, userRepo, auditLogRepo, hasher, v, clock)
	productUC := usecase.NewProductUsecase(productRepo, signer, log)
	cartUC := usecase.NewCartUsecase(tx, userRepo, cartRepo, productRepo, signer, log)
	orderUC := usecase.NewOrderUsecase(tx, userRepo, orderRepo, orderProductRepo, clock, m, signer, log)
	paymentUC := usecase.NewPaymentUsecase(productRepo, gateway, cfg.StripeCurrency, cfg.StripePublishableKey, log)

	//Handler生成
	cookies := handler.SessionCookies{TTL: cfg.SessionTTL, Secure: cfg.CookieSecure}
	e := server.New(server.Deps{
		Config:   cfg,
		Log:      log,
		Sessions: sessions,
		Metrics:  m,
		Handlers: server.Handlers{
			Auth:    handler.NewAuthHandler(registerUC, loginUC, logoutUC, cookies),
			User:    handler.NewUserHandler(userUC, cookies),
			Product: handler.NewProductHandler(productUC),
			Cart:    handler.NewCartHandler(cartUC),
			Order:   handler.NewOrderHandler(orderUC),
			Payment: handler.NewPaymentHandler(paymentUC),
			Health: handler.NewHealthHandler(func(ctx context.Context) error {
				return db.Ping(ctx, a.db)
			}, m.Handler()),
		},
	})

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("server starting")
	err := server.Run(ctx, e, addr, shutdownTimeout)
	log.Info("server stopped")
	return err
}
