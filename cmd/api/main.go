package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"threadshop/internal/config"
	"threadshop/internal/infra/db"
	"threadshop/internal/infra/logging"
	infraRepo "threadshop/internal/infra/repository"
	"threadshop/internal/seed"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "threadshop",
		Short:         "threadshop backend API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd())
	return root
}

// 設定・ロガー・DBはどのサブコマンドでも同じ手順で作る
type app struct {
	cfg config.Config
	log *logrus.Logger
	db  *gorm.DB
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LogLevel, cfg.IsProd())

	gormDB, err := db.Connect(cfg.DSN(), log)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: gormDB}, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			if err := db.Migrate(a.db); err != nil {
				return err
			}
			a.log.Info("migration finished")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert products from a YAML catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer f.Close()

			catalog, err := seed.Parse(f)
			if err != nil {
				return err
			}
			n, err := seed.Apply(cmd.Context(), infraRepo.NewProductGormRepository(a.db), catalog, a.log)
			if err != nil {
				return err
			}
			a.log.WithField("count", n).Info("seed finished")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "internal/seed/catalog.yaml", "catalog YAML file")
	return cmd
}
