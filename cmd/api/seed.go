package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/harentsoaR/medconnect-api/internal/config"
	"github.com/harentsoaR/medconnect-api/internal/seed"
	"github.com/harentsoaR/medconnect-api/internal/services"
	"github.com/harentsoaR/medconnect-api/internal/store"
	"github.com/harentsoaR/medconnect-api/internal/utils"
)

func seedCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo accounts and doctor profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), reset)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "drop users, doctors and appointments first")
	return cmd
}

func runSeed(ctx context.Context, reset bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	client, db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if reset {
		if err := store.DropAll(ctx, db); err != nil {
			return err
		}
		// Dropping a collection drops its indexes too.
		if err := store.EnsureIndexes(ctx, db); err != nil {
			return err
		}
		log.Warn("existing data cleared")
	}

	users := store.NewUserStore(db, useTransactions(ctx, cfg, db, log))
	doctors := services.NewDoctorService(store.NewDoctorStore(db), users, nil, log)
	_, err = seed.New(users, doctors, utils.NewPasswordHasher(cfg.BcryptCost), log).Run(ctx)
	return err
}
