package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/medconnect-api/internal/config"
	"github.com/harentsoaR/medconnect-api/internal/store"
)

const connectTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:   "medconnect-api",
		Short: "MedConnect doctor appointment API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// openDatabase connects to MongoDB and makes sure the indexes exist.
func openDatabase(cfg *config.Config, log *logrus.Logger) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.MongoDatabase)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}
	log.WithField("database", cfg.MongoDatabase).Info("connected to MongoDB")
	return client, db, nil
}

// useTransactions checks MONGO_TRANSACTIONS against the deployment and turns
// transactions off on a standalone mongod.
func useTransactions(ctx context.Context, cfg *config.Config, db *mongo.Database, log *logrus.Logger) bool {
	if !cfg.MongoTransactions {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	ok, err := store.SupportsTransactions(ctx, db)
	if err != nil {
		log.WithError(err).Warn("could not detect MongoDB topology, keeping transactions on")
		return true
	}
	if !ok {
		log.Warn("MONGO_TRANSACTIONS needs a replica set or mongos, standalone server detected: creating users without transactions")
	}
	return ok
}
