// Command seed resets the catalog to the sample products and makes sure the
// admin and demo accounts exist.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"petshop/internal/auth"
	"petshop/internal/config"
	"petshop/internal/database"
	"petshop/internal/logger"
	"petshop/internal/models"
	"petshop/internal/store"
)

func main() {
	adminPassword := flag.String("admin-password", "123456", "password for the seeded admin account")
	keepProducts := flag.Bool("keep-products", false, "do not wipe the products collection")
	flag.Parse()

	config.Load()
	cfg := config.AppEnv
	if cfg.MongoURI == "" {
		log.Fatal("ENV MONGO_URI is required")
	}

	appLogger, err := logger.New(os.Stdout, cfg.LogLevel, "text")
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(appLogger)

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)
	if err := database.EnsureIndexes(db); err != nil {
		slog.Warn("index warning", "error", err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stores := store.New(db)
	if err := seedProducts(ctx, stores.Products, !*keepProducts); err != nil {
		log.Fatal(err)
	}

	hasher := auth.NewPasswordHasher(0)
	for _, account := range sampleAccounts(*adminPassword) {
		if err := seedAccount(ctx, stores.Users, hasher, account); err != nil {
			log.Fatal(err)
		}
	}
	slog.Info("database seeded")
}

func seedProducts(ctx context.Context, products *store.ProductStore, wipe bool) error {
	if wipe {
		removed, err := products.DeleteAll(ctx)
		if err != nil {
			return err
		}
		slog.Info("products cleared", "removed", removed)
	}

	for _, p := range sampleProducts {
		if _, err := products.Create(ctx, p); err != nil {
			return err
		}
	}
	slog.Info("products created", "count", len(sampleProducts))
	return nil
}

type account struct {
	user     models.User
	password string
}

func seedAccount(ctx context.Context, users *store.UserStore, hasher auth.PasswordHasher, a account) error {
	exists, err := users.EmailExists(ctx, a.user.Email)
	if err != nil {
		return err
	}
	if exists {
		slog.Info("account already present", "email", a.user.Email)
		return nil
	}

	hash, err := hasher.Hash(a.password)
	if err != nil {
		return err
	}
	a.user.PasswordHash = hash

	created, err := users.Create(ctx, a.user)
	if err != nil {
		return err
	}
	slog.Info("account created", "email", created.Email, "role", created.Role)
	return nil
}
