package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	accounts "github.com/goliatone/go-accounts"
	"github.com/goliatone/go-accounts/repository"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	cfg, err := accounts.LoadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer sqldb.Close()

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx := context.Background()

	store := repository.NewAccountRepository(db)
	if err := store.CreateTables(ctx); err != nil {
		log.Fatalf("failed to initialize schema: %v", err)
	}

	tokenService, err := accounts.NewTokenService(
		[]byte(cfg.TokenSecret),
		cfg.TokenTTL(),
		cfg.TokenIssuer,
	)
	if err != nil {
		log.Fatalf("token service error: %v", err)
	}

	hasher := accounts.NewBcryptHasher(cfg.BcryptCost)
	service := accounts.NewAccountService(store, hasher, tokenService)
	controller := accounts.NewAccountController(service)

	app := fiber.New(fiber.Config{
		AppName: "go-accounts",
	})

	accounts.RegisterRoutes(app, controller)

	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	waitExitSignal()

	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func waitExitSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
}
