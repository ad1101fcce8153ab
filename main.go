package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"restaurant-bot/bot"
	"restaurant-bot/config"
	"restaurant-bot/db"
	"restaurant-bot/logger"
	"restaurant-bot/messaging"
	"restaurant-bot/services"
)

func main() {
	log := logger.NewLogger("restaurant-bot")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(ctx, cfg, log); err != nil {
			log.Error("migrate", "migration failed", err)
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error("startup", "restaurant bot stopped", err)
		os.Exit(1)
	}
}

func runMigrate(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	if err := db.Init(ctx, cfg.DB); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer db.Close()
	return applyMigrations(ctx, log)
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("TOKEN not set")
	}
	opening, err := services.ParseTimeOfDay(cfg.Restaurant.Opening)
	if err != nil {
		return fmt.Errorf("RESTAURANT_OPENING: %w", err)
	}
	closing, err := services.ParseTimeOfDay(cfg.Restaurant.Closing)
	if err != nil {
		return fmt.Errorf("RESTAURANT_CLOSING: %w", err)
	}

	if err := db.Init(ctx, cfg.DB); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer db.Close()

	if config.AutoMigrate() {
		if err := applyMigrations(ctx, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	clock := services.SystemClock{Location: cfg.Location}
	restaurant, err := services.EnsureRestaurant(ctx, cfg.Restaurant.Name, cfg.Restaurant.Location, opening, closing, clock)
	if err != nil {
		return fmt.Errorf("load restaurant: %w", err)
	}
	log.Info("restaurant_loaded", "restaurant loaded",
		"restaurant_id", restaurant.ID, "name", restaurant.Name(), "menu_size", len(restaurant.Menu()))

	var events services.MenuEventPublisher
	if cfg.AMQP.URL != "" {
		conn, err := messaging.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			return fmt.Errorf("amqp: %w", err)
		}
		publisher := messaging.NewPublisher(conn, log)
		defer publisher.Close()
		events = publisher
	}
	menu := services.NewMenuService(restaurant, services.PostgresMenu{}, events, log)

	customer, err := bot.New(cfg.Telegram.Token, restaurant, log)
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}

	// Start admin bot (ADDER_TOKEN): super admin uses LOGIN; restaurant admins use their issued password
	if cfg.Telegram.AdderToken != "" {
		admin, err := bot.NewAdminBot(cfg.Telegram.AdderToken, menu, bot.PostgresAuth{}, cfg.Telegram.Login, cfg.Telegram.AdminID, log)
		if err != nil {
			return fmt.Errorf("admin bot: %w", err)
		}
		go admin.Start()
		defer admin.Stop()
		log.Info("admin_bot_started", "admin bot started")
	}

	go func() {
		<-ctx.Done()
		customer.Stop()
	}()
	log.Info("bot_started", "bot started")
	customer.Start()
	return nil
}
