package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB         DBConfig
	Telegram   TelegramConfig
	AMQP       AMQPConfig
	Restaurant RestaurantConfig
	Location   *time.Location // zone used to decide whether the restaurant is open
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	MaxConns int32
}

// URL returns a postgres connection string for pgx.
func (c DBConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}

type TelegramConfig struct {
	Token      string
	AdderToken string // admin bot for editing the menu
	Login      string // super admin password for the admin bot
	AdminID    int64
}

type AMQPConfig struct {
	URL      string // empty disables menu events
	Exchange string
}

// RestaurantConfig seeds the restaurant row on first start.
type RestaurantConfig struct {
	Name     string
	Location string
	Opening  string // HH:MM[:SS]
	Closing  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "4"))
	if err != nil || maxConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be a positive number")
	}

	var adminID int64
	if v := getEnv("ADMIN_ID", ""); v != "" {
		adminID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_ID: %w", err)
		}
	}

	loc := time.Local
	if tz := getEnv("TIMEZONE", ""); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("TIMEZONE: %w", err)
		}
	}

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "restaurant"),
			MaxConns: int32(maxConns),
		},
		Telegram: TelegramConfig{
			Token:      getEnv("TOKEN", ""),
			AdderToken: getEnv("ADDER_TOKEN", ""),
			Login:      strings.TrimSpace(getEnv("LOGIN", "")),
			AdminID:    adminID,
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "menu_topic"),
		},
		Restaurant: RestaurantConfig{
			Name:     getEnv("RESTAURANT_NAME", "Amelie's cafe"),
			Location: getEnv("RESTAURANT_LOCATION", "Chennai"),
			Opening:  getEnv("RESTAURANT_OPENING", "10:30:00"),
			Closing:  getEnv("RESTAURANT_CLOSING", "22:00:00"),
		},
		Location: loc,
	}, nil
}

// AutoMigrate reports whether AUTO_MIGRATE is "1" or "true".
func AutoMigrate() bool {
	v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE"))
	return v == "1" || strings.EqualFold(v, "true")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
