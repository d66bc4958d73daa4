// Command devtoken mints a bearer token for local testing against a server
// configured with the same JWT secret.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/config"
	"github.com/mmynk/tripsplit/pkg/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	userID := flag.String("user", "", "user ID to put in the token subject")
	flag.Parse()

	logging.Setup("warn")

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "usage: devtoken -user <id> [-config path]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.DevSecret() {
		slog.Warn("Signing with the built-in development secret")
	}

	token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).Generate(*userID)
	if err != nil {
		slog.Error("Failed to generate token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
