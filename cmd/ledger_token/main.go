// Command ledger_token mints bearer tokens for internal callers of the
// ledger API, signed with the configured JWT secret.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/travel_ledger/internal/platform/config"
	"github.com/SscSPs/travel_ledger/internal/utils"
	"github.com/spf13/pflag"
)

func main() {
	subject := pflag.String("subject", "", "caller identity recorded in audit entries, e.g. ticketing")
	ttl := pflag.Duration("ttl", 24*time.Hour, "token lifetime")
	pflag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	token, err := utils.GenerateServiceToken(*subject, cfg.JWTSecret, *ttl, cfg.JWTIssuer)
	if err != nil {
		slog.Error("Failed to generate token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(token)
}
