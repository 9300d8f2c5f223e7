package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/kelseyhightower/envconfig"

	"github.com/consultly/chatnotify/pkg/chat"
)

// handler removes endpoints that have not been refreshed in the configured
// window. The dispatch reconciler prunes tokens the gateway rejects; this
// scheduled sweep catches devices that went quiet without ever failing.
func handler(ctx context.Context, request events.CloudWatchEvent) error {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		return err
	}

	db, err := gorm.Open("postgres", cfg.dsn())
	if err != nil {
		return err
	}
	defer db.Close()

	cutoff := time.Now().Add(-time.Hour * 24 * time.Duration(cfg.MaxAgeDays))
	count, err := chat.NewEndpointRegistry(db).DeleteStale(ctx, cutoff)
	if err != nil {
		return err
	}
	slog.Info("removed stale endpoints", "count", count, "cutoff", cutoff)
	return nil
}

func main() {
	lambda.Start(handler)
}
