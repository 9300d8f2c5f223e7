package main

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/kelseyhightower/envconfig"

	"github.com/consultly/chatnotify/pkg/chat"
)

var logger = slog.Default()

type deviceRequest struct {
	UserID   string `json:"userId"`
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

func response(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		Body:       body,
		Headers:    map[string]string{"content-type": "application/json"},
		StatusCode: status,
	}
}

// handler registers or unregisters one device push token for a user. The
// mobile app calls POST on sign-in and token refresh, DELETE on sign-out.
func handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var device deviceRequest
	if err := json.Unmarshal([]byte(request.Body), &device); err != nil {
		return response(400, `{"error": "invalid device payload"}`), nil
	}
	if device.Token == "" {
		return response(400, `{"error": "token is required"}`), nil
	}

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Error("could not load config", "error", err)
		return response(500, `{"error": "internal error"}`), nil
	}

	db, err := gorm.Open("postgres", cfg.dsn())
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		return response(500, `{"error": "internal error"}`), nil
	}
	defer db.Close()

	registry := chat.NewEndpointRegistry(db)

	switch request.HTTPMethod {
	case "DELETE":
		if err := registry.Unregister(ctx, device.Token); err != nil {
			logger.Error("could not unregister endpoint", "error", err)
			return response(500, `{"error": "internal error"}`), nil
		}
		logger.Info("unregistered endpoint", "user_id", device.UserID)
		return response(200, `{"status": "unregistered"}`), nil
	case "POST":
		if device.UserID == "" {
			return response(400, `{"error": "userId is required"}`), nil
		}
		endpoint := chat.PushEndpoint{
			UserID:   device.UserID,
			Token:    device.Token,
			Platform: device.Platform,
		}
		if err := registry.Register(ctx, endpoint); err != nil {
			logger.Error("could not register endpoint", "user_id", device.UserID, "error", err)
			return response(500, `{"error": "internal error"}`), nil
		}
		logger.Info("registered endpoint", "user_id", device.UserID, "platform", device.Platform)
		return response(201, `{"status": "registered"}`), nil
	}
	return response(405, `{"error": "method not allowed"}`), nil
}

func main() {
	lambda.Start(handler)
}
