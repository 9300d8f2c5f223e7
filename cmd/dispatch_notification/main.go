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
	"github.com/consultly/chatnotify/pkg/dispatch"
	"github.com/consultly/chatnotify/pkg/svc"
)

var logger = slog.Default()

// feedAttribute reads the feed routing attribute off an SNS record. SNS
// delivers message attributes to Lambda as {"Type": ..., "Value": ...}
// objects, so the string lives in the Value field.
func feedAttribute(record events.SNSEntity) string {
	attr, ok := record.MessageAttributes["feed"]
	if !ok {
		return ""
	}
	obj, ok := attr.(map[string]interface{})
	if !ok {
		return ""
	}
	value, _ := obj["Value"].(string)
	return value
}

// messageFromEvent extracts the created message from an SNS event, or
// reports false for records this lambda should not act on
func messageFromEvent(request events.SNSEvent) (chat.Message, bool) {
	if len(request.Records) < 1 {
		return chat.Message{}, false
	}
	snsRecord := request.Records[0].SNS

	if feedAttribute(snsRecord) != svc.MessageCreatedFeed {
		logger.Info("ignoring record for other feed")
		return chat.Message{}, false
	}

	var message chat.Message
	if err := json.Unmarshal([]byte(snsRecord.Message), &message); err != nil {
		logger.Error("could not unmarshal message event", "error", err)
		return chat.Message{}, false
	}
	if message.ConversationID == "" || message.SenderID == "" {
		logger.Warn("skipping event missing required fields", "message_id", message.ID)
		return chat.Message{}, false
	}
	return message, true
}

// handler consumes message-created events off the SNS topic and runs the
// dispatch pipeline. Errors are logged and swallowed: the topic redelivers
// at-least-once and returning an error here would only feed a redelivery
// storm for dispatches that will never succeed.
func handler(ctx context.Context, request events.SNSEvent) error {
	message, ok := messageFromEvent(request)
	if !ok {
		return nil
	}

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Error("could not load config", "error", err)
		return nil
	}

	db, err := gorm.Open("postgres", cfg.dsn())
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		return nil
	}
	defer db.Close()

	dispatcher := dispatch.NewDispatcher(
		chat.NewConversationStore(db),
		chat.NewUserStore(db),
		chat.NewEndpointRegistry(db),
		svc.NewFCMClient(cfg.FCMKey, cfg.FCMTimeout),
		cfg.Lang,
		logger,
	)
	if err := dispatcher.Dispatch(ctx, message); err != nil {
		logger.Error("dispatch abandoned", "message_id", message.ID, "error", err)
	}
	return nil
}

func main() {
	lambda.Start(handler)
}
