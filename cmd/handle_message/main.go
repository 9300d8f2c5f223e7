package main

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"

	"github.com/consultly/chatnotify/pkg/chat"
	"github.com/consultly/chatnotify/pkg/svc"
)

var logger = slog.Default()

func response(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		Body:       body,
		Headers:    map[string]string{"content-type": "application/json"},
		StatusCode: status,
	}
}

// handler receives the chat service's message-created webhook and forwards
// the message onto the SNS topic for the dispatch lambda
func handler(request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var message chat.Message
	if err := json.Unmarshal([]byte(request.Body), &message); err != nil {
		return response(400, `{"error": "invalid message payload"}`), nil
	}
	if message.ConversationID == "" || message.SenderID == "" {
		return response(400, `{"error": "conversationId and senderId are required"}`), nil
	}
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt == nil {
		createdAt := time.Now()
		message.CreatedAt = &createdAt
	}

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Error("could not load config", "error", err)
		return response(500, `{"error": "internal error"}`), nil
	}

	messageJSON, _ := json.Marshal(message)
	snsClient := svc.NewSNSClient()
	if err := snsClient.Publish(string(messageJSON), cfg.SNSTopicARN, svc.MessageCreatedFeed); err != nil {
		logger.Error("could not publish message event", "message_id", message.ID, "error", err)
		return response(500, `{"error": "internal error"}`), nil
	}

	logger.Info("published message event", "message_id", message.ID, "conversation_id", message.ConversationID)
	return response(202, string(messageJSON)), nil
}

func main() {
	lambda.Start(handler)
}
