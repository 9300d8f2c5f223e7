package dispatch

import (
	"context"
	"log/slog"

	"github.com/consultly/chatnotify/pkg/chat"
)

// NotificationType is the routing discriminator the client apps use to route
// the tap action on a received notification.
const NotificationType = "chat_message"

// Outcome classifies one endpoint's delivery result from the push gateway
type Outcome string

const (
	// OutcomeDelivered means the gateway accepted the notification for the endpoint
	OutcomeDelivered Outcome = "delivered"
	// OutcomeTransient means delivery failed but the endpoint may still be valid
	OutcomeTransient Outcome = "transient-failure"
	// OutcomePermanent means the endpoint registration is no longer valid
	OutcomePermanent Outcome = "permanent-failure"
)

// Notification is the composed push payload submitted to the gateway
type Notification struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// Delivery is one endpoint's result from a multicast send
type Delivery struct {
	Token   string
	Outcome Outcome
}

// ConversationStore reads conversations
type ConversationStore interface {
	Get(ctx context.Context, conversationID string) (*chat.Conversation, error)
}

// UserStore reads user profiles
type UserStore interface {
	Get(ctx context.Context, userID string) (*chat.User, error)
}

// EndpointRegistry reads and prunes push endpoints
type EndpointRegistry interface {
	ListByUser(ctx context.Context, userID string) ([]chat.PushEndpoint, error)
	DeleteBatch(ctx context.Context, tokens []string) error
}

// Gateway submits one batched multicast request covering all endpoints and
// returns one outcome per endpoint, or a transport-level error for the call.
type Gateway interface {
	SendMulticast(ctx context.Context, notification Notification, tokens []string) ([]Delivery, error)
}

// Dispatcher runs the notification pipeline for one created message:
// resolve recipients, look up their endpoints, compose the payload, send one
// multicast, then prune endpoints the gateway reported as invalid.
type Dispatcher struct {
	Conversations ConversationStore
	Users         UserStore
	Endpoints     EndpointRegistry
	Gateway       Gateway
	Lang          string
	Logger        *slog.Logger
}

// NewDispatcher creates a Dispatcher with its injected stores and gateway
func NewDispatcher(conversations ConversationStore, users UserStore, endpoints EndpointRegistry, gateway Gateway, lang string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		Conversations: conversations,
		Users:         users,
		Endpoints:     endpoints,
		Gateway:       gateway,
		Lang:          lang,
		Logger:        logger,
	}
}

// Dispatch processes one message-created event. Missing records and read
// failures end the dispatch quietly; only a failed multicast call returns an
// error, and even that is fatal to this attempt alone. Re-running the same
// event is safe: every stage is a read except the idempotent endpoint prune.
func (d *Dispatcher) Dispatch(ctx context.Context, message chat.Message) error {
	logger := d.Logger.With("message_id", message.ID, "conversation_id", message.ConversationID)

	recipients := d.resolveRecipients(ctx, message, logger)
	if len(recipients) == 0 {
		return nil
	}
	logger.Info("resolved recipients", "count", len(recipients))

	tokens := d.lookupEndpoints(ctx, recipients, logger)
	if len(tokens) == 0 {
		logger.Info("no registered endpoints, nothing to send")
		return nil
	}
	logger.Info("looked up endpoints", "count", len(tokens))

	notification := d.compose(ctx, message)
	logger.Info("composed notification", "title", notification.Title)

	deliveries, err := d.Gateway.SendMulticast(ctx, notification, tokens)
	if err != nil {
		logger.Error("multicast send failed, abandoning dispatch", "error", err)
		return err
	}
	logger.Info("multicast sent", "endpoints", len(deliveries))

	d.reconcile(ctx, deliveries, logger)
	return nil
}

// resolveRecipients fetches the conversation and returns its participants
// minus the sender. A missing conversation or an empty recipient set is a
// valid empty fan-out, not an error.
func (d *Dispatcher) resolveRecipients(ctx context.Context, message chat.Message, logger *slog.Logger) []string {
	conversation, err := d.Conversations.Get(ctx, message.ConversationID)
	if err != nil {
		logger.Warn("could not fetch conversation", "error", err)
		return nil
	}
	var recipients []string
	for _, id := range conversation.ParticipantIDs() {
		if id != message.SenderID {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		logger.Warn("conversation has no recipients besides the sender")
	}
	return recipients
}

// lookupEndpoints flattens all recipients' endpoint tokens into one set. A
// failed fetch leaves that recipient with no endpoints for this dispatch.
// Tokens are de-duplicated in case one is registered to two users.
func (d *Dispatcher) lookupEndpoints(ctx context.Context, recipients []string, logger *slog.Logger) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, userID := range recipients {
		endpoints, err := d.Endpoints.ListByUser(ctx, userID)
		if err != nil {
			logger.Warn("could not list endpoints", "user_id", userID, "error", err)
			continue
		}
		for _, endpoint := range endpoints {
			if endpoint.Token == "" || seen[endpoint.Token] {
				continue
			}
			seen[endpoint.Token] = true
			tokens = append(tokens, endpoint.Token)
		}
	}
	return tokens
}

// compose builds the notification payload. The sender lookup is best-effort:
// a missing profile falls back to a localized placeholder name, and an empty
// message body falls back to a localized stock body.
func (d *Dispatcher) compose(ctx context.Context, message chat.Message) Notification {
	localizer := LoadLocalizer(d.Lang)

	title := localizeFallbackSender(localizer)
	if sender, err := d.Users.Get(ctx, message.SenderID); err == nil && sender.DisplayName != "" {
		title = sender.DisplayName
	}

	body := message.Body
	if body == "" {
		body = localizeFallbackBody(localizer)
	}

	return Notification{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"conversationId": message.ConversationID,
			"senderId":       message.SenderID,
			"messageId":      message.ID,
			"type":           NotificationType,
		},
	}
}

// reconcile prunes endpoints whose outcome says the registration is gone.
// The delete is one best-effort batch: a partial failure is logged and left
// for a future dispatch to retry.
func (d *Dispatcher) reconcile(ctx context.Context, deliveries []Delivery, logger *slog.Logger) {
	var invalid []string
	for _, delivery := range deliveries {
		if delivery.Outcome == OutcomePermanent {
			invalid = append(invalid, delivery.Token)
		}
	}
	if len(invalid) == 0 {
		logger.Info("reconciled, no invalid endpoints")
		return
	}
	if err := d.Endpoints.DeleteBatch(ctx, invalid); err != nil {
		logger.Warn("could not delete invalid endpoints", "count", len(invalid), "error", err)
		return
	}
	logger.Info("deleted invalid endpoints", "count", len(invalid))
}
