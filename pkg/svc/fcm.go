package svc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/consultly/chatnotify/pkg/dispatch"
)

// DefaultFCMURL is the FCM legacy HTTP multicast endpoint
const DefaultFCMURL = "https://fcm.googleapis.com/fcm/send"

// DefaultFCMTimeout bounds one multicast call
const DefaultFCMTimeout = 10 * time.Second

// FCMClient implements the dispatch.Gateway interface for Firebase Cloud
// Messaging. One call covers every token via registration_ids, and FCM
// returns one result per token in the same order.
type FCMClient struct {
	Client    *http.Client
	ServerKey string
	URL       string
}

// NewFCMClient creates an FCMClient with a bounded request timeout
func NewFCMClient(serverKey string, timeout time.Duration) *FCMClient {
	if timeout <= 0 {
		timeout = DefaultFCMTimeout
	}
	return &FCMClient{
		Client:    &http.Client{Timeout: timeout},
		ServerKey: serverKey,
		URL:       DefaultFCMURL,
	}
}

type fcmNotification struct {
	Title            string `json:"title"`
	Body             string `json:"body"`
	Sound            string `json:"sound"`
	Badge            string `json:"badge"`
	AndroidChannelID string `json:"android_channel_id"`
}

type fcmRequest struct {
	RegistrationIDs  []string          `json:"registration_ids"`
	Notification     fcmNotification   `json:"notification"`
	Data             map[string]string `json:"data,omitempty"`
	Priority         string            `json:"priority"`
	ContentAvailable bool              `json:"content_available"`
}

type fcmResult struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

type fcmResponse struct {
	Success int         `json:"success"`
	Failure int         `json:"failure"`
	Results []fcmResult `json:"results"`
}

// SendMulticast submits one batched request for all tokens and maps FCM's
// per-token error codes onto the three-way delivery outcome
func (c *FCMClient) SendMulticast(ctx context.Context, notification dispatch.Notification, tokens []string) ([]dispatch.Delivery, error) {
	payload := fcmRequest{
		RegistrationIDs: tokens,
		Notification: fcmNotification{
			Title:            notification.Title,
			Body:             notification.Body,
			Sound:            "default",
			Badge:            "1",
			AndroidChannelID: "chat_messages",
		},
		Data:             notification.Data,
		Priority:         "high",
		ContentAvailable: true,
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.URL, bytes.NewReader(payloadJSON))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("key=%s", c.ServerKey))

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fcm returned status %d", res.StatusCode)
	}

	var fcmRes fcmResponse
	if err := json.NewDecoder(res.Body).Decode(&fcmRes); err != nil {
		return nil, err
	}
	if len(fcmRes.Results) != len(tokens) {
		return nil, fmt.Errorf("fcm returned %d results for %d tokens", len(fcmRes.Results), len(tokens))
	}

	deliveries := make([]dispatch.Delivery, len(tokens))
	for i, result := range fcmRes.Results {
		deliveries[i] = dispatch.Delivery{
			Token:   tokens[i],
			Outcome: classifyResult(result),
		}
	}
	return deliveries, nil
}

// classifyResult maps an FCM result onto a delivery outcome. Only codes
// meaning the registration itself is gone count as permanent; anything else
// may succeed on a later dispatch.
func classifyResult(result fcmResult) dispatch.Outcome {
	switch result.Error {
	case "":
		return dispatch.OutcomeDelivered
	case "NotRegistered", "InvalidRegistration", "MissingRegistration":
		return dispatch.OutcomePermanent
	}
	return dispatch.OutcomeTransient
}
