package svc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultly/chatnotify/pkg/dispatch"
)

func newTestClient(url string) *FCMClient {
	client := NewFCMClient("test-key", time.Second)
	client.URL = url
	return client
}

func TestSendMulticastClassifiesOutcomes(t *testing.T) {
	var gotReq fcmRequest
	var gotAuth string
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(fcmResponse{
			Success: 1,
			Failure: 2,
			Results: []fcmResult{
				{MessageID: "0:1"},
				{Error: "NotRegistered"},
				{Error: "Unavailable"},
			},
		})
	}))
	defer server.Close()

	notification := dispatch.Notification{
		Title: "Amara Osei",
		Body:  "Hi there",
		Data:  map[string]string{"type": "chat_message"},
	}
	deliveries, err := newTestClient(server.URL).SendMulticast(context.Background(), notification, []string{"t1", "t2", "t3"})
	require.NoError(t, err)

	assert.Equal(t, []dispatch.Delivery{
		{Token: "t1", Outcome: dispatch.OutcomeDelivered},
		{Token: "t2", Outcome: dispatch.OutcomePermanent},
		{Token: "t3", Outcome: dispatch.OutcomeTransient},
	}, deliveries)

	// one batched call carries every token
	assert.Equal(t, 1, requests)
	assert.Equal(t, []string{"t1", "t2", "t3"}, gotReq.RegistrationIDs)
	assert.Equal(t, "key=test-key", gotAuth)
	assert.Equal(t, "Amara Osei", gotReq.Notification.Title)
	assert.Equal(t, "high", gotReq.Priority)
	assert.Equal(t, "chat_messages", gotReq.Notification.AndroidChannelID)
}

func TestSendMulticastGatewayStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SendMulticast(context.Background(), dispatch.Notification{}, []string{"t1"})
	assert.Error(t, err)
}

func TestSendMulticastResultCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(fcmResponse{Results: []fcmResult{{MessageID: "0:1"}}})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SendMulticast(context.Background(), dispatch.Notification{}, []string{"t1", "t2"})
	assert.Error(t, err)
}

func TestClassifyResult(t *testing.T) {
	cases := []struct {
		code    string
		outcome dispatch.Outcome
	}{
		{"", dispatch.OutcomeDelivered},
		{"NotRegistered", dispatch.OutcomePermanent},
		{"InvalidRegistration", dispatch.OutcomePermanent},
		{"MissingRegistration", dispatch.OutcomePermanent},
		{"Unavailable", dispatch.OutcomeTransient},
		{"InternalServerError", dispatch.OutcomeTransient},
		{"DeviceMessageRateExceeded", dispatch.OutcomeTransient},
	}
	for _, c := range cases {
		assert.Equal(t, c.outcome, classifyResult(fcmResult{Error: c.code}), c.code)
	}
}
