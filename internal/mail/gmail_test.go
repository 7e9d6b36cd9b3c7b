package mail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

func newGmailTransport(t *testing.T, handler http.HandlerFunc) *Gmail {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	service, err := gmail.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"),
	)
	require.NoError(t, err)
	return NewGmailFromService(service)
}

func writeGmailError(w http.ResponseWriter, code int, message, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
			"errors":  []map[string]string{{"reason": reason, "message": message}},
		},
	})
}

func TestGmailSendSuccess(t *testing.T) {
	var calls atomic.Int32
	transport := newGmailTransport(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/gmail/v1/users/me/messages/send", r.URL.Path)

		var payload gmail.Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		raw, err := base64.URLEncoding.DecodeString(payload.Raw)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "To: a@x.com\r\n")
		assert.Contains(t, string(raw), "Subject: Launch\r\n")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"18c0ffee","threadId":"18c0ffee"}`))
	})

	outcome := transport.Send(context.Background(), Message{Subject: "Launch", Body: "We are live", Recipient: "a@x.com"})

	assert.Equal(t, Sent("a@x.com", "18c0ffee"), outcome)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "gmail", transport.Name())
}

func TestGmailSendRateLimited(t *testing.T) {
	var calls atomic.Int32
	transport := newGmailTransport(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeGmailError(w, http.StatusTooManyRequests, "User-rate limit exceeded", "rateLimitExceeded")
	})

	outcome := transport.Send(context.Background(), Message{Subject: "s", Body: "b", Recipient: "a@x.com"})

	assert.False(t, outcome.Sent)
	assert.Equal(t, ClassRateLimited, outcome.Class)
	assert.False(t, outcome.Heuristic)
	assert.True(t, outcome.StopsBatch())
	assert.Equal(t, int32(1), calls.Load(), "no retry inside the transport")
}

func TestGmailSendDailyLimitByWording(t *testing.T) {
	transport := newGmailTransport(t, func(w http.ResponseWriter, r *http.Request) {
		writeGmailError(w, http.StatusForbidden, "Daily Limit Exceeded", "forbidden")
	})

	outcome := transport.Send(context.Background(), Message{Recipient: "b@x.com"})

	assert.Equal(t, ClassQuotaExceeded, outcome.Class)
	assert.True(t, outcome.Heuristic)
	assert.Contains(t, outcome.Reason, "Daily Limit Exceeded")
}

func TestGmailSendInvalidRecipient(t *testing.T) {
	transport := newGmailTransport(t, func(w http.ResponseWriter, r *http.Request) {
		writeGmailError(w, http.StatusBadRequest, "Invalid To header", "invalidArgument")
	})

	outcome := transport.Send(context.Background(), Message{Recipient: "not-an-address"})

	assert.False(t, outcome.Sent)
	assert.Equal(t, ClassOther, outcome.Class)
	assert.Equal(t, "not-an-address", outcome.Recipient.String())
}
