package mailer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *ResendClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	c, err := newResendClientWithBaseURL("re_test", ts.Client(), ts.URL)
	require.NoError(t, err)
	return c
}

func TestSend_PostsMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "noreply@city.gov", body["from"])
		assert.Equal(t, []any{"x@y.com"}, body["to"])
		assert.Equal(t, "Hello", body["subject"])
		assert.Equal(t, "<p>hi</p>", body["html"])

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": "email_123"}`)
	})

	id, err := c.Send(context.Background(), Message{From: "noreply@city.gov", To: []string{"x@y.com"}, Subject: "Hello", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, "email_123", id)
}

func TestSend_RejectedMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"statusCode": 422, "name": "validation_error", "message": "invalid from address"}`)
	})

	_, err := c.Send(context.Background(), Message{To: []string{"x@y.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send email")
	assert.Contains(t, err.Error(), "invalid from address")
}

func TestSend_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Send(context.Background(), Message{To: []string{"x@y.com"}})
	require.Error(t, err)
}
