package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dsavelev/remindsync/internal/client/models"
	"github.com/dsavelev/remindsync/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestPing_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewHTTPClient(srv.URL)
	err := c.Ping(context.Background())
	assert.ErrorIs(t, err, common.ErrUnavailable)
}

func TestPing_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	assert.ErrorIs(t, c.Ping(context.Background()), common.ErrUnavailable)
}

func TestSyncReminders(t *testing.T) {
	var gotBody struct {
		Reminders []models.Reminder `json:"reminders"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sync-reminders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(SyncStats{Received: len(gotBody.Reminders), Scheduled: 1})
	}))
	defer srv.Close()

	rs := []models.Reminder{{
		ID:          1700000000000,
		ScheduledAt: time.Now().Add(time.Hour).UTC(),
		Note:        "call Bob",
		Repeat:      models.RuleOnce,
		CreatedAt:   time.Now().UTC(),
	}}

	c := NewHTTPClient(srv.URL)
	stats, err := c.SyncReminders(context.Background(), rs)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Received)
	require.Len(t, gotBody.Reminders, 1)
	assert.Equal(t, "call Bob", gotBody.Reminders[0].Note)
}

func TestVapidPublicKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vapid-public-key", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"publicKey": "BKeyMaterial"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	key, err := c.VapidPublicKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "BKeyMaterial", key)
}

func TestVapidPublicKey_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.VapidPublicKey(context.Background())
	assert.Error(t, err)
}

func TestSubscribe(t *testing.T) {
	var got PushSubscription
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscribe", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	sub := &PushSubscription{
		Endpoint: "https://push.example/send/abc",
		Keys:     SubscriptionKeys{P256dh: "p", Auth: "a"},
	}
	require.NoError(t, c.Subscribe(context.Background(), sub))
	assert.Equal(t, *sub, got)
}
