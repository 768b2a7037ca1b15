package authority

import (
	"encoding/json"
	"net/http"

	"github.com/dsavelev/remindsync/internal/client/api"
	"github.com/dsavelev/remindsync/internal/client/models"
	"github.com/dsavelev/remindsync/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	storage *Storage
	keys    *VapidKeys
	pusher  *Pusher
	log     logging.Logger
}

func NewHandler(storage *Storage, keys *VapidKeys, pusher *Pusher, log logging.Logger) *Handler {
	return &Handler{storage: storage, keys: keys, pusher: pusher, log: log}
}

// Router serves the authority contract plus the dev-only push trigger.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/", h.handleLiveness)
	r.Post("/sync-reminders", h.handleSync)
	r.Get("/vapid-public-key", h.handleVapidKey)
	r.Post("/subscribe", h.handleSubscribe)
	r.Post("/dev/push", h.handleDevPush)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reminders []models.Reminder `json:"reminders"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	n := h.storage.ReplaceReminders(req.Reminders)
	h.log.Info(r.Context(), "reminder mirror replaced", "count", n)

	writeJSON(w, http.StatusOK, api.SyncStats{
		Received:  n,
		Scheduled: n,
		Message:   "mirror replaced",
	})
}

func (h *Handler) handleVapidKey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"publicKey": h.keys.PublicKey()})
}

func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var sub api.PushSubscription
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil || sub.Endpoint == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid subscription"})
		return
	}

	h.storage.SetSubscription(&sub)
	h.log.Info(r.Context(), "subscription registered", "endpoint", sub.Endpoint)

	writeJSON(w, http.StatusCreated, map[string]string{"status": "subscribed"})
}

// handleDevPush triggers one push to the registered subscription. The body,
// if any, is forwarded as the push payload. This is a manual dev/test hook;
// the real authority decides deliveries on its own schedule.
func (h *Handler) handleDevPush(w http.ResponseWriter, r *http.Request) {
	sub := h.storage.Subscription()
	if sub == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no subscription registered"})
		return
	}

	var payload json.RawMessage
	_ = json.NewDecoder(r.Body).Decode(&payload)

	if err := h.pusher.Push(r.Context(), sub, payload); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pushed"})
}
