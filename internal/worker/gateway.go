package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dsavelev/remindsync/internal/common"
	"github.com/dsavelev/remindsync/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

// GatewayConfig wires the gateway to its two upstreams.
type GatewayConfig struct {
	// AuthorityURL is the remote authority's address. Requests addressed
	// to this host:port are never served from cache: they pass through to
	// the network unmodified and fail naturally when offline.
	AuthorityURL string

	// OriginURL is the upstream serving the application's static assets,
	// used to satisfy cache misses while online.
	OriginURL string

	// AllowedOrigins configures CORS for foreground instances.
	AllowedOrigins []string
}

// Gateway is the worker's HTTP surface: inbound pushes, the subscription
// and message endpoints for the foreground application, and the caching
// fetch layer for everything else.
type Gateway struct {
	worker        *Worker
	authorityHost string
	authorityURL  string
	originURL     string
	http          *http.Client
	log           logging.Logger
}

func NewGateway(w *Worker, cfg GatewayConfig, log logging.Logger) (*Gateway, error) {
	au, err := url.Parse(cfg.AuthorityURL)
	if err != nil {
		return nil, fmt.Errorf("parse authority url: %w", err)
	}

	return &Gateway{
		worker:        w,
		authorityHost: au.Host,
		authorityURL:  cfg.AuthorityURL,
		originURL:     cfg.OriginURL,
		http:          &http.Client{Timeout: 15 * time.Second},
		log:           log,
	}, nil
}

// Router builds the chi router for the gateway.
func (g *Gateway) Router(cfg GatewayConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Content-Type", "Origin"},
		}))
	}

	r.Post("/push/{token}", g.handlePush)
	r.Post("/subscribe", g.handleSubscribe)
	r.Post("/message", g.handleMessage)
	r.Post("/notification-action", g.handleNotificationAction)
	r.Get("/version", g.handleVersion)
	r.Get("/events", g.handleEvents)
	r.HandleFunc("/*", g.handleFetch)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handlePush receives an inbound push from the transport. An unknown token
// means the subscription was invalidated; the worker answers 410 and
// re-subscribes on its own, with no foreground application involved.
func (g *Gateway) handlePush(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := chi.URLParam(r, "token")

	sub := g.worker.subscription()
	if sub == nil || sub.Token != token {
		g.log.Warn(ctx, "push for unknown subscription", "token", token)
		go func() {
			rctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := g.worker.Resubscribe(rctx); err != nil {
				g.log.Error(rctx, "resubscribe failed", "error", err)
			}
		}()
		writeJSON(w, http.StatusGone, map[string]string{"error": "subscription invalidated"})
		return
	}

	if err := verifyVapidAuth(r.Header.Get("Authorization"), sub.vapid); err != nil {
		if errors.Is(err, common.ErrInvalidPushAuth) {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	raw, _ := io.ReadAll(io.LimitReader(r.Body, 4096))
	g.worker.HandlePush(ctx, raw)

	writeJSON(w, http.StatusCreated, map[string]string{"status": "delivered"})
}

func (g *Gateway) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ApplicationServerKey string `json:"applicationServerKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ApplicationServerKey == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "applicationServerKey required"})
		return
	}

	sub, err := g.worker.Subscribe(r.Context(), req.ApplicationServerKey)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (g *Gateway) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": g.worker.Version()})
}

// handleMessage accepts application→worker messages.
func (g *Gateway) handleMessage(w http.ResponseWriter, r *http.Request) {
	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid message"})
		return
	}

	switch msg.Type {
	case MsgSkipWaiting:
		g.worker.SkipWaiting(r.Context())
		w.WriteHeader(http.StatusNoContent)
	case MsgGetVersion:
		writeJSON(w, http.StatusOK, Message{Type: MsgGetVersion, Version: g.worker.Version()})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown message type"})
	}
}

// handleNotificationAction reports a user interaction with a rendered
// notification back to the worker, which closes it and routes the click
// to a foreground instance.
func (g *Gateway) handleNotificationAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action       string       `json:"action"`
		Notification Notification `json:"notification"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid notification action"})
		return
	}

	if err := g.worker.HandleNotificationAction(r.Context(), req.Action, req.Notification); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sseInstance is a foreground instance connected over the event stream.
type sseInstance struct {
	id     string
	origin string
	events chan sseEvent
}

type sseEvent struct {
	name string
	msg  *Message
}

func (i *sseInstance) ID() string     { return i.id }
func (i *sseInstance) Origin() string { return i.origin }

func (i *sseInstance) Focus(ctx context.Context) error {
	select {
	case i.events <- sseEvent{name: "focus"}:
		return nil
	default:
		return fmt.Errorf("instance %s unreachable", i.id)
	}
}

func (i *sseInstance) Post(ctx context.Context, msg Message) error {
	select {
	case i.events <- sseEvent{name: "message", msg: &msg}:
		return nil
	default:
		return fmt.Errorf("instance %s unreachable", i.id)
	}
}

// handleEvents registers the connecting foreground instance and streams
// worker→application messages to it until it disconnects.
func (g *Gateway) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = g.worker.origin
	}

	inst := &sseInstance{
		id:     uuid.NewString(),
		origin: origin,
		events: make(chan sseEvent, 16),
	}
	g.worker.registry.Register(inst)
	defer g.worker.registry.Unregister(inst.id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-inst.events:
			if ev.msg != nil {
				data, _ := json.Marshal(ev.msg)
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, data)
			} else {
				fmt.Fprintf(w, "event: %s\ndata: {}\n\n", ev.name)
			}
			flusher.Flush()
		}
	}
}

// handleFetch is the generic fetch path. Requests addressed to the remote
// authority's host pass straight through to the network, cached never,
// failing naturally when offline. Everything else is cache-first with a
// live fetch on miss; a failed fetch for a non-cached resource yields a
// synthetic failure response instead of an unhandled error.
func (g *Gateway) handleFetch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Host == g.authorityHost {
		g.passThrough(w, r)
		return
	}

	asset := r.URL.Path
	if data, ok := g.worker.cache.Get(asset); ok {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, g.originURL+r.URL.RequestURI(), r.Body)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "offline"})
		return
	}
	req.Header = r.Header.Clone()
	resp, err := g.http.Do(req)
	if err != nil {
		g.log.Debug(ctx, "fetch failed for non-cached resource", "path", asset, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "offline"})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "offline"})
		return
	}

	if resp.StatusCode == http.StatusOK && r.Method == http.MethodGet {
		if err := g.worker.cache.Put(asset, body); err != nil {
			g.log.Warn(ctx, "failed to cache fetched asset", "path", asset, "error", err)
		}
	}

	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(body)
}

// passThrough forwards the request to the authority unmodified. Transport
// errors surface as a plain upstream failure; the caller handles it.
func (g *Gateway) passThrough(w http.ResponseWriter, r *http.Request) {
	req, err := http.NewRequestWithContext(r.Context(), r.Method, g.authorityURL+r.URL.RequestURI(), r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	req.Header = r.Header.Clone()

	resp, err := g.http.Do(req)
	if err != nil {
		http.Error(w, "authority unreachable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}
