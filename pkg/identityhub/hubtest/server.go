// Package hubtest provides an in-memory Identity Hub speaking the hub HTTP
// API, for tests and local development.
package hubtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tcfw/vcverify/internal/utils/logging"
	"github.com/tcfw/vcverify/pkg/credential"
)

const maxBody = 1 << 20

// Hub stores envelopes per hub name. Each hub is served under
// /hubs/{name}/credentials.
type Hub struct {
	router chi.Router

	mu       sync.Mutex
	hubs     map[string][]credential.Envelope
	token    string
	failWith int
	delay    time.Duration
	requests int
}

type Option func(*Hub)

// WithToken requires requests to carry the bearer token
func WithToken(token string) Option {
	return func(h *Hub) {
		h.token = token
	}
}

// WithDelay holds each response back for d, or until the request is cancelled
func WithDelay(d time.Duration) Option {
	return func(h *Hub) {
		h.delay = d
	}
}

func NewHub(opts ...Option) *Hub {
	h := &Hub{hubs: map[string][]credential.Envelope{}}

	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(h.count, h.inject, h.auth)
	r.Get("/hubs/{hub}/credentials", h.list)
	r.Post("/hubs/{hub}/credentials", h.add)
	h.router = r

	return h
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Put stores envelopes directly, bypassing the API
func (h *Hub) Put(hub string, envs ...credential.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hubs[hub] = append(h.hubs[hub], envs...)
}

func (h *Hub) Envelopes(hub string) []credential.Envelope {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]credential.Envelope{}, h.hubs[hub]...)
}

// FailWith makes every following request fail with status; 0 restores
// normal operation
func (h *Hub) FailWith(status int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.failWith = status
}

// Requests counts the requests received
func (h *Hub) Requests() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.requests
}

func (h *Hub) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.requests++
		h.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (h *Hub) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		status, delay := h.failWith, h.delay
		h.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Hub) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.token != "" && r.Header.Get("Authorization") != "Bearer "+h.token {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Hub) list(w http.ResponseWriter, r *http.Request) {
	envs := h.Envelopes(chi.URLParam(r, "hub"))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(envs); err != nil {
		logging.Component("hubtest").WithError(err).Warn("writing envelopes")
	}
}

func (h *Hub) add(w http.ResponseWriter, r *http.Request) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var env credential.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.Put(chi.URLParam(r, "hub"), env)

	w.WriteHeader(http.StatusCreated)
}

// Server runs a Hub on a local httptest server
type Server struct {
	*httptest.Server
	Hub *Hub
}

func NewServer(opts ...Option) *Server {
	h := NewHub(opts...)

	return &Server{
		Server: httptest.NewServer(h),
		Hub:    h,
	}
}

// HubURL is the service endpoint of the named hub
func (s *Server) HubURL(hub string) string {
	return s.URL + "/hubs/" + hub
}
