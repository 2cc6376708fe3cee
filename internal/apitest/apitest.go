// Package apitest runs the real HTTP API over in-memory storage for tests.
package apitest

import (
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/campaign-site/internal/config"
	"github.com/maxviazov/campaign-site/internal/handler"
	"github.com/maxviazov/campaign-site/internal/repository"
	"github.com/maxviazov/campaign-site/internal/repository/memory"
	"github.com/maxviazov/campaign-site/internal/service"
	"github.com/rs/zerolog"
)

// AdminToken is accepted on the admin routes of every test server.
const AdminToken = "test-admin-token"

// Server is a running API plus the store behind it and a request log.
type Server struct {
	*httptest.Server
	Store repository.Store
	// BaseURL includes the API prefix.
	BaseURL string

	requests atomic.Int64
	mu       sync.Mutex
	log      []string
}

// Requests counts requests that reached the API.
func (s *Server) Requests() int64 { return s.requests.Load() }

// Paths returns "METHOD /path?query" for every request so far.
func (s *Server) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.log...)
}

// Middleware runs before the API on every request; a handler that aborts
// short-circuits the API (useful to inject failures).
type Middleware = gin.HandlerFunc

// New starts a server and closes it with the test.
func New(t testing.TB, mws ...Middleware) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	log := zerolog.Nop()

	s := &Server{Store: store}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		s.requests.Add(1)
		line := c.Request.Method + " " + c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			line += "?" + q
		}
		s.mu.Lock()
		s.log = append(s.log, line)
		s.mu.Unlock()
		c.Next()
	})
	for _, mw := range mws {
		r.Use(mw)
	}
	handler.Register(r, handler.Deps{
		Pinger:   store.Pinger,
		Photos:   service.NewPhotoService(store.Photos, log),
		Videos:   service.NewVideoService(store.Videos, log),
		Press:    service.NewPressService(store.Press, log),
		Contact:  service.NewContactService(store.Contact, log),
		Visitors: service.NewVisitorService(store.Visitors, store.Tx, nil, log),
		HTTP: config.HTTPConfig{
			AllowedOrigins:       []string{"*"},
			ListMaxAge:           60,
			VisitorRatePerMinute: 1000,
			ContactRatePerMinute: 1000,
			ShutdownTimeout:      1,
		},
		Auth:   config.AuthConfig{AdminToken: AdminToken},
		Logger: log,
	})
	s.Server = httptest.NewServer(r)
	s.BaseURL = s.URL + handler.APIV1Prefix
	t.Cleanup(s.Close)
	return s
}

// ResetLog forgets the requests seen so far.
func (s *Server) ResetLog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = nil
	s.requests.Store(0)
}
