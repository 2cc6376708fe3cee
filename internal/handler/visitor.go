package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/maxviazov/campaign-site/internal/service"
	"github.com/maxviazov/campaign-site/pkg/response"
	"github.com/rs/zerolog"
)

// VisitorStream accepts upgraded websocket subscribers of the live counter.
type VisitorStream interface {
	Serve(conn *websocket.Conn, initial int64)
}

type VisitorHandler struct {
	svc      service.VisitorService
	stream   VisitorStream
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewVisitorHandler(svc service.VisitorService, stream VisitorStream, allowedOrigins []string, logger zerolog.Logger) *VisitorHandler {
	return &VisitorHandler{
		svc:    svc,
		stream: stream,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(allowedOrigins, r.Header.Get("Origin"))
			},
		},
		log: logger.With().Str("component", "visitor").Logger(),
	}
}

func (h *VisitorHandler) Register(public, admin *gin.RouterGroup, noStore, limiter gin.HandlerFunc) {
	g := public.Group("/visitor", noStore)
	{
		g.POST("/increment", limiter, h.increment)
		g.GET("/count", h.count)
		if h.stream != nil {
			g.GET("/ws", h.subscribe)
		}
	}
	admin.POST("/visitor/reset", h.reset)
}

func (h *VisitorHandler) increment(c *gin.Context) {
	out, err := h.svc.Increment(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, out)
}

func (h *VisitorHandler) count(c *gin.Context) {
	out, err := h.svc.Count(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, out)
}

func (h *VisitorHandler) reset(c *gin.Context) {
	out, err := h.svc.Reset(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, out)
}

// subscribe upgrades the request and hands the connection to the stream,
// which pushes the current count first and every change after it.
func (h *VisitorHandler) subscribe(c *gin.Context) {
	current, err := h.svc.Count(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	h.stream.Serve(conn, current.Count)
}
