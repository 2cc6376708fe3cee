package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/campaign-site/internal/config"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/service"
	"github.com/rs/zerolog"
)

// Deps carries everything the HTTP layer needs. Stream may be nil, in which case
// the websocket endpoint is not mounted.
type Deps struct {
	Pinger   Pinger
	Photos   service.ContentService[model.Photo]
	Videos   service.ContentService[model.Video]
	Press    service.ContentService[model.PressArticle]
	Contact  service.ContactService
	Visitors service.VisitorService
	Stream   VisitorStream
	HTTP     config.HTTPConfig
	Auth     config.AuthConfig
	Logger   zerolog.Logger
}

// Register mounts middleware and all routes on the given engine.
func Register(r *gin.Engine, d Deps) {
	log := d.Logger.With().Str("module", "handler").Logger()
	r.Use(RequestLogger(log), CORS(d.HTTP.AllowedOrigins))

	h := NewHealthHandler(d.Pinger)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	listCache := CacheControl(fmt.Sprintf(cachePublic, d.HTTP.ListMaxAge))
	noStore := CacheControl(cacheNoStore)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}

		admin := api.Group("/admin", noStore, AdminAuth(d.Auth.AdminToken))

		NewContentHandler(model.KindPhotos, d.Photos).Register(api, admin, listCache)
		NewContentHandler(model.KindVideos, d.Videos).Register(api, admin, listCache)
		NewContentHandler(model.KindPress, d.Press).Register(api, admin, listCache)

		NewVisitorHandler(d.Visitors, d.Stream, d.HTTP.AllowedOrigins, log).
			Register(api, admin, noStore, RateLimit(d.HTTP.VisitorRatePerMinute))
		NewContactHandler(d.Contact).
			Register(api, admin, noStore, RateLimit(d.HTTP.ContactRatePerMinute))
	}
}
