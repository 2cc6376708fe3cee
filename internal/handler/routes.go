package handler

// APIV1Prefix is the canonical base path for public HTTP API v1.
const APIV1Prefix = "/api/v1"

// Cache-Control values of the public surface.
const (
	cacheNoStore = "no-store"
	cachePublic  = "public, max-age=%d"
)
