package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/service"
	"github.com/maxviazov/campaign-site/pkg/response"
)

// ContentHandler serves one content kind: public list/detail plus admin CRUD.
type ContentHandler[T any] struct {
	kind model.Kind
	svc  service.ContentService[T]
}

func NewContentHandler[T any](kind model.Kind, svc service.ContentService[T]) *ContentHandler[T] {
	return &ContentHandler[T]{kind: kind, svc: svc}
}

// Register mounts /{kind} on public and /admin/{kind} on admin.
// listCache is applied to the public read routes only.
func (h *ContentHandler[T]) Register(public, admin *gin.RouterGroup, listCache gin.HandlerFunc) {
	g := public.Group("/" + string(h.kind))
	{
		g.GET("", listCache, h.list(false))
		g.GET("/:id", listCache, h.get(false))
	}
	a := admin.Group("/" + string(h.kind))
	{
		a.GET("", h.list(true))
		a.GET("/:id", h.get(true))
		a.POST("", h.create)
		a.PUT("/:id", h.update)
		a.DELETE("/:id", h.delete)
	}
}

func (h *ContentHandler[T]) list(includeUnpublished bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q model.ListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			// page=abc and friends; the parser detail is not useful to callers
			response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "query", Message: "page and limit must be integers"}}))
			return
		}
		res, err := h.svc.List(c.Request.Context(), q, includeUnpublished)
		if err != nil {
			response.WriteError(c, err)
			return
		}
		response.WriteData(c, http.StatusOK, res)
	}
}

func (h *ContentHandler[T]) get(includeUnpublished bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := h.svc.Get(c.Request.Context(), c.Param("id"), includeUnpublished)
		if err != nil {
			response.WriteError(c, err)
			return
		}
		response.WriteData(c, http.StatusOK, item)
	}
}

func (h *ContentHandler[T]) create(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	out, err := h.svc.Create(c.Request.Context(), item)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, out)
}

func (h *ContentHandler[T]) update(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	out, err := h.svc.Update(c.Request.Context(), c.Param("id"), item)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, out)
}

func (h *ContentHandler[T]) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteNoContent(c)
}
