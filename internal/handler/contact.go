package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/repository"
	"github.com/maxviazov/campaign-site/internal/service"
	"github.com/maxviazov/campaign-site/pkg/response"
)

type ContactHandler struct {
	svc service.ContactService
}

func NewContactHandler(svc service.ContactService) *ContactHandler { return &ContactHandler{svc: svc} }

func (h *ContactHandler) Register(public, admin *gin.RouterGroup, noStore, limiter gin.HandlerFunc) {
	public.POST("/contact", noStore, limiter, h.submit)

	a := admin.Group("/contact")
	{
		a.GET("", h.list)
		a.PATCH("/:id", h.markRead)
		a.DELETE("/:id", h.delete)
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *ContactHandler) submit(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	out, err := h.svc.Submit(c.Request.Context(), model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, gin.H{"id": out.ID, "createdAt": out.CreatedAt})
}

type contactPage struct {
	Items []model.ContactMessage `json:"items"`
	Total int                    `json:"total"`
}

func (h *ContactHandler) list(c *gin.Context) {
	// unparsable values become 0 and the service applies its defaults
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	unread := parseBoolQuery(c.Query("unread"))
	page := repository.Page{Limit: limit, Offset: offset}
	res, err := h.svc.List(c.Request.Context(), page, unread)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, contactPage{Items: res.Items, Total: res.Total})
}

type markReadRequest struct {
	Read *bool `json:"read"`
}

func (h *ContactHandler) markRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Read == nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "read", Message: "must be a boolean"}}))
		return
	}
	out, err := h.svc.MarkRead(c.Request.Context(), c.Param("id"), *req.Read)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, out)
}

func (h *ContactHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteNoContent(c)
}
