package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zero-Base-1/DonationTracker/internal/model"
	"github.com/Zero-Base-1/DonationTracker/internal/service"
)

type EventHandler struct {
	svc    *service.EventService
	logger *zap.Logger
}

func NewEventHandler(svc *service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, logger: logger}
}

func (h *EventHandler) List(c *gin.Context) {
	ident, _ := CurrentIdentity(c)
	events, err := h.svc.List(c.Request.Context(), ident)
	if err != nil {
		h.logger.Error("failed to list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) Get(c *gin.Context) {
	ident, _ := CurrentIdentity(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid id"})
		return
	}

	event, err := h.svc.Get(c.Request.Context(), ident, id)
	if err != nil {
		writeCRUDError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	ident, _ := CurrentIdentity(c)
	var in model.EventInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	id, err := h.svc.Create(c.Request.Context(), ident, in)
	if err != nil {
		writeCRUDError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *EventHandler) Update(c *gin.Context) {
	ident, _ := CurrentIdentity(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid id"})
		return
	}

	var in model.EventInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	if err := h.svc.Update(c.Request.Context(), ident, id, in); err != nil {
		writeCRUDError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "updated"})
}

func (h *EventHandler) Delete(c *gin.Context) {
	ident, _ := CurrentIdentity(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), ident, id); err != nil {
		writeCRUDError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "deleted"})
}
