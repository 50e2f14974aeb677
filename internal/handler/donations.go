package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zero-Base-1/DonationTracker/internal/model"
	"github.com/Zero-Base-1/DonationTracker/internal/service"
)

type DonationHandler struct {
	svc    *service.DonationService
	logger *zap.Logger
}

func NewDonationHandler(svc *service.DonationService, logger *zap.Logger) *DonationHandler {
	return &DonationHandler{svc: svc, logger: logger}
}

func (h *DonationHandler) List(c *gin.Context) {
	ident, _ := CurrentIdentity(c)
	donations, err := h.svc.List(c.Request.Context(), ident)
	if err != nil {
		h.logger.Error("failed to list donations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": donations})
}

func (h *DonationHandler) Get(c *gin.Context) {
	ident, _ := CurrentIdentity(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid id"})
		return
	}

	donation, err := h.svc.Get(c.Request.Context(), ident, id)
	if err != nil {
		writeCRUDError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, donation)
}

func (h *DonationHandler) Create(c *gin.Context) {
	ident, _ := CurrentIdentity(c)
	var in model.DonationInput
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

func (h *DonationHandler) Update(c *gin.Context) {
	ident, _ := CurrentIdentity(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid id"})
		return
	}

	var in model.DonationInput
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

func (h *DonationHandler) Delete(c *gin.Context) {
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

func writeCRUDError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "not found"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid input"})
	default:
		logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
	}
}
