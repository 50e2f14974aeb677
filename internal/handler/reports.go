package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zero-Base-1/DonationTracker/internal/model"
	"github.com/Zero-Base-1/DonationTracker/internal/service"
)

type ReportHandler struct {
	svc    *service.ReportService
	logger *zap.Logger
}

func NewReportHandler(svc *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: logger}
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	ident, _ := CurrentIdentity(c)
	dashboard, err := h.svc.Dashboard(c.Request.Context(), ident)
	if err != nil {
		h.logger.Error("failed to build dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *ReportHandler) Reports(c *gin.Context) {
	ident, _ := CurrentIdentity(c)
	reports, err := h.svc.Reports(c.Request.Context(), ident)
	if err != nil {
		h.logger.Error("failed to build reports", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// Users lists every account for the admin area.
func (h *ReportHandler) Users(c *gin.Context) {
	users, err := h.svc.Users(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *ReportHandler) Activity(c *gin.Context) {
	feed, err := h.svc.ActivityFeed(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load activity feed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": feed})
}
