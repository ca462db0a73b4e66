package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"finquest/internal/services"
)

type ReportHandler struct {
	Service services.ReportService
}

func NewReportHandler(service services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// @Summary      Income/expense summary for a period
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "Period start (YYYY-MM-DD), defaults to month start"
// @Param        to    query     string  false  "Period end (YYYY-MM-DD), defaults to month end"
// @Success      200   {object}  services.ReportSummary
// @Router       /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	from, to, err := parsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period, expected YYYY-MM-DD"})
		return
	}

	data, err := h.Service.Summary(userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

// @Summary      Download a PDF statement for a period
// @Tags         Reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        from  query  string  false  "Period start (YYYY-MM-DD)"
// @Param        to    query  string  false  "Period end (YYYY-MM-DD)"
// @Success      200
// @Router       /reports/statement [get]
func (h *ReportHandler) GetStatement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	from, to, err := parsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period, expected YYYY-MM-DD"})
		return
	}

	path, err := h.Service.Statement(userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
