package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-assistant-api/internal/dto"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/response"
)

type scraperService interface {
	AddWebsite(ctx context.Context, req dto.AddWebsiteRequest) (*models.ScrapedWebsite, error)
	ListWebsites(ctx context.Context) ([]models.ScrapedWebsite, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
	DeleteWebsite(ctx context.Context, id string) error
	Logs(ctx context.Context, limit int) ([]models.ScrapeLog, error)
	Run(ctx context.Context, id string) (*models.ScrapeResult, error)
	RunAll(ctx context.Context) (*models.ScrapeSummary, error)
	RunAllAsync() (string, error)
}

// ScraperHandler manages scrape targets and runs.
type ScraperHandler struct {
	service scraperService
}

// NewScraperHandler constructs the handler.
func NewScraperHandler(svc scraperService) *ScraperHandler {
	return &ScraperHandler{service: svc}
}

// ListWebsites godoc
// @Summary List scrape targets
// @Tags Scraper
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/scraper/websites [get]
func (h *ScraperHandler) ListWebsites(c *gin.Context) {
	sites, err := h.service.ListWebsites(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sites, nil)
}

// AddWebsite godoc
// @Summary Add scrape target
// @Tags Scraper
// @Accept json
// @Produce json
// @Param payload body dto.AddWebsiteRequest true "Website"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/scraper/websites [post]
func (h *ScraperHandler) AddWebsite(c *gin.Context) {
	var req dto.AddWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid website payload"))
		return
	}
	site, err := h.service.AddWebsite(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, site)
}

// Enable godoc
// @Summary Enable scrape target
// @Tags Scraper
// @Param id path string true "Website ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/scraper/websites/{id}/enable [post]
func (h *ScraperHandler) Enable(c *gin.Context) {
	h.setEnabled(c, true)
}

// Disable godoc
// @Summary Disable scrape target
// @Tags Scraper
// @Param id path string true "Website ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/scraper/websites/{id}/disable [post]
func (h *ScraperHandler) Disable(c *gin.Context) {
	h.setEnabled(c, false)
}

func (h *ScraperHandler) setEnabled(c *gin.Context, enabled bool) {
	if err := h.service.SetEnabled(c.Request.Context(), c.Param("id"), enabled); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteWebsite godoc
// @Summary Delete scrape target and its logs
// @Tags Scraper
// @Param id path string true "Website ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/scraper/websites/{id} [delete]
func (h *ScraperHandler) DeleteWebsite(c *gin.Context) {
	if err := h.service.DeleteWebsite(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Run godoc
// @Summary Scrape one website now
// @Tags Scraper
// @Produce json
// @Param id path string true "Website ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/scraper/websites/{id}/run [post]
func (h *ScraperHandler) Run(c *gin.Context) {
	result, err := h.service.Run(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// RunAll godoc
// @Summary Scrape every enabled website
// @Description With async=true the run is queued and 202 is returned with a job id
// @Tags Scraper
// @Produce json
// @Param async query bool false "Queue the run"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/scraper/run-all [post]
func (h *ScraperHandler) RunAll(c *gin.Context) {
	if async, _ := strconv.ParseBool(c.Query("async")); async {
		jobID, err := h.service.RunAllAsync()
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Accepted(c, gin.H{"job_id": jobID})
		return
	}
	summary, err := h.service.RunAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Logs godoc
// @Summary Recent scrape logs
// @Tags Scraper
// @Produce json
// @Param limit query int false "Max rows" default(50)
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/scraper/logs [get]
func (h *ScraperHandler) Logs(c *gin.Context) {
	logs, err := h.service.Logs(c.Request.Context(), queryInt(c, "limit", 50))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
