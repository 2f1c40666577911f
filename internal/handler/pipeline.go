package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/middleware"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/model"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/service"
)

// PipelineHandler exposes the catalog sync and extraction pipeline as
// operator-triggered endpoints.
type PipelineHandler struct {
	catalog   *service.CatalogService
	reconcile *service.ReconcileService
}

func NewPipelineHandler(catalog *service.CatalogService, reconcile *service.ReconcileService) *PipelineHandler {
	return &PipelineHandler{catalog: catalog, reconcile: reconcile}
}

// Sync handles POST /api/sync — pull the channel's uploads into the store.
func (h *PipelineHandler) Sync(c fiber.Ctx) error {
	report, err := h.catalog.Sync(c.Context())
	if err != nil {
		// A partial report still tells the operator how far the run got.
		if report != nil {
			Metrics.SyncVideosUpserted.Add(float64(report.Upserted))
		}
		return respondError(c, err, "Catalog sync failed")
	}

	Metrics.SyncVideosUpserted.Add(float64(report.Upserted))
	return c.JSON(report)
}

// Reconcile handles POST /api/reconcile — run one reconciliation pass over
// every video currently needing extraction and return the pass report.
func (h *PipelineHandler) Reconcile(c fiber.Ctx) error {
	report, err := h.reconcile.RunPass(c.Context())
	if err != nil {
		return respondError(c, err, "Reconciliation pass failed")
	}

	Metrics.ExtractionsTotal.WithLabelValues("extracted").Add(float64(report.Extracted))
	Metrics.ExtractionsTotal.WithLabelValues("failed").Add(float64(report.Failed))
	Metrics.SongsExtracted.Add(float64(report.Songs))

	return c.JSON(report)
}

type extractRequest struct {
	Guidance string `json:"guidance"`
}

// Extract handles POST /api/videos/:id/extract — re-extract one video with
// optional operator guidance, returning the resulting batch.
func (h *PipelineHandler) Extract(c fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_ID", "Video id must be a positive integer")
	}

	var req extractRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Request body must be JSON")
		}
	}
	guidance, reason := middleware.ValidateGuidance(req.Guidance)
	if reason != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_ERROR", reason)
	}

	songs, err := h.reconcile.ExtractOne(c.Context(), id, guidance)
	if err != nil {
		if errors.Is(err, model.ErrExtractionFailed) {
			Metrics.ExtractionsTotal.WithLabelValues("failed").Inc()
		}
		return respondError(c, err, "Extraction failed")
	}

	Metrics.ExtractionsTotal.WithLabelValues("extracted").Inc()
	Metrics.SongsExtracted.Add(float64(len(songs)))
	return c.JSON(songs)
}
