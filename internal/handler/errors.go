package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/model"
)

// respondError translates a service or repository error into the standard
// error envelope. Unrecognized errors become opaque 500s; the real cause
// is in the request log, not the response.
func respondError(c fiber.Ctx, err error, fallback string) error {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "VALIDATION_ERROR",
				"message": verr.Error(),
			},
		})
	case errors.Is(err, model.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "NOT_FOUND",
				"message": "Resource not found",
			},
		})
	case errors.Is(err, model.ErrStorageBusy):
		c.Set("Retry-After", "1")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "STORAGE_BUSY",
				"message": "Storage is busy, retry shortly",
			},
		})
	case errors.Is(err, model.ErrExtractionFailed):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "EXTRACTION_FAILED",
				"message": "Extraction service failed; the video remains pending",
			},
		})
	case errors.Is(err, model.ErrCatalogSync):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "SYNC_FAILED",
				"message": "Catalog provider unavailable; synced rows were kept",
			},
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_ERROR",
				"message": fallback,
			},
		})
	}
}

// parseID reads a positive int64 path parameter.
func parseID(c fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	return id, err == nil && id > 0
}
