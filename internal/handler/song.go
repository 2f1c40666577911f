package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/middleware"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/model"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/service"
)

type SongHandler struct {
	svc *service.SongService
}

func NewSongHandler(svc *service.SongService) *SongHandler {
	return &SongHandler{svc: svc}
}

// List handles GET /api/songs with search and filter query parameters.
func (h *SongHandler) List(c fiber.Ctx) error {
	filter := model.SongFilter{
		Search:         middleware.ValidateSearch(fiber.Query[string](c, "search")),
		Composer:       middleware.ValidateSearch(fiber.Query[string](c, "composer")),
		Performer:      middleware.ValidateSearch(fiber.Query[string](c, "performer")),
		Style:          middleware.ValidateSearch(fiber.Query[string](c, "style")),
		Era:            middleware.ValidateSearch(fiber.Query[string](c, "era")),
		Category:       middleware.ValidateSearch(fiber.Query[string](c, "category")),
		IncludeDeleted: fiber.Query[bool](c, "include_deleted"),
	}

	songs, err := h.svc.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err, "Failed to list songs")
	}
	return c.JSON(songs)
}

type correctionRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// Correct handles PATCH /api/songs/:id — a single-field correction.
func (h *SongHandler) Correct(c fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_ID", "Song id must be a positive integer")
	}

	var req correctionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Request body must be JSON with field and value")
	}
	if req.Field == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_PARAM", "field is required")
	}

	song, err := h.svc.Correct(c.Context(), id, req.Field, req.Value)
	if err != nil {
		return respondError(c, err, "Failed to update song")
	}
	return c.JSON(song)
}

// Delete handles DELETE /api/songs/:id — a soft delete.
func (h *SongHandler) Delete(c fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_ID", "Song id must be a positive integer")
	}

	if err := h.svc.Delete(c.Context(), id); err != nil {
		return respondError(c, err, "Failed to delete song")
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// Restore handles POST /api/songs/:id/restore.
func (h *SongHandler) Restore(c fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_ID", "Song id must be a positive integer")
	}

	if err := h.svc.Restore(c.Context(), id); err != nil {
		return respondError(c, err, "Failed to restore song")
	}
	return c.JSON(fiber.Map{"status": "restored"})
}

type appendRequest struct {
	SongTitle string `json:"song_title"`
}

// Append handles POST /api/videos/:id/songs — a manual single-song append.
func (h *SongHandler) Append(c fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_ID", "Video id must be a positive integer")
	}

	var req appendRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Request body must be JSON with song_title")
	}

	title, reason := middleware.ValidateSongTitle(req.SongTitle)
	if reason != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_ERROR", reason)
	}

	song, err := h.svc.Append(c.Context(), id, title)
	if err != nil {
		return respondError(c, err, "Failed to append song")
	}
	return c.Status(fiber.StatusCreated).JSON(song)
}
