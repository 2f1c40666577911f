package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/middleware"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/service"
)

type VideoHandler struct {
	videos *service.VideoService
	songs  *service.SongService
}

func NewVideoHandler(videos *service.VideoService, songs *service.SongService) *VideoHandler {
	return &VideoHandler{videos: videos, songs: songs}
}

// List handles GET /api/videos?category=X&search=Y&uncategorized=true
func (h *VideoHandler) List(c fiber.Ctx) error {
	if fiber.Query[bool](c, "uncategorized") {
		videos, err := h.videos.ListNeedingCategory(c.Context())
		if err != nil {
			return respondError(c, err, "Failed to list videos")
		}
		return c.JSON(videos)
	}

	category := middleware.ValidateSearch(fiber.Query[string](c, "category"))
	search := middleware.ValidateSearch(fiber.Query[string](c, "search"))

	videos, err := h.videos.List(c.Context(), category, search)
	if err != nil {
		return respondError(c, err, "Failed to list videos")
	}
	return c.JSON(videos)
}

// Get handles GET /api/videos/:id
func (h *VideoHandler) Get(c fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_ID", "Video id must be a positive integer")
	}

	video, err := h.videos.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch video")
	}
	return c.JSON(video)
}

// ListSongs handles GET /api/videos/:id/songs?include_deleted=true
func (h *VideoHandler) ListSongs(c fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_ID", "Video id must be a positive integer")
	}
	includeDeleted := fiber.Query[bool](c, "include_deleted")

	songs, err := h.songs.ListForVideo(c.Context(), id, includeDeleted)
	if err != nil {
		return respondError(c, err, "Failed to list songs")
	}
	return c.JSON(songs)
}

type categoryRequest struct {
	Category *string `json:"category"`
}

// SetCategory handles PATCH /api/videos/:id/category. A null category
// clears the manual override, falling back to the classifier.
func (h *VideoHandler) SetCategory(c fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_ID", "Video id must be a positive integer")
	}

	var req categoryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Request body must be JSON with a category field")
	}

	if err := h.videos.SetCategory(c.Context(), id, req.Category); err != nil {
		return respondError(c, err, "Failed to update category")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
