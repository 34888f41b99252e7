package http

import (
	"encoding/json"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/usecase"

	"github.com/gofiber/fiber/v2"
)

func (h *HTTPHandler) GetGallery(c *fiber.Ctx) error {
	g, err := h.ContentUC.GetGallery(c.UserContext())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(g)
}

func (h *HTTPHandler) GetAlbum(c *fiber.Ctx) error {
	album, err := h.ContentUC.GetAlbum(c.UserContext(), c.Params("albumId"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(album)
}

// ReplaceGallery swaps the whole gallery for {albums, images}.
func (h *HTTPHandler) ReplaceGallery(c *fiber.Ctx) error {
	var g model.Gallery
	if err := json.Unmarshal(c.Body(), &g); err != nil {
		return badRequest(c, usecase.MsgInvalidGallery)
	}
	if err := h.ContentUC.ReplaceGallery(c.UserContext(), &g); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *HTTPHandler) CreateAlbum(c *fiber.Ctx) error {
	var req usecase.CreateAlbumRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, usecase.MsgAlbumNameRequired)
	}
	album, err := h.ContentUC.CreateAlbum(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(album)
}

// DeleteAlbum removes {albumId} and all of its images.
func (h *HTTPHandler) DeleteAlbum(c *fiber.Ctx) error {
	var req usecase.DeleteAlbumRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.AlbumID == "" {
		return badRequest(c, usecase.MsgAlbumIDRequired)
	}
	removed, err := h.ContentUC.DeleteAlbum(c.UserContext(), req.AlbumID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(fiber.Map{
		"message":       "Album deleted successfully",
		"deletedImages": removed,
	})
}

func (h *HTTPHandler) AddImage(c *fiber.Ctx) error {
	var req usecase.ImageRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, usecase.MsgImageFieldsMissing)
	}
	img, err := h.ContentUC.AddImage(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(img)
}

func (h *HTTPHandler) UpdateImage(c *fiber.Ctx) error {
	var req usecase.ImageRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "Image ID, URL, and albumId are required")
	}
	img, err := h.ContentUC.UpdateImage(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(img)
}

func (h *HTTPHandler) DeleteImage(c *fiber.Ctx) error {
	var req usecase.DeleteImageRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.ID == "" {
		return badRequest(c, usecase.MsgImageIDRequired)
	}
	if err := h.ContentUC.DeleteImage(c.UserContext(), req.ID); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(fiber.Map{"message": "Image deleted successfully"})
}

// RecentChanges lists the newest change log entries; ?limit= defaults to 50.
func (h *HTTPHandler) RecentChanges(c *fiber.Ctx) error {
	entries, err := h.ContentUC.RecentChanges(c.UserContext(), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(entries)
}
