package http

import (
	"welfare-cms/internal/content/usecase"
	"welfare-cms/internal/shared/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// HTTPHandler serves the content REST API under /api.
type HTTPHandler struct {
	ContentUC usecase.ContentUsecaseInterface
	Feed      *ChangeFeed
	Log       logger.Logger
}

// NewContentHTTPHandler creates a new HTTPHandler. feed may be nil, in which
// case the live change endpoint is not registered.
func NewContentHTTPHandler(contentUC usecase.ContentUsecaseInterface, feed *ChangeFeed, log logger.Logger) *HTTPHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &HTTPHandler{
		ContentUC: contentUC,
		Feed:      feed,
		Log:       log.WithComponent("content-http"),
	}
}

// RegisterRoutes mounts the API. protect guards every mutating route and the
// submission log; pass nil to leave them open.
func (h *HTTPHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	if protect == nil {
		protect = func(c *fiber.Ctx) error { return c.Next() }
	}

	api := router.Group("/api")

	api.Get("/home", h.GetHome)
	api.Post("/home", protect, h.SaveHome)
	api.Get("/about", h.GetAbout)
	api.Post("/about", protect, h.SaveAbout)
	api.Get("/contact", h.GetContact)
	api.Post("/contact", protect, h.SaveContact)
	api.Get("/members", h.GetMembers)
	api.Post("/members", protect, h.SaveMembers)

	api.Post("/contact/submit", h.SubmitContact)
	api.Get("/submissions", protect, h.ListSubmissions)
	api.Post("/submissions", protect, h.ImportSubmissions)
	api.Delete("/submissions", protect, h.DeleteSubmission)
	api.Delete("/submissions/:id", protect, h.DeleteSubmissionByID)

	api.Get("/gallery", h.GetGallery)
	api.Post("/gallery", protect, h.ReplaceGallery)
	api.Delete("/gallery", protect, h.DeleteAlbum)
	api.Post("/gallery/album", protect, h.CreateAlbum)
	api.Get("/gallery/album/:albumId", h.GetAlbum)
	api.Post("/gallery/image", protect, h.AddImage)
	api.Put("/gallery/image", protect, h.UpdateImage)
	api.Delete("/gallery/image", protect, h.DeleteImage)

	api.Get("/admin/changes", protect, h.RecentChanges)

	if h.Feed != nil {
		ws := router.Group("/ws")
		ws.Use("/changes", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				c.Locals("allowed", true)
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		}, protect)
		ws.Get("/changes", websocket.New(h.Feed.Serve))
	}
}
