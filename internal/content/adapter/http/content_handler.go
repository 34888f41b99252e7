package http

import (
	"encoding/json"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/service"

	"github.com/gofiber/fiber/v2"
)

// FallbackHeader marks a response body made of defaults because the store failed.
const FallbackHeader = "X-Content-Fallback"

func (h *HTTPHandler) GetHome(c *fiber.Ctx) error    { return h.getDocument(c, model.DomainHome) }
func (h *HTTPHandler) GetAbout(c *fiber.Ctx) error   { return h.getDocument(c, model.DomainAbout) }
func (h *HTTPHandler) GetContact(c *fiber.Ctx) error { return h.getDocument(c, model.DomainContact) }
func (h *HTTPHandler) GetMembers(c *fiber.Ctx) error { return h.getDocument(c, model.DomainMembers) }

func (h *HTTPHandler) SaveHome(c *fiber.Ctx) error {
	return h.saveDocument(c, model.DomainHome, fiber.Map{
		"message": "Homepage data updated successfully!",
	})
}

func (h *HTTPHandler) SaveAbout(c *fiber.Ctx) error {
	return h.saveDocument(c, model.DomainAbout, fiber.Map{
		"success": true,
		"message": "About data saved successfully!",
	})
}

func (h *HTTPHandler) SaveContact(c *fiber.Ctx) error {
	return h.saveDocument(c, model.DomainContact, fiber.Map{
		"success": true,
		"message": "Contact data saved successfully!",
	})
}

func (h *HTTPHandler) SaveMembers(c *fiber.Ctx) error {
	return h.saveDocument(c, model.DomainMembers, fiber.Map{
		"success": true,
		"message": "Members data saved successfully!",
	})
}

// getDocument serves the resolved document. On a store failure Home, About and
// Contact still send their defaults, with status 500 and FallbackHeader set.
func (h *HTTPHandler) getDocument(c *fiber.Ctx, domain model.Domain) error {
	doc, err := h.ContentUC.GetDocument(c.UserContext(), domain)
	if err != nil {
		if doc != nil && domain != model.DomainMembers {
			h.Log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
				"domain": domain,
				"error":  err.Error(),
			}).Warn("Serving default content after read failure")
			c.Set(FallbackHeader, "defaults")
			return c.Status(fiber.StatusInternalServerError).JSON(doc)
		}
		return respondError(c, h.Log, err)
	}
	return c.JSON(doc)
}

func (h *HTTPHandler) saveDocument(c *fiber.Ctx, domain model.Domain, success fiber.Map) error {
	var fields map[string]interface{}
	if err := json.Unmarshal(c.Body(), &fields); err != nil || fields == nil {
		msg := service.MsgInvalidFormat
		if domain == model.DomainMembers {
			msg = service.MsgInvalidMembersPayload
		}
		return badRequest(c, msg)
	}

	if err := h.ContentUC.SaveDocument(c.UserContext(), domain, fields, domain.WriteMode()); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(success)
}
