package http

import (
	"bytes"
	"encoding/json"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/usecase"

	"github.com/gofiber/fiber/v2"
)

const msgInvalidImport = "Invalid data format. Expecting object or array of objects."

// SubmitContact accepts the public contact form as JSON or form data.
func (h *HTTPHandler) SubmitContact(c *fiber.Ctx) error {
	var in model.SubmissionInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body.")
	}
	in.SubmittedAt = ""

	sub, err := h.ContentUC.SubmitContact(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(fiber.Map{
		"message": "Submission received successfully!",
		"id":      sub.ID,
	})
}

func (h *HTTPHandler) ListSubmissions(c *fiber.Ctx) error {
	subs, err := h.ContentUC.ListSubmissions(c.UserContext())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(subs)
}

// ImportSubmissions takes one submission object or an array of them.
func (h *HTTPHandler) ImportSubmissions(c *fiber.Ctx) error {
	inputs, ok := parseSubmissionPayload(c.Body())
	if !ok {
		return badRequest(c, msgInvalidImport)
	}

	added, err := h.ContentUC.ImportSubmissions(c.UserContext(), inputs)
	if err != nil {
		return respondError(c, h.Log, err)
	}

	ids := make([]string, len(added))
	for i, s := range added {
		ids[i] = s.ID
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": usecase.ImportMessage(len(added)),
		"ids":     ids,
	})
}

func parseSubmissionPayload(body []byte) ([]model.SubmissionInput, bool) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, false
	}
	if body[0] == '[' {
		var list []model.SubmissionInput
		if err := json.Unmarshal(body, &list); err != nil || len(list) == 0 {
			return nil, false
		}
		return list, true
	}
	if body[0] != '{' {
		return nil, false
	}
	var one model.SubmissionInput
	if err := json.Unmarshal(body, &one); err != nil {
		return nil, false
	}
	return []model.SubmissionInput{one}, true
}

// DeleteSubmission removes by {id}, or by exact {submittedAt} for older clients.
func (h *HTTPHandler) DeleteSubmission(c *fiber.Ctx) error {
	var req usecase.DeleteSubmissionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "Submission id is required.")
	}

	ctx := c.UserContext()
	switch {
	case req.ID != "":
		if err := h.ContentUC.DeleteSubmission(ctx, req.ID); err != nil {
			return respondError(c, h.Log, err)
		}
		return c.JSON(fiber.Map{"message": "Submission deleted successfully.", "id": req.ID})
	case req.SubmittedAt != "":
		id, err := h.ContentUC.DeleteSubmissionByTimestamp(ctx, req.SubmittedAt)
		if err != nil {
			return respondError(c, h.Log, err)
		}
		return c.JSON(fiber.Map{"message": "Submission deleted successfully.", "id": id})
	default:
		return badRequest(c, "Submission id is required.")
	}
}

func (h *HTTPHandler) DeleteSubmissionByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.ContentUC.DeleteSubmission(c.UserContext(), id); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(fiber.Map{"message": "Submission deleted successfully.", "id": id})
}
