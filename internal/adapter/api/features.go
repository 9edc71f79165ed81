package api

import (
	"time"

	"student-assistant/internal/domain/entity"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GenerateDiagram(c *fiber.Ctx) error {
	var req entity.DiagramInput
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid request body")
	}
	d, err := h.assistant.GenerateDiagram(c.UserContext(), clientID(c), req)
	if err != nil {
		return h.fail(c, err, "Failed to generate diagram")
	}
	return success(c, fiber.Map{
		"mermaidCode": d.MermaidCode,
		"title":       d.Title,
		"description": d.Description,
		"diagramType": d.DiagramType,
	})
}

// ProcessNotes accepts either a multipart file or a "text" form field.
func (h *Handler) ProcessNotes(c *fiber.Ctx) error {
	in := entity.NotesInput{Text: c.FormValue("text")}
	if fh, err := c.FormFile("file"); err == nil {
		text, err := h.readUpload(fh)
		if err != nil {
			return h.fail(c, err, "Failed to process notes")
		}
		in = entity.NotesInput{Text: text, FromFile: true}
	}
	return h.notes(c, in)
}

func (h *Handler) ProcessNotesText(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid request body")
	}
	return h.notes(c, entity.NotesInput{Text: req.Text})
}

func (h *Handler) notes(c *fiber.Ctx, in entity.NotesInput) error {
	res, err := h.assistant.SummarizeNotes(c.UserContext(), clientID(c), in)
	if err != nil {
		return h.fail(c, err, "Failed to process notes")
	}
	body := fiber.Map{
		"summary":     res.Summary,
		"summaryHtml": res.SummaryHTML,
		"flashcards":  res.Flashcards,
	}
	if res.OriginalText != "" {
		body["originalText"] = res.OriginalText
	}
	return success(c, body)
}

func (h *Handler) NotesHealth(c *fiber.Ctx) error {
	return success(c, fiber.Map{
		"message":   "Notes service is running",
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) ReviewCode(c *fiber.Ctx) error {
	var req entity.CodeReviewInput
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid request body")
	}
	review, in, err := h.assistant.ReviewCode(c.UserContext(), clientID(c), req)
	if err != nil {
		return h.fail(c, err, "Failed to review code")
	}
	return success(c, fiber.Map{
		"review":     review,
		"language":   in.Language,
		"reviewType": in.ReviewType,
		"timestamp":  time.Now().UTC(),
	})
}

func (h *Handler) Chat(c *fiber.Ctx) error {
	var req entity.ChatInput
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid request body")
	}
	reply, err := h.assistant.Chat(c.UserContext(), clientID(c), req)
	if err != nil {
		return h.fail(c, err, "Failed to get AI response")
	}
	c.Set("X-Cache-Hit", "false")
	if reply.Cached {
		c.Set("X-Cache-Hit", "true")
	}
	return success(c, fiber.Map{
		"response":     reply.Response,
		"responseHtml": reply.ResponseHTML,
		"sessionId":    reply.SessionID,
		"cached":       reply.Cached,
		"timestamp":    reply.Timestamp,
	})
}

func (h *Handler) TestConnection(c *fiber.Ctx) error {
	text, err := h.assistant.TestConnection(c.UserContext(), clientID(c))
	if err != nil {
		return h.fail(c, err, "Failed to connect to AI provider")
	}
	return success(c, fiber.Map{
		"message":   "AI provider connection successful",
		"response":  text,
		"timestamp": time.Now().UTC(),
	})
}
