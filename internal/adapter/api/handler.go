package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"student-assistant/internal/adapter/extract"
	"student-assistant/internal/domain/entity"
	"student-assistant/internal/domain/repository"
	"student-assistant/internal/logger"
	"student-assistant/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type Options struct {
	Debug       bool
	Environment string
	Version     string
	MaxUpload   int64
}

type Handler struct {
	assistant *usecase.Orchestrator
	extractor repository.TextExtractor
	log       *logger.Logger
	opts      Options
}

func NewHandler(assistant *usecase.Orchestrator, extractor repository.TextExtractor, log *logger.Logger, opts Options) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		assistant: assistant,
		extractor: extractor,
		log:       log.With("component", "api"),
		opts:      opts,
	}
}

// clientID keys usage limits: an explicit client header, else the remote address.
func clientID(c *fiber.Ctx) string {
	if id := strings.TrimSpace(c.Get("X-Client-ID")); id != "" {
		return id
	}
	return c.IP()
}

func success(c *fiber.Ctx, body fiber.Map) error {
	if body == nil {
		body = fiber.Map{}
	}
	body["success"] = true
	return c.Status(fiber.StatusOK).JSON(body)
}

func failure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}

// fail maps a usecase error onto the HTTP envelope. genericMsg is what clients see
// for provider and internal failures.
func (h *Handler) fail(c *fiber.Ctx, err error, genericMsg string) error {
	var ve *entity.ValidationError
	var pe *entity.ProviderError
	switch {
	case errors.As(err, &ve):
		return failure(c, fiber.StatusBadRequest, ve.Message)
	case errors.Is(err, entity.ErrRateLimitExceeded):
		return failure(c, fiber.StatusTooManyRequests, "Usage limit reached. Please try again later.")
	case errors.Is(err, entity.ErrResourceNotFound):
		return failure(c, fiber.StatusNotFound, "Resource not found")
	case errors.As(err, &pe):
		h.log.Error("provider failure", "path", c.Path(), "provider", pe.Provider, "error", pe.Err)
	default:
		h.log.Error("request failed", "path", c.Path(), "error", err)
	}
	body := fiber.Map{"success": false, "error": genericMsg}
	if h.opts.Debug {
		body["details"] = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(body)
}

// readUpload extracts the text of a multipart file, mapping every extraction
// problem to a client error.
func (h *Handler) readUpload(fh *multipart.FileHeader) (string, error) {
	if h.opts.MaxUpload > 0 && fh.Size > h.opts.MaxUpload {
		return "", entity.Invalid("file", "File too large. Maximum size is "+sizeLabel(h.opts.MaxUpload)+".")
	}
	mimeType := fh.Header.Get("Content-Type")
	if !extract.Supported(fh.Filename, mimeType) {
		return "", entity.Invalid("file", "Invalid file type. Only PDF, DOCX, and TXT files are allowed.")
	}
	f, err := fh.Open()
	if err != nil {
		return "", entity.Invalid("file", "Could not read the uploaded file")
	}
	defer f.Close()

	text, err := h.extractor.Extract(f, fh.Size, fh.Filename, mimeType)
	if err != nil {
		h.log.Warn("text extraction failed", "file", fh.Filename, "error", err)
		if errors.Is(err, extract.ErrTooLarge) {
			return "", entity.Invalid("file", "File too large")
		}
		return "", entity.Invalid("file", "Could not extract text from the uploaded file")
	}
	return text, nil
}

func sizeLabel(n int64) string {
	if n >= 1<<20 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%dKB", max(n>>10, 1))
}

func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "AI Student Assistant API",
		"version": h.opts.Version,
		"endpoints": fiber.Map{
			"health":   "/api/health",
			"diagram":  "/api/diagram/generate",
			"planner":  "/api/planner/create-plan",
			"notes":    "/api/notes/process",
			"reviewer": "/api/reviewer/review",
			"roadmaps": "/api/roadmaps",
			"chat":     "/api/chat/message",
			"gemini":   "/api/gemini/test",
		},
	})
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "OK",
		"message":     "AI Student Assistant API is running",
		"timestamp":   time.Now().UTC(),
		"environment": h.opts.Environment,
		"version":     h.opts.Version,
	})
}
