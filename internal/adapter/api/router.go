package api

import (
	"errors"
	"strings"

	applog "student-assistant/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// NewApp builds the fiber app with the envelope-aware error handler.
func NewApp(name string, bodyLimit int, log *applog.Logger, debug bool) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      name,
		BodyLimit:    bodyLimit,
		ErrorHandler: ErrorHandler(log, debug),
	})
}

// ErrorHandler renders framework errors and recovered panics in the JSON envelope.
func ErrorHandler(log *applog.Logger, debug bool) fiber.ErrorHandler {
	if log == nil {
		log = applog.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		switch code {
		case fiber.StatusRequestEntityTooLarge:
			return failure(c, fiber.StatusBadRequest, "File too large")
		case fiber.StatusNotFound:
			return failure(c, fiber.StatusNotFound, "API endpoint not found")
		}
		if code < fiber.StatusInternalServerError {
			return failure(c, code, fe.Message)
		}
		log.Error("unhandled error", "path", c.Path(), "error", err)
		body := fiber.Map{"success": false, "error": "Internal server error"}
		if debug {
			body["details"] = err.Error()
		}
		return c.Status(code).JSON(body)
	}
}

func SetupRouter(app *fiber.App, handler *Handler, allowedOrigins string) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Client-ID",
		AllowCredentials: allowedOrigins != "" && !strings.Contains(allowedOrigins, "*"),
	}))

	app.Get("/", handler.Root)

	api := app.Group("/api")
	api.Get("/health", handler.Health)

	api.Post("/diagram/generate", handler.GenerateDiagram)

	planner := api.Group("/planner")
	planner.Post("/create-plan", handler.CreatePlan)
	planner.Get("/progress/:planId", handler.GetPlanProgress)
	planner.Post("/progress/:planId", handler.SavePlanProgress)

	notes := api.Group("/notes")
	notes.Post("/process", handler.ProcessNotes)
	notes.Post("/process-text", handler.ProcessNotesText)
	notes.Get("/health", handler.NotesHealth)

	api.Post("/reviewer/review", handler.ReviewCode)

	roadmaps := api.Group("/roadmaps")
	roadmaps.Get("/", handler.ListRoadmaps)
	roadmaps.Get("/categories/list", handler.ListCategories)
	roadmaps.Post("/recommend", handler.Recommend)
	roadmaps.Get("/:roadmapId", handler.RoadmapDetails)
	roadmaps.Get("/:roadmapId/progress/:userId", handler.GetRoadmapProgress)
	roadmaps.Post("/:roadmapId/progress/:userId", handler.UpdateRoadmapProgress)

	gemini := api.Group("/gemini")
	gemini.Post("/test", handler.TestConnection)
	gemini.Post("/message", handler.Chat)

	api.Post("/chat/message", handler.Chat)

	api.Use(func(c *fiber.Ctx) error {
		return failure(c, fiber.StatusNotFound, "API endpoint not found")
	})
}
