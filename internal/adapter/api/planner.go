package api

import (
	"strings"
	"time"

	"student-assistant/internal/domain/entity"

	"github.com/gofiber/fiber/v2"
)

// CreatePlan validates the form before reading the upload, so a bad exam date
// never costs an extraction.
func (h *Handler) CreatePlan(c *fiber.Ctx) error {
	in := entity.StudyPlanInput{
		ExamDate:   c.FormValue("examDate"),
		StudyHours: c.FormValue("studyHours"),
		Difficulty: c.FormValue("difficulty"),
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return failure(c, fiber.StatusBadRequest, "No file uploaded")
	}
	if _, err := h.assistant.PlanParams(in.ExamDate, in.StudyHours, in.Difficulty); err != nil {
		return h.fail(c, err, "Failed to create study plan")
	}

	text, err := h.readUpload(fh)
	if err != nil {
		return h.fail(c, err, "Failed to create study plan")
	}
	in.Material = text
	in.FileName = fh.Filename

	plan, err := h.assistant.CreateStudyPlan(c.UserContext(), clientID(c), in)
	if err != nil {
		return h.fail(c, err, "Failed to create study plan")
	}
	return success(c, fiber.Map{
		"studyPlan": plan,
		"message":   "Study plan created successfully",
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) GetPlanProgress(c *fiber.Ctx) error {
	planID := strings.TrimSpace(c.Params("planId"))
	p, err := h.assistant.GetPlanProgress(c.UserContext(), planID)
	if err != nil {
		return h.fail(c, err, "Failed to fetch progress")
	}
	return success(c, fiber.Map{"planId": planID, "progress": p})
}

func (h *Handler) SavePlanProgress(c *fiber.Ctx) error {
	planID := strings.TrimSpace(c.Params("planId"))
	var req entity.Progress
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid request body")
	}
	p, err := h.assistant.SavePlanProgress(c.UserContext(), planID, req)
	if err != nil {
		return h.fail(c, err, "Failed to update progress")
	}
	return success(c, fiber.Map{
		"message":  "Progress updated successfully",
		"planId":   planID,
		"progress": p,
	})
}
