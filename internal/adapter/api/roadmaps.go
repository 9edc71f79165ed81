package api

import (
	"student-assistant/internal/domain/entity"
	"student-assistant/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ListRoadmaps(c *fiber.Ctx) error {
	roadmaps := usecase.Roadmaps()
	return success(c, fiber.Map{"roadmaps": roadmaps, "total": len(roadmaps)})
}

func (h *Handler) ListCategories(c *fiber.Ctx) error {
	return success(c, fiber.Map{"categories": usecase.RoadmapCategories()})
}

func (h *Handler) RoadmapDetails(c *fiber.Ctx) error {
	id := c.Params("roadmapId")
	details, err := usecase.RoadmapDetails(id)
	if err != nil {
		return failure(c, fiber.StatusNotFound, "Roadmap not found")
	}
	return success(c, fiber.Map{"roadmapId": id, "details": details})
}

func (h *Handler) GetRoadmapProgress(c *fiber.Ctx) error {
	roadmapID, userID := c.Params("roadmapId"), c.Params("userId")
	p, err := h.assistant.GetRoadmapProgress(c.UserContext(), roadmapID, userID)
	if err != nil {
		return h.fail(c, err, "Failed to fetch progress")
	}
	return success(c, fiber.Map{"roadmapId": roadmapID, "userId": userID, "progress": p})
}

func (h *Handler) UpdateRoadmapProgress(c *fiber.Ctx) error {
	roadmapID, userID := c.Params("roadmapId"), c.Params("userId")
	var req usecase.StepUpdate
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid request body")
	}
	p, err := h.assistant.UpdateRoadmapProgress(c.UserContext(), roadmapID, userID, req)
	if err != nil {
		return h.fail(c, err, "Failed to update progress")
	}
	return success(c, fiber.Map{
		"message":   "Progress updated successfully",
		"progress":  p,
		"updatedAt": p.LastUpdate,
	})
}

func (h *Handler) Recommend(c *fiber.Ctx) error {
	var req entity.RecommendInput
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid request body")
	}
	recs, err := h.assistant.Recommend(c.UserContext(), clientID(c), req)
	if err != nil {
		return h.fail(c, err, "Failed to generate recommendations")
	}
	return success(c, fiber.Map{"recommendations": recs, "basedOn": req})
}
