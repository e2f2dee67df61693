package handlers

import (
	"github.com/asset-exchange/backend/internal/http/dto"
	"github.com/asset-exchange/backend/internal/repositories"
	"go.uber.org/zap"

	"github.com/gofiber/fiber/v2"
)

// EventsHandler serves the archived event feed to external indexers.
type EventsHandler struct {
	repo     *repositories.EventRepo
	pageSize int
	log      *zap.Logger
}

func NewEventsHandler(repo *repositories.EventRepo, pageSize int, log *zap.Logger) *EventsHandler {
	return &EventsHandler{repo: repo, pageSize: pageSize, log: log}
}

// List returns archived events oldest-first.
// GET /events?type=&limit=&offset=
func (h *EventsHandler) List(c *fiber.Ctx) error {
	if h.repo == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: "event archive disabled"})
	}

	limit := c.QueryInt("limit", h.pageSize)
	if limit <= 0 || limit > h.pageSize {
		limit = h.pageSize
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	eventType := c.Query("type")
	var (
		out any
		err error
	)
	if eventType != "" {
		out, err = h.repo.ListByType(c.Context(), eventType, limit, offset)
	} else {
		out, err = h.repo.List(c.Context(), limit, offset)
	}
	if err != nil {
		h.log.Error("failed to list events", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: out})
}
