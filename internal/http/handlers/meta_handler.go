package handlers

import (
	"github.com/asset-exchange/backend/internal/http/dto"
	"github.com/gofiber/fiber/v2"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

type MetaCategory struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Asset categories are opaque to the engine; this list only feeds UI pickers.
var predefinedCategories = []MetaCategory{
	{ID: "art", Label: "Art & Design"},
	{ID: "music", Label: "Music"},
	{ID: "photography", Label: "Photography"},
	{ID: "gaming", Label: "Gaming"},
	{ID: "collectibles", Label: "Collectibles"},
	{ID: "domains", Label: "Domain Names"},
	{ID: "sports", Label: "Sports"},
	{ID: "memes", Label: "Memes"},
	{ID: "virtual-worlds", Label: "Virtual Worlds"},
	{ID: "utility", Label: "Utility"},
	{ID: "other", Label: "Other"},
}

func (h *MetaHandler) GetCategories(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedCategories})
}
