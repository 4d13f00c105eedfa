package catalog

import (
	"github.com/gofiber/fiber/v2"

	cataloguc "github.com/smartshelfx/restock-backend/internal/usecase/catalog"
)

type Handler struct {
	uc *cataloguc.Usecase
}

func New(uc *cataloguc.Usecase) *Handler {
	return &Handler{uc: uc}
}

// List returns the product catalog for one warehouse, the manual composition
// context's addition pool.
func (h *Handler) List(c *fiber.Ctx) error {
	warehouseID := int64(c.QueryInt("warehouseId", 0))

	out, err := h.uc.ListProducts(c.Context(), warehouseID)
	if err != nil {
		if err == cataloguc.ErrInvalidInput {
			return fiber.NewError(fiber.StatusBadRequest, "warehouseId is required")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(fiber.Map{"items": out})
}

// Categories feeds the scope-filter dropdown; warehouseId is optional.
func (h *Handler) Categories(c *fiber.Ctx) error {
	var warehouseID *int64
	if v := c.QueryInt("warehouseId", 0); v > 0 {
		id := int64(v)
		warehouseID = &id
	}

	out, err := h.uc.Categories(c.Context(), warehouseID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(fiber.Map{"items": out})
}
