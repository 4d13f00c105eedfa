package order

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartshelfx/restock-backend/internal/delivery/middleware"
	orderuc "github.com/smartshelfx/restock-backend/internal/usecase/order"
)

type Handler struct {
	uc *orderuc.Usecase
}

func New(uc *orderuc.Usecase) *Handler {
	return &Handler{uc: uc}
}

// List serves the purchase-orders view the host screen refreshes after a
// successful submission.
func (h *Handler) List(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "missing actor")
	}

	var warehouseID *int64
	if v := c.QueryInt("warehouseId", 0); v > 0 {
		id := int64(v)
		warehouseID = &id
	}

	out, err := h.uc.List(c.Context(), actor, warehouseID)
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(fiber.Map{"items": out})
}

func mapErr(err error) error {
	switch err {
	case orderuc.ErrForbidden, orderuc.ErrManagerWarehouse:
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case orderuc.ErrNoWarehouseOnUser:
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case orderuc.ErrInvalidInput, orderuc.ErrNoItems, orderuc.ErrWarehouseMissing,
		orderuc.ErrProductMissing, orderuc.ErrProductWarehouse:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
