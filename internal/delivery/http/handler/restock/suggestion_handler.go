package restock

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartshelfx/restock-backend/internal/delivery/middleware"
	"github.com/smartshelfx/restock-backend/internal/usecase/order"
	restockuc "github.com/smartshelfx/restock-backend/internal/usecase/restock"
)

type SuggestionHandler struct {
	uc *restockuc.Usecase
}

func NewSuggestionHandler(uc *restockuc.Usecase) *SuggestionHandler {
	return &SuggestionHandler{uc: uc}
}

// List serves the scope-filtered suggestion table. "ALL" and empty filter
// values mean unconstrained.
func (h *SuggestionHandler) List(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "missing actor")
	}

	filters, err := restockuc.Normalize(
		c.Query("warehouseId"),
		c.Query("category"),
		c.Query("stockStatus"),
		c.QueryBool("autoOnly", false),
	)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid filters")
	}

	out, err := h.uc.List(c.Context(), toRestockActor(actor), filters)
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(fiber.Map{"items": out})
}

func toRestockActor(a order.Actor) restockuc.Actor {
	return restockuc.Actor{
		UserID:      a.UserID,
		Role:        restockuc.Role(a.Role),
		WarehouseID: a.WarehouseID,
	}
}

func mapErr(err error) error {
	switch err {
	case restockuc.ErrInvalidInput:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case restockuc.ErrNoWarehouse:
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case restockuc.ErrForbidden:
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
