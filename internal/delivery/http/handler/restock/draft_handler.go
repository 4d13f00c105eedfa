package restock

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/smartshelfx/restock-backend/internal/delivery/middleware"
	"github.com/smartshelfx/restock-backend/internal/usecase/composer"
	"github.com/smartshelfx/restock-backend/internal/usecase/order"
)

// DraftHandler exposes the composition dialog's control surface: open and
// close, plus every mutation of the in-progress draft.
type DraftHandler struct {
	controller *composer.Controller
}

func NewDraftHandler(controller *composer.Controller) *DraftHandler {
	return &DraftHandler{controller: controller}
}

func (h *DraftHandler) Open(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "missing actor")
	}

	var in composer.OpenInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	in.OwnerID = actor.UserID

	// Managers compose only against their own warehouse.
	if actor.Role == order.RoleManager {
		if actor.WarehouseID == nil {
			return fiber.NewError(fiber.StatusConflict, "no warehouse assigned to current user")
		}
		switch in.Context {
		case composer.ContextSuggestion:
			if in.Suggestion != nil && in.Suggestion.WarehouseID != *actor.WarehouseID {
				return fiber.NewError(fiber.StatusForbidden, "suggestion belongs to another warehouse")
			}
		case composer.ContextManual:
			in.WarehouseID = actor.WarehouseID
		}
	}

	s, err := h.controller.Open(c.Context(), in)
	if err != nil {
		return mapDraftErr(err)
	}
	return c.Status(fiber.StatusCreated).JSON(s.View())
}

func (h *DraftHandler) Get(c *fiber.Ctx) error {
	actor, id, err := h.session(c)
	if err != nil {
		return err
	}

	if c.QueryBool("refresh", false) {
		if err := h.controller.Refresh(c.Context(), id, actor.UserID); err != nil {
			return mapDraftErr(err)
		}
	}

	s, err := h.controller.Get(id, actor.UserID)
	if err != nil {
		return mapDraftErr(err)
	}
	return c.JSON(s.View())
}

func (h *DraftHandler) SetFields(c *fiber.Ctx) error {
	actor, id, err := h.session(c)
	if err != nil {
		return err
	}

	var patch composer.FieldPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}

	s, err := h.controller.Get(id, actor.UserID)
	if err != nil {
		return mapDraftErr(err)
	}
	if err := s.SetFields(patch); err != nil {
		return mapDraftErr(err)
	}
	return c.JSON(s.View())
}

func (h *DraftHandler) AddItem(c *fiber.Ctx) error {
	actor, id, err := h.session(c)
	if err != nil {
		return err
	}

	var body struct {
		ProductID int64 `json:"productId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}

	s, err := h.controller.Get(id, actor.UserID)
	if err != nil {
		return mapDraftErr(err)
	}
	// unknown or already-drafted ids are a silent no-op
	s.AddItem(body.ProductID)
	return c.JSON(s.View())
}

func (h *DraftHandler) UpdateItem(c *fiber.Ctx) error {
	actor, id, err := h.session(c)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item index")
	}

	var patch composer.ItemPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}

	s, err := h.controller.Get(id, actor.UserID)
	if err != nil {
		return mapDraftErr(err)
	}
	if err := s.UpdateItem(index, patch); err != nil {
		return mapDraftErr(err)
	}
	return c.JSON(s.View())
}

func (h *DraftHandler) RemoveItem(c *fiber.Ctx) error {
	actor, id, err := h.session(c)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item index")
	}

	s, err := h.controller.Get(id, actor.UserID)
	if err != nil {
		return mapDraftErr(err)
	}
	if err := s.RemoveItem(index); err != nil {
		return mapDraftErr(err)
	}
	return c.JSON(s.View())
}

// Submit reports recoverable failures inline rather than as HTTP errors: the
// client only needs success/failure plus the form error slot.
func (h *DraftHandler) Submit(c *fiber.Ctx) error {
	actor, id, err := h.session(c)
	if err != nil {
		return err
	}

	ctx := order.WithActor(c.Context(), actor)
	receipt, err := h.controller.Submit(ctx, id, actor.UserID)
	if err != nil {
		var fe *composer.FormError
		if errors.As(err, &fe) {
			return c.JSON(fiber.Map{"ok": false, "formError": fe.Message})
		}
		return mapDraftErr(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "order": receipt})
}

func (h *DraftHandler) Close(c *fiber.Ctx) error {
	actor, id, err := h.session(c)
	if err != nil {
		return err
	}
	if err := h.controller.Close(id, actor.UserID); err != nil {
		return mapDraftErr(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DraftHandler) session(c *fiber.Ctx) (order.Actor, uuid.UUID, error) {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return order.Actor{}, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "missing actor")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return order.Actor{}, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid draft id")
	}
	return actor, id, nil
}

func mapDraftErr(err error) error {
	switch {
	case errors.Is(err, composer.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, composer.ErrNoSuggestion),
		errors.Is(err, composer.ErrNoWarehouse),
		errors.Is(err, composer.ErrInvalidInput),
		errors.Is(err, composer.ErrItemNotFound),
		errors.Is(err, composer.ErrLastItem):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, composer.ErrSubmitInFlight):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
