package http

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartshelfx/restock-backend/internal/config"
	authhandler "github.com/smartshelfx/restock-backend/internal/delivery/http/handler/auth"
	cataloghandler "github.com/smartshelfx/restock-backend/internal/delivery/http/handler/catalog"
	orderhandler "github.com/smartshelfx/restock-backend/internal/delivery/http/handler/order"
	restockhandler "github.com/smartshelfx/restock-backend/internal/delivery/http/handler/restock"
	"github.com/smartshelfx/restock-backend/internal/delivery/middleware"
	"github.com/smartshelfx/restock-backend/internal/repository/postgres"
	authuc "github.com/smartshelfx/restock-backend/internal/usecase/auth"
	cataloguc "github.com/smartshelfx/restock-backend/internal/usecase/catalog"
	"github.com/smartshelfx/restock-backend/internal/usecase/composer"
	orderuc "github.com/smartshelfx/restock-backend/internal/usecase/order"
	restockuc "github.com/smartshelfx/restock-backend/internal/usecase/restock"
)

const snapshotTTL = 5 * time.Minute

func RegisterRoutes(app *fiber.App, cfg config.Config, db *pgxpool.Pool) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	api := app.Group("/api")

	// Auth wiring
	userRepo := postgres.NewUserRepo(db)
	userFinder := &userFinderAdapter{repo: userRepo}
	loginUC := authuc.NewLoginUsecase(userFinder, cfg.JWTSecret, cfg.JWTExpiresMinutes)
	loginHandler := authhandler.NewLoginHandler(loginUC)

	// Public route
	api.Post("/auth/login", loginHandler.Handle)

	// Protected staff group
	staff := api.Group("/", middleware.RequireStaffJWT(middleware.JWTConfig{
		Secret: cfg.JWTSecret,
	}))

	// Suggestions wiring
	suggestionRepo := postgres.NewSuggestionRepo(db)
	suggestionStore := postgres.NewSuggestionStoreAdapter(suggestionRepo)
	restockUC := restockuc.New(suggestionStore, snapshotTTL)
	suggestionH := restockhandler.NewSuggestionHandler(restockUC)

	// Catalog wiring
	productRepo := postgres.NewProductRepo(db)
	productStore := postgres.NewProductStoreAdapter(productRepo)
	catalogUC := cataloguc.New(productStore, snapshotTTL)
	catalogH := cataloghandler.New(catalogUC)

	// Purchase-order wiring
	orderRepo := postgres.NewOrderRepo(db)
	orderStore := postgres.NewOrderStoreAdapter(orderRepo, productRepo)
	notifier := orderuc.NewVendorNotifier(orderuc.LoggingEmailGateway{}, orderuc.LoggingSMSGateway{})
	orderUC := orderuc.New(orderStore, notifier)
	orderH := orderhandler.New(orderUC)

	// Draft composition wiring
	controller := composer.NewController(
		&suggestionProviderAdapter{store: suggestionStore},
		&catalogProviderAdapter{uc: catalogUC},
		&orderCreatorAdapter{uc: orderUC},
		&submissionEvents{restock: restockUC, catalog: catalogUC},
		time.Duration(cfg.DraftTTLMinutes)*time.Minute,
	)
	draftH := restockhandler.NewDraftHandler(controller)

	// Restock routes
	staff.Get("/restock/suggestions", suggestionH.List)
	staff.Get("/restock/purchase-orders", orderH.List)

	// Draft routes
	staff.Post("/restock/drafts", draftH.Open)
	staff.Get("/restock/drafts/:id", draftH.Get)
	staff.Patch("/restock/drafts/:id", draftH.SetFields)
	staff.Delete("/restock/drafts/:id", draftH.Close)
	staff.Post("/restock/drafts/:id/items", draftH.AddItem)
	staff.Patch("/restock/drafts/:id/items/:index", draftH.UpdateItem)
	staff.Delete("/restock/drafts/:id/items/:index", draftH.RemoveItem)
	staff.Post("/restock/drafts/:id/submit", draftH.Submit)

	// Catalog routes
	staff.Get("/products", catalogH.List)
	staff.Get("/products/categories", catalogH.Categories)
}

type userFinderAdapter struct {
	repo *postgres.UserRepo
}

func (a *userFinderAdapter) FindByEmail(ctx context.Context, email string) (*authuc.User, error) {
	r, err := a.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &authuc.User{
		ID:           r.ID,
		Email:        r.Email,
		FullName:     r.FullName,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		WarehouseID:  r.WarehouseID,
		IsActive:     r.IsActive,
	}, nil
}

type suggestionProviderAdapter struct {
	store restockuc.SuggestionStore
}

func (a *suggestionProviderAdapter) Suggestions(ctx context.Context, warehouseID int64) ([]composer.Suggestion, error) {
	items, err := a.store.List(ctx, restockuc.ScopeFilters{WarehouseID: &warehouseID})
	if err != nil {
		return nil, err
	}
	out := make([]composer.Suggestion, 0, len(items))
	for _, s := range items {
		out = append(out, composer.Suggestion{
			ProductID:                s.ProductID,
			ProductName:              s.ProductName,
			ProductSKU:               s.ProductSKU,
			Category:                 s.Category,
			Vendor:                   s.Vendor,
			WarehouseID:              s.WarehouseID,
			WarehouseName:            s.WarehouseName,
			CurrentStock:             s.CurrentStock,
			ReorderLevel:             s.ReorderLevel,
			SuggestedReorderQuantity: s.SuggestedReorderQuantity,
			UnitPrice:                s.UnitPrice,
		})
	}
	return out, nil
}

type catalogProviderAdapter struct {
	uc *cataloguc.Usecase
}

func (a *catalogProviderAdapter) Products(ctx context.Context, warehouseID int64) ([]composer.CatalogProduct, error) {
	items, err := a.uc.ListProducts(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]composer.CatalogProduct, 0, len(items))
	for _, p := range items {
		out = append(out, composer.CatalogProduct{
			ID:           p.ID,
			Name:         p.Name,
			SKU:          p.SKU,
			Vendor:       p.Vendor,
			ReorderLevel: p.ReorderLevel,
			Price:        p.Price,
		})
	}
	return out, nil
}

type orderCreatorAdapter struct {
	uc *orderuc.Usecase
}

func (a *orderCreatorAdapter) CreatePurchaseOrder(ctx context.Context, sub composer.Submission) (*composer.OrderReceipt, error) {
	actor, ok := orderuc.ActorFrom(ctx)
	if !ok {
		return nil, errors.New("missing actor on submission context")
	}

	pref := string(sub.VendorContactPreference)
	in := orderuc.CreateInput{
		VendorName:              sub.VendorName,
		VendorEmail:             sub.VendorEmail,
		VendorPhone:             sub.VendorPhone,
		VendorContactPreference: &pref,
		Notes:                   sub.Notes,
		WarehouseID:             sub.WarehouseID,
		ExpectedDeliveryDate:    sub.ExpectedDeliveryDate,
		SendEmail:               sub.SendEmail,
		SendSMS:                 sub.SendSMS,
	}
	for _, it := range sub.Items {
		in.Items = append(in.Items, orderuc.CreateItemIn{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	po, err := a.uc.Create(ctx, actor, in)
	if err != nil {
		return nil, mapCreateErr(err)
	}
	return &composer.OrderReceipt{
		OrderID:     po.ID,
		Reference:   po.Reference,
		Status:      po.Status,
		WarehouseID: po.WarehouseID,
		TotalAmount: po.TotalAmount,
	}, nil
}

// mapCreateErr keeps the usecase's own wording for the inline form error;
// anything unexpected falls back to the composer's generic message.
func mapCreateErr(err error) error {
	switch {
	case errors.Is(err, orderuc.ErrNoItems),
		errors.Is(err, orderuc.ErrWarehouseMissing),
		errors.Is(err, orderuc.ErrProductMissing),
		errors.Is(err, orderuc.ErrProductWarehouse),
		errors.Is(err, orderuc.ErrForbidden),
		errors.Is(err, orderuc.ErrManagerWarehouse),
		errors.Is(err, orderuc.ErrNoWarehouseOnUser):
		return &composer.SubmitError{Message: err.Error()}
	default:
		return err
	}
}

// submissionEvents reacts to a successful submission: drop the cached
// suggestion and catalog snapshots so the next open sees fresh state.
type submissionEvents struct {
	restock *restockuc.Usecase
	catalog *cataloguc.Usecase
}

func (e *submissionEvents) SubmissionSucceeded(r composer.OrderReceipt) {
	log.Printf("purchase order %s created for warehouse %d (total %s)", r.Reference, r.WarehouseID, r.TotalAmount.StringFixed(2))
	e.restock.Invalidate()
	e.catalog.Invalidate()
}
