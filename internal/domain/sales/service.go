package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fogon/internal/core/apperror"
	appctx "fogon/internal/core/context"
	"fogon/internal/core/id"
	"fogon/internal/core/tx"
	"fogon/internal/core/types"
	"fogon/internal/domain/audit"
	"fogon/internal/domain/inventory"
	"fogon/internal/domain/recipes"
	"fogon/internal/domain/shopping"
	"fogon/pkg/logger"
)

// Service records tickets and drives ingredient consumption. The ticket
// and its consumption run in separate transactions: a consumption failure
// never voids the already-committed sale, it surfaces as a partial
// failure instead.
type Service struct {
	repo      Repository
	resolver  recipes.Resolver
	items     inventory.Repository
	shopping  shopping.Repository
	txManager tx.Manager
	auditor   audit.Recorder
}

// NewService creates a sale service.
func NewService(repo Repository, resolver recipes.Resolver, items inventory.Repository, shoppingRepo shopping.Repository, txManager tx.Manager, auditor audit.Recorder) *Service {
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Service{
		repo:      repo,
		resolver:  resolver,
		items:     items,
		shopping:  shoppingRepo,
		txManager: txManager,
		auditor:   auditor,
	}
}

// CreateSale persists the ticket, then applies ingredient consumption.
// On consumption failure the sale stays committed and the caller gets a
// PARTIAL_FAILURE carrying the sale id, so the ledger drift can be
// corrected by hand.
func (s *Service) CreateSale(ctx context.Context, input CreateInput) (*Sale, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sale := &Sale{
		ID:            id.New(),
		ActorID:       appctx.GetActorID(ctx),
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
		ExchangeRate:  input.ExchangeRate,
		CreatedAt:     now,
		Items:         make([]SaleItem, 0, len(input.Lines)),
	}

	total := types.Zero()
	for _, line := range input.Lines {
		item := SaleItem{
			ID:        id.New(),
			SaleID:    sale.ID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.UnitPrice.Mul(line.Quantity),
		}
		if !id.IsCustomLine(line.ProductRef) {
			productID, err := id.Parse(line.ProductRef)
			if err != nil {
				return nil, apperror.NewValidation("invalid product reference").
					WithDetail("productRef", line.ProductRef)
			}
			item.ProductID = &productID
		}
		total = total.Add(item.Subtotal)
		sale.Items = append(sale.Items, item)
	}
	sale.Total = total

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, sale)
	})
	if err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}

	if auditErr := s.auditor.Record(ctx, "sale", sale.ID, audit.ActionSaleCreated, map[string]any{
		"total": sale.Total,
		"lines": len(sale.Items),
	}); auditErr != nil {
		logger.Warn(ctx, "audit record failed", "error", auditErr)
	}

	if err := s.ApplyConsumption(ctx, sale.Items); err != nil {
		logger.Error(ctx, "sale committed but consumption failed",
			"sale_id", sale.ID, "error", err)
		if auditErr := s.auditor.Record(ctx, "sale", sale.ID, audit.ActionConsumptionFailed, map[string]any{
			"error": err.Error(),
		}); auditErr != nil {
			logger.Warn(ctx, "audit record failed", "error", auditErr)
		}
		return sale, apperror.NewPartialFailure(sale.ID.String(), err)
	}

	logger.Info(ctx, "sale created", "sale_id", sale.ID, "total", sale.Total)
	return sale, nil
}

// ApplyConsumption deducts ledger stock for every ingredient the sold
// products require and accumulates the same demand on the replenishment
// list. All aggregation happens before any mutation; the mutations run
// in one transaction.
func (s *Service) ApplyConsumption(ctx context.Context, items []SaleItem) error {
	productQty := make(map[id.ID]types.Quantity)
	productOrder := make([]id.ID, 0, len(items))
	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		pid := *item.ProductID
		if _, seen := productQty[pid]; !seen {
			productOrder = append(productOrder, pid)
		}
		productQty[pid] = productQty[pid].Add(item.Quantity)
	}
	if len(productOrder) == 0 {
		return nil
	}

	resolved, err := s.resolver.Resolve(ctx, productOrder)
	if err != nil {
		return fmt.Errorf("resolve recipes: %w", err)
	}

	demand := make(map[id.ID]types.Quantity)
	for pid, qty := range productQty {
		for _, ing := range resolved[pid] {
			demand[ing.InventoryItemID] = demand[ing.InventoryItemID].Add(ing.Quantity.Mul(qty))
		}
	}
	if len(demand) == 0 {
		return nil
	}

	// Deterministic ingredient order keeps concurrent consumption
	// transactions from deadlocking on row locks.
	ingredientIDs := make([]id.ID, 0, len(demand))
	for ingID := range demand {
		ingredientIDs = append(ingredientIDs, ingID)
	}
	sort.Slice(ingredientIDs, func(i, j int) bool {
		return ingredientIDs[i].String() < ingredientIDs[j].String()
	})

	ledgerItems, err := s.items.GetByIDs(ctx, ingredientIDs)
	if err != nil {
		return fmt.Errorf("fetch ledger items: %w", err)
	}
	lastCost := make(map[id.ID]types.Money, len(ledgerItems))
	for _, it := range ledgerItems {
		lastCost[it.ID] = it.LastCost
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, ingID := range ingredientIDs {
			qty := demand[ingID]
			if err := s.items.AdjustStock(ctx, ingID, qty.Neg()); err != nil {
				return fmt.Errorf("deduct stock for %s: %w", ingID, err)
			}
			if err := s.shopping.UpsertDemand(ctx, ingID, qty, lastCost[ingID]); err != nil {
				return fmt.Errorf("accumulate demand for %s: %w", ingID, err)
			}
		}
		return nil
	})
}

// GetSale returns a sale with its lines.
func (s *Service) GetSale(ctx context.Context, saleID id.ID) (*Sale, error) {
	return s.repo.GetByID(ctx, saleID)
}

// ListSales returns recent sales, newest first.
func (s *Service) ListSales(ctx context.Context, limit, offset int) ([]*Sale, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.List(ctx, limit, offset)
}
