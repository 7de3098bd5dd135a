package shopping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/core/types"
	"fogon/internal/domain/inventory"
	"fogon/internal/domain/purchasing"
)

// --- Fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunInBulkTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeShoppingRepo struct {
	entries map[id.ID]*Item
	deleted []id.ID
}

func newFakeShoppingRepo() *fakeShoppingRepo {
	return &fakeShoppingRepo{entries: make(map[id.ID]*Item)}
}

func (f *fakeShoppingRepo) ListOpen(ctx context.Context) ([]OpenEntry, error) {
	var out []OpenEntry
	for _, e := range f.entries {
		out = append(out, OpenEntry{Item: *e})
	}
	return out, nil
}

func (f *fakeShoppingRepo) GetByIDs(ctx context.Context, ids []id.ID) ([]*Item, error) {
	var out []*Item
	for _, wanted := range ids {
		if e, ok := f.entries[wanted]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeShoppingRepo) UpsertDemand(ctx context.Context, inventoryItemID id.ID, demand types.Quantity, estimatedCost types.Money) error {
	for _, e := range f.entries {
		if e.InventoryItemID == inventoryItemID {
			e.Quantity = e.Quantity.Add(demand)
			return nil
		}
	}
	entry := &Item{
		ID:              id.New(),
		InventoryItemID: inventoryItemID,
		Quantity:        demand,
		EstimatedPrice:  estimatedCost,
	}
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeShoppingRepo) Delete(ctx context.Context, itemID id.ID) error {
	if _, ok := f.entries[itemID]; !ok {
		return apperror.NewNotFound("shopping item", itemID)
	}
	delete(f.entries, itemID)
	f.deleted = append(f.deleted, itemID)
	return nil
}

type purchaseApplied struct {
	quantity types.Quantity
	unitCost types.Money
}

type fakeLedger struct {
	applied map[id.ID]purchaseApplied
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{applied: make(map[id.ID]purchaseApplied)}
}

func (f *fakeLedger) Create(ctx context.Context, item *inventory.Item) error { return nil }

func (f *fakeLedger) GetByID(ctx context.Context, itemID id.ID) (*inventory.Item, error) {
	return nil, apperror.NewNotFound("inventory item", itemID)
}

func (f *fakeLedger) GetByIDs(ctx context.Context, itemIDs []id.ID) ([]*inventory.Item, error) {
	return nil, nil
}

func (f *fakeLedger) Update(ctx context.Context, item *inventory.Item) error { return nil }

func (f *fakeLedger) List(ctx context.Context, filter inventory.ListFilter) ([]*inventory.Item, error) {
	return nil, nil
}

func (f *fakeLedger) FindByNames(ctx context.Context, names []string) ([]*inventory.Item, error) {
	return nil, nil
}

func (f *fakeLedger) CreateMissing(ctx context.Context, items []*inventory.Item) error { return nil }

func (f *fakeLedger) AdjustStock(ctx context.Context, itemID id.ID, delta types.Quantity) error {
	return nil
}

func (f *fakeLedger) BulkIncrementStock(ctx context.Context, increments map[id.ID]types.Quantity) error {
	return nil
}

func (f *fakeLedger) ApplyPurchase(ctx context.Context, itemID id.ID, quantity types.Quantity, unitCost types.Money) error {
	f.applied[itemID] = purchaseApplied{quantity: quantity, unitCost: unitCost}
	return nil
}

type fakePurchaseRepo struct {
	created []*purchasing.Purchase
}

func (f *fakePurchaseRepo) Create(ctx context.Context, p *purchasing.Purchase) error {
	f.created = append(f.created, p)
	return nil
}

func (f *fakePurchaseRepo) CreateBatch(ctx context.Context, purchases []*purchasing.Purchase) error {
	f.created = append(f.created, purchases...)
	return nil
}

func (f *fakePurchaseRepo) List(ctx context.Context, limit, offset int) ([]*purchasing.Purchase, error) {
	return f.created, nil
}

func (f *fakePurchaseRepo) ListByItem(ctx context.Context, itemID id.ID, limit int) ([]*purchasing.Purchase, error) {
	return nil, nil
}

func newTestManager(repo *fakeShoppingRepo, ledger *fakeLedger, purchases *fakePurchaseRepo) *Manager {
	return NewManager(repo, ledger, purchases, fakeTxManager{}, nil)
}

// --- Tests ---

func TestConfirm_ClosesEntryAndAppliesPurchase(t *testing.T) {
	repo := newFakeShoppingRepo()
	ledger := newFakeLedger()
	purchases := &fakePurchaseRepo{}
	m := newTestManager(repo, ledger, purchases)

	inventoryItemID := id.New()
	entry := &Item{ID: id.New(), InventoryItemID: inventoryItemID, Quantity: types.NewQuantity(5)}
	repo.entries[entry.ID] = entry

	// Confirmed quantity overrides the outstanding amount.
	created, err := m.Confirm(context.Background(), []Confirmation{
		{ShoppingItemID: entry.ID, Quantity: types.NewQuantity(7), TotalPrice: types.NewMoney(21)},
	}, nil)
	require.NoError(t, err)
	require.Len(t, created, 1)

	assert.Equal(t, inventoryItemID, created[0].ItemID)
	assert.True(t, created[0].Quantity.Equal(types.NewQuantity(7)))
	assert.True(t, created[0].Price.Equal(types.NewMoney(21)))

	applied, ok := ledger.applied[inventoryItemID]
	require.True(t, ok)
	assert.True(t, applied.quantity.Equal(types.NewQuantity(7)))
	assert.True(t, applied.unitCost.Equal(types.NewMoney(3)), "unit cost = total/quantity, got %s", applied.unitCost)

	assert.Empty(t, repo.entries, "confirmed entry must be removed entirely")
}

func TestConfirm_UnknownEntry(t *testing.T) {
	m := newTestManager(newFakeShoppingRepo(), newFakeLedger(), &fakePurchaseRepo{})

	_, err := m.Confirm(context.Background(), []Confirmation{
		{ShoppingItemID: id.New(), Quantity: types.NewQuantity(1), TotalPrice: types.NewMoney(1)},
	}, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestConfirm_RejectsEmptyBatch(t *testing.T) {
	m := newTestManager(newFakeShoppingRepo(), newFakeLedger(), &fakePurchaseRepo{})

	_, err := m.Confirm(context.Background(), nil, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestConfirm_RejectsNonPositiveQuantity(t *testing.T) {
	m := newTestManager(newFakeShoppingRepo(), newFakeLedger(), &fakePurchaseRepo{})

	_, err := m.Confirm(context.Background(), []Confirmation{
		{ShoppingItemID: id.New(), Quantity: types.Zero(), TotalPrice: types.NewMoney(1)},
	}, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestRemove_RequiresID(t *testing.T) {
	m := newTestManager(newFakeShoppingRepo(), newFakeLedger(), &fakePurchaseRepo{})

	err := m.Remove(context.Background(), id.Nil)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestRemove_DeletesEntry(t *testing.T) {
	repo := newFakeShoppingRepo()
	m := newTestManager(repo, newFakeLedger(), &fakePurchaseRepo{})

	entry := &Item{ID: id.New(), InventoryItemID: id.New(), Quantity: types.NewQuantity(1)}
	repo.entries[entry.ID] = entry

	require.NoError(t, m.Remove(context.Background(), entry.ID))
	assert.Empty(t, repo.entries)
}

func TestAccumulateDemand_GrowsSingleEntry(t *testing.T) {
	repo := newFakeShoppingRepo()
	m := newTestManager(repo, newFakeLedger(), &fakePurchaseRepo{})

	inventoryItemID := id.New()
	require.NoError(t, m.AccumulateDemand(context.Background(), inventoryItemID, types.NewQuantity(2), types.NewMoney(3)))
	require.NoError(t, m.AccumulateDemand(context.Background(), inventoryItemID, types.NewQuantity(1.5), types.NewMoney(9)))

	require.Len(t, repo.entries, 1, "repeated demand must accumulate into one entry")
	for _, e := range repo.entries {
		assert.True(t, e.Quantity.Equal(types.NewQuantity(3.5)), "quantity = %s", e.Quantity)
		assert.True(t, e.EstimatedPrice.Equal(types.NewMoney(3)), "estimated price is set on first open only")
	}
}

func TestAccumulateDemand_RejectsNonPositive(t *testing.T) {
	m := newTestManager(newFakeShoppingRepo(), newFakeLedger(), &fakePurchaseRepo{})

	err := m.AccumulateDemand(context.Background(), id.New(), types.Zero(), types.Zero())
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}
