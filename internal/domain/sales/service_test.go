package sales

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/core/types"
	"fogon/internal/domain/inventory"
	"fogon/internal/domain/recipes"
	"fogon/internal/domain/shopping"
)

// --- Fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunInBulkTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSaleRepo struct {
	created   []*Sale
	createErr error
}

func (f *fakeSaleRepo) Create(ctx context.Context, sale *Sale) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, sale)
	return nil
}

func (f *fakeSaleRepo) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	for _, s := range f.created {
		if s.ID == saleID {
			return s, nil
		}
	}
	return nil, apperror.NewNotFound("sale", saleID)
}

func (f *fakeSaleRepo) List(ctx context.Context, limit, offset int) ([]*Sale, error) {
	return f.created, nil
}

type fakeResolver struct {
	recipes map[id.ID][]recipes.Ingredient
	calls   int
}

func (f *fakeResolver) Resolve(ctx context.Context, productIDs []id.ID) (map[id.ID][]recipes.Ingredient, error) {
	f.calls++
	result := make(map[id.ID][]recipes.Ingredient, len(productIDs))
	for _, pid := range productIDs {
		result[pid] = f.recipes[pid]
	}
	return result, nil
}

type stockCall struct {
	itemID id.ID
	delta  types.Quantity
}

type fakeLedger struct {
	items     map[id.ID]*inventory.Item
	adjusts   []stockCall
	adjustErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{items: make(map[id.ID]*inventory.Item)}
}

func (f *fakeLedger) Create(ctx context.Context, item *inventory.Item) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeLedger) GetByID(ctx context.Context, itemID id.ID) (*inventory.Item, error) {
	if it, ok := f.items[itemID]; ok {
		return it, nil
	}
	return nil, apperror.NewNotFound("inventory item", itemID)
}

func (f *fakeLedger) GetByIDs(ctx context.Context, itemIDs []id.ID) ([]*inventory.Item, error) {
	var out []*inventory.Item
	for _, wanted := range itemIDs {
		if it, ok := f.items[wanted]; ok {
			out = append(out, it)
		}
	}
	return out, nil
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
	if f.adjustErr != nil {
		return f.adjustErr
	}
	f.adjusts = append(f.adjusts, stockCall{itemID: itemID, delta: delta})
	return nil
}

func (f *fakeLedger) BulkIncrementStock(ctx context.Context, increments map[id.ID]types.Quantity) error {
	return nil
}

func (f *fakeLedger) ApplyPurchase(ctx context.Context, itemID id.ID, quantity types.Quantity, unitCost types.Money) error {
	return nil
}

type demandCall struct {
	itemID id.ID
	qty    types.Quantity
	cost   types.Money
}

type fakeShoppingRepo struct {
	demands []demandCall
}

func (f *fakeShoppingRepo) ListOpen(ctx context.Context) ([]shopping.OpenEntry, error) {
	return nil, nil
}

func (f *fakeShoppingRepo) GetByIDs(ctx context.Context, ids []id.ID) ([]*shopping.Item, error) {
	return nil, nil
}

func (f *fakeShoppingRepo) UpsertDemand(ctx context.Context, inventoryItemID id.ID, demand types.Quantity, estimatedCost types.Money) error {
	f.demands = append(f.demands, demandCall{itemID: inventoryItemID, qty: demand, cost: estimatedCost})
	return nil
}

func (f *fakeShoppingRepo) Delete(ctx context.Context, itemID id.ID) error { return nil }

func newTestService(repo *fakeSaleRepo, resolver *fakeResolver, ledger *fakeLedger, shoppingRepo *fakeShoppingRepo) *Service {
	return NewService(repo, resolver, ledger, shoppingRepo, fakeTxManager{}, nil)
}

func productLine(productID id.ID, qty float64, price float64) LineInput {
	return LineInput{
		ProductRef: productID.String(),
		Quantity:   types.NewQuantity(qty),
		UnitPrice:  types.NewMoney(price),
	}
}

// --- Tests ---

func TestCreateSale_ComputesTotals(t *testing.T) {
	repo := &fakeSaleRepo{}
	svc := newTestService(repo, &fakeResolver{}, newFakeLedger(), &fakeShoppingRepo{})

	productID := id.New()
	sale, err := svc.CreateSale(context.Background(), CreateInput{
		PaymentMethod: PaymentCash,
		Lines: []LineInput{
			productLine(productID, 2, 5),
			{ProductRef: "custom-1", Name: "Refresco", Quantity: types.NewQuantity(3), UnitPrice: types.NewMoney(1.5)},
		},
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	assert.True(t, sale.Total.Equal(types.NewMoney(14.5)), "total = %s", sale.Total)
	require.Len(t, sale.Items, 2)
	assert.True(t, sale.Items[0].Subtotal.Equal(types.NewMoney(10)))
	assert.NotNil(t, sale.Items[0].ProductID)
	assert.Nil(t, sale.Items[1].ProductID, "custom line must not reference a product")
}

func TestCreateSale_RejectsUnknownPaymentMethod(t *testing.T) {
	repo := &fakeSaleRepo{}
	svc := newTestService(repo, &fakeResolver{}, newFakeLedger(), &fakeShoppingRepo{})

	_, err := svc.CreateSale(context.Background(), CreateInput{
		PaymentMethod: "BARTER",
		Lines:         []LineInput{productLine(id.New(), 1, 1)},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, repo.created)
}

func TestCreateSale_RejectsMalformedProductRef(t *testing.T) {
	repo := &fakeSaleRepo{}
	svc := newTestService(repo, &fakeResolver{}, newFakeLedger(), &fakeShoppingRepo{})

	_, err := svc.CreateSale(context.Background(), CreateInput{
		PaymentMethod: PaymentCash,
		Lines: []LineInput{
			{ProductRef: "not-a-uuid", Name: "x", Quantity: types.NewQuantity(1), UnitPrice: types.NewMoney(1)},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, repo.created)
}

func TestCreateSale_CustomLinesDoNotConsume(t *testing.T) {
	resolver := &fakeResolver{}
	ledger := newFakeLedger()
	shoppingRepo := &fakeShoppingRepo{}
	svc := newTestService(&fakeSaleRepo{}, resolver, ledger, shoppingRepo)

	_, err := svc.CreateSale(context.Background(), CreateInput{
		PaymentMethod: PaymentCash,
		Lines: []LineInput{
			{ProductRef: "custom-1", Name: "Agua", Quantity: types.NewQuantity(2), UnitPrice: types.NewMoney(1)},
		},
	})
	require.NoError(t, err)
	assert.Zero(t, resolver.calls, "custom-only sales must not resolve recipes")
	assert.Empty(t, ledger.adjusts)
	assert.Empty(t, shoppingRepo.demands)
}

func TestCreateSale_AggregatesConsumption(t *testing.T) {
	productID := id.New()
	carne := id.New()
	pan := id.New()

	resolver := &fakeResolver{recipes: map[id.ID][]recipes.Ingredient{
		productID: {
			{InventoryItemID: carne, Quantity: types.NewQuantity(2)},
			{InventoryItemID: pan, Quantity: types.NewQuantity(0.5)},
		},
	}}
	ledger := newFakeLedger()
	ledger.items[carne] = &inventory.Item{ID: carne, LastCost: types.NewMoney(4)}
	ledger.items[pan] = &inventory.Item{ID: pan, LastCost: types.NewMoney(1)}
	shoppingRepo := &fakeShoppingRepo{}
	svc := newTestService(&fakeSaleRepo{}, resolver, ledger, shoppingRepo)

	// Same product on two lines: quantities aggregate before resolution.
	_, err := svc.CreateSale(context.Background(), CreateInput{
		PaymentMethod: PaymentCash,
		Lines: []LineInput{
			productLine(productID, 2, 5),
			productLine(productID, 1, 5),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resolver.calls)

	deducted := make(map[id.ID]types.Quantity)
	for _, call := range ledger.adjusts {
		deducted[call.itemID] = call.delta
	}
	require.Len(t, deducted, 2)
	assert.True(t, deducted[carne].Equal(types.NewQuantity(-6)), "carne delta = %s", deducted[carne])
	assert.True(t, deducted[pan].Equal(types.NewQuantity(-1.5)), "pan delta = %s", deducted[pan])

	demanded := make(map[id.ID]demandCall)
	for _, call := range shoppingRepo.demands {
		demanded[call.itemID] = call
	}
	require.Len(t, demanded, 2)
	assert.True(t, demanded[carne].qty.Equal(types.NewQuantity(6)))
	assert.True(t, demanded[carne].cost.Equal(types.NewMoney(4)), "demand carries the ledger's last cost")
	assert.True(t, demanded[pan].qty.Equal(types.NewQuantity(1.5)))
}

func TestCreateSale_ConsumptionFailureIsPartial(t *testing.T) {
	productID := id.New()
	carne := id.New()

	resolver := &fakeResolver{recipes: map[id.ID][]recipes.Ingredient{
		productID: {{InventoryItemID: carne, Quantity: types.NewQuantity(1)}},
	}}
	ledger := newFakeLedger()
	ledger.adjustErr = errors.New("deadlock detected")
	repo := &fakeSaleRepo{}
	svc := newTestService(repo, resolver, ledger, &fakeShoppingRepo{})

	sale, err := svc.CreateSale(context.Background(), CreateInput{
		PaymentMethod: PaymentCash,
		Lines:         []LineInput{productLine(productID, 1, 5)},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsPartialFailure(err))

	// The ticket survives the consumption failure.
	require.NotNil(t, sale)
	require.Len(t, repo.created, 1)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, sale.ID.String(), appErr.Details["sale_id"])
}

func TestCreateSale_StorageFailureIsTotal(t *testing.T) {
	repo := &fakeSaleRepo{createErr: errors.New("insert failed")}
	svc := newTestService(repo, &fakeResolver{}, newFakeLedger(), &fakeShoppingRepo{})

	sale, err := svc.CreateSale(context.Background(), CreateInput{
		PaymentMethod: PaymentCash,
		Lines:         []LineInput{productLine(id.New(), 1, 5)},
	})
	require.Error(t, err)
	assert.Nil(t, sale)
	assert.False(t, apperror.IsPartialFailure(err))
}

func TestApplyConsumption_DeterministicOrder(t *testing.T) {
	productID := id.New()
	ingredients := []recipes.Ingredient{
		{InventoryItemID: id.New(), Quantity: types.NewQuantity(1)},
		{InventoryItemID: id.New(), Quantity: types.NewQuantity(1)},
		{InventoryItemID: id.New(), Quantity: types.NewQuantity(1)},
		{InventoryItemID: id.New(), Quantity: types.NewQuantity(1)},
	}
	resolver := &fakeResolver{recipes: map[id.ID][]recipes.Ingredient{productID: ingredients}}
	ledger := newFakeLedger()
	svc := newTestService(&fakeSaleRepo{}, resolver, ledger, &fakeShoppingRepo{})

	err := svc.ApplyConsumption(context.Background(), []SaleItem{
		{ProductID: &productID, Quantity: types.NewQuantity(1)},
	})
	require.NoError(t, err)
	require.Len(t, ledger.adjusts, len(ingredients))

	got := make([]string, 0, len(ledger.adjusts))
	for _, call := range ledger.adjusts {
		got = append(got, call.itemID.String())
	}
	assert.True(t, sort.StringsAreSorted(got), "deductions must run in sorted id order, got %v", got)
}
