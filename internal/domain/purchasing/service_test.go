package purchasing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/core/types"
	"fogon/internal/domain/audit"
	"fogon/internal/domain/inventory"
)

// --- Fakes ---

type fakeTxManager struct {
	bulkCalls int
	txCalls   int
}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txCalls++
	return fn(ctx)
}

func (f *fakeTxManager) RunInBulkTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.bulkCalls++
	return fn(ctx)
}

type fakePurchaseRepo struct {
	created      []*Purchase
	batchErr     error
	lastLimit    int
	lastOffset   int
	lastItemID   id.ID
	listResponse []*Purchase
}

func (f *fakePurchaseRepo) Create(ctx context.Context, p *Purchase) error {
	f.created = append(f.created, p)
	return nil
}

func (f *fakePurchaseRepo) CreateBatch(ctx context.Context, purchases []*Purchase) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.created = append(f.created, purchases...)
	return nil
}

func (f *fakePurchaseRepo) List(ctx context.Context, limit, offset int) ([]*Purchase, error) {
	f.lastLimit, f.lastOffset = limit, offset
	return f.listResponse, nil
}

func (f *fakePurchaseRepo) ListByItem(ctx context.Context, itemID id.ID, limit int) ([]*Purchase, error) {
	f.lastItemID, f.lastLimit = itemID, limit
	return f.listResponse, nil
}

type fakeItemRepo struct {
	byName     map[string]*inventory.Item
	increments map[id.ID]types.Quantity
	createErr  error
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{
		byName:     make(map[string]*inventory.Item),
		increments: make(map[id.ID]types.Quantity),
	}
}

func (f *fakeItemRepo) Create(ctx context.Context, item *inventory.Item) error {
	f.byName[item.Name] = item
	return nil
}

func (f *fakeItemRepo) GetByID(ctx context.Context, itemID id.ID) (*inventory.Item, error) {
	for _, it := range f.byName {
		if it.ID == itemID {
			return it, nil
		}
	}
	return nil, apperror.NewNotFound("inventory item", itemID)
}

func (f *fakeItemRepo) GetByIDs(ctx context.Context, itemIDs []id.ID) ([]*inventory.Item, error) {
	var out []*inventory.Item
	for _, wanted := range itemIDs {
		for _, it := range f.byName {
			if it.ID == wanted {
				out = append(out, it)
			}
		}
	}
	return out, nil
}

func (f *fakeItemRepo) Update(ctx context.Context, item *inventory.Item) error { return nil }

func (f *fakeItemRepo) List(ctx context.Context, filter inventory.ListFilter) ([]*inventory.Item, error) {
	return nil, nil
}

func (f *fakeItemRepo) FindByNames(ctx context.Context, names []string) ([]*inventory.Item, error) {
	var out []*inventory.Item
	for _, name := range names {
		if it, ok := f.byName[name]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) CreateMissing(ctx context.Context, items []*inventory.Item) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, it := range items {
		if _, exists := f.byName[it.Name]; !exists {
			f.byName[it.Name] = it
		}
	}
	return nil
}

func (f *fakeItemRepo) AdjustStock(ctx context.Context, itemID id.ID, delta types.Quantity) error {
	f.increments[itemID] = f.increments[itemID].Add(delta)
	return nil
}

func (f *fakeItemRepo) BulkIncrementStock(ctx context.Context, increments map[id.ID]types.Quantity) error {
	for itemID, qty := range increments {
		f.increments[itemID] = f.increments[itemID].Add(qty)
	}
	return nil
}

func (f *fakeItemRepo) ApplyPurchase(ctx context.Context, itemID id.ID, quantity types.Quantity, unitCost types.Money) error {
	f.increments[itemID] = f.increments[itemID].Add(quantity)
	return nil
}

type fakeCategoryRepo struct {
	categories []*inventory.Category
	created    []*inventory.Category
	createErr  error
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *inventory.Category) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.categories = append(f.categories, category)
	f.created = append(f.created, category)
	return nil
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]*inventory.Category, error) {
	return f.categories, nil
}

func (f *fakeCategoryRepo) FindByName(ctx context.Context, name string) (*inventory.Category, error) {
	for _, c := range f.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, apperror.NewNotFound("category", name)
}

func (f *fakeCategoryRepo) First(ctx context.Context) (*inventory.Category, error) {
	if len(f.categories) == 0 {
		return nil, apperror.NewNotFound("category", "any")
	}
	return f.categories[0], nil
}

type auditCall struct {
	entityType string
	action     audit.Action
	payload    map[string]any
}

type fakeAuditor struct {
	records []auditCall
}

func (f *fakeAuditor) Record(ctx context.Context, entityType string, entityID id.ID, action audit.Action, payload map[string]any) error {
	f.records = append(f.records, auditCall{entityType: entityType, action: action, payload: payload})
	return nil
}

func newTestReconciler(purchases *fakePurchaseRepo, items *fakeItemRepo, categories *fakeCategoryRepo) (*Reconciler, *fakeTxManager) {
	txm := &fakeTxManager{}
	return NewReconciler(purchases, items, categories, txm, nil, DefaultReconcilerConfig()), txm
}

// --- Tests ---

func TestReconcile_RejectsEmptyBatch(t *testing.T) {
	r, _ := newTestReconciler(&fakePurchaseRepo{}, newFakeItemRepo(), &fakeCategoryRepo{})

	_, err := r.Reconcile(context.Background(), BulkInput{})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestReconcile_ValidationCarriesLineNumber(t *testing.T) {
	r, _ := newTestReconciler(&fakePurchaseRepo{}, newFakeItemRepo(), &fakeCategoryRepo{})

	_, err := r.Reconcile(context.Background(), BulkInput{Lines: []Line{
		{Name: "Queso", Quantity: types.NewQuantity(1), Price: types.NewMoney(2)},
		{Name: "Jamón", Quantity: types.Zero(), Price: types.NewMoney(2)},
	}})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, 2, appErr.Details["line"])
	assert.Equal(t, "Jamón", appErr.Details["name"])
}

func TestReconcile_MergesDuplicateLines(t *testing.T) {
	purchases := &fakePurchaseRepo{}
	items := newFakeItemRepo()
	categories := &fakeCategoryRepo{categories: []*inventory.Category{
		{ID: id.New(), Name: inventory.FallbackCategoryName},
	}}
	r, txm := newTestReconciler(purchases, items, categories)

	created, err := r.Reconcile(context.Background(), BulkInput{Lines: []Line{
		{Name: "queso", Quantity: types.NewQuantity(10), Price: types.NewMoney(20)},
		{Name: " Queso ", Quantity: types.NewQuantity(5), Price: types.NewMoney(10)},
	}})
	require.NoError(t, err)
	require.Len(t, created, 1)

	assert.True(t, created[0].Quantity.Equal(types.NewQuantity(15)),
		"merged quantity = %s", created[0].Quantity)
	assert.True(t, created[0].Price.Equal(types.NewMoney(30)),
		"merged price = %s", created[0].Price)
	assert.Equal(t, 1, txm.bulkCalls)

	item, ok := items.byName["Queso"]
	require.True(t, ok, "item should be created under the normalized name")
	assert.True(t, items.increments[item.ID].Equal(types.NewQuantity(15)))
}

func TestReconcile_CreatesMissingItems(t *testing.T) {
	purchases := &fakePurchaseRepo{}
	items := newFakeItemRepo()
	category := &inventory.Category{ID: id.New(), Name: inventory.FallbackCategoryName}
	categories := &fakeCategoryRepo{categories: []*inventory.Category{category}}
	r, _ := newTestReconciler(purchases, items, categories)

	existing := inventory.NewItem("Tomate", category.ID, types.Zero())
	items.byName[existing.Name] = existing

	created, err := r.Reconcile(context.Background(), BulkInput{Lines: []Line{
		{Name: "tomate", Quantity: types.NewQuantity(3), Price: types.NewMoney(6)},
		{Name: "cebolla", Quantity: types.NewQuantity(2), Price: types.NewMoney(4)},
	}})
	require.NoError(t, err)
	require.Len(t, created, 2)

	newItem, ok := items.byName["Cebolla"]
	require.True(t, ok)
	assert.Equal(t, category.ID, newItem.CategoryID)
	assert.Equal(t, inventory.DefaultUnit, newItem.Unit)
	assert.True(t, newItem.MinStock.Equal(DefaultReconcilerConfig().DefaultMinStock),
		"auto-created item minStock = %s", newItem.MinStock)

	// Existing item must be reused, not duplicated.
	assert.Equal(t, existing.ID, created[0].ItemID)
	assert.Equal(t, newItem.ID, created[1].ItemID)
}

func TestReconcile_AppliesConfiguredMinStock(t *testing.T) {
	items := newFakeItemRepo()
	categories := &fakeCategoryRepo{categories: []*inventory.Category{
		{ID: id.New(), Name: inventory.FallbackCategoryName},
	}}
	r := NewReconciler(&fakePurchaseRepo{}, items, categories, &fakeTxManager{}, nil,
		ReconcilerConfig{DefaultMinStock: types.NewQuantityFromInt(12)})

	_, err := r.Reconcile(context.Background(), BulkInput{Lines: []Line{
		{Name: "harina", Quantity: types.NewQuantity(2), Price: types.NewMoney(8)},
	}})
	require.NoError(t, err)

	newItem, ok := items.byName["Harina"]
	require.True(t, ok)
	assert.True(t, newItem.MinStock.Equal(types.NewQuantityFromInt(12)),
		"minStock = %s", newItem.MinStock)
}

func TestReconcile_AuditsOncePerBatch(t *testing.T) {
	items := newFakeItemRepo()
	categories := &fakeCategoryRepo{categories: []*inventory.Category{
		{ID: id.New(), Name: inventory.FallbackCategoryName},
	}}
	auditor := &fakeAuditor{}
	r := NewReconciler(&fakePurchaseRepo{}, items, categories, &fakeTxManager{}, auditor,
		DefaultReconcilerConfig())

	_, err := r.Reconcile(context.Background(), BulkInput{Lines: []Line{
		{Name: "pan", Quantity: types.NewQuantity(1), Price: types.NewMoney(1)},
		{Name: "queso", Quantity: types.NewQuantity(2), Price: types.NewMoney(4)},
		{Name: "jamón", Quantity: types.NewQuantity(3), Price: types.NewMoney(9)},
	}})
	require.NoError(t, err)

	require.Len(t, auditor.records, 1, "a batch is audited as one entry")
	record := auditor.records[0]
	assert.Equal(t, "purchase_batch", record.entityType)
	assert.Equal(t, audit.ActionBulkPurchase, record.action)
	assert.Equal(t, 3, record.payload["count"])
}

func TestReconcile_FallbackCategoryChain(t *testing.T) {
	// No OTROS, but another category exists: use it.
	other := &inventory.Category{ID: id.New(), Name: "SALSAS"}
	items := newFakeItemRepo()
	categories := &fakeCategoryRepo{categories: []*inventory.Category{other}}
	r, _ := newTestReconciler(&fakePurchaseRepo{}, items, categories)

	_, err := r.Reconcile(context.Background(), BulkInput{Lines: []Line{
		{Name: "pan", Quantity: types.NewQuantity(1), Price: types.NewMoney(1)},
	}})
	require.NoError(t, err)
	assert.Equal(t, other.ID, items.byName["Pan"].CategoryID)
	assert.Empty(t, categories.created)
}

func TestReconcile_CreatesFallbackCategoryWhenNoneExists(t *testing.T) {
	items := newFakeItemRepo()
	categories := &fakeCategoryRepo{}
	r, _ := newTestReconciler(&fakePurchaseRepo{}, items, categories)

	_, err := r.Reconcile(context.Background(), BulkInput{Lines: []Line{
		{Name: "pan", Quantity: types.NewQuantity(1), Price: types.NewMoney(1)},
	}})
	require.NoError(t, err)
	require.Len(t, categories.created, 1)
	assert.Equal(t, inventory.FallbackCategoryName, categories.created[0].Name)
}

func TestReconcile_NoCategoryAvailable(t *testing.T) {
	categories := &fakeCategoryRepo{createErr: errors.New("insert failed")}
	r, _ := newTestReconciler(&fakePurchaseRepo{}, newFakeItemRepo(), categories)

	_, err := r.Reconcile(context.Background(), BulkInput{Lines: []Line{
		{Name: "pan", Quantity: types.NewQuantity(1), Price: types.NewMoney(1)},
	}})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNoCategoryAvailable, appErr.Code)
}

func TestReconcile_StorageFailureIsTransactionFailure(t *testing.T) {
	purchases := &fakePurchaseRepo{batchErr: errors.New("connection reset")}
	items := newFakeItemRepo()
	categories := &fakeCategoryRepo{categories: []*inventory.Category{
		{ID: id.New(), Name: inventory.FallbackCategoryName},
	}}
	r, _ := newTestReconciler(purchases, items, categories)

	created, err := r.Reconcile(context.Background(), BulkInput{Lines: []Line{
		{Name: "pan", Quantity: types.NewQuantity(1), Price: types.NewMoney(1)},
	}})
	require.Error(t, err)
	assert.Nil(t, created)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeTransactionFailure, appErr.Code)
}

func TestHistory_ClampsLimit(t *testing.T) {
	purchases := &fakePurchaseRepo{}
	r, _ := newTestReconciler(purchases, newFakeItemRepo(), &fakeCategoryRepo{})

	_, err := r.History(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, purchases.lastLimit)

	_, err = r.History(context.Background(), 500, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, purchases.lastLimit)

	_, err = r.History(context.Background(), 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 20, purchases.lastLimit)
	assert.Equal(t, 10, purchases.lastOffset)
}

func TestDedupeLines_PreservesFirstSeenOrder(t *testing.T) {
	merged := dedupeLines([]Line{
		{Name: "b", Quantity: types.NewQuantity(1), Price: types.NewMoney(1)},
		{Name: "a", Quantity: types.NewQuantity(1), Price: types.NewMoney(1)},
		{Name: "B", Quantity: types.NewQuantity(2), Price: types.NewMoney(2)},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, "B", merged[0].Name)
	assert.Equal(t, "A", merged[1].Name)
	assert.True(t, merged[0].Quantity.Equal(types.NewQuantity(3)))
	assert.True(t, merged[0].Price.Equal(types.NewMoney(3)))
}
