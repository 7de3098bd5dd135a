package recipes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/core/types"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunInBulkTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRecipeRepo struct {
	byProduct   map[id.ID]*Recipe
	ingredients map[id.ID][]Ingredient
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{
		byProduct:   make(map[id.ID]*Recipe),
		ingredients: make(map[id.ID][]Ingredient),
	}
}

func (f *fakeRecipeRepo) GetByProductID(ctx context.Context, productID id.ID) (*Recipe, error) {
	if r, ok := f.byProduct[productID]; ok {
		return r, nil
	}
	return nil, apperror.NewNotFound("recipe", productID)
}

func (f *fakeRecipeRepo) Create(ctx context.Context, recipe *Recipe) error {
	f.byProduct[recipe.ProductID] = recipe
	return nil
}

func (f *fakeRecipeRepo) GetIngredientsByProductIDs(ctx context.Context, productIDs []id.ID) (map[id.ID][]Ingredient, error) {
	result := make(map[id.ID][]Ingredient)
	for _, pid := range productIDs {
		if recipe, ok := f.byProduct[pid]; ok {
			if ings, ok := f.ingredients[recipe.ID]; ok {
				result[pid] = ings
			}
		}
	}
	return result, nil
}

func (f *fakeRecipeRepo) ReplaceIngredients(ctx context.Context, recipeID id.ID, ingredients []Ingredient) error {
	f.ingredients[recipeID] = ingredients
	return nil
}

func (f *fakeRecipeRepo) GetIngredients(ctx context.Context, recipeID id.ID) ([]Ingredient, error) {
	return f.ingredients[recipeID], nil
}

func newTestService(repo *fakeRecipeRepo) *Service {
	return NewService(repo, fakeTxManager{}, nil)
}

func TestResolve_ProductsWithoutRecipeMapToEmpty(t *testing.T) {
	repo := newFakeRecipeRepo()
	svc := newTestService(repo)

	withRecipe := id.New()
	withoutRecipe := id.New()
	recipe := &Recipe{ID: id.New(), ProductID: withRecipe}
	repo.byProduct[withRecipe] = recipe
	repo.ingredients[recipe.ID] = []Ingredient{
		{ID: id.New(), RecipeID: recipe.ID, InventoryItemID: id.New(), Quantity: types.NewQuantity(1)},
	}

	result, err := svc.Resolve(context.Background(), []id.ID{withRecipe, withoutRecipe})
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Len(t, result[withRecipe], 1)

	// No recipe is not an error: the product simply consumes nothing.
	entry, ok := result[withoutRecipe]
	assert.True(t, ok)
	assert.Empty(t, entry)
}

func TestResolve_EmptyInput(t *testing.T) {
	svc := newTestService(newFakeRecipeRepo())

	result, err := svc.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestSave_CreatesRecipeLazily(t *testing.T) {
	repo := newFakeRecipeRepo()
	svc := newTestService(repo)

	productID := id.New()
	itemID := id.New()
	err := svc.Save(context.Background(), productID, []IngredientInput{
		{InventoryItemID: itemID, Quantity: types.NewQuantity(0.25)},
	})
	require.NoError(t, err)

	recipe, ok := repo.byProduct[productID]
	require.True(t, ok, "first save must create the recipe header")
	ings := repo.ingredients[recipe.ID]
	require.Len(t, ings, 1)
	assert.Equal(t, itemID, ings[0].InventoryItemID)
	assert.Equal(t, recipe.ID, ings[0].RecipeID)
}

func TestSave_ReplacesIngredientSet(t *testing.T) {
	repo := newFakeRecipeRepo()
	svc := newTestService(repo)

	productID := id.New()
	first := id.New()
	second := id.New()

	require.NoError(t, svc.Save(context.Background(), productID, []IngredientInput{
		{InventoryItemID: first, Quantity: types.NewQuantity(1)},
	}))
	recipe := repo.byProduct[productID]

	require.NoError(t, svc.Save(context.Background(), productID, []IngredientInput{
		{InventoryItemID: second, Quantity: types.NewQuantity(2)},
	}))

	assert.Equal(t, recipe.ID, repo.byProduct[productID].ID, "recipe header is created once")
	ings := repo.ingredients[recipe.ID]
	require.Len(t, ings, 1, "save fully replaces the ingredient set")
	assert.Equal(t, second, ings[0].InventoryItemID)
}

func TestSave_ValidatesIngredients(t *testing.T) {
	svc := newTestService(newFakeRecipeRepo())

	err := svc.Save(context.Background(), id.New(), []IngredientInput{
		{InventoryItemID: id.Nil, Quantity: types.NewQuantity(1)},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	err = svc.Save(context.Background(), id.Nil, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}
