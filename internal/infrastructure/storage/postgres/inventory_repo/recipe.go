package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/domain/recipes"
	"fogon/internal/infrastructure/storage/postgres"
)

const (
	recipeTable     = "recipes"
	ingredientTable = "recipe_ingredients"
)

// RecipeRepo implements recipes.Repository.
type RecipeRepo struct {
	txManager *postgres.TxManager
}

// NewRecipeRepo creates a new recipe repository.
func NewRecipeRepo(txManager *postgres.TxManager) *RecipeRepo {
	return &RecipeRepo{txManager: txManager}
}

// GetByProductID returns the recipe for a product.
func (r *RecipeRepo) GetByProductID(ctx context.Context, productID id.ID) (*recipes.Recipe, error) {
	sql, args, err := psql.Select("id", "product_id", "created_at").
		From(recipeTable).
		Where(squirrel.Eq{"product_id": productID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var recipe recipes.Recipe
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, q, &recipe, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("recipe", productID.String())
		}
		return nil, fmt.Errorf("query recipe: %w", err)
	}
	return &recipe, nil
}

// Create inserts a new recipe header.
func (r *RecipeRepo) Create(ctx context.Context, recipe *recipes.Recipe) error {
	sql, args, err := psql.Insert(recipeTable).
		Columns("id", "product_id", "created_at").
		Values(recipe.ID, recipe.ProductID, recipe.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}
	return nil
}

// ingredientRow carries the join column needed to group by product.
type ingredientRow struct {
	recipes.Ingredient
	ProductID id.ID `db:"product_id"`
}

// GetIngredientsByProductIDs resolves ingredient sets for many products in
// one joined query.
func (r *RecipeRepo) GetIngredientsByProductIDs(ctx context.Context, productIDs []id.ID) (map[id.ID][]recipes.Ingredient, error) {
	if len(productIDs) == 0 {
		return map[id.ID][]recipes.Ingredient{}, nil
	}

	sql, args, err := psql.Select(
		"ri.id", "ri.recipe_id", "ri.inventory_item_id", "ri.quantity",
		"r.product_id",
	).
		From(ingredientTable + " ri").
		Join(recipeTable + " r ON r.id = ri.recipe_id").
		Where(squirrel.Eq{"r.product_id": productIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []ingredientRow
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}

	result := make(map[id.ID][]recipes.Ingredient, len(productIDs))
	for _, row := range rows {
		result[row.ProductID] = append(result[row.ProductID], row.Ingredient)
	}
	return result, nil
}

// ReplaceIngredients swaps the recipe's ingredient set wholesale.
func (r *RecipeRepo) ReplaceIngredients(ctx context.Context, recipeID id.ID, ingredients []recipes.Ingredient) error {
	q := r.txManager.GetQuerier(ctx)

	delSQL, delArgs, err := psql.Delete(ingredientTable).
		Where(squirrel.Eq{"recipe_id": recipeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := q.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete ingredients: %w", err)
	}

	if len(ingredients) == 0 {
		return nil
	}

	builder := psql.Insert(ingredientTable).
		Columns("id", "recipe_id", "inventory_item_id", "quantity")
	for _, ing := range ingredients {
		builder = builder.Values(ing.ID, ing.RecipeID, ing.InventoryItemID, ing.Quantity)
	}

	insSQL, insArgs, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := q.Exec(ctx, insSQL, insArgs...); err != nil {
		return fmt.Errorf("insert ingredients: %w", err)
	}
	return nil
}

// GetIngredients returns the ingredient set of one recipe.
func (r *RecipeRepo) GetIngredients(ctx context.Context, recipeID id.ID) ([]recipes.Ingredient, error) {
	sql, args, err := psql.Select("id", "recipe_id", "inventory_item_id", "quantity").
		From(ingredientTable).
		Where(squirrel.Eq{"recipe_id": recipeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ingredients []recipes.Ingredient
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &ingredients, sql, args...); err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	return ingredients, nil
}
