package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Recipe struct {
	ID              int                `gorm:"primary_key" json:"id"`
	TenantId        string             `gorm:"size:36;index;not null" json:"tenant_id"`
	Name            string             `gorm:"size:255;not null" json:"name"`
	OutputProductId int                `gorm:"index;not null" json:"output_product_id"`
	OutputQuantity  decimal.Decimal    `gorm:"type:decimal(20,4);not null" json:"output_quantity"`
	Notes           string             `gorm:"type:text" json:"notes"`
	Ingredients     []RecipeIngredient `json:"ingredients"`
	CreatedAt       time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type RecipeIngredient struct {
	ID        int             `gorm:"primary_key" json:"id"`
	TenantId  string          `gorm:"size:36;index;not null" json:"tenant_id"`
	RecipeId  int             `gorm:"index;not null" json:"recipe_id"`
	ProductId int             `gorm:"not null" json:"product_id"`
	Quantity  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	SortOrder int             `gorm:"not null;default:0" json:"sort_order"`
}

type NewRecipe struct {
	Name            string                 `json:"name" validate:"required,max=255"`
	OutputProductId int                    `json:"output_product_id" validate:"required"`
	OutputQuantity  decimal.Decimal        `json:"output_quantity"`
	Notes           string                 `json:"notes"`
	Ingredients     []*NewRecipeIngredient `json:"ingredients" validate:"required,min=1,dive,required"`
}

type NewRecipeIngredient struct {
	ProductId int             `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func (input *NewRecipe) validate(tx *gorm.DB, tenantId string) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if err := utils.RequirePositive("output quantity", input.OutputQuantity); err != nil {
		return err
	}
	productIds := []int{input.OutputProductId}
	for _, ing := range input.Ingredients {
		if err := utils.RequirePositive("ingredient quantity", ing.Quantity); err != nil {
			return err
		}
		if ing.ProductId == input.OutputProductId {
			return utils.ValidationError("recipe output product cannot also be an ingredient")
		}
		productIds = append(productIds, ing.ProductId)
	}
	return utils.ValidateResourceIds[Product](tx, tenantId, "product", productIds)
}

func CreateRecipe(ctx context.Context, input *NewRecipe) (*Recipe, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}

	var recipe Recipe
	err = createInTx(ctx, tenantId, func(tx *gorm.DB) error {
		if err := input.validate(tx, tenantId); err != nil {
			return err
		}
		ingredients := make([]RecipeIngredient, 0, len(input.Ingredients))
		for i, ing := range input.Ingredients {
			ingredients = append(ingredients, RecipeIngredient{
				TenantId:  tenantId,
				ProductId: ing.ProductId,
				Quantity:  ing.Quantity,
				SortOrder: i,
			})
		}
		recipe = Recipe{
			TenantId:        tenantId,
			Name:            input.Name,
			OutputProductId: input.OutputProductId,
			OutputQuantity:  input.OutputQuantity,
			Notes:           input.Notes,
			Ingredients:     ingredients,
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return utils.DatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func GetRecipe(ctx context.Context, id int) (*Recipe, error) {
	tenantId, db, err := tenantDB(ctx)
	if err != nil {
		return nil, err
	}
	return LoadRecipe(db, tenantId, id)
}

// LoadRecipe reads a recipe with its ingredients in order on db, which may be a transaction.
func LoadRecipe(db *gorm.DB, tenantId string, id int) (*Recipe, error) {
	var recipe Recipe
	err := db.Where("tenant_id = ?", tenantId).
		Preload("Ingredients", orderedLines).
		First(&recipe, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NotFoundError("recipe")
		}
		return nil, utils.DatabaseError(err)
	}
	return &recipe, nil
}

func ListRecipes(ctx context.Context, page Pagination) ([]*Recipe, error) {
	tenantId, db, err := tenantDB(ctx)
	if err != nil {
		return nil, err
	}
	var recipes []*Recipe
	if err := page.apply(db.Where("tenant_id = ?", tenantId).
		Preload("Ingredients", orderedLines).Order("id")).
		Find(&recipes).Error; err != nil {
		return nil, utils.DatabaseError(err)
	}
	return recipes, nil
}

// ResolvedQuantity is a product and the exact quantity a batch moves.
type ResolvedQuantity struct {
	ProductId int             `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type RecipeResolution struct {
	Ingredients []ResolvedQuantity `json:"ingredients"`
	Output      ResolvedQuantity   `json:"output"`
}

// ResolveRecipe expands a recipe for a batch: every per-unit quantity is
// multiplied by batch exactly. Ingredient order follows the recipe.
func ResolveRecipe(recipe *Recipe, batch decimal.Decimal) RecipeResolution {
	resolution := RecipeResolution{
		Ingredients: make([]ResolvedQuantity, 0, len(recipe.Ingredients)),
		Output: ResolvedQuantity{
			ProductId: recipe.OutputProductId,
			Quantity:  recipe.OutputQuantity.Mul(batch),
		},
	}
	for _, ing := range recipe.Ingredients {
		resolution.Ingredients = append(resolution.Ingredients, ResolvedQuantity{
			ProductId: ing.ProductId,
			Quantity:  ing.Quantity.Mul(batch),
		})
	}
	return resolution
}
