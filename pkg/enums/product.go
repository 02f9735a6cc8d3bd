package enums

import "fmt"

// ProductCategory represents the canonical product categories supported by the catalog.
type ProductCategory string

const (
	ProductCategoryFlower      ProductCategory = "flower"
	ProductCategoryCart        ProductCategory = "cart"
	ProductCategoryPreRoll     ProductCategory = "pre_roll"
	ProductCategoryEdible      ProductCategory = "edible"
	ProductCategoryConcentrate ProductCategory = "concentrate"
	ProductCategoryBeverage    ProductCategory = "beverage"
	ProductCategoryVape        ProductCategory = "vape"
	ProductCategoryTopical     ProductCategory = "topical"
	ProductCategoryTincture    ProductCategory = "tincture"
	ProductCategorySeed        ProductCategory = "seed"
	ProductCategorySeedling    ProductCategory = "seedling"
	ProductCategoryAccessory   ProductCategory = "accessory"
)

var validProductCategories = []ProductCategory{
	ProductCategoryFlower,
	ProductCategoryCart,
	ProductCategoryPreRoll,
	ProductCategoryEdible,
	ProductCategoryConcentrate,
	ProductCategoryBeverage,
	ProductCategoryVape,
	ProductCategoryTopical,
	ProductCategoryTincture,
	ProductCategorySeed,
	ProductCategorySeedling,
	ProductCategoryAccessory,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
