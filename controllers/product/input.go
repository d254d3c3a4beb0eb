package productcontroller

import (
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/shopspring/decimal"
)

// ProductInput is the writable part of a product.
type ProductInput struct {
	Name            string              `json:"name" binding:"required"`
	Brand           string              `json:"brand"`
	Model           string              `json:"model"`
	CompatibleYears []string            `json:"compatible_years"`
	Category        string              `json:"category"`
	Condition       string              `json:"condition"`
	Description     string              `json:"description"`
	Price           decimal.Decimal     `json:"price"`
	Currency        string              `json:"currency" binding:"required"`
	Image           string              `json:"image"`
	Stock           int                 `json:"stock" binding:"min=0"`
	Extras          map[string]string   `json:"extras"`
	Discount        models.DiscountRule `json:"discount"`
}

func (in ProductInput) toProduct() (models.Product, error) {
	cur, err := models.ParseCurrency(in.Currency)
	if err != nil {
		return models.Product{}, err
	}
	return models.Product{
		Name:            in.Name,
		Brand:           in.Brand,
		Model:           in.Model,
		CompatibleYears: in.CompatibleYears,
		Category:        in.Category,
		Condition:       in.Condition,
		Description:     in.Description,
		Price:           in.Price,
		Currency:        cur,
		Image:           in.Image,
		Stock:           in.Stock,
		Extras:          in.Extras,
		Discount:        in.Discount,
	}, nil
}
