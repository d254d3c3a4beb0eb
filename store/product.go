package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductFilter narrows a catalog listing. Zero values are ignored.
type ProductFilter struct {
	Search     string
	Brand      string
	Model      string
	Year       string
	Category   string
	Condition  string
	UploadedBy string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SortBy     string
	Order      string
	Limit      int
	Offset     int
}

var productSortColumns = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"name":       "name",
	"stock":      "stock",
}

func (s *Store) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(model) LIKE ?",
			like, like, like, like,
		)
	}
	if f.Brand != "" {
		query = query.Where("LOWER(brand) = ?", strings.ToLower(f.Brand))
	}
	if f.Model != "" {
		query = query.Where("LOWER(model) = ?", strings.ToLower(f.Model))
	}
	if f.Year != "" {
		query = query.Where("compatible_years LIKE ?", `%"`+f.Year+`"%`)
	}
	if f.Category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(f.Category))
	}
	if f.Condition != "" {
		query = query.Where("LOWER(condition) = ?", strings.ToLower(f.Condition))
	}
	if f.UploadedBy != "" {
		query = query.Where("uploaded_by = ?", f.UploadedBy)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}

	col, ok := productSortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "desc"
	if strings.EqualFold(f.Order, "asc") {
		dir = "asc"
	}
	query = query.Order(fmt.Sprintf("%s %s", col, dir))
	if f.Limit > 0 {
		query = query.Limit(f.Limit).Offset(f.Offset)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindByDiscountCode returns the product whose active discount carries code.
// Codes are stored upper-cased.
func (s *Store) FindByDiscountCode(ctx context.Context, code string) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).
		Where("discount_code = ?", models.NormalizeCode(code)).
		Where("discount_code <> ''").
		First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	p.Discount.Code = models.NormalizeCode(p.Discount.Code)
	if err := p.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(p).Error
}

// CreateProducts inserts a batch in one transaction; nothing is stored if any
// product is invalid.
func (s *Store) CreateProducts(ctx context.Context, products []models.Product) error {
	for i := range products {
		products[i].Discount.Code = models.NormalizeCode(products[i].Discount.Code)
		if err := products[i].Validate(); err != nil {
			return fmt.Errorf("product %d (%s): %w", i+1, products[i].Name, err)
		}
	}
	if len(products) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(products, 100).Error
	})
}

// UpdateProduct replaces the editable fields of an existing product.
func (s *Store) UpdateProduct(ctx context.Context, id string, in models.Product) (*models.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = in.Name
	p.Brand = in.Brand
	p.Model = in.Model
	p.CompatibleYears = in.CompatibleYears
	p.Category = in.Category
	p.Condition = in.Condition
	p.Description = in.Description
	p.Price = in.Price
	p.Currency = in.Currency
	p.Image = in.Image
	p.Stock = in.Stock
	p.Extras = in.Extras
	p.Discount = in.Discount
	p.Discount.Code = models.NormalizeCode(p.Discount.Code)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// SetDiscount attaches rule to a product; an empty code removes the discount.
func (s *Store) SetDiscount(ctx context.Context, id string, rule models.DiscountRule) (*models.Product, error) {
	rule.Code = models.NormalizeCode(rule.Code)
	if !rule.Active() {
		rule = models.DiscountRule{Value: decimal.Zero}
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(p).Updates(map[string]any{
		"discount_code":  rule.Code,
		"discount_type":  rule.Type,
		"discount_value": rule.Value,
	}).Error
	if err != nil {
		return nil, err
	}
	p.Discount = rule
	return p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return deleteProduct(s.db.WithContext(ctx), id)
}

func deleteProduct(tx *gorm.DB, id string) error {
	res := tx.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListCategories returns the distinct non-empty product categories.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	var out []string
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("category <> ''").
		Distinct("category").
		Order("category asc").
		Pluck("category", &out).Error
	return out, err
}
