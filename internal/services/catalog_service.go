// internal/services/catalog_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/models"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/utils"
)

// Stock quantity assigned to auto-derived row variations on the legacy
// object-price write path.
const defaultRowStock = 10

type CatalogService struct {
	db                  *gorm.DB
	auditService        *AuditService
	notificationService *NotificationService
}

func NewCatalogService(db *gorm.DB, auditService *AuditService, notificationService *NotificationService) *CatalogService {
	return &CatalogService{
		db:                  db,
		auditService:        auditService,
		notificationService: notificationService,
	}
}

// RowPrice is the object form of a product price, used when the product
// carries "2 Row"/"3 Row" variations. Default is the minimum of whichever
// row prices are present.
type RowPrice struct {
	TwoRow   *float64 `json:"twoRow,omitempty"`
	ThreeRow *float64 `json:"threeRow,omitempty"`
	Default  float64  `json:"default"`
}

// PriceInput accepts either a plain number or a {twoRow, threeRow} object.
type PriceInput struct {
	Scalar   *float64
	TwoRow   *float64
	ThreeRow *float64
}

func (p *PriceInput) UnmarshalJSON(data []byte) error {
	var scalar float64
	if err := json.Unmarshal(data, &scalar); err == nil {
		p.Scalar = &scalar
		return nil
	}

	var obj struct {
		TwoRow   *float64 `json:"twoRow"`
		ThreeRow *float64 `json:"threeRow"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	p.TwoRow = obj.TwoRow
	p.ThreeRow = obj.ThreeRow
	return nil
}

func (p *PriceInput) IsObject() bool {
	return p.Scalar == nil && (p.TwoRow != nil || p.ThreeRow != nil)
}

// BasePrice maps the input onto the single stored price column. For the
// object form the minimum of twoRow/threeRow is kept, with absent fields
// treated as 0.
func (p *PriceInput) BasePrice() float64 {
	if p.Scalar != nil {
		return *p.Scalar
	}
	if p.TwoRow == nil && p.ThreeRow == nil {
		return 0
	}
	two, three := 0.0, 0.0
	if p.TwoRow != nil {
		two = *p.TwoRow
	}
	if p.ThreeRow != nil {
		three = *p.ThreeRow
	}
	if two < three {
		return two
	}
	return three
}

type ImageInput struct {
	URL       string `json:"url" validate:"required"`
	Position  int    `json:"position"`
	IsPrimary bool   `json:"is_primary"`
}

type VariationInput struct {
	Name          string                 `json:"name" validate:"required"`
	SKU           string                 `json:"sku"`
	Price         float64                `json:"price" validate:"min=0"`
	StockQuantity int                    `json:"stock_quantity" validate:"min=0"`
	Attributes    map[string]interface{} `json:"attributes,omitempty"`
	Meta          map[string]interface{} `json:"meta,omitempty"`
	Images        []ImageInput           `json:"images,omitempty"`
}

// ProductInput is the admin create/update payload. Variations nil means
// "not supplied" (the legacy object-price path may auto-derive rows);
// an explicit empty list persists zero variations. Updates replace
// variations and images wholesale, so callers must always resend the
// complete set.
type ProductInput struct {
	Name           string           `json:"name" validate:"required,min=2,max=255"`
	Description    []string         `json:"description"`
	Price          PriceInput       `json:"price"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	InStock        bool             `json:"in_stock"`
	Featured       bool             `json:"featured"`
	NewArrival     bool             `json:"new_arrival"`
	AdditionalInfo []string         `json:"additional_info"`
	Images         []ImageInput     `json:"images"`
	Variations     []VariationInput `json:"variations"`
}

type NormalizedVariation struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	SKU           string                `json:"sku,omitempty"`
	Price         float64               `json:"price"`
	StockQuantity int                   `json:"stock_quantity"`
	Attributes    models.JSONB          `json:"attributes,omitempty"`
	Description   string                `json:"description"`
	Videos        []string              `json:"videos"`
	Images        []models.ProductImage `json:"images"`
}

// NormalizedProduct is the display-ready catalog representation: the price
// field is either a plain number or a RowPrice object, description is a
// line array, and variation galleries ride along on each variation.
type NormalizedProduct struct {
	ID             uuid.UUID             `json:"id"`
	Name           string                `json:"name"`
	Description    []string              `json:"description"`
	Price          interface{}           `json:"price"`
	CategoryID     *uuid.UUID            `json:"category_id,omitempty"`
	CategoryName   string                `json:"category_name,omitempty"`
	InStock        bool                  `json:"in_stock"`
	Featured       bool                  `json:"featured"`
	NewArrival     bool                  `json:"new_arrival"`
	AdditionalInfo []string              `json:"additional_info"`
	Images         []models.ProductImage `json:"images"`
	Variations     []NormalizedVariation `json:"variations"`
	Reviews        []models.Review       `json:"reviews"`
}

func (s *CatalogService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// ListProducts returns all products, optionally filtered by category, with
// variations, images, and reviews loaded in one batched query per row type
// regardless of product count.
func (s *CatalogService) ListProducts(categoryID *uuid.UUID) ([]NormalizedProduct, error) {
	query := s.db.Preload("Category").Order("created_at DESC")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	return s.normalize(products)
}

func (s *CatalogService) GetProduct(id uuid.UUID) (*NormalizedProduct, error) {
	var product models.Product
	if err := s.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}

	normalized, err := s.normalize([]models.Product{product})
	if err != nil {
		return nil, err
	}
	return &normalized[0], nil
}

// normalize assembles the denormalized view from product rows plus three
// batched lookups keyed by product id (and variation id for galleries).
func (s *CatalogService) normalize(products []models.Product) ([]NormalizedProduct, error) {
	result := make([]NormalizedProduct, 0, len(products))
	if len(products) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	var variations []models.Variation
	if err := s.db.Where("product_id IN ?", ids).Order("created_at ASC").Find(&variations).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	var images []models.ProductImage
	if err := s.db.Where("product_id IN ?", ids).Order("position ASC, created_at ASC").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	var reviews []models.Review
	if err := s.db.Where("product_id IN ?", ids).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	variationsByProduct := make(map[uuid.UUID][]models.Variation)
	for _, v := range variations {
		variationsByProduct[v.ProductID] = append(variationsByProduct[v.ProductID], v)
	}

	productImages := make(map[uuid.UUID][]models.ProductImage)
	variationImages := make(map[uuid.UUID][]models.ProductImage)
	for _, img := range images {
		if img.VariationID != nil {
			variationImages[*img.VariationID] = append(variationImages[*img.VariationID], img)
		} else {
			productImages[img.ProductID] = append(productImages[img.ProductID], img)
		}
	}

	reviewsByProduct := make(map[uuid.UUID][]models.Review)
	for _, r := range reviews {
		reviewsByProduct[r.ProductID] = append(reviewsByProduct[r.ProductID], r)
	}

	for _, p := range products {
		vars := variationsByProduct[p.ID]

		normalizedVars := make([]NormalizedVariation, 0, len(vars))
		for _, v := range vars {
			nv := NormalizedVariation{
				ID:            v.ID,
				Name:          v.Name,
				SKU:           v.SKU,
				Price:         v.Price,
				StockQuantity: v.StockQuantity,
				Attributes:    v.Attributes,
				Description:   metaDescription(v.Meta),
				Videos:        metaVideos(v.Meta),
				Images:        imagesOrEmpty(variationImages[v.ID]),
			}
			normalizedVars = append(normalizedVars, nv)
		}

		np := NormalizedProduct{
			ID:             p.ID,
			Name:           p.Name,
			Description:    splitLines(p.Description),
			Price:          derivePrice(p, vars),
			CategoryID:     p.CategoryID,
			InStock:        p.InStock,
			Featured:       p.Featured,
			NewArrival:     p.NewArrival,
			AdditionalInfo: stringsOrEmpty(p.AdditionalInfo),
			Images:         imagesOrEmpty(productImages[p.ID]),
			Variations:     normalizedVars,
			Reviews:        reviewsOrEmpty(reviewsByProduct[p.ID]),
		}
		if p.Category != nil {
			np.CategoryName = p.Category.Name
		}
		result = append(result, np)
	}

	return result, nil
}

// derivePrice applies the price rules in order: no variations → stored
// base price; any "2 row"/"3 row" named variation → RowPrice object;
// otherwise minimum strictly-positive variation price with base-price
// fallback. Variations not matching a row label are ignored for pricing
// even though they still appear in the variation list.
func derivePrice(p models.Product, vars []models.Variation) interface{} {
	if len(vars) == 0 {
		return p.BasePrice
	}

	var twoRow, threeRow *float64
	for i := range vars {
		name := strings.ToLower(vars[i].Name)
		switch {
		case twoRow == nil && strings.Contains(name, "2 row"):
			price := vars[i].Price
			twoRow = &price
		case threeRow == nil && strings.Contains(name, "3 row"):
			price := vars[i].Price
			threeRow = &price
		}
	}

	if twoRow != nil || threeRow != nil {
		rp := RowPrice{TwoRow: twoRow, ThreeRow: threeRow}
		switch {
		case twoRow != nil && threeRow != nil:
			rp.Default = *twoRow
			if *threeRow < rp.Default {
				rp.Default = *threeRow
			}
		case twoRow != nil:
			rp.Default = *twoRow
		default:
			rp.Default = *threeRow
		}
		return rp
	}

	var minPrice float64
	found := false
	for _, v := range vars {
		if v.Price > 0 && (!found || v.Price < minPrice) {
			minPrice = v.Price
			found = true
		}
	}
	if !found {
		return p.BasePrice
	}
	return minPrice
}

func metaDescription(meta models.JSONB) string {
	if meta == nil {
		return ""
	}
	if desc, ok := meta["description"].(string); ok {
		return desc
	}
	return ""
}

func metaVideos(meta models.JSONB) []string {
	videos := []string{}
	if meta == nil {
		return videos
	}
	raw, ok := meta["videos"].([]interface{})
	if !ok {
		return videos
	}
	for _, item := range raw {
		if url, ok := item.(string); ok {
			videos = append(videos, url)
		}
	}
	return videos
}

// splitLines maps empty input to an empty slice, not [""].
func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

func imagesOrEmpty(images []models.ProductImage) []models.ProductImage {
	if images == nil {
		return []models.ProductImage{}
	}
	return images
}

func reviewsOrEmpty(reviews []models.Review) []models.Review {
	if reviews == nil {
		return []models.Review{}
	}
	return reviews
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *CatalogService) CreateProduct(actor Actor, input *ProductInput) (uuid.UUID, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return uuid.Nil, fmt.Errorf("validation failed: %w", err)
	}

	product := &models.Product{
		Name:           input.Name,
		Description:    strings.Join(input.Description, "\n"),
		BasePrice:      input.Price.BasePrice(),
		CategoryID:     input.CategoryID,
		InStock:        input.InStock,
		Featured:       input.Featured,
		NewArrival:     input.NewArrival,
		AdditionalInfo: pq.StringArray(input.AdditionalInfo),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return s.insertVariationsAndImages(tx, product.ID, input)
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.recordProductAudit(actor, "product.create", product)
	s.broadcastProductNotice(product, "New Product Launched",
		fmt.Sprintf("%s is now available in the catalog.", product.Name))

	return product.ID, nil
}

// UpdateProduct replaces variations and images wholesale: existing rows are
// deleted and the create-time insertion logic re-runs inside one
// transaction. A payload omitting images or variations leaves the product
// with none.
func (s *CatalogService) UpdateProduct(actor Actor, id uuid.UUID, input *ProductInput) error {
	if err := utils.ValidateStruct(input); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return fmt.Errorf("failed to fetch product: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to replace images: %w", err)
		}
		if err := tx.Unscoped().Where("product_id = ?", id).Delete(&models.Variation{}).Error; err != nil {
			return fmt.Errorf("failed to replace variations: %w", err)
		}

		updates := map[string]interface{}{
			"name":            input.Name,
			"description":     strings.Join(input.Description, "\n"),
			"base_price":      input.Price.BasePrice(),
			"category_id":     input.CategoryID,
			"in_stock":        input.InStock,
			"featured":        input.Featured,
			"new_arrival":     input.NewArrival,
			"additional_info": pq.StringArray(input.AdditionalInfo),
		}
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		return s.insertVariationsAndImages(tx, id, input)
	})
	if err != nil {
		return err
	}

	product.Name = input.Name
	s.recordProductAudit(actor, "product.update", &product)
	s.broadcastProductNotice(&product, "Product Updated",
		fmt.Sprintf("%s has been updated in the catalog.", product.Name))

	return nil
}

func (s *CatalogService) DeleteProduct(actor Actor, id uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return fmt.Errorf("failed to fetch product: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&models.ProductImage{}, &models.Variation{}, &models.Review{}} {
			if err := tx.Unscoped().Where("product_id = ?", id).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete product: %w", err)
			}
		}
		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recordProductAudit(actor, "product.delete", &product)
	return nil
}

// insertVariationsAndImages is the shared create/update insertion path. An
// explicit variations list wins; otherwise an object price auto-creates
// one tagged row variation per present key.
func (s *CatalogService) insertVariationsAndImages(tx *gorm.DB, productID uuid.UUID, input *ProductInput) error {
	switch {
	case input.Variations != nil:
		for _, vi := range input.Variations {
			variation := &models.Variation{
				ProductID:     productID,
				Name:          vi.Name,
				SKU:           vi.SKU,
				Price:         vi.Price,
				StockQuantity: vi.StockQuantity,
				Attributes:    models.JSONB(vi.Attributes),
				Meta:          models.JSONB(vi.Meta),
			}
			if err := tx.Create(variation).Error; err != nil {
				return fmt.Errorf("failed to create variation: %w", err)
			}
			for i, img := range vi.Images {
				variationID := variation.ID
				row := &models.ProductImage{
					ProductID:   productID,
					VariationID: &variationID,
					URL:         img.URL,
					Position:    positionOrIndex(img.Position, i),
					IsPrimary:   img.IsPrimary,
				}
				if err := tx.Create(row).Error; err != nil {
					return fmt.Errorf("failed to create variation image: %w", err)
				}
			}
		}
	case input.Price.IsObject():
		// Legacy compatibility path for simple two-tier pricing.
		rows := []struct {
			key   string
			name  string
			price *float64
		}{
			{"2_row", "2 Row", input.Price.TwoRow},
			{"3_row", "3 Row", input.Price.ThreeRow},
		}
		for _, row := range rows {
			if row.price == nil {
				continue
			}
			variation := &models.Variation{
				ProductID:     productID,
				Name:          row.name,
				Price:         *row.price,
				StockQuantity: defaultRowStock,
				Attributes:    models.JSONB{"row_type": row.key},
			}
			if err := tx.Create(variation).Error; err != nil {
				return fmt.Errorf("failed to create variation: %w", err)
			}
		}
	}

	hasPrimary := false
	for _, img := range input.Images {
		if img.IsPrimary {
			hasPrimary = true
			break
		}
	}
	for i, img := range input.Images {
		row := &models.ProductImage{
			ProductID: productID,
			URL:       img.URL,
			Position:  positionOrIndex(img.Position, i),
			// First upload becomes primary when none is flagged.
			IsPrimary: img.IsPrimary || (!hasPrimary && i == 0),
		}
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("failed to create image: %w", err)
		}
	}

	return nil
}

func positionOrIndex(position, index int) int {
	if position > 0 {
		return position
	}
	return index
}

func (s *CatalogService) recordProductAudit(actor Actor, action string, product *models.Product) {
	if s.auditService == nil {
		return
	}
	err := s.auditService.Record(actor, action, "product", product.ID, product.Name, models.JSONB{
		"name":       product.Name,
		"base_price": product.BasePrice,
	})
	if err != nil {
		logrus.WithError(err).WithField("product_id", product.ID).Error("Failed to record product audit entry")
	}
}

// broadcastProductNotice runs after the product write has committed; a
// broadcast failure is logged and never surfaced to the admin.
func (s *CatalogService) broadcastProductNotice(product *models.Product, title, message string) {
	if s.notificationService == nil {
		return
	}
	err := s.notificationService.Broadcast(nil, &BroadcastInput{
		Title:      title,
		Message:    message,
		Type:       models.NotificationTypeProduct,
		Link:       "/products/" + product.ID.String(),
		TargetRole: models.UserRoleVendor,
		Audience:   models.AudienceAll,
	})
	if err != nil {
		logrus.WithError(err).WithField("product_id", product.ID).Error("Failed to broadcast product notification")
	}
}
