// Package catalog alta y consulta de productos y variantes.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/ports"
	"github.com/jhoicas/pos-ledger/internal/application/stockledger"
	"github.com/jhoicas/pos-ledger/internal/domain"
	pricing "github.com/jhoicas/pos-ledger/internal/domain/catalog"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/jhoicas/pos-ledger/pkg/money"
	"github.com/shopspring/decimal"
)

const openingStockReference = "stock inicial"

var hundred = decimal.NewFromInt(100)

// UseCase casos de uso del catálogo.
type UseCase struct {
	tx    ports.TxRunner
	repos repository.Repositories
	log   *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, repos repository.Repositories, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, repos: repos, log: log}
}

// CreateProduct crea un producto. El stock inicial, si lo hay, entra como ajuste en el libro.
func (uc *UseCase) CreateProduct(ctx context.Context, shopID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Title == "" || in.Code == "" {
		return nil, domain.Validation("title", "título y código son obligatorios")
	}
	for field, v := range map[string]decimal.Decimal{
		"purchased_price": in.PurchasedPrice,
		"regular_price":   in.RegularPrice,
		"discount":        in.Discount,
	} {
		if v.IsNegative() {
			return nil, domain.Validation(field, "no puede ser negativo")
		}
	}
	if in.SellingPrice != nil && in.SellingPrice.IsNegative() {
		return nil, domain.Validation("selling_price", "no puede ser negativo")
	}
	if in.VATPercent.IsNegative() || in.VATPercent.GreaterThan(hundred) {
		return nil, domain.Validation("vat_percent", "debe estar entre 0 y 100")
	}
	if in.OpeningStock.IsNegative() {
		return nil, domain.InvalidQuantity("opening_stock", "no puede ser negativo")
	}
	if in.HasVariants && !in.OpeningStock.IsZero() {
		return nil, domain.Validation("opening_stock", "un producto con variantes lleva el stock en cada variante")
	}
	unit := entity.BaseUnit(in.BaseUnit)
	switch unit {
	case "":
		unit = entity.UnitPiece
	case entity.UnitPiece, entity.UnitKg, entity.UnitGram, entity.UnitLiter, entity.UnitMl:
	default:
		return nil, domain.Validation("base_unit", "unidad base desconocida")
	}

	if in.CategoryID != "" {
		if _, err := uc.category(ctx, shopID, in.CategoryID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	p := &entity.Product{
		ID:             uuid.New().String(),
		ShopID:         shopID,
		Title:          in.Title,
		Code:           in.Code,
		CategoryID:     in.CategoryID,
		SKU:            in.SKU,
		Barcode:        in.Barcode,
		BaseUnit:       unit,
		PurchasedPrice: money.Currency(in.PurchasedPrice),
		RegularPrice:   money.Currency(in.RegularPrice),
		SellingPrice:   pricing.SellingPrice(in.RegularPrice, in.Discount, in.SellingPrice),
		Discount:       money.Currency(in.Discount),
		HasVariants:    in.HasVariants,
		VATApplicable:  in.VATApplicable,
		VATPercent:     in.VATPercent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	opening := money.Quantity(in.OpeningStock)

	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		if !opening.IsPositive() {
			return nil
		}
		if err := repos.Products.AddStock(ctx, p.ID, opening); err != nil {
			return err
		}
		p.Stock = opening
		_, err := stockledger.RecordInTx(ctx, repos, stockledger.Movement{
			ShopID:    shopID,
			Type:      entity.StockAdjustment,
			Target:    entity.StockTarget{ProductID: p.ID},
			Quantity:  opening,
			UnitCost:  p.PurchasedPrice,
			Reference: openingStockReference,
			CreatedBy: userID,
		})
		return err
	})
	if err != nil {
		return nil, domain.Normalize(err)
	}
	uc.log.ForShop(shopID, "catalog").Info().Str("product_id", p.ID).Str("code", p.Code).Msg("producto creado")
	resp := ProductToResponse(p, nil)
	return &resp, nil
}

// CreateVariant agrega una variante a un producto con HasVariants.
func (uc *UseCase) CreateVariant(ctx context.Context, shopID, userID, productID string, in dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	if in.VariantName == "" {
		return nil, domain.Validation("variant_name", "nombre de variante requerido")
	}
	if in.OpeningStock.IsNegative() {
		return nil, domain.InvalidQuantity("opening_stock", "no puede ser negativo")
	}
	for field, v := range map[string]*decimal.Decimal{"regular_price": in.RegularPrice, "selling_price": in.SellingPrice} {
		if v != nil && v.IsNegative() {
			return nil, domain.Validation(field, "no puede ser negativo")
		}
	}
	p, err := uc.product(ctx, shopID, productID)
	if err != nil {
		return nil, err
	}
	if !p.HasVariants {
		return nil, domain.Validation("has_variants", "el producto no admite variantes")
	}

	now := time.Now().UTC()
	v := &entity.ProductVariant{
		ID:             uuid.New().String(),
		ShopID:         shopID,
		ProductID:      p.ID,
		VariantName:    in.VariantName,
		SKU:            in.SKU,
		Barcode:        in.Barcode,
		PurchasedPrice: p.PurchasedPrice,
		RegularPrice:   in.RegularPrice,
		SellingPrice:   in.SellingPrice,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	opening := money.Quantity(in.OpeningStock)

	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Variants.Create(ctx, v); err != nil {
			return err
		}
		if !opening.IsPositive() {
			return nil
		}
		if err := repos.Variants.AddStock(ctx, v.ID, opening); err != nil {
			return err
		}
		v.Stock = opening
		_, err := stockledger.RecordInTx(ctx, repos, stockledger.Movement{
			ShopID:    shopID,
			Type:      entity.StockAdjustment,
			Target:    entity.StockTarget{ProductID: p.ID, VariantID: v.ID},
			Quantity:  opening,
			UnitCost:  v.PurchasedPrice,
			Reference: openingStockReference,
			CreatedBy: userID,
		})
		return err
	})
	if err != nil {
		return nil, domain.Normalize(err)
	}
	uc.log.ForShop(shopID, "catalog").Info().Str("variant_id", v.ID).Str("product_id", p.ID).Msg("variante creada")
	resp := VariantToResponse(v)
	return &resp, nil
}

// GetProduct devuelve el producto con sus variantes.
func (uc *UseCase) GetProduct(ctx context.Context, shopID, id string) (*dto.ProductResponse, error) {
	p, err := uc.product(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	var variants []*entity.ProductVariant
	if p.HasVariants {
		variants, err = uc.repos.Variants.ListByProduct(ctx, p.ID)
		if err != nil {
			return nil, domain.Normalize(err)
		}
	}
	resp := ProductToResponse(p, variants)
	return &resp, nil
}

// ListProducts lista los productos de la tienda por título.
func (uc *UseCase) ListProducts(ctx context.Context, shopID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Products.ListByShop(ctx, shopID, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	out := &dto.ProductListResponse{
		Items: make([]dto.ProductResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, p := range list {
		out.Items = append(out.Items, ProductToResponse(p, nil))
	}
	return out, nil
}

// LookupProduct busca por código exacto y, si no, por código de barras (lector del POS).
func (uc *UseCase) LookupProduct(ctx context.Context, shopID, code string) (*dto.ProductResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.Validation("code", "código requerido")
	}
	p, err := uc.repos.Products.GetByShopAndCode(ctx, shopID, code)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	if p == nil {
		if p, err = uc.repos.Products.GetByShopAndBarcode(ctx, shopID, code); err != nil {
			return nil, domain.Normalize(err)
		}
	}
	if p == nil {
		return nil, domain.NotFound("product", code)
	}
	return uc.GetProduct(ctx, shopID, p.ID)
}

// CreateCategory crea una categoría; el nombre es único por tienda.
func (uc *UseCase) CreateCategory(ctx context.Context, shopID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validation("name", "nombre requerido")
	}
	c := &entity.Category{ID: uuid.New().String(), ShopID: shopID, Name: name, CreatedAt: time.Now().UTC()}
	if err := uc.repos.Categories.Create(ctx, c); err != nil {
		return nil, domain.Normalize(err)
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name}, nil
}

func (uc *UseCase) ListCategories(ctx context.Context, shopID string) ([]dto.CategoryResponse, error) {
	list, err := uc.repos.Categories.ListByShop(ctx, shopID)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// StockLevel stock actual del destino en unidades base.
func (uc *UseCase) StockLevel(ctx context.Context, shopID string, target entity.StockTarget) (*dto.StockLevelResponse, error) {
	p, err := uc.product(ctx, shopID, target.ProductID)
	if err != nil {
		return nil, err
	}
	stock, err := stockledger.CurrentStock(ctx, uc.repos, shopID, target)
	if err != nil {
		return nil, err
	}
	return &dto.StockLevelResponse{
		ProductID: target.ProductID,
		VariantID: target.VariantID,
		BaseUnit:  string(p.BaseUnit),
		Stock:     stock,
	}, nil
}

func (uc *UseCase) product(ctx context.Context, shopID, id string) (*entity.Product, error) {
	p, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	if p == nil {
		return nil, domain.NotFound("product", id)
	}
	if p.ShopID != shopID {
		return nil, domain.TenantMismatch("product", id)
	}
	return p, nil
}

func (uc *UseCase) category(ctx context.Context, shopID, id string) (*entity.Category, error) {
	c, err := uc.repos.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	if c == nil {
		return nil, domain.NotFound("category", id)
	}
	if c.ShopID != shopID {
		return nil, domain.TenantMismatch("category", id)
	}
	return c, nil
}

// ProductToResponse entidad → DTO.
func ProductToResponse(p *entity.Product, variants []*entity.ProductVariant) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:             p.ID,
		ShopID:         p.ShopID,
		Title:          p.Title,
		Code:           p.Code,
		CategoryID:     p.CategoryID,
		SKU:            p.SKU,
		Barcode:        p.Barcode,
		BaseUnit:       string(p.BaseUnit),
		PurchasedPrice: p.PurchasedPrice,
		RegularPrice:   p.RegularPrice,
		SellingPrice:   p.SellingPrice,
		Discount:       p.Discount,
		Stock:          p.Stock,
		HasVariants:    p.HasVariants,
		VATApplicable:  p.VATApplicable,
		VATPercent:     p.VATPercent,
		CreatedAt:      p.CreatedAt,
	}
	for _, v := range variants {
		resp.Variants = append(resp.Variants, VariantToResponse(v))
	}
	return resp
}

// VariantToResponse entidad → DTO.
func VariantToResponse(v *entity.ProductVariant) dto.VariantResponse {
	return dto.VariantResponse{
		ID:             v.ID,
		ProductID:      v.ProductID,
		VariantName:    v.VariantName,
		SKU:            v.SKU,
		Barcode:        v.Barcode,
		PurchasedPrice: v.PurchasedPrice,
		RegularPrice:   v.RegularPrice,
		SellingPrice:   v.SellingPrice,
		Stock:          v.Stock,
	}
}
