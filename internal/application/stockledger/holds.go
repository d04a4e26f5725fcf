package stockledger

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// NotFoundFunc construye el error de destino inexistente propio de cada proceso
// (TargetNotFound en compras, ProductNotFound en ventas).
type NotFoundFunc func(kind, id string) *domain.Error

// Holds filas de producto/variante bloqueadas dentro de la transacción.
// Mantiene el stock y el costo al día a medida que el proceso los modifica.
type Holds struct {
	shopID   string
	products map[string]*entity.Product
	variants map[string]*entity.ProductVariant
}

// LockTargets bloquea (SELECT FOR UPDATE, id ascendente) los productos y variantes de targets
// de la tienda y valida que existan y que cada variante sea del producto indicado.
// Un id de otra tienda no se bloquea y se informa como inexistente.
func LockTargets(ctx context.Context, repos repository.Repositories, shopID string, targets []entity.StockTarget, notFound NotFoundFunc) (*Holds, error) {
	productIDs, variantIDs := inventory.SplitTargets(targets)
	h := &Holds{
		shopID:   shopID,
		products: make(map[string]*entity.Product, len(productIDs)),
		variants: make(map[string]*entity.ProductVariant, len(variantIDs)),
	}

	products, err := repos.Products.GetForUpdate(ctx, shopID, productIDs)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		h.products[p.ID] = p
	}
	if len(variantIDs) > 0 {
		variants, err := repos.Variants.GetForUpdate(ctx, shopID, variantIDs)
		if err != nil {
			return nil, err
		}
		for _, v := range variants {
			h.variants[v.ID] = v
		}
	}

	for _, t := range targets {
		p, ok := h.products[t.ProductID]
		if !ok {
			return nil, notFound("product", t.ProductID)
		}
		if t.VariantID == "" {
			if p.HasVariants {
				return nil, domain.Validation("variant_id", "el producto "+p.Title+" lleva el stock por variante")
			}
			continue
		}
		v, ok := h.variants[t.VariantID]
		if !ok || v.ProductID != p.ID {
			return nil, notFound("product_variant", t.VariantID)
		}
	}
	return h, nil
}

// Product devuelve el producto bloqueado.
func (h *Holds) Product(id string) *entity.Product { return h.products[id] }

// Variant devuelve la variante bloqueada (nil si el destino es el producto).
func (h *Holds) Variant(id string) *entity.ProductVariant { return h.variants[id] }

// Available stock actual del destino en unidades base.
func (h *Holds) Available(t entity.StockTarget) decimal.Decimal {
	if t.VariantID != "" {
		return h.variants[t.VariantID].Stock
	}
	return h.products[t.ProductID].Stock
}

// Cost costo promedio por unidad base del destino.
func (h *Holds) Cost(t entity.StockTarget) decimal.Decimal {
	if t.VariantID != "" {
		return h.variants[t.VariantID].PurchasedPrice
	}
	return h.products[t.ProductID].PurchasedPrice
}

// Describe entidad, id y nombre legible del destino, para errores.
func (h *Holds) Describe(t entity.StockTarget) (kind, id, title string) {
	p := h.products[t.ProductID]
	if t.VariantID != "" {
		return "product_variant", t.VariantID, p.Title + " (" + h.variants[t.VariantID].VariantName + ")"
	}
	return "product", p.ID, p.Title
}

// CheckAvailable falla con InsufficientStock si el destino no cubre qty.
func (h *Holds) CheckAvailable(t entity.StockTarget, qty decimal.Decimal) error {
	available := h.Available(t)
	if available.LessThan(qty) {
		kind, id, title := h.Describe(t)
		return domain.InsufficientStock(kind, id, title, available)
	}
	return nil
}

// AddStock aplica delta al stock del destino y al valor en caché.
func (h *Holds) AddStock(ctx context.Context, repos repository.Repositories, t entity.StockTarget, delta decimal.Decimal) error {
	if t.VariantID != "" {
		if err := repos.Variants.AddStock(ctx, t.VariantID, delta); err != nil {
			return err
		}
		v := h.variants[t.VariantID]
		v.Stock = v.Stock.Add(delta)
		return nil
	}
	if err := repos.Products.AddStock(ctx, t.ProductID, delta); err != nil {
		return err
	}
	p := h.products[t.ProductID]
	p.Stock = p.Stock.Add(delta)
	return nil
}

// SetCost actualiza el costo promedio del destino.
func (h *Holds) SetCost(ctx context.Context, repos repository.Repositories, t entity.StockTarget, cost decimal.Decimal) error {
	if t.VariantID != "" {
		if err := repos.Variants.UpdatePurchasedPrice(ctx, t.VariantID, cost); err != nil {
			return err
		}
		h.variants[t.VariantID].PurchasedPrice = cost
		return nil
	}
	if err := repos.Products.UpdatePurchasedPrice(ctx, t.ProductID, cost); err != nil {
		return err
	}
	h.products[t.ProductID].PurchasedPrice = cost
	return nil
}
