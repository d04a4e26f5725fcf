package inventory

import (
	"fmt"
	"slices"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// LockKey clave de bloqueo exclusivo por tienda y destino de stock.
func LockKey(shopID string, t entity.StockTarget) string {
	if t.VariantID != "" {
		return fmt.Sprintf("stock:%s:variant:%s", shopID, t.VariantID)
	}
	return fmt.Sprintf("stock:%s:product:%s", shopID, t.ProductID)
}

// LockKeys claves únicas en orden ascendente; todos los procesadores bloquean en este orden.
func LockKeys(shopID string, targets []entity.StockTarget) []string {
	keys := make([]string, 0, len(targets))
	for _, t := range targets {
		keys = append(keys, LockKey(shopID, t))
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

// SplitTargets ids únicos y ordenados de productos y variantes. El producto de una
// variante también se incluye: precio, IVA y tienda se leen de él.
func SplitTargets(targets []entity.StockTarget) (productIDs, variantIDs []string) {
	for _, t := range targets {
		productIDs = append(productIDs, t.ProductID)
		if t.VariantID != "" {
			variantIDs = append(variantIDs, t.VariantID)
		}
	}
	slices.Sort(productIDs)
	slices.Sort(variantIDs)
	return slices.Compact(productIDs), slices.Compact(variantIDs)
}
