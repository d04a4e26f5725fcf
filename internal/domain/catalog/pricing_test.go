package catalog

import (
	"testing"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSellingPrice(t *testing.T) {
	assert.Equal(t, "90.00", SellingPrice(decimal.NewFromInt(100), decimal.NewFromInt(10), nil).StringFixed(2))
	assert.True(t, SellingPrice(decimal.NewFromInt(5), decimal.NewFromInt(10), nil).IsZero())

	explicit := decimal.RequireFromString("77.499")
	assert.Equal(t, "77.50", SellingPrice(decimal.NewFromInt(100), decimal.Zero, &explicit).StringFixed(2))
}

func TestUnitPrice_Variante(t *testing.T) {
	p := &entity.Product{SellingPrice: decimal.NewFromInt(50), Discount: decimal.NewFromInt(5)}
	assert.True(t, UnitPrice(p, nil).Equal(decimal.NewFromInt(50)))

	regular := decimal.NewFromInt(60)
	assert.True(t, UnitPrice(p, &entity.ProductVariant{RegularPrice: &regular}).Equal(decimal.NewFromInt(55)))

	sell := decimal.NewFromInt(58)
	assert.True(t, UnitPrice(p, &entity.ProductVariant{RegularPrice: &regular, SellingPrice: &sell}).Equal(sell))
}
