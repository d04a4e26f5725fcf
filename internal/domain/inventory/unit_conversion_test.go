package inventory

import (
	"errors"
	"testing"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestConvertPack_Carton(t *testing.T) {
	c, err := ConvertPack(PackLine{PackUnit: "carton", PackSize: dec("24"), QtyPacks: dec("5"), PricePerPack: dec("120")})
	require.NoError(t, err)

	assert.True(t, c.TotalBaseQty.Equal(dec("120")))
	assert.Equal(t, "5.00", c.CostPerBaseUnit.StringFixed(2))
	assert.Equal(t, "600.00", c.Total.StringFixed(2))
}

func TestConvertPack_Fraccionario(t *testing.T) {
	c, err := ConvertPack(PackLine{PackUnit: "bag", PackSize: dec("2.5"), QtyPacks: dec("3"), PricePerPack: dec("10")})
	require.NoError(t, err)

	assert.True(t, c.TotalBaseQty.Equal(dec("7.5")))
	assert.True(t, c.CostPerBaseUnit.Equal(dec("4")))
	assert.True(t, c.Total.Equal(dec("30")))
}

func TestConvertPack_CeroPaquetes(t *testing.T) {
	c, err := ConvertPack(PackLine{PackSize: dec("12"), QtyPacks: decimal.Zero, PricePerPack: dec("60")})
	require.NoError(t, err)
	assert.True(t, c.TotalBaseQty.IsZero())
	assert.True(t, c.Total.IsZero())
	assert.True(t, c.CostPerBaseUnit.Equal(dec("5")))
}

func TestConvertPack_Invalidos(t *testing.T) {
	cases := map[string]PackLine{
		"qty negativa":    {PackSize: dec("1"), QtyPacks: dec("-1")},
		"pack_size cero":  {PackSize: decimal.Zero, QtyPacks: dec("1")},
		"pack_size neg":   {PackSize: dec("-6"), QtyPacks: dec("1")},
		"precio negativo": {PackSize: dec("6"), QtyPacks: dec("1"), PricePerPack: dec("-1")},
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ConvertPack(line)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			de, ok := domain.AsError(err)
			require.True(t, ok)
			assert.Equal(t, domain.CodeInvalidQuantity, de.Code)
		})
	}
}

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 u a 4.00 + 30 u a 6.00 = 220 / 40 = 5.50
	assert.Equal(t, "5.50", CostCalculator(dec("10"), dec("4"), dec("30"), dec("6")).StringFixed(2))
	// sin stock previo toma el costo de la entrada
	assert.Equal(t, "6.00", CostCalculator(decimal.Zero, dec("4"), dec("30"), dec("6")).StringFixed(2))
	assert.Equal(t, "6.00", CostCalculator(dec("-3"), dec("4"), decimal.Zero, dec("6")).StringFixed(2))
}

func TestLockKeys_OrdenadasYUnicas(t *testing.T) {
	keys := LockKeys("s1", []entity.StockTarget{
		{ProductID: "p2"},
		{ProductID: "p1", VariantID: "v9"},
		{ProductID: "p1"},
		{ProductID: "p2"},
	})
	assert.Equal(t, []string{"stock:s1:product:p1", "stock:s1:product:p2", "stock:s1:variant:v9"}, keys)

	products, variants := SplitTargets([]entity.StockTarget{{ProductID: "b"}, {ProductID: "a"}, {ProductID: "x", VariantID: "v"}, {ProductID: "a"}})
	assert.Equal(t, []string{"a", "b", "x"}, products)
	assert.Equal(t, []string{"v"}, variants)
}
