package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `sku,name,variant,price,qty_available,categories,image_url
MEAT-001,Milanesa de nalga,,5200,50,Carnes|Empanados,https://img/m1.jpg
MEAT-003, Matambre ,x kg,5900.5,-2,Carnes,
`

func TestReadCSV(t *testing.T) {
	items, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, Item{
		SKU: "MEAT-001", Name: "Milanesa de nalga", Price: 5200, QtyAvailable: 50,
		Categories: []string{"Carnes", "Empanados"}, ImageURL: "https://img/m1.jpg",
	}, items[0])
	assert.Equal(t, "Matambre", items[1].Name)
	assert.Equal(t, "x kg", items[1].Variant)
	assert.Equal(t, 5900.5, items[1].Price)
}

func TestReadCSVEmpty(t *testing.T) {
	items, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCSVSourceMissingFile(t *testing.T) {
	items, err := CSVSource{Path: filepath.Join(t.TempDir(), "none.csv")}.Items(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCSVSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))
	items, err := CSVSource{Path: path}.Items(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestSplitCategories(t *testing.T) {
	assert.Equal(t, []string{"Carnes", "Parrilla", "Ofertas"}, SplitCategories("Carnes| Parrilla;Ofertas"))
	assert.Empty(t, SplitCategories(" "))
}

func TestChainSource(t *testing.T) {
	empty := StaticSource{Label: "external"}
	products := StaticSource{Label: "products", List: []Item{{Name: "Asado", QtyAvailable: -1}}}
	csv := StaticSource{Label: "csv", List: []Item{{Name: "Matambre"}}}

	t.Run("first non-empty wins", func(t *testing.T) {
		items, err := NewChainSource(nil, failingSource{}, empty, products, csv).Items(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Asado", items[0].Name)
		assert.Equal(t, 0, items[0].QtyAvailable)
	})

	t.Run("all empty", func(t *testing.T) {
		items, err := NewChainSource(nil, empty).Items(context.Background())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("all failing", func(t *testing.T) {
		_, err := NewChainSource(nil, failingSource{}, failingSource{}).Items(context.Background())
		assert.Error(t, err)
	})

	assert.Equal(t, "chain(external,csv)", NewChainSource(nil, empty, csv).Name())
}
