package externaldb

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/molinerisit/wa-bot-sheets/pkg/catalog"
)

// Column aliases accepted for each catalog field, first match wins.
var (
	skuColumns      = []string{"sku", "codigo", "code", "id"}
	nameColumns     = []string{"name", "nombre", "titulo", "title", "descripcion"}
	variantColumns  = []string{"variant", "variante"}
	priceColumns    = []string{"price", "precio"}
	qtyColumns      = []string{"qty_available", "stock", "cantidad", "quantity"}
	categoryColumns = []string{"categories", "category", "categoria", "categorias"}
	imageColumns    = []string{"image_url", "imagen", "image"}
)

func rowToItem(cols []string, vals []interface{}) (catalog.Item, bool) {
	get := func(aliases []string) interface{} {
		for _, a := range aliases {
			for i, c := range cols {
				if c == a && i < len(vals) && vals[i] != nil {
					return vals[i]
				}
			}
		}
		return nil
	}

	it := catalog.Item{
		SKU:          toString(get(skuColumns)),
		Name:         toString(get(nameColumns)),
		Variant:      toString(get(variantColumns)),
		Price:        math.Round(toFloat(get(priceColumns))*100) / 100,
		QtyAvailable: int(toFloat(get(qtyColumns))),
		Categories:   toStrings(get(categoryColumns)),
		ImageURL:     toString(get(imageColumns)),
	}
	return it, it.Name != ""
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case []byte:
		return strings.TrimSpace(string(x))
	case [16]byte:
		return pgtype.UUID{Bytes: x, Valid: true}.String()
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func toFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case int16:
		return float64(x)
	case int:
		return float64(x)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return 0
		}
		return f.Float64
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f
	}
	return 0
}

func toStrings(v interface{}) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case []string:
		return x
	case []interface{}:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s := toString(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return catalog.SplitCategories(toString(v))
}
