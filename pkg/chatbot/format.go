package chatbot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/molinerisit/wa-bot-sheets/pkg/catalog"
)

// formatPrice prints the shortest exact representation, "5200" or "5310.5".
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func stockSuffix(it catalog.PricedItem) string {
	if it.InStock() {
		return fmt.Sprintf(" | Stock: %d", it.QtyAvailable)
	}
	return " | sin stock ahora"
}

// productLine is the concise answer about one product.
func productLine(it catalog.PricedItem) string {
	return fmt.Sprintf("%s está a $%s%s.", it.DisplayName(), formatPrice(it.FinalPrice), stockSuffix(it))
}

func formatConcise(items []catalog.PricedItem, category string) string {
	if category != "" {
		for _, it := range items {
			if it.InStock() {
				return fmt.Sprintf("Sí, tenemos %s. Por ejemplo, %s a $%s. ¿Querés ver otra opción?",
					category, it.DisplayName(), formatPrice(it.FinalPrice))
			}
		}
		return fmt.Sprintf("Tenemos %s, pero ahora mismo sin stock disponible. ¿Querés que te avise cuando repongamos o te sugiero algo similar?", category)
	}
	return productLine(items[0])
}

func formatRich(items []catalog.PricedItem, category string) Reply {
	header := "Te dejo una opción:"
	if category != "" {
		header = "Opciones en " + category + ":"
	}

	lines := make([]string, 0, 3)
	for _, it := range items[:min(3, len(items))] {
		stock := "(sin stock)"
		if it.InStock() {
			stock = fmt.Sprintf("(stock %d)", it.QtyAvailable)
		}
		lines = append(lines, fmt.Sprintf("• %s: $%s %s", it.DisplayName(), formatPrice(it.FinalPrice), stock))
	}

	reply := Reply{Text: header + "\n" + strings.Join(lines, "\n") + "\n\n¿Te paso más opciones o querés reservar?"}
	top := items[0]
	if top.ImageURL != "" {
		reply.Media = &Media{
			ImageURL: top.ImageURL,
			Caption:  fmt.Sprintf("%s — $%s | Stock: %d", top.DisplayName(), formatPrice(top.FinalPrice), top.QtyAvailable),
		}
	}
	return reply
}

// MaxListResults caps the catalog listing replies.
const MaxListResults = 8

// formatList is the catalog listing used by the keyword and raw tiers.
func formatList(items []catalog.PricedItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Encontré %d resultado(s):", len(items))
	for _, it := range items[:min(MaxListResults, len(items))] {
		fmt.Fprintf(&b, "\n• %s (%s) — $%s", it.Name, it.SKU, formatPrice(it.FinalPrice))
		if it.Discounted() {
			pcts := make([]string, len(it.Discounts))
			for i, d := range it.Discounts {
				pcts[i] = "-" + formatPrice(d) + "%"
			}
			b.WriteString(" (" + strings.Join(pcts, " ") + ")")
		}
	}
	return b.String()
}
