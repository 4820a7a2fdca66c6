package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"comparador/internal/model"
)

// Columns é o cabeçalho do CSV de vencedores.
var Columns = []string{
	"title", "brand", "model", "price", "currency", "shipping", "fee_percent",
	"url", "image", "category", "platform", "source",
	"brand_norm", "model_norm", "title_norm", "key", "sku",
	"group_id", "group_size", "total_brl",
}

// WriteCSV grava um vencedor por linha. A mesma entrada gera os mesmos bytes.
func WriteCSV(w io.Writer, winners []model.Winner) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, win := range winners {
		if err := cw.Write(row(win)); err != nil {
			return fmt.Errorf("write winner %s: %w", win.SKU, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(w model.Winner) []string {
	return []string{
		w.Title,
		w.Brand,
		w.Model,
		formatFloat(w.Price),
		w.Currency,
		formatFloat(w.Shipping),
		formatFloat(w.FeePercent),
		w.URL,
		w.Image,
		w.Category,
		w.Platform,
		w.Source,
		w.BrandNorm,
		w.ModelNorm,
		w.TitleNorm,
		w.Key,
		w.SKU,
		strconv.Itoa(w.GroupID),
		strconv.Itoa(w.GroupSize),
		w.TotalBRL.StringFixed(2),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Summary é a linha de resumo impressa ao final de uma execução.
func Summary(items, groups, winners int) string {
	return fmt.Sprintf("Itens totais: %d | Grupos: %d | Vencedores: %d", items, groups, winners)
}

// Describe gera um bloco de texto legível para um vencedor.
func Describe(w model.Winner) string {
	var sb strings.Builder

	sb.WriteString(w.Title + "\n")
	if w.Brand != "" {
		sb.WriteString("Marca: " + w.Brand + "\n")
	}
	if w.Model != "" {
		sb.WriteString("Modelo: " + w.Model + "\n")
	}
	sb.WriteString("Plataforma: " + w.Platform + "\n")
	sb.WriteString(fmt.Sprintf("Preço: %s %s\n", formatFloat(w.Price), w.Currency))
	if w.Shipping > 0 {
		sb.WriteString(fmt.Sprintf("Frete: %s %s\n", formatFloat(w.Shipping), w.Currency))
	}
	if w.FeePercent > 0 {
		sb.WriteString("Taxa: " + formatFloat(w.FeePercent) + "%\n")
	}
	sb.WriteString("Total BRL: " + w.TotalBRL.StringFixed(2) + "\n")
	sb.WriteString(fmt.Sprintf("Ofertas no grupo: %d\n", w.GroupSize))
	sb.WriteString("SKU: " + w.SKU + "\n")
	sb.WriteString("URL: " + w.URL + "\n")

	return sb.String()
}
