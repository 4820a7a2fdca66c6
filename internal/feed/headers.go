package feed

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"comparador/internal/model"
)

// Apelidos aceitos para cada coluna, em ordem de preferência. Os nomes já
// estão no formato de foldHeader (minúsculo, sem acento, "_" no lugar de espaço).
var aliases = []struct {
	field string
	names []string
}{
	{"title", []string{"title", "titulo", "produto", "nome", "name", "product"}},
	{"brand", []string{"brand", "marca", "fabricante"}},
	{"model", []string{"model", "modelo"}},
	{"price", []string{"price", "preco", "valor", "value"}},
	{"currency", []string{"currency", "moeda"}},
	{"shipping", []string{"shipping", "frete", "shipping_cost", "valor_frete"}},
	{"fee_percent", []string{"fee_percent", "fee", "taxa", "taxa_percentual", "comissao"}},
	{"url", []string{"url", "link", "product_url"}},
	{"image", []string{"image", "imagem", "image_url", "img"}},
	{"category", []string{"category", "categoria"}},
	{"platform", []string{"platform", "plataforma", "marketplace", "loja"}},
}

// foldHeader deixa o cabeçalho comparável: "Preço " -> "preco", "Taxa %" -> "taxa".
func foldHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, _ = transform.String(stripAccents, strings.ToLower(strings.TrimSpace(s)))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		}
		return -1
	}, s)
	return strings.Trim(s, "_")
}

// HeaderMapping liga cada coluna do esquema fixo ao índice no arquivo de origem.
type HeaderMapping map[string]int

// MapHeaders resolve os apelidos uma única vez por arquivo.
func MapHeaders(header []string) HeaderMapping {
	index := make(map[string]int, len(header))
	for i, h := range header {
		f := foldHeader(h)
		if _, dup := index[f]; !dup {
			index[f] = i
		}
	}

	m := make(HeaderMapping, len(aliases))
	for _, a := range aliases {
		for _, name := range a.names {
			if i, ok := index[name]; ok {
				m[a.field] = i
				break
			}
		}
	}
	return m
}

func (m HeaderMapping) value(row []string, field string) string {
	i, ok := m[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Record converte uma linha no esquema fixo. Colunas ausentes ficam vazias.
func (m HeaderMapping) Record(row []string, source string) model.RawRecord {
	return model.RawRecord{
		Title:      m.value(row, "title"),
		Brand:      m.value(row, "brand"),
		Model:      m.value(row, "model"),
		Price:      m.value(row, "price"),
		Currency:   m.value(row, "currency"),
		Shipping:   m.value(row, "shipping"),
		FeePercent: m.value(row, "fee_percent"),
		URL:        m.value(row, "url"),
		Image:      m.value(row, "image"),
		Category:   m.value(row, "category"),
		Platform:   m.value(row, "platform"),
		Source:     source,
	}
}

func mapRows(rows [][]string, source string) []model.RawRecord {
	if len(rows) == 0 {
		return nil
	}
	m := MapHeaders(rows[0])
	out := make([]model.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		out = append(out, m.Record(row, source))
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
