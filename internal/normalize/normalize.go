// Package normalize converte ofertas heterogêneas em registros comparáveis:
// texto limpo, marca e modelo, chave canônica e SKU determinístico.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"regexp"
	"strconv"
	"strings"

	"comparador/internal/model"
)

const (
	DefaultCurrency = "BRL"
	slugTokens      = 8
	skuHashLen      = 8
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	// tokens tipo "a12", "m2 pro", "x-100", "gtx1050". As bordas consideram
	// letras acentuadas como parte da palavra ("câmera" não vira "mera").
	reModel = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])([a-z0-9]+[- ]?[a-z0-9]{2,})(?:$|[^\p{L}\p{N}_])`)
)

// Artigos e preposições dos idiomas dos feeds (PT/EN).
var stopwords = map[string]struct{}{
	"de": {}, "da": {}, "do": {}, "para": {}, "e": {}, "com": {}, "sem": {},
	"the": {}, "a": {}, "an": {}, "and": {},
}

// Options controla os padrões aplicados a campos ausentes.
type Options struct {
	DefaultCurrency string
}

// CleanText aplica trim, caixa baixa e colapsa espaços, inclusive NBSP.
func CleanText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormBrand remove tudo que não for alfanumérico depois de limpar o texto.
func NormBrand(s string) string {
	return reNonAlnum.ReplaceAllString(CleanText(s), "")
}

// GuessModel devolve o primeiro token com cara de modelo no título, ou "".
func GuessModel(title string) string {
	m := reModel.FindStringSubmatch(CleanText(title))
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// TitleSlug junta com hífen os primeiros tokens significativos do título.
func TitleSlug(title string) string {
	var tokens []string
	for _, w := range reNonAlnum.Split(CleanText(title), -1) {
		if w == "" {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
		if len(tokens) == slugTokens {
			break
		}
	}
	return strings.Join(tokens, "-")
}

// CanonicalKey depende apenas de marca, modelo e título. A marca entra
// já normalizada, então "So-ny" e "Sony" caem na mesma chave.
func CanonicalKey(brand, modelName, title string) string {
	m := CleanText(modelName)
	if m == "" {
		m = GuessModel(title)
	}
	return NormBrand(brand) + "|" + m + "|" + TitleSlug(title)
}

// SKU é estável para a mesma chave; serve de chave de idempotência no upsert.
func SKU(brandNorm, modelNorm, key string) string {
	sum := sha256.Sum256([]byte(key))
	return brandNorm + "-" + modelNorm + "-" + hex.EncodeToString(sum[:])[:skuHashLen]
}

// ParseNumber nunca falha: valores ausentes ou inválidos viram 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		v, err = strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	}
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Normalize produz um Record para cada RawRecord, na mesma ordem.
func Normalize(raw []model.RawRecord, opts Options) []model.Record {
	def := strings.ToUpper(strings.TrimSpace(opts.DefaultCurrency))
	if def == "" {
		def = DefaultCurrency
	}

	out := make([]model.Record, 0, len(raw))
	for _, r := range raw {
		out = append(out, normalizeOne(r, def))
	}
	return out
}

func normalizeOne(r model.RawRecord, defaultCurrency string) model.Record {
	currency := strings.ToUpper(strings.TrimSpace(r.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	rec := model.Record{
		Title:      r.Title,
		Brand:      r.Brand,
		Model:      r.Model,
		Price:      ParseNumber(r.Price),
		Currency:   currency,
		Shipping:   ParseNumber(r.Shipping),
		FeePercent: ParseNumber(r.FeePercent),
		URL:        strings.TrimSpace(r.URL),
		Image:      strings.TrimSpace(r.Image),
		Category:   strings.TrimSpace(r.Category),
		Platform:   strings.TrimSpace(r.Platform),
		Source:     r.Source,
		BrandNorm:  NormBrand(r.Brand),
		ModelNorm:  CleanText(r.Model),
		TitleNorm:  CleanText(r.Title),
		Key:        CanonicalKey(r.Brand, r.Model, r.Title),
	}
	rec.SKU = SKU(rec.BrandNorm, rec.ModelNorm, rec.Key)
	return rec
}
