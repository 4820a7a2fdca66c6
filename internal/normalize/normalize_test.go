package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comparador/internal/model"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Sony   Alpha\tA12 ", "sony alpha a12"},
		{"", ""},
		{"\n\n", ""},
		{"Fone  De\nOuvido", "fone de ouvido"},
		{"Sony\u00a0\u00a0A12", "sony a12"},
		{"\u00a0TV 4K\u3000", "tv 4k"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanText(tt.in), "CleanText(%q)", tt.in)
	}
}

func TestNormBrand(t *testing.T) {
	assert.Equal(t, "sony", NormBrand("Sony"))
	assert.Equal(t, "sony", NormBrand("SONY "))
	assert.Equal(t, "sony", NormBrand("so-ny"))
	assert.Equal(t, "hp", NormBrand(" H.P. "))
	assert.Equal(t, "", NormBrand(""))
}

func TestGuessModel(t *testing.T) {
	tests := []struct {
		title, want string
	}{
		{"X-100 Camera", "x-100"},
		{"GTX1050 placa", "gtx1050 placa"},
		{"GTX1050", "gtx1050"},
		{"fone de ouvido JBL", "fone de"},
		{"Câmera X-100", "x-100"},
		{"Relógio Smart W26", "smart w26"},
		{"Ação 4k", ""},
		{"Câmera\u00a0X-100", "x-100"},
		{"a b", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GuessModel(tt.title), "GuessModel(%q)", tt.title)
	}
}

func TestTitleSlug(t *testing.T) {
	assert.Equal(t, "title-x", TitleSlug("Title X"))
	assert.Equal(t, "fone-ouvido-bluetooth", TitleSlug("Fone de Ouvido com Bluetooth"))
	assert.Equal(t, "one-two-three-four-five-six-seven-eight",
		TitleSlug("the one two three four five six seven eight nine ten"))
	assert.Equal(t, "", TitleSlug("  "))
}

func TestCanonicalKey(t *testing.T) {
	assert.Equal(t, "sony|a12|title-x", CanonicalKey("Sony", "A12", "Title X"))
	// sem modelo explícito, o modelo vem do título
	assert.Equal(t, "sony|x-100|x-100-camera", CanonicalKey("Sony", "", "X-100 Camera"))
	assert.Equal(t, "||", CanonicalKey("", "", ""))
}

func TestCanonicalKeyNormalizesBrand(t *testing.T) {
	tests := []struct {
		brand, want string
	}{
		{"Sony", "sony|a12|title-x"},
		{"So-ny", "sony|a12|title-x"},
		{" SONY ", "sony|a12|title-x"},
		{"H.P.", "hp|a12|title-x"},
		{"Hewlett Packard", "hewlettpackard|a12|title-x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalKey(tt.brand, "A12", "Title X"), "CanonicalKey(%q)", tt.brand)
	}
}

func TestNormalizePunctuatedBrandsShareSKU(t *testing.T) {
	out := Normalize([]model.RawRecord{
		{Title: "Title X", Brand: "Sony", Model: "A12"},
		{Title: "Title X", Brand: "So-ny", Model: "A12"},
	}, Options{})
	require.Len(t, out, 2)
	assert.Equal(t, "sony|a12|title-x", out[1].Key)
	assert.Equal(t, out[0].SKU, out[1].SKU)
	assert.Equal(t, "sony-a12-2ee65d9e", out[1].SKU)
}

func TestNormalizeAccentedTitleGuessesModel(t *testing.T) {
	out := Normalize([]model.RawRecord{
		{Title: "Câmera X-100", Brand: "Sony"},
		{Title: "Câmera X-100", Brand: "Sony", Model: "X-100"},
	}, Options{})
	require.Len(t, out, 2)
	assert.Equal(t, "sony|x-100|c-mera-x-100", out[0].Key)
	assert.Equal(t, out[1].Key, out[0].Key)
	assert.Equal(t, "câmera x-100", out[0].TitleNorm)
}

func TestSKU(t *testing.T) {
	// sha256("sony|a12|title-x") = 2ee65d9e...
	assert.Equal(t, "sony-a12-2ee65d9e", SKU("sony", "a12", "sony|a12|title-x"))
	assert.Equal(t, SKU("b", "m", "k"), SKU("b", "m", "k"))
	assert.NotEqual(t, SKU("b", "m", "k1"), SKU("b", "m", "k2"))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"199.90", 199.90},
		{" 10 ", 10},
		{"12,5", 12.5},
		{"1.234,56", 0},
		{"abc", 0},
		{"", 0},
		{"NaN", 0},
		{"+Inf", 0},
		{"-3", -3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseNumber(tt.in), "ParseNumber(%q)", tt.in)
	}
}

func TestNormalize(t *testing.T) {
	raw := []model.RawRecord{
		{Title: "  Title   X ", Brand: "SONY", Model: "A12", Price: "200", Shipping: "x", FeePercent: "", URL: "http://a"},
		{Title: "Outro", Price: "", Currency: " usd "},
	}

	out := Normalize(raw, Options{})
	require.Len(t, out, 2)

	r := out[0]
	assert.Equal(t, "sony", r.BrandNorm)
	assert.Equal(t, "a12", r.ModelNorm)
	assert.Equal(t, "title x", r.TitleNorm)
	assert.Equal(t, "sony|a12|title-x", r.Key)
	assert.Equal(t, "sony-a12-2ee65d9e", r.SKU)
	assert.Equal(t, 200.0, r.Price)
	assert.Equal(t, 0.0, r.Shipping)
	assert.Equal(t, 0.0, r.FeePercent)
	assert.Equal(t, "BRL", r.Currency)

	assert.Equal(t, "USD", out[1].Currency)
	assert.Equal(t, 0.0, out[1].Price)

	// entrada intacta
	assert.Equal(t, "  Title   X ", raw[0].Title)
}

func TestNormalizeDefaultCurrency(t *testing.T) {
	out := Normalize([]model.RawRecord{{Title: "x"}}, Options{DefaultCurrency: "eur"})
	assert.Equal(t, "EUR", out[0].Currency)
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(nil, Options{}))
}

func TestKeyIgnoresNonIdentityFields(t *testing.T) {
	base := model.RawRecord{Title: "Câmera X-100", Brand: "Sony", Model: "", URL: "http://a", Image: "i1", Platform: "p1"}
	other := base
	other.URL = "http://b"
	other.Image = "i2"
	other.Platform = "p2"
	other.Price = "999"

	out := Normalize([]model.RawRecord{base, other}, Options{})
	assert.Equal(t, out[0].Key, out[1].Key)
	assert.Equal(t, out[0].SKU, out[1].SKU)
}
