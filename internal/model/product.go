package model

import "github.com/shopspring/decimal"

// RawRecord é uma oferta como chega do feed, já com os cabeçalhos mapeados
// para o esquema fixo. Campos numéricos ainda são texto.
type RawRecord struct {
	Title      string
	Brand      string
	Model      string
	Price      string
	Currency   string
	Shipping   string
	FeePercent string
	URL        string
	Image      string
	Category   string
	Platform   string
	Source     string // arquivo ou URL de origem
}

// Record é uma oferta normalizada. Não é alterada depois de criada.
type Record struct {
	Title      string
	Brand      string
	Model      string
	Price      float64
	Currency   string
	Shipping   float64
	FeePercent float64
	URL        string
	Image      string
	Category   string
	Platform   string
	Source     string

	// Derivados pelo normalizador
	BrandNorm string
	ModelNorm string
	TitleNorm string
	Key       string
	SKU       string
}

// Group reúne ofertas que representam o mesmo produto.
type Group struct {
	ID      int
	Records []Record
}

// Groups é a saída do agrupador, ordenada por ID.
type Groups []Group

// Size retorna o total de ofertas em todos os grupos.
func (g Groups) Size() int {
	n := 0
	for _, gr := range g {
		n += len(gr.Records)
	}
	return n
}

// Winner é a oferta escolhida para um grupo, com o custo total em BRL.
type Winner struct {
	Record
	GroupID   int
	GroupSize int
	TotalBRL  decimal.Decimal
}
