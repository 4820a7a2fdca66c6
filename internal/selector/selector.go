// Package selector escolhe a oferta vencedora de cada grupo pelo custo
// total em BRL (preço + frete convertidos + taxa do marketplace).
//
// Regras de fallback, avaliadas nesta ordem para cada oferta:
//  1. moeda vazia ou sem cotação configurada usa taxa 1;
//  2. preço, frete ou taxa inválidos já chegam como 0 do normalizador;
//  3. plataforma fora de PlatformPriority fica depois de todas as listadas.
//
// O desempate é (custo total, prioridade da plataforma, URL).
package selector

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"comparador/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Rules é a configuração consumida pelo seletor.
type Rules struct {
	ExchangeRates    map[string]float64 // moeda -> multiplicador para BRL
	PlatformPriority []string           // primeiro = preferido em empate
}

// Candidate é uma oferta com o custo já calculado.
type Candidate struct {
	Record   model.Record
	Total    decimal.Decimal
	Priority int
}

type ranker struct {
	rates    map[string]decimal.Decimal
	priority map[string]int
}

func newRanker(rules Rules) *ranker {
	r := &ranker{
		rates:    make(map[string]decimal.Decimal, len(rules.ExchangeRates)),
		priority: make(map[string]int, len(rules.PlatformPriority)),
	}
	for code, rate := range rules.ExchangeRates {
		r.rates[strings.ToUpper(strings.TrimSpace(code))] = decimal.NewFromFloat(rate)
	}
	for i, p := range rules.PlatformPriority {
		if _, dup := r.priority[p]; !dup {
			r.priority[p] = i
		}
	}
	return r
}

func (r *ranker) rate(currency string) decimal.Decimal {
	if v, ok := r.rates[strings.ToUpper(strings.TrimSpace(currency))]; ok {
		return v
	}
	return decimal.NewFromInt(1)
}

func (r *ranker) platformRank(platform string) int {
	if i, ok := r.priority[platform]; ok {
		return i
	}
	return len(r.priority)
}

// LandedCost = preço*taxa + frete*taxa + preço*taxa*fee/100.
func (r *ranker) landedCost(rec model.Record) decimal.Decimal {
	rate := r.rate(rec.Currency)
	price := decimal.NewFromFloat(rec.Price).Mul(rate)
	shipping := decimal.NewFromFloat(rec.Shipping).Mul(rate)
	fee := price.Mul(decimal.NewFromFloat(rec.FeePercent)).Div(hundred)
	return price.Add(shipping).Add(fee)
}

func (r *ranker) rank(records []model.Record) []Candidate {
	out := make([]Candidate, len(records))
	for i, rec := range records {
		out[i] = Candidate{
			Record:   rec,
			Total:    r.landedCost(rec),
			Priority: r.platformRank(rec.Platform),
		}
	}
	slices.SortStableFunc(out, compareCandidates)
	return out
}

func compareCandidates(a, b Candidate) int {
	if c := a.Total.Cmp(b.Total); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
		return c
	}
	return strings.Compare(a.Record.URL, b.Record.URL)
}

// LandedCost calcula o custo total em BRL de uma oferta.
func LandedCost(rec model.Record, rules Rules) decimal.Decimal {
	return newRanker(rules).landedCost(rec)
}

// Rank devolve as ofertas do grupo ordenadas da melhor para a pior.
func Rank(group model.Group, rules Rules) []Candidate {
	return newRanker(rules).rank(group.Records)
}

// PickWinners devolve um vencedor por grupo não vazio, na ordem dos grupos.
func PickWinners(groups model.Groups, rules Rules) []model.Winner {
	r := newRanker(rules)
	winners := make([]model.Winner, 0, len(groups))
	for _, g := range groups {
		if w, ok := r.winner(g); ok {
			winners = append(winners, w)
		}
	}
	return winners
}

func (r *ranker) winner(g model.Group) (model.Winner, bool) {
	if len(g.Records) == 0 {
		return model.Winner{}, false
	}
	best := r.rank(g.Records)[0]
	return model.Winner{
		Record:    best.Record,
		GroupID:   g.ID,
		GroupSize: len(g.Records),
		TotalBRL:  best.Total,
	}, true
}
