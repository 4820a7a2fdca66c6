// Package pipeline encadeia normalização, agrupamento e seleção de vencedores.
package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"comparador/internal/config"
	"comparador/internal/match"
	"comparador/internal/model"
	"comparador/internal/normalize"
	"comparador/internal/observability"
	"comparador/internal/selector"
)

// Options parametriza uma execução. MinSimilarity nil usa
// match.DefaultMinSimilarity; um ponteiro para 0 agrupa tudo.
type Options struct {
	MinSimilarity   *int
	DefaultCurrency string
	Rules           selector.Rules
	Workers         int
}

// FromConfig monta as opções a partir do YAML do pipeline.
func FromConfig(cfg *config.PipelineConfig) Options {
	return Options{
		MinSimilarity:   ptr(cfg.Similarity()),
		DefaultCurrency: cfg.DefaultCurrency,
		Rules: selector.Rules{
			ExchangeRates:    cfg.ExchangeRates,
			PlatformPriority: cfg.PlatformPriority,
		},
		Workers: cfg.Workers,
	}
}

// Result guarda a saída de cada etapa de uma execução.
type Result struct {
	RunID   uuid.UUID
	Records []model.Record
	Groups  model.Groups
	Winners []model.Winner
}

// Run nunca falha: entradas degradadas produzem saída degradada.
func Run(raw []model.RawRecord, opts Options) Result {
	start := time.Now()
	res := Result{RunID: uuid.New()}
	logger := log.With().Str("run_id", res.RunID.String()).Logger()

	res.Records = normalize.Normalize(raw, normalize.Options{DefaultCurrency: opts.DefaultCurrency})
	observability.RecordsNormalized.Add(float64(len(res.Records)))
	if n := countZeroPrice(res.Records); n > 0 {
		logger.Warn().Int("ofertas", n).Msg("ofertas com preço zero ou inválido")
	}

	res.Groups = match.BuildGroups(res.Records, opts.similarity())
	observability.GroupsTotal.Add(float64(len(res.Groups)))

	res.Winners = selector.PickWinnersParallel(res.Groups, opts.Rules, opts.Workers)
	observability.WinnersTotal.Add(float64(len(res.Winners)))

	elapsed := time.Since(start)
	observability.PipelineDuration.Observe(elapsed.Seconds())
	logger.Info().
		Int("itens", len(res.Records)).
		Int("grupos", len(res.Groups)).
		Int("vencedores", len(res.Winners)).
		Dur("duracao", elapsed).
		Msg("pipeline finalizado")

	return res
}

func (o Options) similarity() int {
	if o.MinSimilarity == nil {
		return match.DefaultMinSimilarity
	}
	return *o.MinSimilarity
}

func ptr(v int) *int { return &v }

func countZeroPrice(records []model.Record) int {
	n := 0
	for _, r := range records {
		if r.Price == 0 {
			n++
		}
	}
	return n
}
