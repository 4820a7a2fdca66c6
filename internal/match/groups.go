// Package match agrupa ofertas que representam o mesmo produto.
//
// O agrupamento tem duas fases: primeiro por chave canônica idêntica
// (buckets), depois buckets com títulos parecidos são fundidos. A segunda
// fase é quadrática no número de buckets; com catálogos grandes e chaves
// muito dispersas ela domina o tempo de execução.
package match

import "comparador/internal/model"

// DefaultMinSimilarity é o limite padrão para fundir dois buckets.
const DefaultMinSimilarity = 92

type bucket struct {
	records []model.Record
}

type options struct {
	scorer Scorer
}

// Option altera o comportamento de BuildGroups.
type Option func(*options)

// WithScorer troca a função de similaridade (padrão: TokenSetRatio).
func WithScorer(s Scorer) Option {
	return func(o *options) {
		if s != nil {
			o.scorer = s
		}
	}
}

// BuildGroups particiona os registros em grupos. Cada registro aparece em
// exatamente um grupo; a ordem dos grupos segue a primeira aparição da
// chave de cada bucket semente.
func BuildGroups(records []model.Record, minSimilarity int, opts ...Option) model.Groups {
	o := options{scorer: TokenSetRatio}
	for _, opt := range opts {
		opt(&o)
	}

	buckets := bucketByKey(records)
	threshold := float64(minSimilarity)

	used := make([]bool, len(buckets))
	groups := make(model.Groups, 0, len(buckets))
	for i, seed := range buckets {
		if used[i] {
			continue
		}
		members := append([]model.Record(nil), seed.records...)
		rep := seed.records[0].TitleNorm

		for j := i + 1; j < len(buckets); j++ {
			if used[j] {
				continue
			}
			if o.scorer(rep, buckets[j].records[0].TitleNorm) >= threshold {
				members = append(members, buckets[j].records...)
				used[j] = true
			}
		}
		groups = append(groups, model.Group{ID: len(groups), Records: members})
	}
	return groups
}

func bucketByKey(records []model.Record) []bucket {
	index := make(map[string]int)
	var buckets []bucket
	for _, r := range records {
		i, ok := index[r.Key]
		if !ok {
			i = len(buckets)
			index[r.Key] = i
			buckets = append(buckets, bucket{})
		}
		buckets[i].records = append(buckets[i].records, r)
	}
	return buckets
}
