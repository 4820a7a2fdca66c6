// Package feed carrega feeds de preço (CSV ou tabela HTML, locais ou remotos)
// e entrega as ofertas no esquema fixo de model.RawRecord.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"comparador/internal/model"
	"comparador/internal/observability"
)

// Loader junta as ofertas de várias fontes. Cache é opcional.
type Loader struct {
	Fetcher *Fetcher
	Cache   Cache
}

func NewLoader(cache Cache) *Loader {
	return &Loader{Fetcher: NewFetcher(), Cache: cache}
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load lê todas as fontes na ordem dada. Fontes com erro são registradas e ignoradas.
func (l *Loader) Load(ctx context.Context, sources []string) []model.RawRecord {
	var out []model.RawRecord
	for _, src := range sources {
		records, err := l.loadOne(ctx, src)
		if err != nil {
			observability.FeedSourcesFailed.Inc()
			log.Error().Err(err).Str("fonte", src).Msg("erro ao carregar feed")
			continue
		}
		log.Info().Str("fonte", src).Int("ofertas", len(records)).Msg("feed carregado")
		out = append(out, records...)
	}
	return out
}

func (l *Loader) loadOne(ctx context.Context, src string) ([]model.RawRecord, error) {
	if isRemote(src) {
		body, err := l.remote(ctx, src)
		if err != nil {
			return nil, err
		}
		return Parse(body, src, src)
	}

	body, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	return Parse(body, src, filepath.Base(src))
}

func (l *Loader) remote(ctx context.Context, url string) ([]byte, error) {
	if l.Cache != nil {
		body, ok, err := l.Cache.Get(ctx, url)
		if err != nil {
			log.Warn().Err(err).Str("url", url).Msg("cache de feed indisponível")
		} else if ok {
			return body, nil
		}
	}
	return l.Prefetch(ctx, url)
}

// Prefetch baixa o feed e atualiza o cache, ignorando o que já estiver lá.
func (l *Loader) Prefetch(ctx context.Context, url string) ([]byte, error) {
	fetcher := l.Fetcher
	if fetcher == nil {
		fetcher = NewFetcher()
	}
	body, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if l.Cache != nil {
		if err := l.Cache.Set(ctx, url, body); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("erro ao gravar feed no cache")
		}
	}
	return body, nil
}

// Parse decide o formato pela extensão do nome ou, sem extensão conhecida, pelo conteúdo.
func Parse(body []byte, name, source string) ([]model.RawRecord, error) {
	if isHTML(body, name) {
		return ParseHTMLTable(string(body), source)
	}
	return parseCSV(body, source)
}

func isHTML(body []byte, name string) bool {
	ext := strings.ToLower(filepath.Ext(strings.SplitN(name, "?", 2)[0]))
	switch ext {
	case ".html", ".htm":
		return true
	case ".csv", ".txt":
		return false
	}
	return bytes.HasPrefix(bytes.TrimSpace(body), []byte("<"))
}
