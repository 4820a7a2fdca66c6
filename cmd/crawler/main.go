package main

import (
	"context"
	"flag"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"comparador/internal/config"
	"comparador/internal/feed"
	"comparador/internal/observability"
)

// Aquece o cache de feeds antes do pipeline.
// go run cmd/crawler/main.go -urls="https://a/feed.csv,https://b/ofertas.html"
// go run cmd/crawler/main.go -config=pipeline.yaml
func main() {
	urlsArg := flag.String("urls", "", "URLs dos feeds separadas por vírgula")
	configPath := flag.String("config", "", "Usa as fontes remotas do YAML do pipeline")
	flag.Parse()

	cfg := config.Load()
	observability.SetupLogger(cfg.LogFormat)

	if cfg.RedisURL == "" {
		log.Fatal().Msg("REDIS_URL não definido")
	}

	var urls []string
	for _, u := range strings.Split(*urlsArg, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if *configPath != "" {
		pcfg, err := config.LoadPipeline(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("erro ao carregar configuração")
		}
		for _, s := range pcfg.Sources {
			if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
				urls = append(urls, s)
			}
		}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	defer rdb.Close()

	loader := feed.NewLoader(&feed.RedisCache{Client: rdb, TTL: cfg.FeedCacheTTL})
	ctx := context.Background()

	ok := 0
	for _, u := range urls {
		body, err := loader.Prefetch(ctx, u)
		if err != nil {
			log.Error().Err(err).Str("url", u).Msg("erro ao baixar feed")
			continue
		}
		ok++
		log.Info().Str("url", u).Int("bytes", len(body)).Msg("feed em cache")
	}

	log.Info().Int("feeds", ok).Int("falhas", len(urls)-ok).Msg("Crawler finalizado")
}
