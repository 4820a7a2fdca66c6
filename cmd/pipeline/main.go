package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"comparador/internal/config"
	"comparador/internal/db"
	"comparador/internal/feed"
	"comparador/internal/observability"
	"comparador/internal/pipeline"
	"comparador/internal/report"
	"comparador/internal/repository"
)

// go run cmd/pipeline/main.go -config=pipeline.yaml
// go run cmd/pipeline/main.go -config=pipeline.yaml -out=saida.csv -v
func main() {
	configPath := flag.String("config", "pipeline.yaml", "Arquivo YAML do pipeline")
	out := flag.String("out", "", "CSV de saída (padrão: output do YAML)")
	verbose := flag.Bool("v", false, "Imprime cada vencedor")
	flag.Parse()

	cfg := config.Load()
	observability.SetupLogger(cfg.LogFormat)

	pcfg, err := config.LoadPipeline(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("erro ao carregar configuração")
	}
	if *out != "" {
		pcfg.Output = *out
	}
	if pcfg.Workers == config.DefaultPipelineWorkers && cfg.WorkerCount > 0 {
		pcfg.Workers = cfg.WorkerCount
	}

	observability.Start(cfg.MetricsPort)
	ctx := context.Background()

	loader := feed.NewLoader(nil)
	if cfg.RedisURL != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		defer rdb.Close()
		loader.Cache = &feed.RedisCache{Client: rdb, TTL: cfg.FeedCacheTTL}
	}

	raw := loader.Load(ctx, pcfg.Sources)
	if len(raw) == 0 {
		fmt.Println("Sem dados nos feeds.")
	}

	res := pipeline.Run(raw, pipeline.FromConfig(pcfg))

	f, err := os.Create(pcfg.Output)
	if err != nil {
		log.Fatal().Err(err).Str("saida", pcfg.Output).Msg("erro ao criar arquivo de saída")
	}
	if err := report.WriteCSV(f, res.Winners); err != nil {
		f.Close()
		log.Fatal().Err(err).Msg("erro ao gravar vencedores")
	}
	if err := f.Close(); err != nil {
		log.Fatal().Err(err).Msg("erro ao fechar arquivo de saída")
	}

	if *verbose {
		for _, w := range res.Winners {
			fmt.Println(report.Describe(w))
		}
	}

	if cfg.DatabaseURL != "" {
		if err := persist(ctx, cfg.DatabaseURL, res); err != nil {
			log.Fatal().Err(err).Msg("erro ao gravar no banco")
		}
	}

	fmt.Println(report.Summary(len(res.Records), len(res.Groups), len(res.Winners)))
	fmt.Printf("Arquivo gerado: %s\n", pcfg.Output)
}

func persist(ctx context.Context, databaseURL string, res pipeline.Result) error {
	sqlDB, err := db.New(databaseURL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	listings := &repository.ListingRepository{DB: sqlDB}
	if err := listings.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if err := listings.SaveRun(ctx, res.RunID, res.Records); err != nil {
		return err
	}

	pool, err := db.NewPool(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	winners := &repository.WinnerRepository{DB: pool}
	created, updated, err := winners.Upsert(ctx, res.RunID, res.Winners)
	if err != nil {
		return err
	}
	log.Info().Int("criados", created).Int("atualizados", updated).Msg("vencedores publicados")
	return nil
}
