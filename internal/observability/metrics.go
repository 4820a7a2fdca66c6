package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	FeedSourcesFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_sources_failed_total",
			Help: "Total de feeds que falharam ao carregar",
		},
	)
	RecordsNormalized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "records_normalized_total",
			Help: "Total de ofertas normalizadas",
		},
	)
	GroupsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "groups_total",
			Help: "Total de grupos de produtos formados",
		},
	)
	WinnersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "winners_total",
			Help: "Total de vencedores selecionados",
		},
	)
	PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_duration_seconds",
			Help:    "Duração de uma execução do pipeline",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registra as métricas num registry (o padrão em Start).
func Register(reg prometheus.Registerer) {
	reg.MustRegister(FeedSourcesFailed, RecordsNormalized, GroupsTotal, WinnersTotal, PipelineDuration)
}

func Start(port string) {
	Register(prometheus.DefaultRegisterer)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, nil); err != nil {
			log.Error().Err(err).Str("port", port).Msg("servidor de métricas parou")
		}
	}()
}
