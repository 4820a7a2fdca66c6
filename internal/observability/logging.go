package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger configura o logger global. "console" gera saída legível; o resto, JSON.
func SetupLogger(format string) {
	setupLogger(format, os.Stderr)
}

func setupLogger(format string, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339
	if format == "console" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
