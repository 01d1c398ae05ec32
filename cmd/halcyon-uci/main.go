package main

import (
	"flag"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"

	"github.com/halcyon-chess/halcyon/internal/engine"
	"github.com/halcyon-chess/halcyon/internal/uci"
)

var (
	hashMB     = flag.Int("hash", engine.DefaultHashMB, "transposition table size in MB")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	logLevel   = flag.String("log-level", "info", "diagnostic log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	log := newLogger(*logLevel)

	// Start CPU profiling if requested (via flag or environment variable).
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	eng := engine.New(*hashMB)
	log.Debug().Int("hash_mb", *hashMB).Msg("engine ready")

	uci.New(eng, log).Run()
}

// newLogger builds the stderr diagnostic logger. The UCI protocol itself
// speaks on stdout, so diagnostics must stay off it.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}
