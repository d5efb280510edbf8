package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/permute/log"
)

func ExampleMake() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelInfo),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Debug("hidden")
	logger.Info("expanded", slog.Int("chunks", 3))
	// Output:
	// level=INFO msg=expanded chunks=3
}

func ExampleLogger_With() {
	logger := log.Make(os.Stdout,
		log.WithTimeLayout("none"),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false))

	logger.With(slog.String("file", "gen.pm")).Warn("unused binding", slog.String("name", "T"))
	// Output:
	// {"level":"WARN","msg":"unused binding","file":"gen.pm","name":"T"}
}
