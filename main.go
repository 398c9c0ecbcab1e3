package main

import (
	"log/slog"
	"os"

	"lenswarp/dataurl"
	"lenswarp/parallel"
	"lenswarp/warp"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Workers  int    `help:"Number of parallel workers, 0 uses one per CPU" default:"0" env:"LENSWARP_WORKERS"`
	LogLevel string `help:"Minimum level of log messages" enum:"debug,info,warn,error" default:"info" env:"LENSWARP_LOG_LEVEL"`
	LogJSON  bool   `help:"Write logs as JSON" default:"false"`

	Warp    warp.CLICmd    `cmd:"" help:"Apply lens distortion to every picture in a folder"`
	DataURL dataurl.CLICmd `cmd:"" name:"dataurl" help:"Apply lens distortion to one picture and print it as a PNG data URL"`
}

func setupLogging(level string, asJSON bool) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if asJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("lenswarp"),
		kong.Description("Pincushion and barrel lens distortion for pictures."),
		kong.UsageOnError(),
	)

	setupLogging(cli.LogLevel, cli.LogJSON)
	slog.Debug("running", "command", kctx.Command(), "workers", cli.Workers)

	pool := parallel.Start(cli.Workers)
	if err := kctx.Run(pool.Do, pool.Wait, pool); err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
