package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/2beens/periodize/internal"
	"github.com/2beens/periodize/internal/config"
	"github.com/2beens/periodize/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	secrets, err := config.LoadSecrets()
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        secrets.SentryDSN,
		SentryServerName: "periodize",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using storage: [%s]", cfg.Storage)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)
	log.Tracef("running version: %s", versionInfo())

	if cfg.RedisEnabled() && secrets.RedisPassword == "" {
		log.Warnln("redis password not set. use PERIODIZE_REDIS_PASS")
	}
	if secrets.HoneycombEnabled && secrets.HoneycombAPIKey == "" {
		log.Warnln("HONEYCOMB_API_KEY env var not set")
	} else if !secrets.HoneycombEnabled {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:  cfg,
			Secrets: secrets,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// versionInfo returns the vcs revision stamped into the binary by the go toolchain.
func versionInfo() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}
	return info.Main.Version
}
