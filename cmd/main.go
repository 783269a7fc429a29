package main

import (
	"fmt"
	"os"

	"github.com/RishiKendai/verbatim/internal/config"
	"github.com/RishiKendai/verbatim/internal/configs/env"
	"github.com/RishiKendai/verbatim/internal/logger"
	"github.com/rs/zerolog/log"
)

const usage = `verbatim <command> [flags]

verbatim finds word sequences shared verbatim between two documents.

  verbatim serve                      -- runs the HTTP API and the stream consumer (default)
  verbatim compare [flags] A B        -- compares suspect document A against source B
  verbatim enqueue [flags] A B        -- queues a comparison on the Redis stream
  verbatim help                       -- prints this message

Documents are file paths or s3://bucket/key, mongo://<id> identifiers.
`

func main() {
	if err := env.LoadEnv(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	cmd, args := "serve", []string{}
	if len(os.Args) > 1 {
		cmd, args = os.Args[1], os.Args[2:]
	}

	switch cmd {
	case "help", "-h", "--help":
		fmt.Print(usage)
	case "serve":
		err = runServe(cfg)
	case "compare":
		err = runCompare(cfg, args)
	case "enqueue":
		err = runEnqueue(cfg, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		err = fmt.Errorf("command %q not supported", cmd)
	}

	if err != nil {
		log.Error().Err(err).Str("command", cmd).Msg("Command failed")
		os.Exit(1)
	}
}
