package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/llmharness/chatapi-contract-tests/config"
	"github.com/llmharness/chatapi-contract-tests/mockchat"

	prettyconsole "github.com/thessem/zap-prettyconsole"
	"go.uber.org/zap"
)

const defaultPort = 8000

func main() {
	var port int
	var envFile string
	var models string
	var omitMessages bool

	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.IntVar(&port, "port", defaultPort, "port to listen on")
	fs.StringVar(&envFile, "env-file", ".env", "file to read SERVER_API_KEY from")
	fs.StringVar(&models, "models", "", "comma-separated model IDs to serve")
	fs.BoolVar(&omitMessages, "no-messages-endpoint", false, "do not serve POST /v1/messages")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var log *zap.Logger
	if os.Getenv("ENV") == "local" {
		log = prettyconsole.NewLogger(zap.DebugLevel)
	} else {
		var err error
		log, err = zap.NewProduction()
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
	}
	defer log.Sync()

	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatal("configuration error", zap.Error(err))
	}

	opts := mockchat.Options{
		APIKey:               cfg.APIKey,
		OmitMessagesEndpoint: omitMessages,
	}
	if models != "" {
		opts.Models = strings.Split(models, ",")
	} else {
		opts.Models = []string{cfg.Model}
	}

	log.Info("mock chat service listening",
		zap.Int("port", port),
		zap.Strings("models", opts.Models),
	)
	addr := fmt.Sprintf(":%d", port)
	if err := http.ListenAndServe(addr, mockchat.NewHandler(opts, log)); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
