package main

import (
	"fmt"

	"github.com/MKhiriev/go-doc-verifier/internal/adapter"
	"github.com/MKhiriev/go-doc-verifier/internal/client"
	"github.com/MKhiriev/go-doc-verifier/internal/config"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/tui"
	"github.com/MKhiriev/go-doc-verifier/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(buildInfo)

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewLogger("docverifier-client").Fatal().Err(err).Msg("error getting configs")
	}

	// The terminal belongs to the UI, so logs go to a file.
	log := logger.NewFileLogger("docverifier-client", cfg.LogFile)

	serverAdapter, err := adapter.NewHTTPServerAdapter(*cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	ui, err := tui.New(serverAdapter, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	app, err := client.NewApp(serverAdapter, ui, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}
