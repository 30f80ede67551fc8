package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/medlit-search-server/internal/api"
	"github.com/medlit-search-server/internal/config"
	"github.com/medlit-search-server/internal/data"
	"github.com/medlit-search-server/internal/domain"
	"github.com/medlit-search-server/internal/service"
	"github.com/medlit-search-server/pkg/external"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := newLogger(cfg.Logging)
	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting medical literature search server")

	// External adapters, each behind its own circuit breaker.
	breakers := external.NewBreakerRegistry()
	sources := service.Sources{
		PubMed:   external.WrapPartsSearcher(string(domain.SourcePubMed), external.NewPubMedClient(cfg.Sources.PubMed), breakers, logger),
		JStage:   external.WrapQuerySearcher(string(domain.SourceJStage), external.NewJStageClient(cfg.Sources.JStage), breakers, logger),
		S2:       external.WrapQuerySearcher(string(domain.SourceS2), external.NewS2Client(cfg.Sources.S2), breakers, logger),
		OpenAlex: external.WrapQuerySearcher(string(domain.SourceOpenAlex), external.NewOpenAlexClient(cfg.Sources.OpenAlex), breakers, logger),
		CiNii:    external.WrapQuerySearcher(string(domain.SourceCiNii), external.NewCiNiiClient(cfg.Sources.CiNii), breakers, logger),
		EPMC:     external.WrapQuerySearcher(string(domain.SourceEPMC), external.NewEPMCClient(cfg.Sources.EPMC), breakers, logger),
	}
	translator := external.NewTranslatorClient(cfg.Translate, logger)
	mesh := external.NewMeSHClient(cfg.MeSH, logger)
	ai := external.NewAIClient(cfg.AI, logger)

	// Services over the embedded corpora.
	synonyms := service.NewSynonymIndex(data.SynonymClasses, logger)
	local := service.NewLocalSearch(data.Guidelines, data.ClinicalQuestions)
	orchestrator := service.NewOrchestrator(sources, translator, synonyms, local, logger)
	cqEvidence := service.NewCQEvidence(sources.PubMed, synonyms, logger)

	server := api.NewServer(api.Deps{
		Config:       cfg,
		Orchestrator: orchestrator,
		CQEvidence:   cqEvidence,
		Local:        local,
		Translator:   translator,
		MeSH:         mesh,
		AI:           ai,
		Breakers:     breakers,
		Logger:       logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}
	logger.Info("Server stopped")
}

func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
