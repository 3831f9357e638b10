package main

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Aashish23092/access-key-extractor/client"
	"github.com/Aashish23092/access-key-extractor/config"
	"github.com/Aashish23092/access-key-extractor/service"
	"github.com/Aashish23092/access-key-extractor/store"
	"github.com/Aashish23092/access-key-extractor/utils/accesskey"
)

// app holds the components shared by the subcommands.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *service.AccessKeyService
	closers []func()
}

func newApp() (*app, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	rules := accesskey.DefaultRules()
	if cfg.RulesFile != "" {
		rules, err = accesskey.LoadRules(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
	}
	extractor, err := accesskey.New(rules, accesskey.WithDiagnostics(accesskey.NewZapDiagnostics(logger)))
	if err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}

	opts := []service.ServiceOption{service.WithMinTextLength(cfg.MinTextLength)}

	if cfg.EnableOCR {
		tc := client.NewTesseractClient(cfg.TesseractDataPath, cfg.TesseractLanguage, logger)
		opts = append(opts, service.WithScannedFallback(tc, service.NewBarcodeReader()))
	}

	if cfg.DatabasePath != "" {
		db, err := store.OpenDB(cfg.DatabasePath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		opts = append(opts, service.WithHistory(db))
	}

	a.service = service.NewAccessKeyService(service.NewPDFProcessor(), extractor, logger, opts...)
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.logger.Sync()
}
