package main

import (
	"net/http"

	"github.com/Aashish23092/access-key-extractor/client"
	"github.com/Aashish23092/access-key-extractor/config"
	"github.com/Aashish23092/access-key-extractor/handler"
	"github.com/Aashish23092/access-key-extractor/service"
	"github.com/Aashish23092/access-key-extractor/store"
	"github.com/Aashish23092/access-key-extractor/utils/accesskey"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Initialize extraction rules
	rules := accesskey.DefaultRules()
	if cfg.RulesFile != "" {
		rules, err = accesskey.LoadRules(cfg.RulesFile)
		if err != nil {
			logger.Fatal("Failed to load rules", zap.String("path", cfg.RulesFile), zap.Error(err))
		}
	}
	extractor, err := accesskey.New(rules, accesskey.WithDiagnostics(accesskey.NewZapDiagnostics(logger)))
	if err != nil {
		logger.Fatal("Invalid extraction rules", zap.Error(err))
	}

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	opts := []service.ServiceOption{service.WithMinTextLength(cfg.MinTextLength)}

	if cfg.EnableOCR {
		tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath, cfg.TesseractLanguage, logger)
		opts = append(opts, service.WithScannedFallback(tesseractClient, service.NewBarcodeReader()))
		logger.Info("OCR fallback enabled",
			zap.String("tessdata_prefix", cfg.TesseractDataPath),
			zap.String("language", cfg.TesseractLanguage))
	}

	if cfg.DatabasePath != "" {
		db, err := store.OpenDB(cfg.DatabasePath)
		if err != nil {
			logger.Fatal("Failed to open history database", zap.String("path", cfg.DatabasePath), zap.Error(err))
		}
		defer db.Close()
		opts = append(opts, service.WithHistory(db))
	}

	// Initialize service layer
	accessKeyService := service.NewAccessKeyService(pdfProcessor, extractor, logger, opts...)
	batchProcessor := service.NewBatchProcessor(accessKeyService, cfg.MaxWorkers, logger)

	// Initialize handler layer
	accessKeyHandler := handler.NewAccessKeyHandler(accessKeyService, batchProcessor, cfg.MaxFileSize, logger)

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Access Key Extractor",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	accessKeyHandler.Register(api)

	// Start server
	logger.Info("Starting Access Key Extractor", zap.String("port", cfg.ServerPort))
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
