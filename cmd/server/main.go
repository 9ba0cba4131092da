package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/jlupholstery/workshop-admin/internal/config"
	"github.com/jlupholstery/workshop-admin/internal/domain/allocation"
	"github.com/jlupholstery/workshop-admin/internal/domain/billing"
	httpiface "github.com/jlupholstery/workshop-admin/internal/interfaces/http"
	"github.com/jlupholstery/workshop-admin/internal/report"
	"github.com/jlupholstery/workshop-admin/internal/repository"
	"github.com/jlupholstery/workshop-admin/internal/service"
	"github.com/jlupholstery/workshop-admin/pkg/database"
	"github.com/jlupholstery/workshop-admin/pkg/logger"
)

func main() {
	_ = gotenv.Load()

	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting workshop admin server",
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Path))

	db, err := database.New(database.Config{
		Path:         cfg.Database.Path,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, log)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	orderRepo := repository.NewOrderRepository(db.DB, log)
	statusRepo := repository.NewStatusRepository(db.DB, log)
	companyRepo := repository.NewCompanyRepository(db.DB, log)

	// Configured company rates become reference-data rows, so the screens
	// that edit them and the config file stay in one table.
	for name, rate := range cfg.Billing.Companies {
		if err := companyRepo.Upsert(nil, name, rate); err != nil {
			log.Fatal("Failed to seed company rate", zap.String("company", name), zap.Error(err))
		}
	}

	totalsCfg := billing.TotalsConfig{
		CustomerTaxRate:   cfg.Billing.CustomerTaxRate,
		CardSurchargeRate: cfg.Billing.CardSurchargeRate,
	}
	engine := allocation.NewEngine()

	orderService := service.NewOrderService(orderRepo, companyRepo, db, totalsCfg, cfg.Billing.DefaultInternalTaxRate, log)
	paymentService := service.NewPaymentService(orderRepo, statusRepo, db, log)
	completionService := service.NewCompletionService(orderRepo, statusRepo, companyRepo, db, engine, totalsCfg, cfg.Billing.DefaultInternalTaxRate, log)
	reportService := report.NewService(orderRepo, cfg.Report.OutputDir, log)

	handlers := httpiface.NewHandlers(orderService, paymentService, completionService, statusRepo, reportService, log)
	server := httpiface.NewServer(httpiface.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
