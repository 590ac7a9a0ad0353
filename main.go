package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Viciouslight/YukiSoraShop-sub000/common/logger"
	"github.com/Viciouslight/YukiSoraShop-sub000/config"
	"github.com/Viciouslight/YukiSoraShop-sub000/controllers"
	"github.com/Viciouslight/YukiSoraShop-sub000/database"
	"github.com/Viciouslight/YukiSoraShop-sub000/kafka"
	"github.com/Viciouslight/YukiSoraShop-sub000/metrics"
	"github.com/Viciouslight/YukiSoraShop-sub000/middleware"
	aws_pkg "github.com/Viciouslight/YukiSoraShop-sub000/pkg/aws"
	"github.com/Viciouslight/YukiSoraShop-sub000/providers"
	"github.com/Viciouslight/YukiSoraShop-sub000/repository"
	"github.com/Viciouslight/YukiSoraShop-sub000/routes"
	"github.com/Viciouslight/YukiSoraShop-sub000/services"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

const serviceName = "payment-service"

func main() {
	cfg, err := config.Load("")
	if err != nil {
		// The logger depends on APP_ENV, which may not have loaded.
		fallback, _ := zap.NewProduction()
		fallback.Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	// Spans are only used to correlate request logs and service calls.
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())))
	otel.SetTracerProvider(tp)

	db, err := database.Connect(cfg.DSN(), log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	store := repository.NewGormStore(db)

	awsCfg, err := aws_pkg.LoadAWSConfig(context.Background())
	if err != nil {
		log.Fatal("Failed to load AWS config", zap.Error(err))
	}

	// --- Gateway ---

	providerCfg := cfg.ProviderConfig()
	var builder providers.CheckoutBuilder
	switch cfg.VNPay.Mode {
	case config.ModeAPI:
		builder = providers.NewAPICheckoutClient(providerCfg)
	default:
		builder = providers.NewRedirectBuilder(providerCfg)
	}
	parser := providers.NewCallbackParser(providerCfg)
	log.Info("VNPay configured",
		zap.String("mode", cfg.VNPay.Mode),
		zap.String("tmn_code", cfg.VNPay.TmnCode),
		zap.String("timezone", cfg.VNPay.TimeZone),
	)

	// --- Events and archive ---

	var publishers services.MultiPublisher
	if cfg.Events.SNSTopicARN != "" {
		publishers = append(publishers, services.NewSNSEventPublisher(aws_pkg.NewSNSClient(awsCfg), cfg.Events.SNSTopicARN))
	}
	var producer *kafka.PaymentEventProducer
	if len(cfg.Events.KafkaBrokers) > 0 {
		producer = kafka.NewPaymentEventProducer(cfg.Events.KafkaBrokers, cfg.Events.KafkaTopic, log)
		publishers = append(publishers, producer)
	}

	opts := []services.PaymentOption{services.WithEventPublisher(publishers)}
	var archiver services.InvoiceArchiver
	if cfg.Archive.S3Bucket != "" {
		archiver = aws_pkg.NewS3Archiver(awsCfg, cfg.Archive.S3Bucket, cfg.Archive.S3Prefix)
		opts = append(opts, services.WithInvoiceArchiver(archiver))
	}

	cwMetrics := aws_pkg.NewMetricsClient(awsCfg, cfg.Metrics.CloudWatchNamespace, cfg.Metrics.CloudWatchEnabled)

	// --- Services and controllers ---

	issuer := services.NewInvoiceIssuer(nil, nil)
	paymentService := services.NewPaymentService(store, builder, parser, issuer, providerCfg.CurrCode, log, opts...)
	invoiceService := services.NewInvoiceService(store, issuer, archiver, log)
	methodService := services.NewPaymentMethodService(store, log)

	paymentController := controllers.NewPaymentController(paymentService, log)
	invoiceController := controllers.NewInvoiceController(invoiceService, log)
	methodController := controllers.NewPaymentMethodController(methodService)

	// --- HTTP server ---

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(logger.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metrics.Middleware())
	r.Use(middleware.CloudWatchMetrics(cwMetrics, serviceName))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", metrics.Handler())

	routes.RegisterPaymentRoutes(r, paymentController)
	routes.RegisterInvoiceRoutes(r, invoiceController)
	routes.RegisterPaymentMethodRoutes(r, methodController)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Info("Payment Service starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down Payment Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if producer != nil {
		producer.Close()
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}

	log.Info("Payment Service stopped gracefully")
}
