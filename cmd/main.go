package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ordenes-pago-api/internal/clients"
	"ordenes-pago-api/internal/config"
	"ordenes-pago-api/internal/domain"
	"ordenes-pago-api/internal/repository"
	"ordenes-pago-api/internal/service"
	"ordenes-pago-api/internal/store"
	"ordenes-pago-api/internal/transport/rest"
	"ordenes-pago-api/pkg/database/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system env or defaults")
	}

	cfg := config.Load()

	db := mustInitPostgres(cfg.Postgres)
	defer postgres.Close(db)

	redisClient := mustInitRedis(cfg.Redis)
	defer redisClient.Close()

	assetsClient, err := clients.NewAssetsClient(clients.AssetsConfig{
		Endpoint:        cfg.Assets.Endpoint,
		AccessKeyID:     cfg.Assets.AccessKeyID,
		SecretAccessKey: cfg.Assets.SecretAccessKey,
		Bucket:          cfg.Assets.Bucket,
		UseSSL:          cfg.Assets.UseSSL,
		Region:          cfg.Assets.Region,
		CertificadorKey: cfg.Assets.CertificadorKey,
	})
	if err != nil {
		log.Fatalf("assets init error: %v", err)
	}

	workflowClient, err := clients.NewWorkflowClient(clients.WorkflowConfig{
		URL:     cfg.Workflow.URL,
		Subject: cfg.Workflow.Subject,
	})
	if err != nil {
		log.Fatalf("workflow init error: %v", err)
	}
	defer workflowClient.Close()

	st := store.NewPostgresStore(db)

	resumenRepo := repository.NewResumenRepository(st)
	detalleRepo := repository.NewDetalleRepository(st)

	labels := domain.DefaultConceptoLabels()

	ordenSvc := service.NewOrdenService(resumenRepo, detalleRepo)
	buscarSvc := service.NewBuscarService(detalleRepo)
	mandanteSvc := service.NewMandanteService(resumenRepo, detalleRepo, labels)
	resumenSvc := service.NewResumenService(resumenRepo, labels)
	certificadoSvc := service.NewCertificadoService(resumenRepo, detalleRepo, labels, assetsClient, redisClient)

	handler := rest.NewHandler(ordenSvc, buscarSvc, mandanteSvc, resumenSvc, certificadoSvc, workflowClient)
	router := handler.InitRouter()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      withCORS(router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on :%s\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srvErr <- err
			return
		}
		srvErr <- nil
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		if err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	case sig := <-stop:
		log.Printf("Shutdown signal received: %v", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server Shutdown error: %v", err)
		}

		log.Println("Shutdown complete")
	}
}

func mustInitPostgres(cfg config.PostgresConfig) *sql.DB {
	db, err := postgres.NewPostgresConnection(postgres.ConnectionInfo{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		DBName:   cfg.DBName,
		SSLMode:  cfg.SSLMode,
		Password: cfg.Password,
	})
	if err != nil {
		log.Fatalf("postgres init error: %v", err)
	}
	return db
}

func mustInitRedis(cfg config.RedisConfig) *clients.RedisClient {
	client, err := clients.NewRedisClient(clients.RedisConfig{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxRetries:  cfg.MaxRetries,
		DialTimeout: time.Duration(cfg.DialTimeout) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		Prefix:      cfg.Prefix,
	})
	if err != nil {
		log.Fatalf("redis init error: %v", err)
	}
	return client
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")

			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
