package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tmc/langchaingo/llms/openai"

	"gtm-backend/cmd"
	"gtm-backend/internal/api"
	"gtm-backend/internal/database"
	"gtm-backend/internal/strategy"
)

type APIConfig struct {
	DatabaseURL   string `env:"DATABASE_URL,notEmpty,required"`
	JWTSecret     string `env:"JWT_SECRET,notEmpty,required"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4-turbo-preview"`
	APIPort       string `env:"API_PORT" envDefault:"8001"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN" envDefault:"*"`
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Generation goes through the openai-go client, consultation through
	// langchaingo. Both read OPENAI_API_KEY from the environment.
	generator := strategy.NewOpenAIGateway(cfg.OpenAIModel)

	consultLLM, err := openai.New(openai.WithModel(cfg.OpenAIModel))
	if err != nil {
		log.Fatalf("Failed to create consultation LLM client: %v", err)
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	backend := api.NewBackendService(db, generator)
	consult := api.NewConsultService(db, consultLLM)

	r.Get("/health", api.RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(api.AuthMiddleware(cfg.JWTSecret))
		backend.AddRoutes(r)
		consult.AddRoutes(r)
	})

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}
