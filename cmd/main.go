package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jamolkhon5/negotiator/internal/config"
	"github.com/Jamolkhon5/negotiator/internal/dealgen"
	"github.com/Jamolkhon5/negotiator/internal/evaluator"
	"github.com/Jamolkhon5/negotiator/internal/handler"
	"github.com/Jamolkhon5/negotiator/internal/repository"
	"github.com/Jamolkhon5/negotiator/internal/seller"
	"github.com/Jamolkhon5/negotiator/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	// Загрузка конфигурации. Некорректные диапазоны генерации
	// обнаруживаются здесь и роняют старт, а не обработку запросов.
	cfg, err := config.NewConfig(".env")
	if err != nil {
		log.Fatal(err)
	}

	// Хранилище сессий: Postgres при заданном PG_HOST, иначе память процесса
	var store session.Store
	if cfg.PgHost != "" {
		dbURL := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.PgHost, cfg.PgPort, cfg.PgUser, cfg.PgPassword, cfg.PgName)

		db, err := sqlx.Connect("postgres", dbURL)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()

		// Создание таблицы
		_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS negotiation_sessions (
            id VARCHAR(255) PRIMARY KEY,
            created_at TIMESTAMP NOT NULL,
            state VARCHAR(50) NOT NULL,
            data TEXT NOT NULL
        )
    `)
		if err != nil {
			log.Fatal(err)
		}

		store = repository.NewRepository(db)
	} else {
		store = session.NewMemoryStore()
	}

	// Инициализация движка и хендлера
	generator := seller.NewMistralGenerator(cfg.MistralApiKey, cfg.ModelName, cfg.GeneratorTimeout)
	dg := dealgen.NewGenerator(cfg)
	ev := evaluator.New(cfg.EfficientRounds)
	h := handler.NewHandler(store, generator, dg, ev)

	// Настройка роутера
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", h.Health)
	r.Post("/v1/sessions", h.CreateSession)
	r.Get("/v1/sessions", h.ListSessions)
	r.Get("/v1/sessions/{id}", h.GetSession)
	r.Delete("/v1/sessions/{id}", h.DeleteSession)
	r.Post("/v1/sessions/{id}/continue", h.ContinueNegotiation)
	r.Get("/v1/sessions/{id}/evaluation", h.Evaluate)
	r.Post("/v1/chat", h.Chat)

	// Настройка и запуск сервера
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	log.Println("Server exiting")
}
