package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/pixegami/task-assist/internal/ai"
	"github.com/pixegami/task-assist/internal/api"
	"github.com/pixegami/task-assist/internal/api/handlers"
	"github.com/pixegami/task-assist/internal/config"
	infraauth "github.com/pixegami/task-assist/internal/infrastructure/auth"
	"github.com/pixegami/task-assist/internal/infrastructure/client"
	"github.com/pixegami/task-assist/internal/repository"
	"github.com/pixegami/task-assist/internal/usecase"
	"github.com/pixegami/task-assist/internal/worker"
)

func main() {
	var wg sync.WaitGroup

	cfg := config.Load()

	// Запускаем миграции
	if err := runMigrations(cfg.DatabaseURL()); err != nil {
		log.Fatal("❌ Ошибка миграций:", err)
	}

	// Подключаемся к БД
	db, err := client.NewPostgresClient(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("❌ Ошибка подключения к БД:", err)
	}
	defer db.Close()
	fmt.Println("✅ Подключение к БД установлено")

	// Подключаемся к RabbitMQ
	rabbitMQ, err := client.NewRabbitMQClient(cfg.RabbitMQURL())
	if err != nil {
		log.Fatal("❌ Ошибка подключения к RabbitMQ:", err)
	}
	defer rabbitMQ.Close()
	fmt.Println("✅ Подключение к RabbitMQ установлено")

	// Инициализируем репозитории
	userRepo := repository.NewUserRepository(db.GetPool())
	taskRepo := repository.NewTaskRepository(db.GetPool())
	taskAuditRepo := repository.NewTaskAuditRepository(db.GetPool())
	refreshTokenRepo := repository.NewRefreshTokenRepository(db.GetPool())

	// Инфраструктура
	jwtManager := infraauth.NewJWTManager(cfg.JWTSecret)
	passwordManager := infraauth.NewPasswordManager()
	openaiClient := ai.NewClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	if !openaiClient.Configured() {
		fmt.Println("⚠️ OPENAI_API_KEY не задан: задачи будут создаваться без меток, а подсказки отключены")
	}

	// Инициализируем сервисы
	taskService := usecase.NewTaskService(taskRepo, userRepo, rabbitMQ, openaiClient)
	assistantService := usecase.NewAssistantService(openaiClient)
	authService := usecase.NewAuthService(userRepo, refreshTokenRepo, passwordManager, jwtManager)

	// Запускаем воркер для обработки аудит-сообщений
	auditWorker := worker.NewAuditWorker(rabbitMQ, taskAuditRepo)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		auditWorker.Start(workerCtx)
	}()

	// HTTP
	aiHandler := handlers.NewAIHandler(taskService, assistantService, jwtManager)
	taskHandler := handlers.NewTaskHandler(taskService)
	authHandler := handlers.NewAuthHandler(authService)
	authMiddleware := api.NewAuthMiddleware(jwtManager)

	router := api.NewRouter(aiHandler, taskHandler, authHandler, authMiddleware)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		fmt.Printf("🚀 HTTP сервер запущен на порту %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("❌ HTTP server error: %v", err)
		}
	}()

	// Ждем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("🛑 Останавливаемся...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Ошибка остановки HTTP сервера: %v", err)
	}

	workerCancel()
	wg.Wait()
	fmt.Println("✅ Остановлено")
}

func runMigrations(dbURL string) error {
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	fmt.Println("✅ Миграции применены")
	return nil
}
