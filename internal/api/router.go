package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// AIEndpoints - два AI-эндпоинта, живущие вне /api/v1 (как исходные
// edge-функции)
type AIEndpoints interface {
	Options(w http.ResponseWriter, r *http.Request)
	CreateTaskWithAI(w http.ResponseWriter, r *http.Request)
	GetTaskSuggestions(w http.ResponseWriter, r *http.Request)
}

type TaskEndpoints interface {
	ListTasks(w http.ResponseWriter, r *http.Request)
	GetTask(w http.ResponseWriter, r *http.Request)
	UpdateTask(w http.ResponseWriter, r *http.Request)
	DeleteTask(w http.ResponseWriter, r *http.Request)
}

type AuthEndpoints interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

func NewRouter(
	aiHandler AIEndpoints,
	taskHandler TaskEndpoints,
	authHandler AuthEndpoints,
	authMiddleware *AuthMiddleware,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// AI-эндпоинты: авторизацию делают сами, ошибки отдают как {"error": ...}
	r.Post("/create-task-with-ai", aiHandler.CreateTaskWithAI)
	r.Options("/create-task-with-ai", aiHandler.Options)
	r.Post("/get-task-suggestions", aiHandler.GetTaskSuggestions)
	r.Options("/get-task-suggestions", aiHandler.Options)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.With(authMiddleware.Wrap).Post("/logout", authHandler.Logout)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(authMiddleware.Wrap)
			r.Get("/", taskHandler.ListTasks)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTask)
				r.Put("/", taskHandler.UpdateTask)
				r.Delete("/", taskHandler.DeleteTask)
			})
		})
	})

	// CORS для браузерного фронта; preflight отвечает 204
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey"},
	})

	return c.Handler(r)
}
