package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"taste-tribe/internal/config"
	"taste-tribe/internal/handler"
	"taste-tribe/internal/middleware"
)

type Handlers struct {
	System       *handler.SystemHandler
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Recipe       *handler.RecipeHandler
	Engagement   *handler.EngagementHandler
	Notification *handler.NotificationHandler
	Contact      *handler.ContactHandler
	Admin        *handler.AdminHandler
	Audit        *handler.AuditHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.ClientAddress(cfg.TrustedProxies))
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/", h.System.Welcome)
	r.Get("/health", h.System.Health)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.With(authMiddleware.RequireAuth).Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/check-auth", h.Auth.CheckAuth)
			auth.With(authMiddleware.RequireAuth).Get("/protected", h.Auth.Protected)
		})

		api.Route("/users", func(users chi.Router) {
			users.Post("/", h.User.Create)
			users.With(authMiddleware.RequireAuth).Get("/current", h.User.Current)
			users.With(authMiddleware.RequireAuth).Post("/avatar", h.User.UploadAvatar)
			users.With(authMiddleware.RequireAuth).Get("/{id}", h.User.Get)
			users.With(authMiddleware.RequireAuth).Put("/{id}", h.User.Update)
			users.With(authMiddleware.RequireAuth).Delete("/{id}", h.User.Delete)
		})

		api.Route("/recipes", func(recipes chi.Router) {
			recipes.With(authMiddleware.OptionalAuth).Get("/", h.Recipe.List)
			recipes.With(authMiddleware.RequireAuth).Post("/", h.Recipe.Create)
			recipes.With(authMiddleware.RequireAuth).Get("/user", h.Recipe.ListByUser)
			recipes.With(authMiddleware.RequireAuth).Get("/bookmarked", h.Recipe.ListBookmarked)
			recipes.With(authMiddleware.OptionalAuth).Get("/{id}", h.Recipe.Get)
			recipes.With(authMiddleware.RequireAuth).Put("/{id}", h.Recipe.Update)
			recipes.With(authMiddleware.RequireAuth).Delete("/{id}", h.Recipe.Delete)
			recipes.With(authMiddleware.RequireAuth).Get("/{id}/bookmark", h.Recipe.BookmarkStatus)
			recipes.With(authMiddleware.RequireAuth).Post("/{id}/bookmark", h.Recipe.Bookmark)
			recipes.With(authMiddleware.RequireAuth).Delete("/{id}/bookmark", h.Recipe.Unbookmark)
			recipes.With(authMiddleware.RequireAuth).Post("/{id}/like", h.Recipe.Like)
			recipes.With(authMiddleware.RequireAuth).Delete("/{id}/like", h.Recipe.Unlike)
			recipes.With(authMiddleware.RequireAuth).Put("/{id}/rating", h.Recipe.Rate)
			recipes.Get("/{id}/comments", h.Recipe.Comments)
			recipes.With(authMiddleware.RequireAuth).Post("/{id}/comment", h.Recipe.Comment)
		})

		api.With(authMiddleware.RequireAuth).Get("/bookmarks", h.Recipe.ListBookmarked)
		api.With(authMiddleware.RequireAuth).Get("/likes", h.Recipe.ListLiked)
		api.With(authMiddleware.RequireAuth).Post("/ratings", h.Engagement.Rate)
		api.With(authMiddleware.RequireAuth).Put("/comments/{id}", h.Engagement.UpdateComment)
		api.With(authMiddleware.RequireAuth).Delete("/comments/{id}", h.Engagement.DeleteComment)

		api.Route("/notifications", func(notifications chi.Router) {
			notifications.Use(authMiddleware.RequireAuth)
			notifications.Get("/", h.Notification.List)
			notifications.Put("/read-all", h.Notification.MarkAllRead)
			notifications.Put("/{id}/read", h.Notification.MarkRead)
			notifications.Delete("/{id}", h.Notification.Delete)
		})

		api.Post("/contact", h.Contact.Submit)

		api.Route("/admin", func(admin chi.Router) {
			admin.Post("/login", h.Auth.AdminLogin)

			admin.Group(func(protected chi.Router) {
				protected.Use(authMiddleware.RequireAuth, authMiddleware.RequireAdmin)
				protected.Get("/users", h.Admin.ListUsers)
				protected.Put("/users/{id}/role", h.Admin.SetRole)
				protected.Delete("/users/{id}", h.Admin.DeleteUser)
				protected.Delete("/recipes/{id}", h.Admin.DeleteRecipe)
				protected.Delete("/comments/{id}", h.Admin.DeleteComment)
				protected.Get("/contact", h.Contact.List)
				protected.Get("/stats", h.Admin.Stats)
				protected.Get("/audit", h.Audit.List)
			})
		})
	})

	return r
}
