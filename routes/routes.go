package routes

import (
	"github.com/Fermalla/golf-league-system/handlers"
	"github.com/Fermalla/golf-league-system/middleware"
	"github.com/Fermalla/golf-league-system/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

// SetupRoutes wires every endpoint onto the router. Read endpoints are
// public, every mutating endpoint requires a valid admin token.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	courseHandler *handlers.CourseHandler,
	roundHandler *handlers.RoundHandler,
	leagueHandler *handlers.LeagueHandler,
	achievementHandler *handlers.AchievementHandler,
	statsHandler *handlers.StatsHandler,
	webSocketHandler *handlers.WebSocketHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", healthHandler.Health)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.GetAllPlayers)
		r.Get("/{playerID}", playerHandler.GetPlayerByID)
		r.Get("/{playerID}/profile", statsHandler.GetPlayerProfile)
		r.Get("/{playerID}/achievements", achievementHandler.ListPlayerAchievements)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(services.AdminRole))

			r.Post("/", playerHandler.CreatePlayer)
			r.Put("/{playerID}", playerHandler.UpdatePlayer)
			r.Post("/{playerID}/photo", playerHandler.UploadPlayerPhoto)
			r.Delete("/{playerID}", playerHandler.DeletePlayer)
			r.Post("/{playerID}/achievements/{achievementID}", achievementHandler.GrantToPlayer)
			r.Delete("/{playerID}/achievements/{achievementID}", achievementHandler.RevokeFromPlayer)
		})
	})

	router.Route("/courses", func(r chi.Router) {
		r.Get("/", courseHandler.GetAllCourses)
		r.Get("/{courseID}", courseHandler.GetCourseByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(services.AdminRole))

			r.Post("/", courseHandler.CreateCourse)
			r.Put("/{courseID}", courseHandler.UpdateCourse)
			r.Put("/{courseID}/holes", courseHandler.ReplaceHoles)
			r.Post("/{courseID}/logo", courseHandler.UploadCourseLogo)
			r.Delete("/{courseID}", courseHandler.DeleteCourse)
		})
	})

	router.Route("/rounds", func(r chi.Router) {
		r.Get("/", roundHandler.GetAllRounds)
		r.Get("/{roundID}", roundHandler.GetRoundByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(services.AdminRole))

			r.Post("/", roundHandler.CreateRound)
			r.Put("/{roundID}/players/{playerID}/card", roundHandler.SubmitCard)
			r.Post("/{roundID}/resolve", roundHandler.ResolveRound)
			r.Delete("/{roundID}", roundHandler.DeleteRound)
		})
	})

	router.Route("/leagues", func(r chi.Router) {
		r.Get("/", leagueHandler.GetAllLeagues)
		r.Get("/{leagueID}", leagueHandler.GetLeagueByID)
		r.Get("/{leagueID}/standings", leagueHandler.GetStandings)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(services.AdminRole))

			r.Post("/", leagueHandler.CreateLeague)
			r.Put("/{leagueID}", leagueHandler.UpdateLeague)
			r.Post("/{leagueID}/close", leagueHandler.CloseLeague)
			r.Post("/{leagueID}/logo", leagueHandler.UploadLeagueLogo)
			r.Delete("/{leagueID}", leagueHandler.DeleteLeague)
		})
	})

	router.Route("/achievements", func(r chi.Router) {
		r.Get("/", achievementHandler.GetAllAchievements)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(services.AdminRole))

			r.Post("/", achievementHandler.CreateAchievement)
			r.Put("/{achievementID}", achievementHandler.UpdateAchievement)
			r.Delete("/{achievementID}", achievementHandler.DeleteAchievement)
		})
	})

	router.Get("/rankings", statsHandler.GetRankings)
	router.Get("/ws/rounds/{roundID}", webSocketHandler.ServeRound)
}
