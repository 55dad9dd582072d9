package api

import (
	"net/http"
	"time"

	"algoclub/internal/api/handler"
	"algoclub/internal/api/middleware"
	"algoclub/internal/app/service"
	"algoclub/internal/common/security"
	"algoclub/internal/domain/repository"
	"algoclub/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/jwtauth/v5"
)

type RouterDeps struct {
	Logger              *httplog.Logger
	MemberRepo          repository.MemberRepository
	AuthService         *service.AuthService
	MemberService       *service.MemberService
	ProblemService      *service.ProblemService
	VerificationService *service.VerificationService
	StatsService        *service.StatsService
	LeaderboardService  *service.LeaderboardService
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(httplog.RequestLogger(deps.Logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AppConfig.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Puts verified claims in context; individual route groups decide
	// whether a token is actually required.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(deps.AuthService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		problemHandler := handler.NewProblemHandler(deps.ProblemService)
		v1.Route("/problems", func(pr chi.Router) {
			pr.Use(middleware.Authenticator)
			pr.Use(middleware.ApprovedOnly(deps.MemberRepo))
			problemHandler.RegisterRoutes(pr)
		})

		leaderboardHandler := handler.NewLeaderboardHandler(deps.LeaderboardService)
		v1.Route("/leaderboard", func(lr chi.Router) {
			lr.Use(middleware.Authenticator)
			lr.Use(middleware.ApprovedOnly(deps.MemberRepo))
			leaderboardHandler.RegisterRoutes(lr)
		})

		memberHandler := handler.NewMemberHandler(deps.StatsService, deps.VerificationService)
		v1.Group(func(mr chi.Router) {
			mr.Use(middleware.Authenticator)
			mr.Use(middleware.ApprovedOnly(deps.MemberRepo))
			memberHandler.RegisterRoutes(mr)
		})

		adminHandler := handler.NewAdminHandler(deps.MemberService, deps.ProblemService, deps.VerificationService)
		v1.Route("/admin", func(ar chi.Router) {
			ar.Use(middleware.Authenticator)
			ar.Use(middleware.AdminOnly)
			adminHandler.RegisterRoutes(ar)
		})
	})

	return r
}
