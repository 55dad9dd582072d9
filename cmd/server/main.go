package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"algoclub/internal/api"
	"algoclub/internal/app/service"
	"algoclub/internal/common/security"
	"algoclub/internal/domain/repository"
	"algoclub/internal/judge"
	"algoclub/internal/platform/cache"
	"algoclub/internal/platform/config"
	"algoclub/internal/platform/database"

	"github.com/go-chi/httplog/v2"
)

func main() {
	// 1. Load Configuration
	config.Load()

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Initialize Database
	database.Connect()
	defer database.Close()

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()

	logger := httplog.NewLogger("algoclub", httplog.Options{
		LogLevel: slog.LevelInfo,
		Concise:  true,
	})

	// 5. Initialize Repositories
	memberRepo := repository.NewPgMemberRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)
	solveRepo := repository.NewPgSolveRepository(database.DB)

	// 6. Judge client, shared by every service that talks to Codeforces
	// so the rate limit covers the whole process.
	judgeClient := judge.NewClient(
		config.AppConfig.CFBaseURL,
		judge.NewLimiter(config.AppConfig.CFMinInterval),
		judge.WithSubmissionWindow(config.AppConfig.CFSubmissionWindow),
		judge.WithTimeout(config.AppConfig.CFRequestTimeout),
	)

	// 7. Initialize Services
	authService := service.NewAuthService(memberRepo)
	memberService := service.NewMemberService(memberRepo, judgeClient, logger.Logger)
	problemService := service.NewProblemService(problemRepo, judgeClient)
	verificationService := service.NewVerificationService(memberRepo, problemRepo, solveRepo, judgeClient, logger.Logger)
	statsService := service.NewStatsService(memberService, problemRepo, solveRepo)
	leaderboardService := service.NewLeaderboardService(memberRepo, solveRepo, cache.RDB,
		config.AppConfig.LeaderboardCacheTTL, logger.Logger)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(api.RouterDeps{
		Logger:              logger,
		MemberRepo:          memberRepo,
		AuthService:         authService,
		MemberService:       memberService,
		ProblemService:      problemService,
		VerificationService: verificationService,
		StatsService:        statsService,
		LeaderboardService:  leaderboardService,
	})

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
