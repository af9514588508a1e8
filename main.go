package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"slotboard/autounslot"
	"slotboard/config"
	"slotboard/db"
	"slotboard/gate"
	"slotboard/handlers"
	"slotboard/host"
	"slotboard/live"
	"slotboard/matches"
	"slotboard/mq"
	"slotboard/ratelim"
	"slotboard/rdx"
	"slotboard/routes"
	"slotboard/shares"
	"slotboard/slots"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	database, err := db.Connect(initCtx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	redisConn, err := rdx.Connect(initCtx, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}

	matchStore := matches.NewMongoStore(database.Matches)
	shareStore := shares.NewMongoStore(database.ShareTokens)
	engine := slots.NewEngine(matchStore)
	forum := host.NewClient(cfg.ForumBaseURL)
	g := gate.New(cfg, forum, shareStore)

	hub := live.NewHub()
	go hub.Run()

	unslotSvc := autounslot.New(engine, mq.NewEmitter(redisConn))
	go mq.StartAttendanceWorker(ctx, redisConn, unslotSvc)

	rateLimiter := ratelim.NewRateLimiter(5, 10)

	router := httprouter.New()
	routes.AddUtilityRoutes(router)
	api := handlers.New(cfg, g, matchStore, engine, shareStore, hub)
	routes.AddSlottingRoutes(router, cfg, api, g, rateLimiter, hub)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", gate.HeaderAPIKey, gate.HeaderShareToken},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           loggingMiddleware(securityHeaders(corsHandler)),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}
	server.RegisterOnShutdown(func() {
		hub.Stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutdown signal received; shutting down gracefully...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}
	if err := database.Close(shutdownCtx); err != nil {
		log.Printf("mongo disconnect: %v", err)
	}
	if err := redisConn.Close(); err != nil {
		log.Printf("redis close: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
