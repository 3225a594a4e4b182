package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"cinehub/internal/auth"
	"cinehub/internal/bookmarks"
	"cinehub/internal/catalog"
	"cinehub/internal/events"
	"cinehub/internal/omdb"
	"cinehub/internal/testimonials"
	"cinehub/internal/titles"
	"cinehub/internal/trailers"
	"cinehub/pkg/database"
	"cinehub/pkg/utils"
)

func main() {
	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Start TCP event fan-out first (so you notice binding errors early)
	hub := events.NewHub()
	router.GET("/ws", events.WSHandler(hub))
	tcpSrv := events.NewServer(":7070", hub)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	apiCfg := utils.LoadAPIConfig()
	if apiCfg.OMDBKey == "" {
		log.Println("[api-server] CINEHUB_OMDB_API_KEY not set; catalog fetches will report a configuration error")
	}

	// Titles cache (public)
	titleRepo := titles.NewRepo(db)
	titleHandler := titles.NewHandler(titleRepo)
	titlesGroup := router.Group("/titles")
	titleHandler.RegisterRoutes(titlesGroup)

	// Trailer lookup rides on the titles group
	trailerClient := trailers.NewClient(apiCfg.YouTubeKey)
	trailerHandler := trailers.NewHandler(trailerClient, titleRepo)
	trailerHandler.RegisterRoutes(titlesGroup)

	// Catalog (public)
	store := catalog.NewStore(catalog.DefaultCategories())
	source := omdb.NewClient(apiCfg.OMDBKey)
	coordinator := catalog.NewCoordinator(store, source, titleRepo)
	catalogHandler := catalog.NewHandler(coordinator)
	catalogHandler.RegisterRoutes(router.Group("/catalog"))
	catalogHandler.RegisterRootRoutes(router)

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Protected routes
	protected := router.Group("/users")
	protected.Use(auth.AuthMiddleware(tokenSvc, authRepo))
	authHandler.RegisterProfileRoutes(protected)

	// Bookmarks (protected)
	bookmarkRepo := bookmarks.NewRepo(db)
	bookmarkHandler := bookmarks.NewHandler(bookmarkRepo, hub)
	bookmarkHandler.RegisterRoutes(protected)

	// Testimonials (public list, protected create/delete; avatar falls back
	// to the signed-in profile)
	testimonialRepo := testimonials.NewRepo(db)
	testimonialHandler := testimonials.NewHandler(testimonialRepo, authRepo, hub)
	testimonialHandler.RegisterPublicRoutes(router.Group("/"))
	testimonialHandler.RegisterProtectedRoutes(protected)

	httpSrv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Println("HTTP API server listening on :8080")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
