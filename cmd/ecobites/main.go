package main

import (
	"context"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rookgm/ecobites/config"
	"github.com/rookgm/ecobites/internal/auth"
	"github.com/rookgm/ecobites/internal/geocode"
	handler "github.com/rookgm/ecobites/internal/handler/http"
	"github.com/rookgm/ecobites/internal/logger"
	"github.com/rookgm/ecobites/internal/middleware"
	"github.com/rookgm/ecobites/internal/repository"
	"github.com/rookgm/ecobites/internal/repository/postgres"
	"github.com/rookgm/ecobites/internal/service"
	"github.com/rookgm/ecobites/internal/worker"
	"go.uber.org/zap"
)

// development fallback, override with JWT_SECRET in production
const authTokenKey = "f53ac685bbceebd75043e6be2e06ee07"

func tokenKey(cfg *config.Config) ([]byte, error) {
	if cfg.JWTSecret != "" {
		return []byte(cfg.JWTSecret), nil
	}
	return hex.DecodeString(authTokenKey)
}

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	key, err := tokenKey(cfg)
	if err != nil {
		logger.Log.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(key)

	geocoder := geocode.NewClient(cfg.GeocoderAddr)

	// dependency injection
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	menuRepo := repository.NewMenuRepository(db)

	authService := service.NewAuthService(userRepo, token)
	userService := service.NewUserService(userRepo, geocoder)
	menuService := service.NewMenuService(menuRepo, userRepo)
	orderService := service.NewOrderService(orderRepo, menuRepo, userRepo, geocoder)
	combineService := service.NewCombineService(orderRepo, geocoder)

	authHandler := handler.NewAuthHandler(authService, userService)
	profileHandler := handler.NewProfileHandler(userService)
	restaurantHandler := handler.NewRestaurantHandler(userService)
	menuHandler := handler.NewMenuHandler(menuService)
	orderHandler := handler.NewOrderHandler(orderService)
	combineHandler := handler.NewCombineHandler(combineService)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Post("/api/auth/register", authHandler.RegisterUser())
	router.Post("/api/auth/login", authHandler.LoginUser())
	router.Get("/api/restaurants", restaurantHandler.ListRestaurants())
	router.Get("/api/restaurants/{id}", restaurantHandler.GetRestaurant())
	router.Get("/api/menu/restaurant/{restaurantID}", menuHandler.RestaurantMenu())

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))
		group.Get("/api/auth/me", authHandler.Me())

		group.Post("/api/profile/geocode", profileHandler.GeocodeAddress())
		group.Post("/api/profile/address", profileHandler.UpdateAddress())

		group.Post("/api/menu", menuHandler.CreateMenuItem())
		group.Put("/api/menu/{id}", menuHandler.UpdateMenuItem())
		group.Delete("/api/menu/{id}", menuHandler.DeleteMenuItem())

		group.Post("/api/orders", orderHandler.CreateOrder())
		group.Get("/api/orders/available/drivers", orderHandler.AvailableOrders())
		group.Get("/api/orders/detail/{orderID}", orderHandler.GetOrder())
		group.Get("/api/orders/{role}/{userID}", orderHandler.ListOrdersByRole())
		group.Patch("/api/orders/{orderID}/status", orderHandler.UpdateOrderStatus())
		group.Put("/api/orders/{orderID}/status", orderHandler.UpdateOrderStatus())
		group.Post("/api/orders/combine", combineHandler.CombineOrders())
	})

	// resolve delivery coordinates in the background
	geocodeWorker := worker.NewGeocodeProcessor(orderService)
	go geocodeWorker.ProcessOrders(ctx)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Error starting server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server shutdown failed", zap.Error(err))
	}
}
