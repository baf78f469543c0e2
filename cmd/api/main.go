package main

import (
	"log"

	"github.com/sagarvd04/imagify-golang/internal/auth"
	"github.com/sagarvd04/imagify-golang/internal/config"
	"github.com/sagarvd04/imagify-golang/internal/database"
	"github.com/sagarvd04/imagify-golang/internal/handlers"
	"github.com/sagarvd04/imagify-golang/internal/models"
	"github.com/sagarvd04/imagify-golang/internal/payments"
	"github.com/sagarvd04/imagify-golang/internal/routes"

	"github.com/joho/godotenv"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	cfg := config.Load()

	// 1. --- Sanity-Check the Plan Table ---
	if err := models.ValidatePlans(); err != nil {
		log.Fatalf("Invalid plan table: %v", err)
	}

	// 2. --- Database Connection ---
	db, err := database.Open(cfg.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 3. --- Payment Gateway Client ---
	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		log.Println("WARNING: RAZORPAY_KEY_ID / RAZORPAY_KEY_SECRET not set. Payment routes will fail.")
	}
	gateway := payments.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	// --- Application Setup ---
	// All dependencies are injected into the Handlers struct; nothing
	// is constructed behind package-level variables.
	app := &handlers.Handlers{
		DB:       db,
		Gateway:  gateway,
		Tokens:   auth.NewTokens(cfg.JWTSecret),
		Currency: cfg.Currency,
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	log.Printf("Starting Imagify API server on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
