package main

import (
	"log"
	"net/http"
	"os"

	"routeboard/internal/config"
	"routeboard/internal/controllers"
	"routeboard/internal/logger"
	"routeboard/internal/middleware"
	"routeboard/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Wire handler collaborators (pager, aggregator, telemetry proxy)
	controllers.Init(config.DB)

	// Setup Gin router
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := ":8080"
	if p := os.Getenv("PORT"); p != "" {
		addr = ":" + p
	}

	log.Printf("Server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
