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

	"oficios-server/config"
	"oficios-server/database"
	"oficios-server/routes"
	ws "oficios-server/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}

	if os.Getenv("SEED_CATEGORIES") == "true" {
		if err := seedCategories(db); err != nil {
			log.Printf("category seeding failed: %v", err)
		}
	}

	hub := ws.NewHub()
	go hub.Run()

	router := routes.Setup(cfg, db, hub)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	if err := database.Close(db); err != nil {
		log.Printf("closing database: %v", err)
	}
}
