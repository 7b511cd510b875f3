package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mealmate/internal/dbmysql"
	"mealmate/internal/di"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	log.Println("Initializing application...")
	app, err := di.InitializeApplication()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.DB.AutoMigrate(
		&dbmysql.Notification{},
		&dbmysql.Device{},
		&dbmysql.PantryItem{},
		&dbmysql.GroceryList{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", app.Config.Server.Port),
		Handler:      app.Handler.Router(),
		ReadTimeout:  time.Duration(app.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(app.Config.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Notification service listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	app.Service.Shutdown()

	if app.Mongo != nil {
		if err := app.Mongo.Close(ctx); err != nil {
			log.Printf("Mongo disconnect error: %v", err)
		}
	}

	log.Println("Server stopped")
}
