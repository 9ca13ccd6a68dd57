package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"habitforge/internal/config"
	"habitforge/internal/serverapp"
)

func main() {
	// A missing .env is fine; the anthropic key usually lives there in dev.
	_ = godotenv.Load()

	cfg, err := config.LoadOrDefault("habitforge.yml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	config.FromEnv(cfg)

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config: cfg,
		Logger: log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	log.Printf("listening on http://localhost%s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, handler))
}
