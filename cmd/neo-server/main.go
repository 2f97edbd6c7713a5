package main

import (
	"fmt"
	"log"
	"net/http"

	"neo-assistant-backend/internal/config"
	"neo-assistant-backend/internal/server"
)

func main() {
	cfg := config.Load()
	s, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	addr := ":" + cfg.Port
	fmt.Printf("NEO server listening on %s\n", addr)
	err = http.ListenAndServe(addr, s.Router())
	s.Close()
	log.Fatalf("server stopped: %v", err)
}
