// Package main is the entry point for the patternlab API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/guillaumesax/patternlab/pkg/api"
	"github.com/guillaumesax/patternlab/pkg/config"
)

func main() {
	cfg := config.Load()
	port := flag.String("port", cfg.Port, "Server port")
	flag.Parse()

	fmt.Printf("Starting patternlab API server on port %s...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%s/swagger/index.html\n", *port)

	if err := api.StartServer(*port); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
