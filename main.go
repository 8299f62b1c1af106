package main

import (
	"log"

	"github.com/joho/godotenv"

	"autolyze/cmd"
)

func main() {
	// .env is optional; environment variables win either way
	if err := godotenv.Load(); err != nil {
		log.Printf("[autolyze] no .env file loaded: %v", err)
	}
	cmd.Execute()
}
