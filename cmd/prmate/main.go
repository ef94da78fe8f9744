package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/prmatehq/prmate/internal/cli"
)

func main() {
	// Local runs can keep credentials in a .env file; CI sets real env vars.
	_ = godotenv.Load()

	os.Exit(cli.Run())
}
