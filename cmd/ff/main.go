package main

import (
	"github.com/joho/godotenv"

	"flowfocus/cmd/ff/root"
)

func main() {
	// Optional .env for FF_* overrides; absence is fine.
	_ = godotenv.Load()
	root.Execute()
}
