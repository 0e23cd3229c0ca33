package main

import (
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	log.SetPrefix("[PORTFOLIO] ")
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
