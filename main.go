package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Artem18071998/portfolio/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
