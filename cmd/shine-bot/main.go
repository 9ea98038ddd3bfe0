package main

import (
	"os"

	"github.com/eoscanada/shine-bot/internal/app"
)

func main() {
	runner := app.NewRunner()
	os.Exit(runner.Run(os.Args[1:]))
}
