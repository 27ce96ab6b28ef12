package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/dannyvk/shorthand/cli/cmd"
)

func main() {
	rand.Seed(time.Now().UnixNano())
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
