package main

import (
	"os"

	"order-reconciliation/internal/config"
)

func main() {
	config.LoadEnv()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
