package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"storefront-go/internal/bootstrap"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to .config.yaml)")
	flag.Parse()

	err := bootstrap.Run(context.Background(), bootstrap.Options{
		ConfigPath: *configPath,
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "storefront failed: %v\n", err)
		os.Exit(1)
	}
}
