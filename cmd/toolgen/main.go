package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"toolgen/internal/di"
	"toolgen/internal/infrastructure/env"
)

func main() {
	var (
		url        = flag.String("url", "", "target page URL (required)")
		site       = flag.String("site", "", "site label for tool names (derived from URL when empty)")
		skipAuth   = flag.Bool("skip-auth", false, "skip the authentication detection stage")
		createPkg  = flag.Bool("package", false, "package the synthesized tool set")
		deploy     = flag.Bool("deploy", false, "deploy the package (implies -package)")
		jsonOutput = flag.Bool("json", false, "print the full run result as JSON")
	)
	flag.Parse()

	if *url == "" {
		flag.Usage()
		os.Exit(2)
	}

	envService := env.NewEnvService()
	container, err := di.NewContainer(envService)
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}
	defer container.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := container.Defaults
	opts.SkipAuth = *skipAuth
	opts.CreatePackage = *createPkg || *deploy
	opts.Deploy = *deploy

	result := container.Runner.Run(ctx, *url, *site, opts)

	if *jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("failed to encode result: %v", err)
		}
		fmt.Println(string(data))
	} else {
		for _, step := range result.Steps {
			fmt.Printf("[%6dms] %s\n", step.ElapsedMS, step.Message)
		}
		if result.Success {
			fmt.Printf("\nOK: %d tools in %dms", result.ToolsCount, result.ElapsedMS)
			if result.PackagePath != "" {
				fmt.Printf(", package at %s", result.PackagePath)
			}
			fmt.Println()
		} else {
			fmt.Printf("\nFAILED at %s: %s\n", result.FailedAt, result.Error)
		}
	}

	if !result.Success {
		os.Exit(1)
	}
}
