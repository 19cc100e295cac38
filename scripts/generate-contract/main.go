package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	contactform "github.com/goliatone/go-contactform"
)

func main() {
	var (
		outputPath = flag.String("output", "dist/openapi.json", "output path for the JSON contract")
		asYAML     = flag.Bool("yaml", false, "write the YAML source instead of JSON")
	)
	flag.Parse()

	if err := run(context.Background(), *outputPath, *asYAML); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, outputPath string, asYAML bool) error {
	payload := contactform.ContractYAML()
	if !asYAML {
		data, err := contactform.ContractJSON(ctx)
		if err != nil {
			return fmt.Errorf("render contract: %w", err)
		}
		payload = append(data, '\n')
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outputPath, payload, 0o644); err != nil {
		return fmt.Errorf("write contract: %w", err)
	}
	fmt.Printf("Contract written to %s\n", outputPath)
	return nil
}
