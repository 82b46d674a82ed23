package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/companion/config"
	"github.com/grovetools/companion/pkg/router"
)

// Writes the JSON schemas of companion.yml and the router config file.
func main() {
	outputDir := "schema/definitions"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}

	generators := map[string]func() ([]byte, error){
		"companion.schema.json": config.GenerateSchema,
		"router.schema.json":    router.GenerateSchema,
	}
	for name, generate := range generators {
		schemaBytes, err := generate()
		if err != nil {
			log.Fatalf("Error generating %s: %v", name, err)
		}
		outputPath := filepath.Join(outputDir, name)
		if err := os.WriteFile(outputPath, schemaBytes, 0644); err != nil {
			log.Fatalf("Error writing schema file: %v", err)
		}
		log.Printf("Generated %s", outputPath)
	}
}
