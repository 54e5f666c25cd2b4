// Command fcapply is a stdlib-flag CLI around the directive apply
// pipeline: read a document from a file or stdin, extract its
// <FILE_CHANGES> block, apply it against a base directory, and print
// the resulting status list as JSON or YAML.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"filechanges/internal/apply"
	"filechanges/internal/extract"
	"filechanges/internal/obslog"
)

func main() {
	log.SetFlags(0)
	_ = godotenv.Overload()

	var (
		base     = flag.String("base", ".", "base directory directives are applied relative to")
		format   = flag.String("format", "json", "status output format: json or yaml")
		logLevel = flag.String("log-level", "warn", "log level: debug, info, warn, error")
		logFile  = flag.String("log-file", "", "write logs to this file instead of stderr")
	)
	flag.Parse()
	obslog.Init(*logFile, *logLevel)

	var input string
	if args := flag.Args(); len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatalf("read %s: %v", args[0], err)
		}
		input = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("read stdin: %v", err)
		}
		input = string(data)
	}

	changes, _ := extract.ExtractFileChanges(input, false)
	if changes.IsEmpty() {
		log.Fatal("no <FILE_CHANGES> block found in input")
	}

	status, err := apply.Run(context.Background(), *base, changes)
	if err != nil {
		log.Fatalf("apply: %v", err)
	}

	if err := printStatus(status, *format); err != nil {
		log.Fatalf("render status: %v", err)
	}
}

func printStatus(status any, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(status)
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			return fmt.Errorf("encoding status: %w", err)
		}
		return nil
	}
}
