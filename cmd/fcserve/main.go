// Command fcserve exposes the directive apply pipeline as a single MCP
// tool, apply_file_changes, over stdio — the server-side counterpart to
// the go-sdk client the rest of the stack uses to talk to tool servers.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	mcppkg "github.com/modelcontextprotocol/go-sdk/mcp"

	"filechanges/internal/apply"
	"filechanges/internal/extract"
	"filechanges/internal/obslog"
)

type applyFileChangesParams struct {
	BaseDir  string `json:"base_dir" jsonschema:"base directory the document's directives are applied relative to"`
	Document string `json:"document" jsonschema:"text containing a <FILE_CHANGES> block"`
}

func main() {
	log.SetFlags(0)
	_ = godotenv.Overload()

	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	logFile := flag.String("log-file", "", "write logs to this file instead of stderr")
	flag.Parse()
	obslog.Init(*logFile, *logLevel)

	impl := &mcppkg.Implementation{Name: "fcserve", Version: "0.1.0"}
	server := mcppkg.NewServer(impl, nil)

	mcppkg.AddTool(server, &mcppkg.Tool{
		Name:        "apply_file_changes",
		Description: "Extracts a <FILE_CHANGES> block from a document and applies it against a base directory.",
	}, applyFileChanges)

	if err := server.Run(context.Background(), &mcppkg.StdioTransport{}); err != nil {
		log.Fatalf("fcserve: %v", err)
	}
}

func applyFileChanges(ctx context.Context, req *mcppkg.CallToolRequest, params applyFileChangesParams) (*mcppkg.CallToolResult, any, error) {
	changes, _ := extract.ExtractFileChanges(params.Document, false)
	if changes.IsEmpty() {
		return &mcppkg.CallToolResult{
			Content: []mcppkg.Content{&mcppkg.TextContent{Text: "no <FILE_CHANGES> block found in document"}},
			IsError: true,
		}, nil, nil
	}

	base := params.BaseDir
	if base == "" {
		base = "."
	}

	status, err := apply.Run(ctx, base, changes)
	if err != nil {
		return &mcppkg.CallToolResult{
			Content: []mcppkg.Content{&mcppkg.TextContent{Text: err.Error()}},
			IsError: true,
		}, nil, nil
	}

	return &mcppkg.CallToolResult{StructuredContent: status}, status, nil
}
