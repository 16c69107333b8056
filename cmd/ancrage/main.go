// Command ancrage anchors Web Annotation selectors onto a document and
// prints the renderable segment list.
//
// Usage:
//
//	ancrage -doc page.html -annotations anns.json       # one-shot segmentation
//	ancrage -doc page.html -annotations anns.json -markdown
//	ancrage -config ancrage.yaml -mcp                   # MCP server over stdio
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/ancrage/annopipe"
	"github.com/hazyhaar/ancrage/selector"
)

func main() {
	configPath := flag.String("config", "", "path to ancrage.yaml config file")
	docPath := flag.String("doc", "", "document file (txt, md, html, pdf)")
	annPath := flag.String("annotations", "", "JSON file with Web Annotation objects")
	markdown := flag.Bool("markdown", false, "anchor against a Markdown rendition of HTML documents")
	logDB := flag.String("log-db", "", "SQLite database for anchoring diagnostics")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	mcpMode := flag.Bool("mcp", false, "serve MCP tools over stdio")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *docPath, *annPath, *markdown, *logDB, *mcpMode); err != nil {
		logger.Error("ancrage: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, docPath, annPath string, markdown bool, logDB string, mcpMode bool) error {
	cfg, err := resolveConfig(configPath, markdown, logDB)
	if err != nil {
		return err
	}
	cfg.Logger = logger

	pipe, err := annopipe.New(*cfg)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer pipe.Close()

	if mcpMode {
		srv := mcp.NewServer(&mcp.Implementation{Name: "ancrage", Version: "0.1.0"}, nil)
		pipe.RegisterMCP(srv)
		logger.Info("ancrage: serving MCP over stdio")
		return srv.Run(ctx, &mcp.StdioTransport{})
	}

	if docPath == "" {
		fmt.Fprintln(os.Stderr, "usage: ancrage -doc <file> [-annotations <file>] [-markdown] | -mcp")
		os.Exit(1)
	}

	doc, err := pipe.LoadText(ctx, docPath)
	if err != nil {
		return err
	}

	var anns []selector.Annotation
	if annPath != "" {
		data, err := os.ReadFile(annPath)
		if err != nil {
			return fmt.Errorf("read annotations: %w", err)
		}
		anns, err = selector.DecodeAnnotations(data)
		if err != nil {
			return err
		}
	}

	segs := pipe.Segments(doc.Text, anns)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(segs)
}

func resolveConfig(configPath string, markdown bool, logDB string) (*annopipe.Config, error) {
	cfg := &annopipe.Config{}
	if configPath != "" {
		loaded, err := annopipe.LoadConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if markdown {
		cfg.Doc.Markdown = true
	}
	if logDB != "" {
		cfg.LogDBPath = logDB
	}
	return cfg, nil
}
