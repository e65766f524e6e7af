package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	coachmcp "github.com/claude/presscoach/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "PressCoach server URL (e.g. https://presscoach.tail1234.ts.net)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("presscoach-mcp", Version)
		return
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: presscoach-mcp -server <URL>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	client := coachmcp.NewHTTPClient(*serverURL)
	s := coachmcp.New(client, client, Version, log)

	log.Info("mcp stdio bridge starting", "server", *serverURL)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
