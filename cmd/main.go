package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/richard-senior/spiro/internal/config"
	"github.com/richard-senior/spiro/internal/logger"
	"github.com/richard-senior/spiro/pkg/server"
	"github.com/richard-senior/spiro/pkg/spiro"
	"github.com/richard-senior/spiro/pkg/store"
	"github.com/richard-senior/spiro/pkg/tools"
	"github.com/richard-senior/spiro/pkg/transport"
	"github.com/richard-senior/spiro/pkg/web"
)

func main() {
	cfg := config.DefaultConfig()

	httpAddr := flag.String("http", "", "Serve the interactive page on this address, e.g. "+cfg.HTTPAddr)
	mcp := flag.Bool("mcp", false, "Serve the curve tools as JSON-RPC over stdin/stdout")
	outputFile := flag.String("output", "", "Write the SVG here instead of stdout")
	dbPath := flag.String("db", cfg.DbPath, "Database holding the saved settings")
	memory := flag.Bool("memory", false, "Do not load or save settings")
	shuffle := flag.Bool("shuffle", false, "Randomize A, B and C before drawing")
	width := flag.Int("width", cfg.CanvasWidth, "SVG width in pixels")
	height := flag.Int("height", cfg.CanvasHeight, "SVG height in pixels")
	debug := flag.Bool("debug", false, "Enable debug logging")
	logOutput := flag.String("log", "c", "Log destination: c (console), f (file) or b (both)")
	flag.Parse()

	cfg.DbPath = *dbPath
	cfg.CanvasWidth = *width
	cfg.CanvasHeight = *height
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if err := config.UpdateConfig(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// stdout carries protocol traffic in mcp mode
	output := 'c'
	if len(*logOutput) == 1 {
		output = rune((*logOutput)[0])
	}
	if *mcp {
		output = 'f'
	}
	logger.SetLogPath(cfg.LogPath)
	if err := logger.SetLogOutput(output); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Close()
	logger.SetShowDateTime(true)
	if *debug {
		logger.SetLevel(logger.DEBUG)
	}

	session, st := openSession(cfg, *memory)
	defer st.Close()
	if *shuffle {
		session.Randomize()
	}
	opts := spiro.DrawOptions{
		Width:      cfg.CanvasWidth,
		Height:     cfg.CanvasHeight,
		Margin:     cfg.Margin,
		Background: cfg.Background,
		Title:      "Spiro",
	}

	var err error
	switch {
	case *mcp:
		err = runMCP(session, opts)
	case *httpAddr != "":
		err = runHTTP(session, opts, cfg.HTTPAddr)
	default:
		err = writeSVG(session, opts, *outputFile)
	}
	if err != nil {
		logger.Error("Spiro failed:", err)
	}

	if saveErr := session.Save(); saveErr != nil {
		logger.Error("Failed to save settings:", saveErr)
	}
	if err != nil {
		logger.Close()
		os.Exit(1)
	}
}

// openSession builds the startup model. A store that cannot be opened is
// logged and replaced by an in-memory one, so the session starts from
// randomized defaults and the process carries on.
func openSession(cfg *config.SpiroConfig, memory bool) (*spiro.Session, store.Store) {
	st, err := openStore(cfg, memory)
	if err != nil {
		logger.Warn("Settings store unavailable, settings will not persist:", err)
		st = store.NewMemoryStore()
	}
	return spiro.NewSession(st, cfg.AppKey), st
}

// openStore returns the sqlite store at the configured path, or a throwaway
// in-memory store
func openStore(cfg *config.SpiroConfig, memory bool) (store.Store, error) {
	if memory {
		return store.NewMemoryStore(), nil
	}
	if err := cfg.EnsureAssetsPath(); err != nil {
		return nil, err
	}
	return store.OpenSQLite(cfg.DbPath)
}

func writeSVG(session *spiro.Session, opts spiro.DrawOptions, path string) error {
	drawing, err := session.Frame().Drawing(opts)
	if err != nil {
		return err
	}
	if path == "" {
		_, err = drawing.WriteTo(os.Stdout)
		return err
	}
	if err := os.WriteFile(path, []byte(drawing.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("Wrote", path)
	return nil
}

func runHTTP(session *spiro.Session, opts spiro.DrawOptions, addr string) error {
	logger.Highlight("Spiro page at http://" + addr)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return web.Serve(ctx, addr, web.NewServer(session, opts))
}

func runMCP(session *spiro.Session, opts spiro.DrawOptions) error {
	s := server.New(transport.NewStdioTransport())
	for _, r := range tools.NewSpiroTools(session, opts).Tools() {
		s.RegisterTool(r.Tool, server.HandlerFunc(r.Handler))
	}
	return s.Start()
}
