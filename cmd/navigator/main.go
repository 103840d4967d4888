package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/navigator"
	"github.com/fwojciec/navigator/crawl"
	"github.com/fwojciec/navigator/gemini"
	"github.com/fwojciec/navigator/goquery"
	navhttp "github.com/fwojciec/navigator/http"
	"github.com/fwojciec/navigator/rod"
	navslog "github.com/fwojciec/navigator/slog"
	"github.com/fwojciec/navigator/sqlite"
	"github.com/fwojciec/navigator/toml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		m.Close()
		os.Exit(1)
	}
	m.Close()
}

// Main represents the program.
type Main struct {
	// Database and config paths. Set before calling Run(); flags and
	// environment variables override them.
	DBPath     string
	ConfigPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	logFile io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	dir := dataDir()
	return &Main{
		DBPath:     filepath.Join(dir, "navigator.db"),
		ConfigPath: filepath.Join(dir, "config.toml"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.logFile != nil {
		m.logFile.Close()
		m.logFile = nil
	}
	if m.DB != nil {
		err := m.DB.Close()
		m.DB = nil
		return err
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("navigator"),
		kong.Description("Scan, fetch, index and question web documentation"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'navigator --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	if cli.Config != "" {
		m.ConfigPath = cli.Config
	}

	cfg, err := toml.Load(m.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Fix or remove %s, or set NAVIGATOR_CONFIG\n", m.ConfigPath)
		return fmt.Errorf("failed to load config: %w", err)
	}
	timeout, err := cfg.FetchTimeout()
	if err != nil {
		return err
	}

	logOut := stderr
	if cli.LogFile != "" {
		w := navslog.NewFileWriter(cli.LogFile)
		m.logFile = w
		logOut = w
	}
	logger := navslog.NewLogger(logOut, cli.Verbose)

	if err := os.MkdirAll(filepath.Dir(m.DBPath), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set NAVIGATOR_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}

	deps.Logger = logger
	deps.Config = cfg
	deps.Sessions = sqlite.NewSessionService(m.DB)
	deps.Sitemaps = navslog.NewLoggingSitemapService(navhttp.NewSitemapService(navhttp.NewFetcher(navhttp.WithTimeout(timeout))), logger)
	deps.Analyzer = goquery.NewTagAnalyzer()
	deps.IndexDir = filepath.Join(filepath.Dir(m.DBPath), "indexes")
	deps.Backoff = crawl.DefaultBackoff()

	deps.NewFetcher = func(render bool) (navigator.Fetcher, error) {
		if !render {
			return navslog.NewLoggingFetcher(navhttp.NewFetcher(navhttp.WithTimeout(timeout)), logger), nil
		}
		f, err := rod.NewFetcher(rod.WithFetchTimeout(timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return navslog.NewLoggingFetcher(f, logger), nil
	}

	models := &modelFactory{ctx: ctx, ollamaHost: cfg.Ollama.Host}
	deps.NewEmbedder = func(c navigator.EmbeddingConfig) (navigator.Embedder, error) {
		e, err := models.embedder(c)
		if err != nil {
			return nil, err
		}
		return navslog.NewLoggingEmbedder(e, logger), nil
	}
	deps.NewGenerator = func(id string) (navigator.Generator, error) {
		g, err := models.generator(id)
		if err != nil {
			return nil, err
		}
		return navslog.NewLoggingGenerator(g, logger), nil
	}

	if kongCtx.Command() == "fetch <session>" {
		tc, err := gemini.NewTokenCounter(gemini.DefaultTokenizerModel)
		if err != nil {
			logger.Warn("token counter unavailable", "err", err)
		} else {
			deps.TokenCounter = tc
		}
	}

	return kongCtx.Run(deps)
}

// dataDir returns the directory holding the database, config and indexes.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".navigator"
	}
	return filepath.Join(home, ".navigator")
}
