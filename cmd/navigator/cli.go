package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/navigator"
	"github.com/fwojciec/navigator/crawl"
	navslog "github.com/fwojciec/navigator/slog"
	"github.com/fwojciec/navigator/toml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	Logger   *slog.Logger
	Config   *toml.Config
	Sessions navigator.SessionService
	Sitemaps navigator.SitemapService
	Analyzer navigator.TagAnalyzer

	// TokenCounter is optional. When set, fetch reports a token estimate.
	TokenCounter navigator.TokenCounter

	// IndexDir holds one index snapshot directory per session.
	IndexDir string

	// Backoff spaces out fetch retries.
	Backoff crawl.Backoff

	// Factories for resources that depend on command flags or session state.
	NewFetcher   func(render bool) (navigator.Fetcher, error)
	NewEmbedder  func(cfg navigator.EmbeddingConfig) (navigator.Embedder, error)
	NewGenerator func(id string) (navigator.Generator, error)
}

func (d *Dependencies) logger() *slog.Logger {
	if d.Logger == nil {
		return navslog.Discard()
	}
	return d.Logger
}

func (d *Dependencies) config() *toml.Config {
	if d.Config == nil {
		return toml.DefaultConfig()
	}
	return d.Config
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"NAVIGATOR_DB" help:"Path to the session database"`
	Config  string `name:"config" env:"NAVIGATOR_CONFIG" help:"Path to the TOML config file"`
	Verbose bool   `short:"v" help:"Enable debug logging"`
	LogFile string `name:"log-file" help:"Write logs to a rotating file instead of stderr"`

	Sessions    SessionsCmd    `cmd:"" help:"List sessions"`
	Delete      DeleteCmd      `cmd:"" help:"Delete a session with its URLs and documents"`
	Scan        ScanCmd        `cmd:"" help:"Discover links on seed pages"`
	URLs        URLsCmd        `cmd:"" name:"urls" help:"List or export the URL registry"`
	Edit        EditCmd        `cmd:"" help:"Replace the URL registry with an edited CSV"`
	Ignore      IgnoreCmd      `cmd:"" help:"Exclude URLs from fetching"`
	Remove      RemoveCmd      `cmd:"" help:"Remove registry rows by index"`
	Clear       ClearCmd       `cmd:"" help:"Empty the URL registry"`
	Fetch       FetchCmd       `cmd:"" help:"Fetch and clean the registry URLs"`
	Docs        DocsCmd        `cmd:"" help:"List, export or import fetched documents"`
	Models      ModelsCmd      `cmd:"" help:"Show or set the session models"`
	Index       IndexCmd       `cmd:"" help:"Split, embed and index the fetched documents"`
	ExportIndex ExportIndexCmd `cmd:"" name:"export-index" help:"Write the session index to a zip archive"`
	ImportIndex ImportIndexCmd `cmd:"" name:"import-index" help:"Load a session index from a zip archive"`
	Prompt      PromptCmd      `cmd:"" help:"Show or set the prompt template"`
	Ask         AskCmd         `cmd:"" help:"Ask a question against the session index"`
	Review      ReviewCmd      `cmd:"" help:"List the images, videos and audio on a page"`
}

// SessionsCmd is the "sessions" subcommand.
type SessionsCmd struct{}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Session string `arg:"" help:"Session name"`
	Force   bool   `help:"Confirm deletion"`
}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct {
	Session     string   `arg:"" help:"Session name (created if missing)"`
	Seeds       []string `arg:"" optional:"" help:"Seed URLs (read from stdin when omitted)"`
	Sitemap     bool     `help:"Treat seeds as sitemap URLs"`
	Filter      []string `short:"F" name:"filter" help:"Keep sitemap URLs matching regex (repeatable)"`
	Exclude     []string `short:"X" name:"exclude" help:"Drop sitemap URLs matching regex (repeatable)"`
	Render      bool     `help:"Render pages in a headless browser"`
	Concurrency int      `short:"c" default:"5" help:"Concurrent scan limit"`
}

// URLsCmd is the "urls" subcommand.
type URLsCmd struct {
	Session string `arg:"" help:"Session name"`
	CSV     string `name:"csv" help:"Write the registry to a CSV file"`
}

// EditCmd is the "edit" subcommand.
type EditCmd struct {
	Session string `arg:"" help:"Session name"`
	CSV     string `arg:"" name:"csv" help:"Edited CSV file"`
}

// IgnoreCmd is the "ignore" subcommand.
type IgnoreCmd struct {
	Session string   `arg:"" help:"Session name"`
	URLs    []string `arg:"" name:"url" help:"URLs to ignore"`
	Unset   bool     `help:"Clear the ignore flag instead"`
}

// RemoveCmd is the "remove" subcommand.
type RemoveCmd struct {
	Session string `arg:"" help:"Session name"`
	Indexes []int  `arg:"" name:"index" help:"Row numbers as shown by 'navigator urls'"`
}

// ClearCmd is the "clear" subcommand.
type ClearCmd struct {
	Session string `arg:"" help:"Session name"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	Session     string `arg:"" help:"Session name"`
	Raw         bool   `help:"Keep raw HTML instead of extracting markdown"`
	Extractor   string `default:"trafilatura" enum:"trafilatura,readability" help:"Content extractor (trafilatura, readability)"`
	Precision   bool   `help:"Drop borderline blocks when extracting with trafilatura"`
	Render      bool   `help:"Render pages in a headless browser"`
	Concurrency int    `short:"c" help:"Concurrent fetch limit (default from config)"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Session  string `arg:"" help:"Session name"`
	Full     bool   `help:"Show full document content"`
	Outline  bool   `help:"Show the heading outline of each document"`
	Export   string `help:"Write documents to a JSONL file"`
	Import   string `help:"Replace documents with a JSONL file"`
	Markdown string `help:"Write documents as markdown files under a directory"`
}

// ModelsCmd is the "models" subcommand.
type ModelsCmd struct {
	Session   string `arg:"" help:"Session name"`
	Embedding string `help:"Embedding model id (provider:model)"`
	Device    string `help:"Embedding device (cpu, cuda)"`
	LLM       string `name:"llm" help:"Language model id (provider:model)"`

	MaxNewTokens      *int     `name:"max-new-tokens" help:"Maximum tokens to generate"`
	TopK              *int     `name:"top-k" help:"Top-k sampling"`
	TopP              *float64 `name:"top-p" help:"Nucleus sampling probability"`
	TypicalP          *float64 `name:"typical-p" help:"Typical sampling probability"`
	Temperature       *float64 `help:"Sampling temperature"`
	RepetitionPenalty *float64 `name:"repetition-penalty" help:"Repetition penalty"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Session   string   `arg:"" help:"Session name"`
	ChunkSize int      `name:"chunk-size" default:"1000" help:"Passage size in characters"`
	Overlap   int      `default:"0" help:"Characters shared by consecutive passages"`
	Out       string   `help:"Snapshot directory (default under the data directory)"`
	RPS       *float64 `name:"rps" help:"Embedding requests per second, 0 for no limit (default from config)"`
}

// ExportIndexCmd is the "export-index" subcommand.
type ExportIndexCmd struct {
	Session string `arg:"" help:"Session name"`
	Zip     string `arg:"" help:"Archive path"`
}

// ImportIndexCmd is the "import-index" subcommand.
type ImportIndexCmd struct {
	Session string `arg:"" help:"Session name"`
	Zip     string `arg:"" help:"Archive path"`
	Out     string `help:"Snapshot directory (default under the data directory)"`
}

// PromptCmd is the "prompt" subcommand.
type PromptCmd struct {
	Session  string `arg:"" help:"Session name"`
	Template string `arg:"" optional:"" help:"Template with {context} and {question}"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Session  string        `arg:"" help:"Session name"`
	Question string        `arg:"" help:"Question to ask"`
	K        int           `short:"k" default:"4" help:"Passages to retrieve"`
	Timeout  time.Duration `help:"Generation timeout (0 for none)"`
}

// ReviewCmd is the "review" subcommand.
type ReviewCmd struct {
	URL    string `arg:"" help:"Page URL"`
	Out    string `help:"Write the report to a JSON file"`
	Render bool   `help:"Render the page in a headless browser"`
}

// printError writes err to w as a single "error:" line.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %s\n", errorText(err))
}

// errorText returns the message of an application error, or the full text
// of any other error.
func errorText(err error) string {
	var e *navigator.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// findSession loads the named session with its registry and documents.
func findSession(deps *Dependencies, name string) (*navigator.Session, error) {
	sessions, err := deps.Sessions.FindSessions(deps.Ctx, navigator.SessionFilter{Name: &name})
	if err != nil {
		printError(deps.Stderr, err)
		return nil, err
	}
	if len(sessions) == 0 {
		fmt.Fprintf(deps.Stderr, "error: session %q not found. Use 'navigator sessions' to see available sessions.\n", name)
		return nil, navigator.Errorf(navigator.ENOTFOUND, "session %q not found", name)
	}

	session, err := deps.Sessions.FindSessionByID(deps.Ctx, sessions[0].ID)
	if err != nil {
		printError(deps.Stderr, err)
		return nil, err
	}
	return session, nil
}

// findOrCreateSession loads the named session, creating it with the
// configured models when it does not exist.
func findOrCreateSession(deps *Dependencies, name string) (*navigator.Session, error) {
	sessions, err := deps.Sessions.FindSessions(deps.Ctx, navigator.SessionFilter{Name: &name})
	if err != nil {
		printError(deps.Stderr, err)
		return nil, err
	}
	if len(sessions) > 0 {
		session, err := deps.Sessions.FindSessionByID(deps.Ctx, sessions[0].ID)
		if err != nil {
			printError(deps.Stderr, err)
			return nil, err
		}
		return session, nil
	}

	session := navigator.NewSession(name)
	session.Models = deps.config().ModelConfig()
	if err := deps.Sessions.CreateSession(deps.Ctx, session); err != nil {
		printError(deps.Stderr, err)
		return nil, err
	}
	fmt.Fprintf(deps.Stdout, "Created session %q\n", name)
	return session, nil
}

// updateSession applies upd and reports failures.
func updateSession(deps *Dependencies, id string, upd navigator.SessionUpdate) (*navigator.Session, error) {
	session, err := deps.Sessions.UpdateSession(deps.Ctx, id, upd)
	if err != nil {
		printError(deps.Stderr, err)
		return nil, err
	}
	return session, nil
}
