package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songwall/internal/download"
	"github.com/desertthunder/songwall/internal/repositories"
	"github.com/desertthunder/songwall/internal/services"
	"github.com/desertthunder/songwall/internal/shared"
	"github.com/desertthunder/songwall/internal/tags"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	configFixed bool
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	source      services.SongSource
	fetcher     download.Fetcher
	db          *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Source, Fetcher and DB replace the feed client, the audio client and the configured database.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Source     services.SongSource
	Fetcher    download.Fetcher
	DB         *sql.DB
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	r := &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		configFixed: opts.Config != nil,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		source:      opts.Source,
		fetcher:     opts.Fetcher,
		db:          opts.DB,
	}

	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	if r.logger == nil {
		r.logger = shared.NewLogger(nil)
	}
	if r.output == nil {
		r.output = os.Stdout
	}
	if r.httpClient == nil {
		r.httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return r
}

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "songwall",
		Usage:   "A wall of generated songs with a tag summary and downloads",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, syncCommand, serveCommand, tagsCommand, songsCommand, downloadCommand, browseCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before resolves the configuration file and log level ahead of every command.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}
	if r.configFixed {
		return ctx, nil
	}

	config, err := shared.ResolveConfig(r.configPath)
	if err != nil {
		return ctx, err
	}
	r.config = config
	r.logger.Debug("configuration resolved", "path", r.configPath)
	return ctx, nil
}

// openStore opens the configured database, applies pending migrations and returns the song repository.
//
// The returned close function is a no-op for an injected database.
func (r *Runner) openStore() (*repositories.SongRepository, func(), error) {
	if r.db != nil {
		if err := shared.RunMigrations(r.db); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return repositories.NewSongRepository(r.db), func() {}, nil
	}

	db, err := r.openDatabase()
	if err != nil {
		return nil, nil, err
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return repositories.NewSongRepository(db), func() { db.Close() }, nil
}

func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

func (r *Runner) songSource() services.SongSource {
	if r.source != nil {
		return r.source
	}
	return services.NewFeedService(r.config.Feed.BaseURL, r.httpClient)
}

func (r *Runner) audioFetcher() download.Fetcher {
	if r.fetcher != nil {
		return r.fetcher
	}
	return services.NewAudioService(r.httpClient)
}

// tagOptions maps the [tags] config section, with flag overrides, onto aggregator options.
func (r *Runner) tagOptions(limit int, double bool) []tags.Option {
	if limit <= 0 {
		limit = r.config.Tags.Limit
	}
	return []tags.Option{tags.WithLimit(limit), tags.WithDoubleCount(double || r.config.Tags.DoubleCount)}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
