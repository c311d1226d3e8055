package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alexanderramin/kurikula/internal/cli"
	"github.com/alexanderramin/kurikula/internal/config"
	"github.com/alexanderramin/kurikula/internal/db"
	"github.com/alexanderramin/kurikula/internal/generation"
	"github.com/alexanderramin/kurikula/internal/llm"
	"github.com/alexanderramin/kurikula/internal/logger"
	"github.com/alexanderramin/kurikula/internal/pipeline"
	"github.com/alexanderramin/kurikula/internal/repository"
	"github.com/alexanderramin/kurikula/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalOptions struct {
	configPath string
	ephemeral  bool
}

// parseGlobalFlags reads the flags needed before the command tree exists.
// Cobra parses them again (with everything else) during Execute.
func parseGlobalFlags(args []string) globalOptions {
	var opts globalOptions
	fs := pflag.NewFlagSet("kurikula", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.StringVar(&opts.configPath, "config", "", "")
	fs.BoolVar(&opts.ephemeral, "ephemeral", false, "")
	fs.BoolP("help", "h", false, "")
	// Bad values surface again, with a proper message, when cobra parses.
	_ = fs.Parse(args)
	return opts
}

func run() error {
	opts := parseGlobalFlags(os.Args[1:])

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync(log)

	dbPath := cfg.Workspace.Path
	if opts.ephemeral {
		dbPath = ":memory:"
	}
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening workspace: %w", err)
	}
	defer database.Close()

	// Wire repositories and the unit of work for transactional saves
	runRepo := repository.NewSQLiteRunRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)
	workspace := service.NewWorkspaceService(runRepo, uow)

	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LLM.LogCalls {
		observer = llm.NewLogObserver(log)
	}
	client, err := llm.NewClient(cfg.LLMSettings(), observer)
	if err != nil {
		return err
	}

	policy, err := pipeline.ParseDownstreamPolicy(cfg.Pipeline.Downstream)
	if err != nil {
		return err
	}
	planning := service.NewPlanningService(workspace, generation.NewGenerator(client),
		pipeline.WithDownstreamPolicy(policy),
		pipeline.WithStrict(cfg.Pipeline.Strict),
		pipeline.WithObserver(pipeline.NewLogStageObserver(log)),
	)

	defaults, err := cfg.CurriculumContext()
	if err != nil {
		return err
	}

	app := &cli.App{
		Workspace: workspace,
		Planning:  planning,
		Defaults:  defaults,
	}

	// Spinners, forms and the stage viewer only run on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	log.Debug("kurikula starting",
		zap.String("workspace", dbPath),
		zap.String("provider", cfg.LLM.Provider),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
