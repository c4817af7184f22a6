package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/atonixcorp/atonix-go/internal/cli"
	"github.com/atonixcorp/atonix-go/internal/compliance"
	"github.com/atonixcorp/atonix-go/internal/config"
	"github.com/atonixcorp/atonix-go/internal/domain"
	"github.com/atonixcorp/atonix-go/internal/logger"
	"github.com/atonixcorp/atonix-go/internal/storage"
	"github.com/atonixcorp/atonix-go/pkg/atonix"
	"github.com/atonixcorp/atonix-go/pkg/publishers"
)

// App is the atonixctl runtime. It owns the API client, the run journal and
// the publisher fanout, and dispatches one parsed command.
type App struct {
	cfg        *config.Config
	client     *atonix.Client
	store      storage.Store
	fanout     *publishers.Fanout
	compliance *compliance.Service
	log        logger.Logger
	out        io.Writer
}

// Option customizes App construction; used by tests to inject a transport.
type Option func(*[]atonix.Option)

// WithClientOptions forwards options to atonix.New.
func WithClientOptions(opts ...atonix.Option) Option {
	return func(dst *[]atonix.Option) { *dst = append(*dst, opts...) }
}

// New builds the runtime needed for command. Journal and publishers are only
// opened for commands that use them.
func New(ctx context.Context, cfg *config.Config, command string, log logger.Logger, out io.Writer, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if out == nil {
		return nil, fmt.Errorf("output writer must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	if cli.NeedsToken(command) && cfg.Token == "" {
		return nil, errors.New("missing token: set --token or ATONIX_TOKEN")
	}

	clientOpts := []atonix.Option{atonix.WithTimeouts(cfg.ConnectTimeout, cfg.RequestTimeout)}
	for _, opt := range opts {
		opt(&clientOpts)
	}

	a := &App{
		cfg:    cfg,
		client: atonix.New(cfg.BaseURL, cfg.Token, clientOpts...),
		log:    log,
		out:    out,
	}

	if cli.NeedsJournal(command) {
		store, err := storage.NewStore(cfg.JournalType, cfg.JournalPath, storage.Options{
			RunTTL:          cfg.JournalTTL,
			CleanupInterval: cfg.JournalCleanupInterval,
		})
		if err != nil {
			if command == cli.CmdHistory {
				return nil, fmt.Errorf("init journal: %w", err)
			}
			log.WarnObj("journal unavailable, runs will not be recorded", "journal_error", map[string]any{
				"path":  cfg.JournalPath,
				"error": err.Error(),
			})
			store, _ = storage.NewStore(storage.TypeNone, "", storage.Options{})
		}
		a.store = store
		log.DebugObj("journal initialized", "journal_config", map[string]any{
			"type":                     cfg.JournalType,
			"path":                     cfg.JournalPath,
			"run_ttl_seconds":          int(cfg.JournalTTL.Seconds()),
			"cleanup_interval_seconds": int(cfg.JournalCleanupInterval.Seconds()),
		})
	}

	if command == cli.CmdCollectEvidence || command == cli.CmdAttestation {
		fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.fanout = fanout

		var pub compliance.EventPublisher
		if fanout != nil {
			pub = fanout
		}
		a.compliance = compliance.NewService(a.client, pub, a.store, log)
	}

	return a, nil
}

// buildFanout loads the publishers file when one is configured.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if path == "" {
		return nil, nil
	}

	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, p := range enabled {
		summaries = append(summaries, map[string]string{"id": p.ID, "type": p.Type})
	}
	var disabled []string
	for _, p := range reg.All() {
		if !p.EnabledValue() {
			disabled = append(disabled, p.ID)
		}
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
		"disabled":   disabled,
	})
	return publishers.NewFanout(pubs), nil
}

// Run executes the parsed command and renders its result.
func (a *App) Run(ctx context.Context, args *cli.Args) error {
	if a == nil || a.client == nil {
		return fmt.Errorf("app is not initialized")
	}
	if args == nil {
		return fmt.Errorf("no command given")
	}

	if args.Command == cli.CmdHistory {
		return a.history(args.Limit)
	}

	body, err := a.dispatch(ctx, args)
	if err != nil {
		return fmt.Errorf("%s: %w", args.Command, err)
	}
	return cli.Render(a.out, body, a.cfg.Output)
}

func (a *App) dispatch(ctx context.Context, args *cli.Args) ([]byte, error) {
	switch args.Command {
	case cli.CmdInstances:
		return a.client.ListInstances(ctx)
	case cli.CmdClusters:
		return a.client.ListKubernetesClusters(ctx)
	case cli.CmdBuckets:
		return a.client.ListBuckets(ctx)
	case cli.CmdVPCs:
		return a.client.ListVPCs(ctx)
	case cli.CmdGraphQL:
		return a.client.GraphQLWithVariables(ctx, args.Query, args.Variables)
	case cli.CmdComplianceControls:
		return a.client.ComplianceControls(ctx, args.Framework)
	case cli.CmdCollectEvidence:
		return a.compliance.CollectEvidence(ctx, args.Framework)
	case cli.CmdAttestation:
		return a.compliance.Attest(ctx, args.Framework, args.PeriodStart, args.PeriodEnd)
	default:
		return nil, fmt.Errorf("unknown command %q", args.Command)
	}
}

func (a *App) history(limit int) error {
	if a.store == nil {
		return fmt.Errorf("journal is not initialized")
	}
	runs, err := a.store.Recent(limit)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	if runs == nil {
		runs = []domain.Run{}
	}
	return cli.RenderValue(a.out, runs, a.cfg.Output)
}

// Close releases the journal and publisher connections, logging any errors encountered.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.fanout != nil {
		if err := a.fanout.Close(); err != nil {
			a.log.ErrorObj("publishers close failed", "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.ErrorObj("journal close failed", "error", err)
		}
	}
}
