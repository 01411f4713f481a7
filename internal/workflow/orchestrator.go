// Package workflow sequences the intake procedure for one deposit: locate,
// create folders, reserve an identifier, fetch files, archive reports, render
// the manifest, and advance the stage, with operator confirmation at the
// irreversible points.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"curator/internal/config"
	"curator/internal/confirm"
	"curator/internal/deposit"
	"curator/internal/doi"
	"curator/internal/fetch"
	"curator/internal/figshare"
	"curator/internal/history"
	"curator/internal/logging"
	"curator/internal/manifest"
	"curator/internal/notifications"
	"curator/internal/report"
	"curator/internal/services"
	"curator/internal/stagefs"
)

// Outcome summarizes one intake run for display and auditing.
type Outcome struct {
	RunID      string
	ArticleID  int64
	FolderName string

	// AlreadyPresent is the informational short-circuit: the deposit was
	// found under a stage root, so no intake work was performed.
	AlreadyPresent bool
	ExistingStage  string

	DOI       string
	DOIMinted bool

	Fetch        *fetch.Report
	ManifestPath string
	ReportPath   string

	Advanced  bool
	FromStage string
	ToStage   string

	Duration time.Duration
}

// Orchestrator drives the end-to-end intake workflow.
type Orchestrator struct {
	cfg       *config.Config
	client    *figshare.Client
	resolver  *deposit.Resolver
	stages    *stagefs.Manager
	gate      *doi.Gate
	fetcher   *fetch.Fetcher
	writer    *manifest.Writer
	reports   *report.Generator
	journal   *history.Store
	notifier  notifications.Service
	confirmer confirm.Confirmer
	logger    *slog.Logger

	skipAdvance bool
}

// Option customizes orchestrator construction.
type Option func(*Orchestrator)

// WithJournal attaches the audit journal. Journal failures are logged and
// never fail the run.
func WithJournal(journal *history.Store) Option {
	return func(o *Orchestrator) { o.journal = journal }
}

// WithNotifier overrides the notification service.
func WithNotifier(notifier notifications.Service) Option {
	return func(o *Orchestrator) { o.notifier = notifier }
}

// WithFetcher overrides the file fetcher, used by tests to inject transports.
func WithFetcher(fetcher *fetch.Fetcher) Option {
	return func(o *Orchestrator) { o.fetcher = fetcher }
}

// WithSkipAdvance leaves the deposit in its current stage after intake
// without prompting.
func WithSkipAdvance() Option {
	return func(o *Orchestrator) { o.skipAdvance = true }
}

// New wires an orchestrator from configuration and a connected client.
func New(cfg *config.Config, client *figshare.Client, confirmer confirm.Confirmer, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Orchestrator{
		cfg:       cfg,
		client:    client,
		resolver:  deposit.NewResolver(client, logger),
		stages:    stagefs.New(cfg, logger),
		gate:      doi.NewGate(client, confirmer, logger),
		fetcher:   fetch.NewFetcher(client.Token(), logger),
		writer:    manifest.NewWriter(cfg, confirmer, logger),
		reports:   report.NewGenerator(logger),
		notifier:  notifications.NewService(cfg),
		confirmer: confirmer,
		logger:    logger.With(logging.String(logging.FieldComponent, "workflow")),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Intake runs the full intake procedure for one article. A deposit already
// present under any stage root short-circuits with an informational outcome.
func (o *Orchestrator) Intake(ctx context.Context, articleID int64) (*Outcome, error) {
	start := time.Now()

	workspaceLock := flock.New(filepath.Join(o.cfg.Paths.WorkspaceDir, ".curator.lock"))
	locked, err := workspaceLock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "workflow", "intake", "acquire workspace lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "intake",
			"another curator run holds the workspace lock", nil)
	}
	defer func() {
		if err := workspaceLock.Unlock(); err != nil {
			o.logger.Warn("failed to release workspace lock", logging.Error(err))
		}
	}()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithArticleID(ctx, articleID)
	logger := logging.WithContext(ctx, o.logger)

	outcome := &Outcome{RunID: runID, ArticleID: articleID}

	record, err := o.resolver.Resolve(ctx, articleID)
	if err != nil {
		o.reportFailure(ctx, outcome, "resolve deposit", err)
		return nil, err
	}
	outcome.FolderName = record.FolderName
	logger = logger.With(logging.String(logging.FieldFolder, record.FolderName))

	existing, found, err := o.stages.Locate(record.FolderName)
	if err != nil {
		o.reportFailure(ctx, outcome, "locate deposit", err)
		return nil, err
	}
	if found {
		outcome.AlreadyPresent = true
		outcome.ExistingStage = existing.Stage
		outcome.Duration = time.Since(start)
		logger.Info("deposit already present, nothing to do",
			logging.String(logging.FieldStage, existing.Stage))
		return outcome, nil
	}

	o.record(ctx, outcome, history.EventRunStarted, "")
	if err := o.notifier.NotifyIntakeStarted(ctx, articleID, record.FolderName); err != nil {
		logger.Warn("intake notification failed", logging.Error(err))
	}

	location, err := o.stages.CreateDepositFolders(record.FolderName)
	if err != nil {
		o.reportFailure(ctx, outcome, "create deposit folders", err)
		return nil, err
	}
	dataDir := o.stages.DataDir(location)
	metadataDir := o.stages.MetadataDir(location)

	reservation, err := o.gate.EnsureIdentifier(ctx, articleID)
	if err != nil {
		o.reportFailure(ctx, outcome, "ensure identifier", err)
		return nil, err
	}
	outcome.DOI = reservation.DOI
	outcome.DOIMinted = reservation.Minted
	if reservation.Minted {
		o.record(ctx, outcome, history.EventDOIReserved, reservation.DOI)
		if err := o.notifier.NotifyIdentifierReserved(ctx, articleID, reservation.DOI); err != nil {
			logger.Warn("reservation notification failed", logging.Error(err))
		}
	}

	files := record.Snapshot.Item.Files
	if err := fetch.WriteSnapshot(files, metadataDir); err != nil {
		o.reportFailure(ctx, outcome, "write file snapshot", err)
		return nil, err
	}

	fetchReport, err := o.fetcher.FetchAll(ctx, files, dataDir)
	if err != nil {
		o.reportFailure(ctx, outcome, "fetch files", err)
		return nil, err
	}
	outcome.Fetch = fetchReport
	o.record(ctx, outcome, history.EventFilesFetched,
		fmt.Sprintf("%d retrieved, %d failed", fetchReport.Retrieved(), fetchReport.Failed()))

	// Reviewer comments enrich the archived report but are not essential.
	comments, err := o.client.CurationComments(ctx, record.CurationID)
	if err != nil {
		logger.Warn("could not fetch reviewer comments", logging.Error(err))
		comments = nil
	}
	reportPath, err := o.reports.WriteCurationReport(metadataDir, record.Snapshot, comments)
	if err != nil {
		o.reportFailure(ctx, outcome, "write curation report", err)
		return nil, err
	}
	outcome.ReportPath = reportPath

	data, err := manifest.Build(record.Snapshot, record.Name, o.cfg.Manifest.DOIPlaceholder)
	if err != nil {
		o.reportFailure(ctx, outcome, "build manifest data", err)
		return nil, err
	}
	if reservation.DOI != "" {
		data.DOI = reservation.DOI
	}
	manifestPath, err := o.writer.Render(dataDir, metadataDir, data)
	if err != nil {
		o.reportFailure(ctx, outcome, "render manifest", err)
		return nil, err
	}
	outcome.ManifestPath = manifestPath
	if _, err := o.writer.Walkthrough(dataDir); err != nil {
		logger.Warn("manifest walkthrough failed", logging.Error(err))
	}

	advanced, err := o.maybeAdvance(ctx, outcome, record.FolderName, location)
	if err != nil {
		return nil, err
	}
	outcome.Advanced = advanced

	outcome.Duration = time.Since(start)
	o.record(ctx, outcome, history.EventRunCompleted, outcome.Duration.Round(time.Second).String())
	if err := o.notifier.NotifyIntakeCompleted(ctx, articleID, record.FolderName,
		fetchReport.Retrieved(), fetchReport.Failed(), outcome.Duration); err != nil {
		logger.Warn("completion notification failed", logging.Error(err))
	}
	logger.Info("intake complete",
		logging.Int("retrieved", fetchReport.Retrieved()),
		logging.Int("failed", fetchReport.Failed()),
		logging.Duration("duration", outcome.Duration))
	return outcome, nil
}

// Advance moves a deposit forward one stage with operator confirmation,
// outside of a full intake run.
func (o *Orchestrator) Advance(ctx context.Context, folderName string) (stagefs.Location, bool, error) {
	current, found, err := o.stages.Locate(folderName)
	if err != nil {
		return stagefs.Location{}, false, err
	}
	if !found {
		return stagefs.Location{}, false, services.Wrap(services.ErrNotFound, "workflow", "advance",
			fmt.Sprintf("deposit %s not present in any stage", folderName), nil)
	}

	ok, err := o.confirmer.Confirm(fmt.Sprintf("Advance %s from %s to the next stage?", folderName, current.Stage))
	if err != nil {
		return stagefs.Location{}, false, services.Wrap(services.ErrTransport, "workflow", "advance", "confirm", err)
	}
	if !ok {
		o.logger.Info("stage advance declined",
			logging.String(logging.FieldFolder, folderName),
			logging.String(logging.FieldStage, current.Stage))
		return current, false, nil
	}

	next, err := o.stages.Advance(folderName)
	if err != nil {
		return stagefs.Location{}, false, err
	}
	if o.journal != nil {
		runID, _ := services.RunIDFromContext(ctx)
		articleID, _ := services.ArticleIDFromContext(ctx)
		if err := o.journal.Record(ctx, runID, articleID, folderName, history.EventStageAdvanced,
			fmt.Sprintf("%s -> %s", current.Stage, next.Stage)); err != nil {
			o.logger.Warn("journal write failed", logging.Error(err))
		}
	}
	if err := o.notifier.NotifyStageAdvanced(ctx, folderName, current.Stage, next.Stage); err != nil {
		o.logger.Warn("advance notification failed", logging.Error(err))
	}
	return next, true, nil
}

func (o *Orchestrator) maybeAdvance(ctx context.Context, outcome *Outcome, folderName string, current stagefs.Location) (bool, error) {
	if o.skipAdvance {
		o.logger.Info("stage advance skipped by request",
			logging.String(logging.FieldFolder, folderName),
			logging.String(logging.FieldStage, current.Stage))
		return false, nil
	}
	ok, err := o.confirmer.Confirm(fmt.Sprintf("Intake finished. Advance %s from %s to the next stage?", folderName, current.Stage))
	if err != nil {
		wrapped := services.Wrap(services.ErrTransport, "workflow", "intake", "confirm stage advance", err)
		o.reportFailure(ctx, outcome, "confirm stage advance", wrapped)
		return false, wrapped
	}
	if !ok {
		o.logger.Info("stage advance declined, deposit stays put",
			logging.String(logging.FieldFolder, folderName),
			logging.String(logging.FieldStage, current.Stage))
		return false, nil
	}

	next, err := o.stages.Advance(folderName)
	if err != nil {
		o.reportFailure(ctx, outcome, "advance stage", err)
		return false, err
	}
	outcome.FromStage = current.Stage
	outcome.ToStage = next.Stage
	o.record(ctx, outcome, history.EventStageAdvanced, fmt.Sprintf("%s -> %s", current.Stage, next.Stage))
	if err := o.notifier.NotifyStageAdvanced(ctx, folderName, current.Stage, next.Stage); err != nil {
		o.logger.Warn("advance notification failed", logging.Error(err))
	}
	return true, nil
}

func (o *Orchestrator) record(ctx context.Context, outcome *Outcome, event, detail string) {
	if o.journal == nil {
		return
	}
	if err := o.journal.Record(ctx, outcome.RunID, outcome.ArticleID, outcome.FolderName, event, detail); err != nil {
		o.logger.Warn("journal write failed",
			logging.String("event", event),
			logging.Error(err))
	}
}

func (o *Orchestrator) reportFailure(ctx context.Context, outcome *Outcome, step string, err error) {
	o.logger.Error("intake step failed",
		logging.String("step", step),
		logging.Error(err))
	o.record(ctx, outcome, history.EventRunAborted, step+": "+err.Error())
	if notifyErr := o.notifier.NotifyError(ctx, err, step); notifyErr != nil {
		o.logger.Warn("error notification failed", logging.Error(notifyErr))
	}
}
