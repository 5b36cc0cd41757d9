// Package engine is the audit API used by collaborators: it loads the
// transaction, correspondence and policy sources and runs the direct and
// contextual passes into one report.
package engine

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"fjacquet/ledger-audit/internal/detector"
	"fjacquet/ledger-audit/internal/ledgerparser"
	"fjacquet/ledger-audit/internal/logging"
	"fjacquet/ledger-audit/internal/mailparser"
	"fjacquet/ledger-audit/internal/metrics"
	"fjacquet/ledger-audit/internal/models"
	"fjacquet/ledger-audit/internal/parsererror"
	"fjacquet/ledger-audit/internal/report"
	"fjacquet/ledger-audit/internal/rules"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Sources names the three inputs of an audit.
type Sources struct {
	Transactions   string
	Correspondence string
	Policy         string
}

// Options configures an Engine. The zero value runs sequentially with a
// default logger and no metrics.
type Options struct {
	// Parallel runs the direct and contextual passes concurrently.
	Parallel bool
	// Delimiter is the ledger column separator; zero means ','.
	Delimiter rune
	Logger    logging.Logger
	Metrics   *metrics.Metrics
	// Now and NewRunID are injectable for tests.
	Now      func() time.Time
	NewRunID func() string
}

// Engine runs audits over a fixed set of sources and rules. Each run re-reads
// the sources; nothing is cached between runs.
type Engine struct {
	sources  Sources
	detector *detector.Detector
	ledger   *ledgerparser.Parser
	mail     *mailparser.Parser
	logger   logging.Logger
	metrics  *metrics.Metrics
	parallel bool
	now      func() time.Time
	newRunID func() string
}

// New creates an Engine. rs must be normalized; nil means the built-in rules.
func New(sources Sources, rs *rules.Ruleset, opts Options) *Engine {
	logger := logging.OrDefault(opts.Logger)
	e := &Engine{
		sources:  sources,
		detector: detector.New(rs, logger),
		ledger:   ledgerparser.NewParser(opts.Delimiter, logger),
		mail:     mailparser.NewParser(logger),
		logger:   logger,
		metrics:  opts.Metrics,
		parallel: opts.Parallel,
		now:      opts.Now,
		newRunID: opts.NewRunID,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newRunID == nil {
		e.newRunID = uuid.NewString
	}
	return e
}

// Sources returns the configured source locations.
func (e *Engine) Sources() Sources {
	return e.sources
}

// Rules returns the ruleset the engine evaluates.
func (e *Engine) Rules() *rules.Ruleset {
	return e.detector.Rules()
}

// LoadTransactions loads the ledger at path. A missing file yields no
// transactions and a warning.
func (e *Engine) LoadTransactions(path string) ([]models.Transaction, error) {
	e.warnIfMissing(ledgerparser.SourceKind, path)
	txs, err := e.ledger.ParseFile(path)
	if err != nil {
		return nil, err
	}
	e.metrics.AddRecords(ledgerparser.SourceKind, len(txs))
	return txs, nil
}

// LoadCorrespondence loads the correspondence at path. A missing file yields
// no records and a warning.
func (e *Engine) LoadCorrespondence(path string) ([]models.CorrespondenceRecord, error) {
	e.warnIfMissing(mailparser.SourceKind, path)
	records, err := e.mail.ParseFile(path)
	if err != nil {
		return nil, err
	}
	e.metrics.AddRecords(mailparser.SourceKind, len(records))
	return records, nil
}

// PolicyText returns the policy source verbatim, or "" when it does not exist.
func (e *Engine) PolicyText() (string, error) {
	data, err := os.ReadFile(e.sources.Policy)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.warnIfMissing("policy", e.sources.Policy)
			return "", nil
		}
		return "", &parsererror.SourceError{Kind: "policy", Path: e.sources.Policy, Err: err}
	}
	return string(data), nil
}

// RunFullAudit reloads the sources and evaluates them. The direct pass
// (per-transaction checks plus structuring) and the contextual pass share the
// loaded records read-only, so they run concurrently when the engine is
// parallel; the resulting findings are identical either way.
func (e *Engine) RunFullAudit(ctx context.Context) (*models.AuditReport, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loadStart := time.Now()
	txs, err := e.LoadTransactions(e.sources.Transactions)
	if err != nil {
		return nil, err
	}
	records, err := e.LoadCorrespondence(e.sources.Correspondence)
	if err != nil {
		return nil, err
	}
	e.metrics.ObservePass("load", time.Since(loadStart))

	var (
		direct     []models.DirectFinding
		contextual []models.ContextualFinding
	)
	runDirect := func() error {
		passStart := time.Now()
		direct = e.detector.EvaluateDirect(txs)
		e.metrics.ObservePass("direct", time.Since(passStart))
		return nil
	}
	runContextual := func() error {
		passStart := time.Now()
		contextual = e.detector.EvaluateContextual(records, txs)
		e.metrics.ObservePass("contextual", time.Since(passStart))
		return nil
	}

	if e.parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return runDirect()
		})
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return runContextual()
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		_ = runDirect()
		_ = runContextual()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := report.Assemble(direct, contextual, e.sources.Policy)
	r.RunID = e.newRunID()
	r.GeneratedAt = e.now().UTC()
	r.TransactionCount = len(txs)
	r.CorrespondenceCount = len(records)

	elapsed := time.Since(start)
	e.metrics.ObserveReport(r)
	e.metrics.ObserveAudit(elapsed)

	e.logger.Info("Audit completed",
		logging.F(logging.FieldRunID, r.RunID),
		logging.F(logging.FieldDirectCount, len(r.DirectFindings)),
		logging.F(logging.FieldContextCount, len(r.ContextualFindings)),
		logging.F(logging.FieldDuration, elapsed.Milliseconds()))
	return r, nil
}

func (e *Engine) warnIfMissing(kind, path string) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		e.logger.Warn("Source not found, treating as empty",
			logging.F(logging.FieldSource, kind),
			logging.F(logging.FieldFile, path))
	}
}
