package application

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tdkit/agentaudit/internal/domain"
	"github.com/tdkit/agentaudit/internal/domain/agent"
	"github.com/tdkit/agentaudit/internal/domain/inventory"
)

// AuditService orchestrates the audit pipeline:
// load layout -> discover agents -> validate agents -> cross-check documents -> report.
type AuditService struct {
	scanner      domain.AgentScanner
	reader       domain.DocumentReader
	configLoader domain.ConfigLoader
	logger       *zap.SugaredLogger
	now          func() time.Time
	parallelism  int
}

// AuditOption customizes an AuditService.
type AuditOption func(*AuditService)

// WithLogger sets the logger used for progress messages.
func WithLogger(l *zap.SugaredLogger) AuditOption {
	return func(s *AuditService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) AuditOption {
	return func(s *AuditService) { s.now = now }
}

// WithParallelism bounds concurrent agent-file reads. Values below 1 mean 1.
func WithParallelism(n int) AuditOption {
	return func(s *AuditService) {
		if n < 1 {
			n = 1
		}
		s.parallelism = n
	}
}

func NewAuditService(
	scanner domain.AgentScanner,
	reader domain.DocumentReader,
	configLoader domain.ConfigLoader,
	opts ...AuditOption,
) *AuditService {
	s := &AuditService{
		scanner:      scanner,
		reader:       reader,
		configLoader: configLoader,
		logger:       zap.NewNop().Sugar(),
		now:          time.Now,
		parallelism:  runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Audit runs every check against root and returns the sorted report.
// Only configuration and I/O failures are returned as errors; content
// defects become findings.
func (s *AuditService) Audit(ctx context.Context, root string) (*domain.AuditReport, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	// 1. Load layout
	cfg, err := s.configLoader.Load(absRoot)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// 2. Discover agent files
	agents, err := s.scanner.Scan(absRoot, cfg.AgentsDir)
	if err != nil {
		return nil, fmt.Errorf("scanning agents: %w", err)
	}
	s.logger.Debugw("discovered agent files", "root", absRoot, "agents_dir", cfg.AgentsDir, "count", len(agents))

	// 3. Validate each agent
	findings, err := s.validateAgents(ctx, absRoot, agents)
	if err != nil {
		return nil, err
	}

	// 4. Dead references in overview documents
	docs := make([]inventory.Document, 0, len(cfg.ReferenceDocs))
	for _, p := range cfg.ReferenceDocs {
		doc, err := s.readDocument(absRoot, p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	exists := func(target string) bool { return s.reader.Exists(absRoot, target) }
	findings = append(findings, inventory.CheckReferences(docs, cfg.AgentsDir, exists)...)

	// 5. Inventory drift
	index, err := s.readDocument(absRoot, cfg.IndexDoc)
	if err != nil {
		return nil, err
	}
	var fallback inventory.Document
	if !index.Exists {
		if fallback, err = s.readDocument(absRoot, cfg.FallbackDoc); err != nil {
			return nil, err
		}
	}
	source := inventory.ResolveSource(index, fallback, cfg.AgentsDir)
	s.logger.Debugw("resolved agent inventory", "source", source.Kind.String(), "doc", source.Doc.Path, "references", len(source.Refs))
	findings = append(findings, inventory.CheckDrift(source, agents)...)

	report := domain.NewAuditReport(s.now().UTC(), absRoot, len(agents), cfg.DocCount(), findings)
	s.logger.Debugw("audit complete", "findings", len(report.Findings),
		"critical", report.Summary.Critical, "high", report.Summary.High)
	return report, nil
}

// validateAgents reads and validates agent files concurrently. Results are
// kept in discovery order.
func (s *AuditService) validateAgents(ctx context.Context, root string, agents []string) ([]domain.Finding, error) {
	results := make([][]domain.Finding, len(agents))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, rel := range agents {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := s.reader.ReadFile(root, rel)
			if err != nil {
				return fmt.Errorf("reading agent %s: %w", rel, err)
			}
			results[i] = agent.Validate(rel, string(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var findings []domain.Finding
	for i, r := range results {
		if len(r) > 0 {
			s.logger.Debugw("agent findings", "file", agents[i], "count", len(r))
		}
		findings = append(findings, r...)
	}
	return findings, nil
}

// readDocument returns the document at rel. A missing file is not an error.
func (s *AuditService) readDocument(root, rel string) (inventory.Document, error) {
	doc := inventory.Document{Path: filepath.ToSlash(rel)}
	if rel == "" {
		return doc, nil
	}
	data, err := s.reader.ReadFile(root, rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("reading %s: %w", rel, err)
	}
	doc.Content = string(data)
	doc.Exists = true
	return doc, nil
}
