package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxSessions bounds the number of live sessions when the caller does
// not configure it. The least recently used session is evicted first.
const DefaultMaxSessions = 256

// ServiceOptions configures a Service.
type ServiceOptions struct {
	MaxSessions     int
	PreferredMatrix string   // matrix chosen when a request names none
	Store           KeyValue // nil disables selection persistence
	SelectionKey    string

	MaxConcurrentUploads int           // default DefaultMaxConcurrentUploads
	UploadWait           time.Duration // default DefaultMaxUploadWait
}

// Service is the entry point for frontends: it owns the live sessions and
// offers stateless one-shot operations.
type Service struct {
	sessions   *lru.Cache[string, *Session]
	selections *SelectionStore
	preferred  string
	uploads    *UploadLimiter
}

// NewService creates a new Service instance.
func NewService(opts ServiceOptions) (*Service, error) {
	size := opts.MaxSessions
	if size <= 0 {
		size = DefaultMaxSessions
	}
	cache, err := lru.NewWithEvict[string, *Session](size, func(id string, _ *Session) {
		slog.Debug("session evicted", "session", id)
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}

	preferred := opts.PreferredMatrix
	if preferred == "" {
		preferred = DefaultMatrixOID
	}

	s := &Service{
		sessions:  cache,
		preferred: preferred,
		uploads:   NewUploadLimiter(opts.MaxConcurrentUploads, opts.UploadWait),
	}
	if opts.Store != nil {
		s.selections = NewSelectionStore(opts.Store, opts.SelectionKey)
	}
	return s, nil
}

// HierarchyOptions fills in the configured preferred matrix.
func (s *Service) HierarchyOptions(matrixOID string) HierarchyOptions {
	return HierarchyOptions{MatrixOID: matrixOID, Preferred: s.preferred}
}

// AcquireUpload takes an upload slot; call release when decoding is done.
func (s *Service) AcquireUpload(ctx context.Context) (release func(), err error) {
	return s.uploads.Acquire(ctx)
}

// UploadLimiterStatus reports upload slot usage.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.uploads.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.uploads.WaitForDrain(ctx)
}

// PreferredMatrix returns the matrix OID used when a request names none.
func (s *Service) PreferredMatrix() string {
	return s.preferred
}

// NewSession starts a session and returns it.
func (s *Service) NewSession() *Session {
	sess := NewSession(uuid.New().String(), s.selections)
	s.sessions.Add(sess.ID, sess)
	return sess
}

// Session looks up a live session.
func (s *Service) Session(id string) (*Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// CloseSession discards a session. It reports whether the session existed.
func (s *Service) CloseSession(id string) bool {
	return s.sessions.Remove(id)
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	return s.sessions.Len()
}

// Formats lists the accepted SSD file formats.
func (s *Service) Formats() []FormatInfo {
	return Formats()
}

// DiscoverMatrices lists the matrix sheets of an ALS workbook.
func (s *Service) DiscoverMatrices(wb Workbook) ([]MatrixInfo, error) {
	sheets, err := ExtractMatrices(wb)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, ErrNoMatrix
	}
	return ListMatrices(sheets), nil
}

// CompareResult is the outcome of a one-shot comparison.
type CompareResult struct {
	Hierarchy *Hierarchy
	Candidate Candidate
	Diff      DiffResult
}

// Report renders the annotated diff report of r.
func (r CompareResult) Report() string {
	return RenderDiffReport(r.Diff, r.Hierarchy.Names(), r.Candidate.Names)
}

// Compare builds the master from wb and diffs c against it without touching
// any session.
func (s *Service) Compare(ctx context.Context, wb Workbook, matrixOID string, c Candidate) (CompareResult, error) {
	if err := ctx.Err(); err != nil {
		return CompareResult{}, err
	}
	h, _, err := BuildHierarchy(wb, s.HierarchyOptions(matrixOID))
	if err != nil {
		return CompareResult{}, err
	}
	return CompareResult{
		Hierarchy: h,
		Candidate: c,
		Diff:      Diff(h.FolderFormMap(), c.Map),
	}, nil
}
