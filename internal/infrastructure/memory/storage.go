package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/roundbuy/backend-sub000/internal/domain"
)

type state struct {
	issues          map[string]domain.Issue
	issueMessages   []domain.IssueMessage
	disputes        map[string]domain.Dispute
	disputeMessages []domain.DisputeMessage
	evidence        []domain.DisputeEvidence
	checks          []domain.EligibilityCheck
	resolutions     map[string]domain.DisputeResolution
	claims          map[string]domain.Claim
	claimMessages   []domain.ClaimMessage
	claimEvidence   []domain.ClaimEvidence
	counters        map[domain.CodeKind]int64
}

func newState() *state {
	return &state{
		issues:      map[string]domain.Issue{},
		disputes:    map[string]domain.Dispute{},
		resolutions: map[string]domain.DisputeResolution{},
		claims:      map[string]domain.Claim{},
		counters:    map[domain.CodeKind]int64{},
	}
}

// clone copies every table. Entities are stored by value and their pointer
// fields are only ever replaced, never written through, so a shallow copy
// per row is enough.
func (s *state) clone() *state {
	return &state{
		issues:          maps.Clone(s.issues),
		issueMessages:   slices.Clone(s.issueMessages),
		disputes:        maps.Clone(s.disputes),
		disputeMessages: slices.Clone(s.disputeMessages),
		evidence:        slices.Clone(s.evidence),
		checks:          slices.Clone(s.checks),
		resolutions:     maps.Clone(s.resolutions),
		claims:          maps.Clone(s.claims),
		claimMessages:   slices.Clone(s.claimMessages),
		claimEvidence:   slices.Clone(s.claimEvidence),
		counters:        maps.Clone(s.counters),
	}
}

// Storage keeps everything in process memory. Transactions are serialized
// by one mutex, which also makes every GetForUpdate trivially exclusive,
// and roll back by restoring a snapshot.
type Storage struct {
	mu sync.Mutex
	st *state
}

func NewStorage() *Storage {
	return &Storage{st: newState()}
}

func (s *Storage) WithinTx(ctx context.Context, fn func(tx domain.Store) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			s.st = snapshot
			panic(p)
		}
		if err != nil {
			s.st = snapshot
		}
	}()
	return fn(&store{st: s.st})
}

func (s *Storage) View(ctx context.Context, fn func(st domain.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&store{st: s.st, readOnly: true})
}

type store struct {
	st       *state
	readOnly bool
}

func (s *store) Issues() domain.IssueRepository     { return &issueRepo{s} }
func (s *store) Disputes() domain.DisputeRepository { return &disputeRepo{s} }
func (s *store) Claims() domain.ClaimRepository     { return &claimRepo{s} }
func (s *store) Codes() domain.CodeGenerator        { return &codeGen{s} }

func (s *store) writable(op string) error {
	if s.readOnly {
		return &domain.StorageError{Op: op, Err: fmt.Errorf("write in read-only view")}
	}
	return nil
}

type codeGen struct{ s *store }

func (g *codeGen) Next(_ context.Context, kind domain.CodeKind) (string, error) {
	if err := g.s.writable("next code"); err != nil {
		return "", err
	}
	next := g.s.st.counters[kind] + 1
	code, err := domain.FormatCode(kind, next)
	if err != nil {
		return "", err
	}
	g.s.st.counters[kind] = next
	return code, nil
}

func notFound(entity, key string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, entity, key)
}

func paginate[T any](items []T, page domain.Page) []T {
	page = page.Normalize()
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := min(start+page.Limit, len(items))
	return items[start:end]
}

func errDuplicate(key string) error {
	return fmt.Errorf("duplicate key %s", key)
}
