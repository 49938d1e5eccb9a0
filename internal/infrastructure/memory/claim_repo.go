package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
)

type claimRepo struct{ s *store }

func (r *claimRepo) Create(_ context.Context, claim *domain.Claim) error {
	if err := r.s.writable("create claim"); err != nil {
		return err
	}
	for _, existing := range r.s.st.claims {
		if existing.ID == claim.ID || existing.Code == claim.Code {
			return &domain.StorageError{Op: "create claim", Retryable: true, Err: errDuplicate(claim.Code)}
		}
		if existing.DisputeID == claim.DisputeID {
			return &domain.StorageError{Op: "create claim", Err: errDuplicate("claim for dispute " + claim.DisputeID)}
		}
	}
	r.s.st.claims[claim.ID] = *claim
	return nil
}

func (r *claimRepo) Update(_ context.Context, claim *domain.Claim) error {
	if err := r.s.writable("update claim"); err != nil {
		return err
	}
	if _, ok := r.s.st.claims[claim.ID]; !ok {
		return notFound("claim", claim.ID)
	}
	r.s.st.claims[claim.ID] = *claim
	return nil
}

func (r *claimRepo) GetByID(_ context.Context, claimID string) (*domain.Claim, error) {
	claim, ok := r.s.st.claims[claimID]
	if !ok {
		return nil, notFound("claim", claimID)
	}
	return &claim, nil
}

func (r *claimRepo) GetForUpdate(ctx context.Context, claimID string) (*domain.Claim, error) {
	return r.GetByID(ctx, claimID)
}

func (r *claimRepo) find(pred func(c *domain.Claim) bool, key string) (*domain.Claim, error) {
	for _, claim := range r.s.st.claims {
		if pred(&claim) {
			return &claim, nil
		}
	}
	return nil, notFound("claim", key)
}

func (r *claimRepo) GetByCode(_ context.Context, code string) (*domain.Claim, error) {
	return r.find(func(c *domain.Claim) bool { return c.Code == code }, code)
}

func (r *claimRepo) GetByDisputeID(_ context.Context, disputeID string) (*domain.Claim, error) {
	return r.find(func(c *domain.Claim) bool { return c.DisputeID == disputeID }, "for dispute "+disputeID)
}

func (r *claimRepo) List(_ context.Context, filter domain.ClaimFilter) ([]*domain.Claim, int64, error) {
	var out []*domain.Claim
	for _, c := range r.s.st.claims {
		if filter.PartyID != nil && !c.IsParty(*filter.PartyID) {
			continue
		}
		if filter.AdminID != nil && !c.IsAssignedAdmin(*filter.AdminID) {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && c.Priority != *filter.Priority {
			continue
		}
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *domain.Claim) int { return strings.Compare(b.Code, a.Code) })
	return paginate(out, filter.Page), int64(len(out)), nil
}

func (r *claimRepo) AddMessage(_ context.Context, msg *domain.ClaimMessage) error {
	if err := r.s.writable("add claim message"); err != nil {
		return err
	}
	r.s.st.claimMessages = append(r.s.st.claimMessages, *msg)
	return nil
}

func (r *claimRepo) ListMessages(_ context.Context, claimID string) ([]*domain.ClaimMessage, error) {
	var out []*domain.ClaimMessage
	for _, m := range r.s.st.claimMessages {
		if m.ClaimID == claimID {
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r *claimRepo) AddEvidence(_ context.Context, ev *domain.ClaimEvidence) error {
	if err := r.s.writable("add claim evidence"); err != nil {
		return err
	}
	r.s.st.claimEvidence = append(r.s.st.claimEvidence, *ev)
	return nil
}

func (r *claimRepo) ListEvidence(_ context.Context, claimID string) ([]*domain.ClaimEvidence, error) {
	var out []*domain.ClaimEvidence
	for _, e := range r.s.st.claimEvidence {
		if e.ClaimID == claimID {
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r *claimRepo) FindOverdue(_ context.Context, now time.Time, limit int) ([]*domain.Claim, error) {
	var out []*domain.Claim
	for _, c := range r.s.st.claims {
		if c.OverdueAction(now) != domain.OverdueNone {
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Claim) int { return a.Deadline.Compare(b.Deadline) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
