package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
)

type disputeRepo struct{ s *store }

func (r *disputeRepo) Create(_ context.Context, dispute *domain.Dispute) error {
	if err := r.s.writable("create dispute"); err != nil {
		return err
	}
	for _, existing := range r.s.st.disputes {
		if existing.ID == dispute.ID || existing.Code == dispute.Code {
			return &domain.StorageError{Op: "create dispute", Retryable: true, Err: errDuplicate(dispute.Code)}
		}
	}
	r.s.st.disputes[dispute.ID] = *dispute
	return nil
}

func (r *disputeRepo) Update(_ context.Context, dispute *domain.Dispute) error {
	if err := r.s.writable("update dispute"); err != nil {
		return err
	}
	if _, ok := r.s.st.disputes[dispute.ID]; !ok {
		return notFound("dispute", dispute.ID)
	}
	r.s.st.disputes[dispute.ID] = *dispute
	return nil
}

func (r *disputeRepo) GetByID(_ context.Context, disputeID string) (*domain.Dispute, error) {
	dispute, ok := r.s.st.disputes[disputeID]
	if !ok {
		return nil, notFound("dispute", disputeID)
	}
	return &dispute, nil
}

func (r *disputeRepo) GetForUpdate(ctx context.Context, disputeID string) (*domain.Dispute, error) {
	return r.GetByID(ctx, disputeID)
}

func (r *disputeRepo) GetByCode(_ context.Context, code string) (*domain.Dispute, error) {
	for _, dispute := range r.s.st.disputes {
		if dispute.Code == code {
			return &dispute, nil
		}
	}
	return nil, notFound("dispute", code)
}

func (r *disputeRepo) List(_ context.Context, filter domain.DisputeFilter) ([]*domain.Dispute, int64, error) {
	var out []*domain.Dispute
	for _, d := range r.s.st.disputes {
		if filter.PartyID != nil && !d.IsParty(*filter.PartyID) {
			continue
		}
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		if filter.Phase != nil && d.Phase != *filter.Phase {
			continue
		}
		out = append(out, &d)
	}
	slices.SortFunc(out, func(a, b *domain.Dispute) int { return strings.Compare(b.Code, a.Code) })
	return paginate(out, filter.Page), int64(len(out)), nil
}

func (r *disputeRepo) AddMessage(_ context.Context, msg *domain.DisputeMessage) error {
	if err := r.s.writable("add dispute message"); err != nil {
		return err
	}
	r.s.st.disputeMessages = append(r.s.st.disputeMessages, *msg)
	return nil
}

func (r *disputeRepo) ListMessages(_ context.Context, disputeID string) ([]*domain.DisputeMessage, error) {
	var out []*domain.DisputeMessage
	for _, m := range r.s.st.disputeMessages {
		if m.DisputeID == disputeID {
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r *disputeRepo) AddEvidence(_ context.Context, ev *domain.DisputeEvidence) error {
	if err := r.s.writable("add dispute evidence"); err != nil {
		return err
	}
	r.s.st.evidence = append(r.s.st.evidence, *ev)
	return nil
}

func (r *disputeRepo) ListEvidence(_ context.Context, disputeID string) ([]*domain.DisputeEvidence, error) {
	var out []*domain.DisputeEvidence
	for _, e := range r.s.st.evidence {
		if e.DisputeID == disputeID {
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r *disputeRepo) AddEligibilityChecks(_ context.Context, checks []*domain.EligibilityCheck) error {
	if err := r.s.writable("add eligibility checks"); err != nil {
		return err
	}
	for _, c := range checks {
		r.s.st.checks = append(r.s.st.checks, *c)
	}
	return nil
}

func (r *disputeRepo) ListEligibilityChecks(_ context.Context, disputeID string) ([]*domain.EligibilityCheck, error) {
	var out []*domain.EligibilityCheck
	for _, c := range r.s.st.checks {
		if c.DisputeID == disputeID {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *disputeRepo) AddResolution(_ context.Context, res *domain.DisputeResolution) error {
	if err := r.s.writable("add resolution"); err != nil {
		return err
	}
	if _, ok := r.s.st.resolutions[res.DisputeID]; ok {
		return &domain.StorageError{Op: "add resolution", Err: errDuplicate(res.DisputeID)}
	}
	r.s.st.resolutions[res.DisputeID] = *res
	return nil
}

func (r *disputeRepo) GetResolution(_ context.Context, disputeID string) (*domain.DisputeResolution, error) {
	res, ok := r.s.st.resolutions[disputeID]
	if !ok {
		return nil, notFound("resolution for dispute", disputeID)
	}
	return &res, nil
}

func (r *disputeRepo) FindOverdue(_ context.Context, now time.Time, limit int) ([]*domain.Dispute, error) {
	var out []*domain.Dispute
	for _, d := range r.s.st.disputes {
		if d.OverdueAction(now) != domain.OverdueNone {
			out = append(out, &d)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Dispute) int { return strings.Compare(a.Code, b.Code) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
