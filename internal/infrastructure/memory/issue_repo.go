package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
)

type issueRepo struct{ s *store }

func (r *issueRepo) Create(_ context.Context, issue *domain.Issue) error {
	if err := r.s.writable("create issue"); err != nil {
		return err
	}
	if _, ok := r.s.st.issues[issue.ID]; ok {
		return &domain.StorageError{Op: "create issue", Retryable: true, Err: errDuplicate(issue.ID)}
	}
	for _, existing := range r.s.st.issues {
		if existing.Code == issue.Code {
			return &domain.StorageError{Op: "create issue", Retryable: true, Err: errDuplicate(issue.Code)}
		}
	}
	r.s.st.issues[issue.ID] = *issue
	return nil
}

func (r *issueRepo) Update(_ context.Context, issue *domain.Issue) error {
	if err := r.s.writable("update issue"); err != nil {
		return err
	}
	if _, ok := r.s.st.issues[issue.ID]; !ok {
		return notFound("issue", issue.ID)
	}
	r.s.st.issues[issue.ID] = *issue
	return nil
}

func (r *issueRepo) GetByID(_ context.Context, issueID string) (*domain.Issue, error) {
	issue, ok := r.s.st.issues[issueID]
	if !ok {
		return nil, notFound("issue", issueID)
	}
	return &issue, nil
}

func (r *issueRepo) GetForUpdate(ctx context.Context, issueID string) (*domain.Issue, error) {
	return r.GetByID(ctx, issueID)
}

func (r *issueRepo) GetByCode(_ context.Context, code string) (*domain.Issue, error) {
	for _, issue := range r.s.st.issues {
		if issue.Code == code {
			return &issue, nil
		}
	}
	return nil, notFound("issue", code)
}

func (r *issueRepo) List(_ context.Context, filter domain.IssueFilter) ([]*domain.Issue, int64, error) {
	var out []*domain.Issue
	for _, issue := range r.s.st.issues {
		if filter.PartyID != nil && issue.CreatedBy != *filter.PartyID && issue.OtherPartyID != *filter.PartyID {
			continue
		}
		if filter.Status != nil && issue.Status != *filter.Status {
			continue
		}
		out = append(out, &issue)
	}
	slices.SortFunc(out, func(a, b *domain.Issue) int { return strings.Compare(b.Code, a.Code) })
	return paginate(out, filter.Page), int64(len(out)), nil
}

func (r *issueRepo) AddMessage(_ context.Context, msg *domain.IssueMessage) error {
	if err := r.s.writable("add issue message"); err != nil {
		return err
	}
	r.s.st.issueMessages = append(r.s.st.issueMessages, *msg)
	return nil
}

func (r *issueRepo) ListMessages(_ context.Context, issueID string) ([]*domain.IssueMessage, error) {
	var out []*domain.IssueMessage
	for _, m := range r.s.st.issueMessages {
		if m.IssueID == issueID {
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r *issueRepo) FindExpired(_ context.Context, now time.Time, limit int) ([]*domain.Issue, error) {
	var out []*domain.Issue
	for _, issue := range r.s.st.issues {
		if issue.Status == domain.IssuePending && issue.Deadline.Before(now) {
			out = append(out, &issue)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Issue) int {
		if c := a.Deadline.Compare(b.Deadline); c != 0 {
			return c
		}
		return strings.Compare(a.Code, b.Code)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
