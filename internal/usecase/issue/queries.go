package issue

import (
	"context"

	"github.com/roundbuy/backend-sub000/internal/domain"
	issuedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/issue"
	"github.com/roundbuy/backend-sub000/internal/usecase/dto/pagination"
)

func (issueUc *DefaultIssueUsecase) view(issue *domain.Issue) issuedto.IssueOutput {
	return issuedto.IssueOutput{
		Issue:         issue,
		AwaitingSweep: issue.AwaitingSweep(issueUc.deps.Now()),
	}
}

func (issueUc *DefaultIssueUsecase) GetIssueByID(ctx context.Context, issueID string) (*issuedto.IssueOutput, error) {
	var issue *domain.Issue
	err := issueUc.deps.Tx.View(ctx, func(s domain.Store) error {
		var err error
		issue, err = s.Issues().GetByID(ctx, issueID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := issueUc.view(issue)
	return &out, nil
}

func (issueUc *DefaultIssueUsecase) GetIssueByCode(ctx context.Context, code string) (*issuedto.IssueOutput, error) {
	var issue *domain.Issue
	err := issueUc.deps.Tx.View(ctx, func(s domain.Store) error {
		var err error
		issue, err = s.Issues().GetByCode(ctx, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := issueUc.view(issue)
	return &out, nil
}

func (issueUc *DefaultIssueUsecase) ListIssueMessages(ctx context.Context, issueID string) ([]*domain.IssueMessage, error) {
	var msgs []*domain.IssueMessage
	err := issueUc.deps.Tx.View(ctx, func(s domain.Store) error {
		if _, err := s.Issues().GetByID(ctx, issueID); err != nil {
			return err
		}
		var err error
		msgs, err = s.Issues().ListMessages(ctx, issueID)
		return err
	})
	return msgs, err
}

func (issueUc *DefaultIssueUsecase) ListIssues(ctx context.Context, input *issuedto.ListIssuesInput) (*issuedto.ListIssuesOutput, error) {
	page := domain.Page{Page: int(input.Page), Limit: int(input.Limit)}.Normalize()
	var (
		issues []*domain.Issue
		total  int64
	)
	err := issueUc.deps.Tx.View(ctx, func(s domain.Store) error {
		var err error
		issues, total, err = s.Issues().List(ctx, domain.IssueFilter{
			PartyID: input.PartyID,
			Status:  input.Status,
			Page:    page,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &issuedto.ListIssuesOutput{
		Issues:     make([]issuedto.IssueOutput, 0, len(issues)),
		Pagination: pagination.New(page.Page, page.Limit, total),
	}
	for _, issue := range issues {
		out.Issues = append(out.Issues, issueUc.view(issue))
	}
	return out, nil
}
