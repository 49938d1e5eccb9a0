package issue

import (
	"context"
	"fmt"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	issuedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/issue"
)

// AcceptIssue settles the issue for good. The counterparty is the only
// user allowed to accept, and only before the deadline.
func (issueUc *DefaultIssueUsecase) AcceptIssue(ctx context.Context, input *issuedto.RespondIssueInput) (*domain.Issue, error) {
	const op = "accept_issue"
	now := issueUc.deps.Now()
	var issue *domain.Issue
	err := issueUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		issue, err = tx.Issues().GetForUpdate(ctx, input.IssueID)
		if err != nil {
			return err
		}
		if err := issue.Accept(input.ActingUser, now); err != nil {
			return err
		}
		if err := tx.Issues().Update(ctx, issue); err != nil {
			return fmt.Errorf("update issue: %w", err)
		}
		return tx.Issues().AddMessage(ctx, &domain.IssueMessage{
			ID:          usecase.NewRowID(),
			IssueID:     issue.ID,
			MessageType: domain.MessageStatusUpdate,
			Body:        fmt.Sprintf("Issue %s accepted", issue.Code),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, issueUc.deps.Fail(op, err)
	}

	issueUc.logTransition(op, issue)
	var outbox usecase.Outbox
	outbox.Add(issue.CreatedBy, domain.EventIssueAccepted, now, map[string]string{
		"issue_code": issue.Code,
	})
	issueUc.deps.Dispatch(ctx, outbox)
	return issue, nil
}
