package issue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
)

// ExpireIssue is the sweeper's per-row transition. It re-reads the issue
// under lock and reports false when someone else already moved it.
func (issueUc *DefaultIssueUsecase) ExpireIssue(ctx context.Context, issueID string, now time.Time) (bool, error) {
	var issue *domain.Issue
	err := issueUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		issue, err = tx.Issues().GetForUpdate(ctx, issueID)
		if err != nil {
			return err
		}
		if err := issue.Expire(now); err != nil {
			return err
		}
		if err := tx.Issues().Update(ctx, issue); err != nil {
			return fmt.Errorf("update issue: %w", err)
		}
		return tx.Issues().AddMessage(ctx, &domain.IssueMessage{
			ID:          usecase.NewRowID(),
			IssueID:     issue.ID,
			MessageType: domain.MessageStatusUpdate,
			Body:        fmt.Sprintf("Issue %s expired without a response", issue.Code),
			CreatedAt:   now,
		})
	})
	if errors.Is(err, domain.ErrInvalidTransition) {
		return false, nil
	}
	if err != nil {
		return false, issueUc.deps.Fail("expire_issue", err)
	}

	issueUc.logTransition("expire_issue", issue)
	var outbox usecase.Outbox
	payload := map[string]string{"issue_code": issue.Code}
	outbox.Add(issue.CreatedBy, domain.EventIssueExpired, now, payload)
	outbox.Add(issue.OtherPartyID, domain.EventIssueExpired, now, payload)
	issueUc.deps.Dispatch(ctx, outbox)
	return true, nil
}
