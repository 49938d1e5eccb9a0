package issue

import (
	"context"
	"fmt"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	issuedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/issue"
)

// RejectIssue records the rejection and opens the dispute in the same
// transaction. The issue is never persisted as rejected without one.
func (issueUc *DefaultIssueUsecase) RejectIssue(ctx context.Context, input *issuedto.RespondIssueInput) (*issuedto.RejectIssueOutput, error) {
	const op = "reject_issue"
	now := issueUc.deps.Now()
	var (
		issue   *domain.Issue
		dispute *domain.Dispute
	)
	err := issueUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		issue, err = tx.Issues().GetForUpdate(ctx, input.IssueID)
		if err != nil {
			return err
		}
		if err := issue.Reject(input.ActingUser, input.Reason, now); err != nil {
			return err
		}
		body := fmt.Sprintf("Issue %s rejected", issue.Code)
		if input.Reason != "" {
			body += ": " + input.Reason
		}
		if err := tx.Issues().AddMessage(ctx, &domain.IssueMessage{
			ID:          usecase.NewRowID(),
			IssueID:     issue.ID,
			MessageType: domain.MessageStatusUpdate,
			Body:        body,
			CreatedAt:   now,
		}); err != nil {
			return fmt.Errorf("issue message: %w", err)
		}
		dispute, err = issueUc.engine.EscalateIssueToDispute(ctx, tx, issue, now)
		return err
	})
	if err != nil {
		return nil, issueUc.deps.Fail(op, err)
	}

	issueUc.logTransition(op, issue)
	issueUc.deps.Metrics.RecordTransition("dispute", "opened_from_issue")
	var outbox usecase.Outbox
	payload := map[string]string{
		"issue_code":   issue.Code,
		"dispute_code": dispute.Code,
	}
	outbox.Add(issue.CreatedBy, domain.EventIssueRejected, now, payload)
	outbox.Add(issue.OtherPartyID, domain.EventIssueRejected, now, payload)
	issueUc.deps.Dispatch(ctx, outbox)
	return &issuedto.RejectIssueOutput{Issue: issue, Dispute: dispute}, nil
}
