package issue

import (
	"context"
	"fmt"
	"strings"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	issuedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/issue"
)

func validateCreate(input *issuedto.CreateIssueInput) error {
	switch {
	case input.CreatedBy == "" || input.OtherPartyID == "":
		return fmt.Errorf("%w: both parties are required", domain.ErrValidation)
	case input.CreatedBy == input.OtherPartyID:
		return fmt.Errorf("%w: an issue needs two different parties", domain.ErrValidation)
	case input.AdvertisementID == "":
		return fmt.Errorf("%w: advertisement is required", domain.ErrValidation)
	case !input.IssueType.Valid():
		return fmt.Errorf("%w: unknown issue type %q", domain.ErrValidation, input.IssueType)
	case strings.TrimSpace(input.Description) == "":
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	return nil
}

// CreateIssue opens a pending issue with a midnight-truncated deadline and
// the initial system message.
func (issueUc *DefaultIssueUsecase) CreateIssue(ctx context.Context, input *issuedto.CreateIssueInput) (*domain.Issue, error) {
	const op = "create_issue"
	if err := validateCreate(input); err != nil {
		return nil, issueUc.deps.Fail(op, err)
	}
	now := issueUc.deps.Now()
	var issue *domain.Issue
	err := issueUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		code, err := tx.Codes().Next(ctx, domain.CodeIssue)
		if err != nil {
			return fmt.Errorf("issue code: %w", err)
		}
		issue = &domain.Issue{
			ID:              usecase.NewID(),
			Code:            code,
			CreatedBy:       input.CreatedBy,
			OtherPartyID:    input.OtherPartyID,
			AdvertisementID: input.AdvertisementID,
			Type:            input.IssueType,
			Description:     input.Description,
			Status:          domain.IssuePending,
			Deadline:        issueUc.deps.Policy.IssueDeadline(now),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.Issues().Create(ctx, issue); err != nil {
			return fmt.Errorf("create issue: %w", err)
		}
		return tx.Issues().AddMessage(ctx, &domain.IssueMessage{
			ID:          usecase.NewRowID(),
			IssueID:     issue.ID,
			MessageType: domain.MessageStatusUpdate,
			Body: fmt.Sprintf("Issue %s opened, awaiting response until %s",
				issue.Code, issue.Deadline.Format("2006-01-02")),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, issueUc.deps.Fail(op, err)
	}

	issueUc.deps.Metrics.RecordCodeIssued(string(domain.CodeIssue))
	issueUc.logTransition(op, issue)
	var outbox usecase.Outbox
	outbox.Add(issue.OtherPartyID, domain.EventIssueCreated, now, map[string]string{
		"issue_code": issue.Code,
		"issue_type": string(issue.Type),
		"deadline":   issue.Deadline.Format("2006-01-02T15:04:05Z07:00"),
	})
	issueUc.deps.Dispatch(ctx, outbox)
	return issue, nil
}
