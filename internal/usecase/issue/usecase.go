package issue

import (
	"context"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	issuedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/issue"
	"github.com/roundbuy/backend-sub000/internal/usecase/escalation"
)

type IssueUsecase interface {
	CreateIssue(ctx context.Context, input *issuedto.CreateIssueInput) (*domain.Issue, error)
	AcceptIssue(ctx context.Context, input *issuedto.RespondIssueInput) (*domain.Issue, error)
	RejectIssue(ctx context.Context, input *issuedto.RespondIssueInput) (*issuedto.RejectIssueOutput, error)
	ExpireIssue(ctx context.Context, issueID string, now time.Time) (bool, error)
	GetIssueByID(ctx context.Context, issueID string) (*issuedto.IssueOutput, error)
	GetIssueByCode(ctx context.Context, code string) (*issuedto.IssueOutput, error)
	ListIssueMessages(ctx context.Context, issueID string) ([]*domain.IssueMessage, error)
	ListIssues(ctx context.Context, input *issuedto.ListIssuesInput) (*issuedto.ListIssuesOutput, error)
}

type DefaultIssueUsecase struct {
	deps   usecase.Deps
	engine *escalation.Engine
}

func NewDefaultIssueUsecase(deps usecase.Deps, engine *escalation.Engine) *DefaultIssueUsecase {
	return &DefaultIssueUsecase{deps: deps.WithDefaults(), engine: engine}
}

func (issueUc *DefaultIssueUsecase) logTransition(op string, issue *domain.Issue) {
	issueUc.deps.Metrics.RecordTransition("issue", string(issue.Status))
	issueUc.deps.Logger.Info("issue transition",
		"module", "issue",
		"operation", op,
		"outcome", "ok",
		"issue_id", issue.ID,
		"issue_code", issue.Code,
		"status", issue.Status,
	)
}
