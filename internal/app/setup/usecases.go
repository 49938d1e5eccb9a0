package setup

import (
	"context"
	"time"

	"github.com/roundbuy/backend-sub000/internal/usecase"
	"github.com/roundbuy/backend-sub000/internal/usecase/claim"
	"github.com/roundbuy/backend-sub000/internal/usecase/dispute"
	"github.com/roundbuy/backend-sub000/internal/usecase/escalation"
	"github.com/roundbuy/backend-sub000/internal/usecase/issue"
	"github.com/roundbuy/backend-sub000/internal/usecase/sweeper"
)

type UseCases struct {
	IssueUsecase      issue.IssueUsecase
	DisputeUsecase    dispute.DisputeUsecase
	ClaimUsecase      claim.ClaimUsecase
	EscalationUsecase escalation.EscalationUsecase
	Sweeper           *sweeper.Sweeper
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	dispatcher := usecase.NewDispatcher(deps.Notifier, deps.Metrics, deps.Logger, usecase.DispatcherConfig{})
	// Runs before the transports close, so queued notifications still go out.
	deps.closers = append(deps.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return dispatcher.Close(ctx)
	})

	ucDeps := usecase.Deps{
		Tx:         deps.Tx,
		Notifier:   deps.Notifier,
		Dispatcher: dispatcher,
		Metrics:    deps.Metrics,
		Policy:     deps.Policy,
		Logger:     deps.Logger,
	}.WithDefaults()
	engine := escalation.NewEngine(ucDeps.Policy)

	issueUsecase := issue.NewDefaultIssueUsecase(ucDeps, engine)
	disputeUsecase := dispute.NewDefaultDisputeUsecase(ucDeps, engine)
	claimUsecase := claim.NewDefaultClaimUsecase(ucDeps)

	return &UseCases{
		IssueUsecase:      issueUsecase,
		DisputeUsecase:    disputeUsecase,
		ClaimUsecase:      claimUsecase,
		EscalationUsecase: escalation.NewDefaultEscalationUsecase(ucDeps, engine),
		Sweeper: sweeper.New(
			deps.Tx,
			issueUsecase,
			disputeUsecase,
			claimUsecase,
			deps.Locker,
			deps.Metrics,
			deps.Logger,
			sweeper.Config{
				BatchSize: deps.Config.Sweeper.BatchSize,
				LockTTL:   deps.Config.Sweeper.LockTTL,
			},
		),
	}
}
