package issuedto

import (
	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase/dto/pagination"
)

// IssueOutput is the read view of an issue. AwaitingSweep marks a pending
// issue whose deadline passed; it is still pending until the sweeper runs.
type IssueOutput struct {
	Issue         *domain.Issue
	AwaitingSweep bool
}

type RejectIssueOutput struct {
	Issue   *domain.Issue
	Dispute *domain.Dispute
}

type ListIssuesOutput struct {
	Issues     []IssueOutput
	Pagination pagination.Pagination
}
