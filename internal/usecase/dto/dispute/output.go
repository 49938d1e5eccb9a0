package disputedto

import (
	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase/dto/pagination"
)

type DisputeOutput struct {
	Dispute       *domain.Dispute
	AwaitingSweep bool
	PendingAction domain.OverdueAction
}

type ListDisputesOutput struct {
	Disputes   []DisputeOutput
	Pagination pagination.Pagination
}
