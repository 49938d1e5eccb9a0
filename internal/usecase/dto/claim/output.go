package claimdto

import (
	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase/dto/pagination"
)

type ClaimOutput struct {
	Claim         *domain.Claim
	AwaitingSweep bool
}

type ListClaimsOutput struct {
	Claims     []ClaimOutput
	Pagination pagination.Pagination
}
