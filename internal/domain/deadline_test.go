package domain_test

import (
	"testing"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMidnightAfter(t *testing.T) {
	now := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), domain.MidnightAfter(now, 3, time.UTC))
	assert.Equal(t, time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC), domain.MidnightAfter(now, 20, nil))

	// месяц и год переносятся
	late := time.Date(2024, 12, 30, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 29, 0, 0, 0, 0, time.UTC), domain.MidnightAfter(late, 30, time.UTC))
}

func TestMidnightAfter_Location(t *testing.T) {
	loc := time.FixedZone("EET", 2*60*60)

	// 23:30 UTC is already the next day at UTC+2.
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	got := domain.MidnightAfter(now, 1, loc)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, loc), got)
}

func TestDefaultDeadlinePolicy(t *testing.T) {
	p := domain.DefaultDeadlinePolicy()
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), p.IssueDeadline(now))
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), p.NegotiationDeadline(now))
	assert.Equal(t, time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC), p.DisputeDeadline(now))
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), p.ResolutionDeadline(now))
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), p.ClaimDeadline(now))
}
