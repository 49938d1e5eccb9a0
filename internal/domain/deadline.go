package domain

import "time"

// DeadlinePolicy holds the window lengths in days. Every deadline is the
// midnight that starts the day now+window in Location.
type DeadlinePolicy struct {
	IssueDays       int
	NegotiationDays int
	DisputeDays     int
	ResolutionDays  int
	ClaimDays       int
	Location        *time.Location
}

func DefaultDeadlinePolicy() DeadlinePolicy {
	return DeadlinePolicy{
		IssueDays:       3,
		NegotiationDays: 3,
		DisputeDays:     20,
		ResolutionDays:  7,
		ClaimDays:       30,
		Location:        time.UTC,
	}
}

// MidnightAfter truncates now+days to 00:00 in loc.
func MidnightAfter(now time.Time, days int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t := now.In(loc).AddDate(0, 0, days)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func (p DeadlinePolicy) IssueDeadline(now time.Time) time.Time {
	return MidnightAfter(now, p.IssueDays, p.Location)
}

func (p DeadlinePolicy) NegotiationDeadline(now time.Time) time.Time {
	return MidnightAfter(now, p.NegotiationDays, p.Location)
}

func (p DeadlinePolicy) DisputeDeadline(now time.Time) time.Time {
	return MidnightAfter(now, p.DisputeDays, p.Location)
}

func (p DeadlinePolicy) ResolutionDeadline(now time.Time) time.Time {
	return MidnightAfter(now, p.ResolutionDays, p.Location)
}

func (p DeadlinePolicy) ClaimDeadline(now time.Time) time.Time {
	return MidnightAfter(now, p.ClaimDays, p.Location)
}
