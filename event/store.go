package event

import (
	"context"
	"time"

	"github.com/xraph/stakeledger/id"
)

type Store interface {
	ListEvents(ctx context.Context, opts ListOpts) ([]*Event, error)
}

// ListOpts filters an event listing. Results are ordered by Sequence.
type ListOpts struct {
	AccountID id.AccountID
	Type      Type
	Start     time.Time
	End       time.Time
	Limit     int
	Offset    int
}

// Matches reports whether e passes the filter, ignoring paging.
func (o ListOpts) Matches(e *Event) bool {
	if !o.AccountID.IsNil() && e.AccountID.String() != o.AccountID.String() {
		return false
	}
	if o.Type != "" && e.Type != o.Type {
		return false
	}
	if !o.Start.IsZero() && e.Timestamp.Before(o.Start) {
		return false
	}
	if !o.End.IsZero() && !e.Timestamp.Before(o.End) {
		return false
	}
	return true
}
