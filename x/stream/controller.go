package stream

import (
	"github.com/iov-one/rill"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/fixed"
)

// syncStream advances the stream distribution index up to the given time.
// Distribution is linear in time over the remaining undistributed supply, so
// a stream that lost all subscribers for a while simply distributes the
// leftover over the remaining window instead of backdating rewards.
//
// The stream status is derived from block time as a side effect. Terminal
// states (finalized, cancelled) are never left.
func syncStream(s *Stream, now rill.UnixTime) error {
	if s.Status == STATUS_FINALIZED || s.Status == STATUS_CANCELLED {
		return nil
	}

	if now < s.StartTime {
		s.Status = STATUS_PENDING
		return nil
	}
	if now >= s.EndTime {
		s.Status = STATUS_ENDED
	} else {
		s.Status = STATUS_ACTIVE
	}

	// Clamp to the sale window. Nothing is distributed outside of it.
	t := now
	if t > s.EndTime {
		t = s.EndTime
	}
	if s.LastUpdated < s.StartTime {
		s.LastUpdated = s.StartTime
	}
	if t <= s.LastUpdated {
		return nil
	}
	if s.TotalShares == 0 {
		// No one to distribute to. Time passes but the supply stays.
		s.LastUpdated = t
		return nil
	}

	remaining := s.OutTotal - s.DistributedTotal
	elapsed := int64(t - s.LastUpdated)
	span := int64(s.EndTime - s.LastUpdated)
	delta, err := fixed.MulRatio(remaining, elapsed, span)
	if err != nil {
		return errors.Wrap(err, "distribution delta")
	}
	if delta > 0 {
		inc, err := fixed.FromRatio(delta, s.TotalShares)
		if err != nil {
			return errors.Wrap(err, "index increment")
		}
		s.DistIndex, err = s.DistIndex.Add(inc)
		if err != nil {
			return errors.Wrap(err, "dist index")
		}
		s.DistributedTotal += delta
	}
	s.LastUpdated = t
	return nil
}

// syncPosition reconciles a position against the stream index. The whole
// part of the accrued amount is moved to Earned, the fractional remainder is
// carried in PendingEarned so that repeated reconciliation loses nothing.
// The stream must be synced first.
func syncPosition(s *Stream, p *Position) error {
	if p.Shares > 0 && !s.DistIndex.Equal(p.IndexSnapshot) {
		diff, err := s.DistIndex.Sub(p.IndexSnapshot)
		if err != nil {
			return errors.Wrap(err, "index diff")
		}
		gross, err := diff.MulInt(p.Shares)
		if err != nil {
			return errors.Wrap(err, "gross accrual")
		}
		total, err := gross.Add(p.PendingEarned)
		if err != nil {
			return errors.Wrap(err, "pending accrual")
		}
		whole, frac, err := total.Split()
		if err != nil {
			return errors.Wrap(err, "split accrual")
		}
		p.Earned += whole
		p.PendingEarned = frac
	}
	p.IndexSnapshot = s.DistIndex
	p.LastUpdated = s.LastUpdated
	return nil
}

// StreamAt returns a copy of the stream projected to the given time. The
// stored entity is not modified.
func StreamAt(s *Stream, now rill.UnixTime) (*Stream, error) {
	cpy := s.Copy().(*Stream)
	if err := syncStream(cpy, now); err != nil {
		return nil, err
	}
	return cpy, nil
}

// PositionAt returns a copy of the position projected to the given time. The
// stored entities are not modified.
func PositionAt(s *Stream, p *Position, now rill.UnixTime) (*Position, error) {
	scpy, err := StreamAt(s, now)
	if err != nil {
		return nil, err
	}
	pcpy := p.Copy().(*Position)
	if err := syncPosition(scpy, pcpy); err != nil {
		return nil, err
	}
	return pcpy, nil
}
