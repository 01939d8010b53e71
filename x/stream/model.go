package stream

import (
	"github.com/iov-one/rill"
	"github.com/iov-one/rill/coin"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/migration"
	"github.com/iov-one/rill/orm"
)

func init() {
	migration.MustRegister(1, &Stream{}, migration.NoModification)
	migration.MustRegister(1, &Position{}, migration.NoModification)
}

const maxNameSize = 128

var _ orm.CloneableData = (*Stream)(nil)

// Condition returns the condition of the escrow account that belongs to the
// stream with the given ID. All deposits and the output supply are held by
// this account.
func Condition(id []byte) rill.Condition {
	return rill.NewCondition("stream", "seq", id)
}

func (s *Stream) Validate() error {
	if err := s.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if s.Name == "" {
		return errors.Wrap(errors.ErrEmpty, "name")
	}
	if len(s.Name) > maxNameSize {
		return errors.Wrap(errors.ErrInvalidInput, "name too long")
	}
	if !coin.IsCC(s.InDenom) {
		return errors.Wrapf(errors.ErrCurrency, "invalid input ticker: %s", s.InDenom)
	}
	if !coin.IsCC(s.OutDenom) {
		return errors.Wrapf(errors.ErrCurrency, "invalid output ticker: %s", s.OutDenom)
	}
	if s.InDenom == s.OutDenom {
		return errors.Wrap(errors.ErrCurrency, "input and output ticker must differ")
	}
	if err := s.Treasury.Validate(); err != nil {
		return errors.Wrap(err, "treasury")
	}
	if s.StartTime <= 0 {
		return errors.Wrap(errors.ErrEmpty, "start time")
	}
	if s.EndTime <= s.StartTime {
		return errors.Wrap(errors.ErrInvalidState, "end time must be after start time")
	}
	if s.OutTotal <= 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "out total")
	}
	if s.DistributedTotal < 0 || s.DistributedTotal > s.OutTotal {
		return errors.Wrap(errors.ErrInvalidAmount, "distributed total")
	}
	if s.TotalShares < 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "total shares")
	}
	if s.SpentIn < 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "spent in")
	}
	if s.Status == STATUS_INVALID {
		return errors.Wrap(errors.ErrInvalidState, "invalid status")
	}
	if err := s.Address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if s.CreationFee != nil {
		if err := s.CreationFee.Validate(); err != nil {
			return errors.Wrap(err, "creation fee")
		}
	}
	if s.ExitFee != nil {
		if err := s.ExitFee.Validate(); err != nil {
			return errors.Wrap(err, "exit fee")
		}
	}
	return nil
}

func (s *Stream) Copy() orm.CloneableData {
	cpy := &Stream{
		Metadata:         s.Metadata.Copy(),
		Name:             s.Name,
		InDenom:          s.InDenom,
		OutDenom:         s.OutDenom,
		Treasury:         s.Treasury,
		StartTime:        s.StartTime,
		EndTime:          s.EndTime,
		OutTotal:         s.OutTotal,
		DistributedTotal: s.DistributedTotal,
		TotalShares:      s.TotalShares,
		SpentIn:          s.SpentIn,
		DistIndex:        s.DistIndex,
		LastUpdated:      s.LastUpdated,
		Status:           s.Status,
		Address:          s.Address,
	}
	if s.CreationFee != nil {
		cpy.CreationFee = s.CreationFee.Clone()
	}
	if s.ExitFee != nil {
		f := *s.ExitFee
		cpy.ExitFee = &f
	}
	return cpy
}

var _ orm.CloneableData = (*Position)(nil)

func (p *Position) Validate() error {
	if err := p.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := p.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if p.Shares < 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "shares")
	}
	if p.Earned < 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "earned")
	}
	if p.Spent < 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "spent")
	}
	return nil
}

func (p *Position) Copy() orm.CloneableData {
	return &Position{
		Metadata:      p.Metadata.Copy(),
		Owner:         p.Owner,
		Shares:        p.Shares,
		IndexSnapshot: p.IndexSnapshot,
		Earned:        p.Earned,
		PendingEarned: p.PendingEarned,
		Spent:         p.Spent,
		LastUpdated:   p.LastUpdated,
	}
}

// StreamBucket stores streams, keyed by an 8 byte sequence counter.
type StreamBucket struct {
	orm.ModelBucket
	idSeq orm.Sequence
}

func NewStreamBucket() *StreamBucket {
	b := migration.NewModelBucket("stream", orm.NewModelBucket("strm", &Stream{}))
	return &StreamBucket{
		ModelBucket: b,
		idSeq:       orm.NewSequence("strm", "id"),
	}
}

// Create adds the given stream to the bucket under a newly allocated ID.
// The stream account address is derived from that ID and set on the entity
// before it is persisted.
func (b *StreamBucket) Create(db rill.KVStore, s *Stream) ([]byte, error) {
	key, err := b.idSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "id sequence")
	}
	s.Address = Condition(key).Address()
	if _, err := b.Put(db, key, s); err != nil {
		return nil, err
	}
	return key, nil
}

// PositionBucket stores positions, keyed by stream ID and owner address.
type PositionBucket struct {
	orm.ModelBucket
}

func NewPositionBucket() *PositionBucket {
	b := migration.NewModelBucket("stream", orm.NewModelBucket("pos", &Position{}))
	return &PositionBucket{ModelBucket: b}
}

func positionKey(streamID []byte, owner rill.Address) []byte {
	key := make([]byte, 0, len(streamID)+len(owner))
	key = append(key, streamID...)
	return append(key, owner...)
}

// RegisterQuery registers buckets for queries.
func RegisterQuery(qr rill.QueryRouter) {
	NewStreamBucket().Register("streams", qr)
	NewPositionBucket().Register("positions", qr)
}
