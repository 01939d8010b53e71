package stream

import (
	"github.com/iov-one/rill"
	"github.com/iov-one/rill/coin"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/fixed"
	"github.com/iov-one/rill/gconf"
	"github.com/iov-one/rill/migration"
	"github.com/iov-one/rill/x"
	"github.com/iov-one/rill/x/cash"
)

const (
	createStreamCost int64 = 300
	streamActionCost int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r rill.Registry, auth x.Authenticator, control cash.Controller) {
	r = migration.SchemaMigratingRegistry("stream", r)

	streams := NewStreamBucket()
	positions := NewPositionBucket()

	r.Handle(CreateStreamMsg{}.Path(), &createStreamHandler{
		auth:    auth,
		bucket:  streams,
		control: control,
	})
	r.Handle(SubscribeMsg{}.Path(), &subscribeHandler{
		auth:      auth,
		streams:   streams,
		positions: positions,
		control:   control,
	})
	r.Handle(UpdateStreamMsg{}.Path(), &updateStreamHandler{
		streams: streams,
	})
	r.Handle(UpdatePositionMsg{}.Path(), &updatePositionHandler{
		auth:      auth,
		streams:   streams,
		positions: positions,
	})
	r.Handle(WithdrawMsg{}.Path(), &withdrawHandler{
		auth:      auth,
		streams:   streams,
		positions: positions,
		control:   control,
	})
	r.Handle(ExitStreamMsg{}.Path(), &exitStreamHandler{
		auth:      auth,
		streams:   streams,
		positions: positions,
		control:   control,
	})
	r.Handle(FinalizeStreamMsg{}.Path(), &finalizeStreamHandler{
		streams: streams,
		control: control,
	})
	r.Handle(CancelStreamMsg{}.Path(), &cancelStreamHandler{
		auth:    auth,
		streams: streams,
		control: control,
	})
	r.Handle(UpdateConfigurationMsg{}.Path(),
		gconf.NewUpdateConfigurationHandler("stream", &Configuration{}, auth))
}

func blockNow(ctx rill.Context) (rill.UnixTime, error) {
	t, err := rill.BlockTime(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "block time")
	}
	return rill.AsUnixTime(t), nil
}

type createStreamHandler struct {
	auth    x.Authenticator
	bucket  *StreamBucket
	control cash.Controller
}

var _ rill.Handler = (*createStreamHandler)(nil)

func (h *createStreamHandler) Check(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &rill.CheckResult{GasAllocated: createStreamCost}, nil
}

func (h *createStreamHandler) Deliver(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	sender := x.MainSigner(ctx, h.auth).Address()

	status := STATUS_PENDING
	if now >= msg.StartTime {
		status = STATUS_ACTIVE
	}
	s := &Stream{
		Metadata:    &rill.Metadata{Schema: 1},
		Name:        msg.Name,
		InDenom:     msg.InDenom,
		OutDenom:    msg.OutDenom,
		Treasury:    msg.Treasury,
		StartTime:   msg.StartTime,
		EndTime:     msg.EndTime,
		OutTotal:    msg.OutTotal,
		DistIndex:   fixed.Zero(),
		LastUpdated: msg.StartTime,
		Status:      status,
		CreationFee: conf.StreamCreationFee,
		ExitFee:     conf.ExitFee,
	}
	id, err := h.bucket.Create(db, s)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create stream")
	}

	// The stream account escrows the whole output supply upfront. The
	// creation fee is held there as well and released on finalize.
	supply := coin.NewCoin(msg.OutTotal, 0, msg.OutDenom)
	if err := h.control.MoveCoins(db, sender, s.Address, supply); err != nil {
		return nil, errors.Wrap(err, "cannot fund stream")
	}
	if !coin.IsEmpty(conf.StreamCreationFee) {
		if err := h.control.MoveCoins(db, sender, s.Address, *conf.StreamCreationFee); err != nil {
			return nil, errors.Wrap(err, "cannot charge creation fee")
		}
	}
	return &rill.DeliverResult{Data: id}, nil
}

func (h *createStreamHandler) validate(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*CreateStreamMsg, *Configuration, error) {
	var msg CreateStreamMsg
	if err := rill.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, nil, err
	}
	if msg.StartTime < now.Add(conf.MinWaitUntilStart.Duration()) {
		return nil, nil, errors.Wrap(errors.ErrInvalidState, "start time too soon")
	}
	if msg.EndTime < msg.StartTime.Add(conf.MinStreamDuration.Duration()) {
		return nil, nil, errors.Wrap(errors.ErrInvalidState, "stream duration too short")
	}
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, &conf, nil
}

type subscribeHandler struct {
	auth      x.Authenticator
	streams   *StreamBucket
	positions *PositionBucket
	control   cash.Controller
}

var _ rill.Handler = (*subscribeHandler)(nil)

func (h *subscribeHandler) Check(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &rill.CheckResult{GasAllocated: streamActionCost}, nil
}

func (h *subscribeHandler) Deliver(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	owner := x.MainSigner(ctx, h.auth).Address()
	key := positionKey(msg.StreamID, owner)

	var pos Position
	switch err := h.positions.One(db, key, &pos); {
	case err == nil:
		if err := syncPosition(s, &pos); err != nil {
			return nil, err
		}
	case errors.ErrNotFound.Is(err):
		pos = Position{
			Metadata:      &rill.Metadata{Schema: 1},
			Owner:         owner,
			IndexSnapshot: s.DistIndex,
			PendingEarned: fixed.Zero(),
			LastUpdated:   s.LastUpdated,
		}
	default:
		return nil, errors.Wrap(err, "cannot load position")
	}

	deposit := coin.NewCoin(msg.Amount, 0, s.InDenom)
	if err := h.control.MoveCoins(db, owner, s.Address, deposit); err != nil {
		return nil, errors.Wrap(err, "cannot deposit")
	}

	// Shares are minted one to one for deposited input tokens.
	pos.Shares += msg.Amount
	pos.Spent += msg.Amount
	s.TotalShares += msg.Amount
	s.SpentIn += msg.Amount

	if _, err := h.positions.Put(db, key, &pos); err != nil {
		return nil, errors.Wrap(err, "cannot store position")
	}
	if _, err := h.streams.Put(db, msg.StreamID, s); err != nil {
		return nil, errors.Wrap(err, "cannot store stream")
	}
	return &rill.DeliverResult{}, nil
}

func (h *subscribeHandler) validate(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*SubscribeMsg, *Stream, error) {
	var msg SubscribeMsg
	if err := rill.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var s Stream
	if err := h.streams.One(db, msg.StreamID, &s); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load stream")
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := syncStream(&s, now); err != nil {
		return nil, nil, err
	}
	if s.Status != STATUS_ACTIVE {
		return nil, nil, errors.Wrapf(ErrStreamNotActive, "status %s", s.Status)
	}
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, &s, nil
}

type updateStreamHandler struct {
	streams *StreamBucket
}

var _ rill.Handler = (*updateStreamHandler)(nil)

func (h *updateStreamHandler) Check(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &rill.CheckResult{GasAllocated: streamActionCost}, nil
}

func (h *updateStreamHandler) Deliver(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	var s Stream
	if err := h.streams.One(db, msg.StreamID, &s); err != nil {
		return nil, errors.Wrap(err, "cannot load stream")
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	if err := syncStream(&s, now); err != nil {
		return nil, err
	}
	if _, err := h.streams.Put(db, msg.StreamID, &s); err != nil {
		return nil, errors.Wrap(err, "cannot store stream")
	}
	return &rill.DeliverResult{}, nil
}

func (h *updateStreamHandler) validate(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*UpdateStreamMsg, error) {
	var msg UpdateStreamMsg
	if err := rill.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.streams.Has(db, msg.StreamID); err != nil {
		return nil, errors.Wrap(err, "cannot load stream")
	}
	return &msg, nil
}

type updatePositionHandler struct {
	auth      x.Authenticator
	streams   *StreamBucket
	positions *PositionBucket
}

var _ rill.Handler = (*updatePositionHandler)(nil)

func (h *updatePositionHandler) Check(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &rill.CheckResult{GasAllocated: streamActionCost}, nil
}

func (h *updatePositionHandler) Deliver(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	var s Stream
	if err := h.streams.One(db, msg.StreamID, &s); err != nil {
		return nil, errors.Wrap(err, "cannot load stream")
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	if err := syncStream(&s, now); err != nil {
		return nil, err
	}
	key := positionKey(msg.StreamID, owner)
	var pos Position
	if err := h.positions.One(db, key, &pos); err != nil {
		return nil, errors.Wrap(err, "cannot load position")
	}
	if err := syncPosition(&s, &pos); err != nil {
		return nil, err
	}
	if _, err := h.positions.Put(db, key, &pos); err != nil {
		return nil, errors.Wrap(err, "cannot store position")
	}
	if _, err := h.streams.Put(db, msg.StreamID, &s); err != nil {
		return nil, errors.Wrap(err, "cannot store stream")
	}
	return &rill.DeliverResult{}, nil
}

func (h *updatePositionHandler) validate(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*UpdatePositionMsg, rill.Address, error) {
	var msg UpdatePositionMsg
	if err := rill.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, signer.Address(), nil
}

type withdrawHandler struct {
	auth      x.Authenticator
	streams   *StreamBucket
	positions *PositionBucket
	control   cash.Controller
}

var _ rill.Handler = (*withdrawHandler)(nil)

func (h *withdrawHandler) Check(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &rill.CheckResult{GasAllocated: streamActionCost}, nil
}

func (h *withdrawHandler) Deliver(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	msg, s, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	key := positionKey(msg.StreamID, owner)
	var pos Position
	if err := h.positions.One(db, key, &pos); err != nil {
		return nil, errors.Wrap(err, "cannot load position")
	}
	if err := syncPosition(s, &pos); err != nil {
		return nil, err
	}
	// Withdrawing with nothing earned is a no-op, not an error.
	if pos.Earned > 0 {
		payout := coin.NewCoin(pos.Earned, 0, s.OutDenom)
		if err := h.control.MoveCoins(db, s.Address, owner, payout); err != nil {
			return nil, errors.Wrap(err, "cannot pay out")
		}
		pos.Earned = 0
	}
	if _, err := h.positions.Put(db, key, &pos); err != nil {
		return nil, errors.Wrap(err, "cannot store position")
	}
	if _, err := h.streams.Put(db, msg.StreamID, s); err != nil {
		return nil, errors.Wrap(err, "cannot store stream")
	}
	return &rill.DeliverResult{}, nil
}

func (h *withdrawHandler) validate(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*WithdrawMsg, *Stream, rill.Address, error) {
	var msg WithdrawMsg
	if err := rill.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	var s Stream
	if err := h.streams.One(db, msg.StreamID, &s); err != nil {
		return nil, nil, nil, errors.Wrap(err, "cannot load stream")
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := syncStream(&s, now); err != nil {
		return nil, nil, nil, err
	}
	switch s.Status {
	case STATUS_ACTIVE, STATUS_ENDED, STATUS_FINALIZED:
		// ok
	default:
		return nil, nil, nil, errors.Wrapf(ErrStreamNotActive, "status %s", s.Status)
	}
	return &msg, &s, signer.Address(), nil
}

type exitStreamHandler struct {
	auth      x.Authenticator
	streams   *StreamBucket
	positions *PositionBucket
	control   cash.Controller
}

var _ rill.Handler = (*exitStreamHandler)(nil)

func (h *exitStreamHandler) Check(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &rill.CheckResult{GasAllocated: streamActionCost}, nil
}

func (h *exitStreamHandler) Deliver(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	var s Stream
	if err := h.streams.One(db, msg.StreamID, &s); err != nil {
		return nil, errors.Wrap(err, "cannot load stream")
	}
	key := positionKey(msg.StreamID, owner)
	var pos Position
	if err := h.positions.One(db, key, &pos); err != nil {
		return nil, errors.Wrap(err, "cannot load position")
	}

	if s.Status == STATUS_CANCELLED {
		// A cancelled stream refunds deposits. Earnings were swept to
		// the treasury together with the rest of the output supply.
		if pos.Spent > 0 {
			refund := coin.NewCoin(pos.Spent, 0, s.InDenom)
			if err := h.control.MoveCoins(db, s.Address, owner, refund); err != nil {
				return nil, errors.Wrap(err, "cannot refund")
			}
		}
		return h.close(db, key, msg.StreamID, &s, &pos)
	}

	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	if err := syncStream(&s, now); err != nil {
		return nil, err
	}
	switch s.Status {
	case STATUS_ACTIVE, STATUS_ENDED:
		// ok
	default:
		return nil, errors.Wrapf(ErrStreamNotActive, "status %s", s.Status)
	}
	if err := syncPosition(&s, &pos); err != nil {
		return nil, err
	}
	if pos.Earned > 0 {
		payout := coin.NewCoin(pos.Earned, 0, s.OutDenom)
		if err := h.control.MoveCoins(db, s.Address, owner, payout); err != nil {
			return nil, errors.Wrap(err, "cannot pay out")
		}
	}
	if pos.Spent > 0 {
		refund := coin.NewCoin(pos.Spent, 0, s.InDenom)
		if err := h.control.MoveCoins(db, s.Address, owner, refund); err != nil {
			return nil, errors.Wrap(err, "cannot refund")
		}
	}
	return h.close(db, key, msg.StreamID, &s, &pos)
}

// close removes the position and releases its shares from the stream.
func (h *exitStreamHandler) close(db rill.KVStore, key, streamID []byte, s *Stream, pos *Position) (*rill.DeliverResult, error) {
	s.TotalShares -= pos.Shares
	s.SpentIn -= pos.Spent
	if err := h.positions.Delete(db, key); err != nil {
		return nil, errors.Wrap(err, "cannot delete position")
	}
	if _, err := h.streams.Put(db, streamID, s); err != nil {
		return nil, errors.Wrap(err, "cannot store stream")
	}
	return &rill.DeliverResult{}, nil
}

func (h *exitStreamHandler) validate(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*ExitStreamMsg, rill.Address, error) {
	var msg ExitStreamMsg
	if err := rill.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, signer.Address(), nil
}

type finalizeStreamHandler struct {
	streams *StreamBucket
	control cash.Controller
}

var _ rill.Handler = (*finalizeStreamHandler)(nil)

func (h *finalizeStreamHandler) Check(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &rill.CheckResult{GasAllocated: streamActionCost}, nil
}

func (h *finalizeStreamHandler) Deliver(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}

	// The collected input tokens are the sale proceeds. A fraction of them
	// is kept as exit fee, the rest goes to the treasury.
	proceeds := s.SpentIn
	var fee int64
	if s.ExitFee != nil && s.ExitFee.Numerator > 0 {
		fee, err = fixed.MulRatio(proceeds, int64(s.ExitFee.Numerator), int64(s.ExitFee.Denominator))
		if err != nil {
			return nil, errors.Wrap(err, "exit fee")
		}
	}
	if proceeds-fee > 0 {
		c := coin.NewCoin(proceeds-fee, 0, s.InDenom)
		if err := h.control.MoveCoins(db, s.Address, s.Treasury, c); err != nil {
			return nil, errors.Wrap(err, "cannot move proceeds")
		}
	}
	if fee > 0 {
		c := coin.NewCoin(fee, 0, s.InDenom)
		if err := h.control.MoveCoins(db, s.Address, conf.FeeCollector, c); err != nil {
			return nil, errors.Wrap(err, "cannot move exit fee")
		}
	}
	if !coin.IsEmpty(s.CreationFee) {
		if err := h.control.MoveCoins(db, s.Address, conf.FeeCollector, *s.CreationFee); err != nil {
			return nil, errors.Wrap(err, "cannot move creation fee")
		}
	}

	// Whatever was not distributed, for example because the stream had no
	// subscribers for a while, is returned to the treasury.
	if leftover := s.OutTotal - s.DistributedTotal; leftover > 0 {
		c := coin.NewCoin(leftover, 0, s.OutDenom)
		if err := h.control.MoveCoins(db, s.Address, s.Treasury, c); err != nil {
			return nil, errors.Wrap(err, "cannot return leftover")
		}
	}

	s.Status = STATUS_FINALIZED
	if _, err := h.streams.Put(db, msg.StreamID, s); err != nil {
		return nil, errors.Wrap(err, "cannot store stream")
	}
	return &rill.DeliverResult{}, nil
}

func (h *finalizeStreamHandler) validate(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*FinalizeStreamMsg, *Stream, error) {
	var msg FinalizeStreamMsg
	if err := rill.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var s Stream
	if err := h.streams.One(db, msg.StreamID, &s); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load stream")
	}
	switch s.Status {
	case STATUS_FINALIZED:
		return nil, nil, ErrAlreadyFinalized
	case STATUS_CANCELLED:
		return nil, nil, errors.Wrap(ErrStreamNotActive, "stream cancelled")
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := syncStream(&s, now); err != nil {
		return nil, nil, err
	}
	if s.Status != STATUS_ENDED {
		return nil, nil, errors.Wrapf(ErrStreamNotEnded, "ends at %s", s.EndTime)
	}
	return &msg, &s, nil
}

type cancelStreamHandler struct {
	auth    x.Authenticator
	streams *StreamBucket
	control cash.Controller
}

var _ rill.Handler = (*cancelStreamHandler)(nil)

func (h *cancelStreamHandler) Check(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &rill.CheckResult{GasAllocated: streamActionCost}, nil
}

func (h *cancelStreamHandler) Deliver(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// Sweep everything but the deposits back to the treasury. Deposits
	// stay on the stream account so that subscribers can reclaim them by
	// exiting.
	balance, err := h.control.Balance(db, s.Address)
	switch {
	case err == nil:
		for _, c := range balance {
			if c.Ticker == s.InDenom || !c.IsPositive() {
				continue
			}
			if err := h.control.MoveCoins(db, s.Address, s.Treasury, *c); err != nil {
				return nil, errors.Wrap(err, "cannot sweep")
			}
		}
	case errors.ErrNotFound.Is(err):
		// Nothing to sweep.
	default:
		return nil, errors.Wrap(err, "cannot load stream balance")
	}

	s.Status = STATUS_CANCELLED
	if _, err := h.streams.Put(db, msg.StreamID, s); err != nil {
		return nil, errors.Wrap(err, "cannot store stream")
	}
	return &rill.DeliverResult{}, nil
}

func (h *cancelStreamHandler) validate(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*CancelStreamMsg, *Stream, error) {
	var msg CancelStreamMsg
	if err := rill.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "configuration owner signature required")
	}
	var s Stream
	if err := h.streams.One(db, msg.StreamID, &s); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load stream")
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := syncStream(&s, now); err != nil {
		return nil, nil, err
	}
	switch s.Status {
	case STATUS_PENDING, STATUS_ACTIVE:
		// ok
	default:
		return nil, nil, errors.Wrapf(ErrStreamNotActive, "status %s", s.Status)
	}
	return &msg, &s, nil
}
