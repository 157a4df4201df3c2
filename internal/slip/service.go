package slip

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/akshayfabrics/backend-slip/internal/common"
	"github.com/akshayfabrics/backend-slip/internal/counter"
	"github.com/akshayfabrics/backend-slip/internal/notify"
	"github.com/akshayfabrics/backend-slip/internal/upi"
)

// ShareQueue schedules a share dispatch for a finalized slip.
type ShareQueue interface {
	EnqueueShare(ctx context.Context, payload notify.SharePayload) error
}

// HeaderPatch carries a partial header update. Nil fields are left as-is;
// set fields are stored exactly as received.
type HeaderPatch struct {
	Mobile       *string
	Date         *string
	CustomerName *string
	Bundles      *string
}

// FinalizedSlip is the numbered document returned when a draft is issued.
// The draft itself is deleted; this snapshot is the caller's to render.
type FinalizedSlip struct {
	SlipNo     int64  `json:"slipNo"`
	IssuedAt   string `json:"issuedAt"`
	Header     Header `json:"header"`
	Items      []Item `json:"items"`
	Adjustment string `json:"balanceOutstanding"`
	Totals     Totals `json:"totals"`
	PaymentURI string `json:"paymentUri,omitempty"`
}

// Service orchestrates draft slips: collection edits, derived totals, slip
// numbering and the share dispatch on finalize.
type Service struct {
	Store     Store
	Counter   counter.Counter
	Share     ShareQueue
	PayeeID   string
	PayeeName string
	// OnShareError is invoked when enqueueing the share task fails. Share
	// delivery is best effort; a broken broker must not block finalize.
	OnShareError func(error)
	// Now is swappable in tests. Defaults to time.Now.
	Now func() time.Time
}

const dateLayout = "02/01/2006"

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateDraft starts a new working slip with today's date and one blank row.
func (s *Service) CreateDraft(ctx context.Context) (Draft, error) {
	d := Draft{
		ID:     uuid.NewString(),
		Header: Header{Date: s.now().Format(dateLayout)},
		Items:  []Item{NewItem()},
	}
	if err := s.Store.Create(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// GetDraft loads a draft by id.
func (s *Service) GetDraft(ctx context.Context, id string) (Draft, error) {
	return s.Store.Get(ctx, id)
}

// UpdateHeader applies a partial header update. Header fields pass through
// untouched; the ledger never validates or reformats them.
func (s *Service) UpdateHeader(ctx context.Context, id string, patch HeaderPatch) (Draft, error) {
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	if patch.Mobile != nil {
		d.Header.Mobile = *patch.Mobile
	}
	if patch.Date != nil {
		d.Header.Date = *patch.Date
	}
	if patch.CustomerName != nil {
		d.Header.CustomerName = *patch.CustomerName
	}
	if patch.Bundles != nil {
		d.Header.Bundles = *patch.Bundles
	}
	if err := s.Store.Save(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// SetAdjustment stores the balance-outstanding text as typed.
func (s *Service) SetAdjustment(ctx context.Context, id, adjustment string) (Draft, error) {
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	d.Adjustment = adjustment
	if err := s.Store.Save(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// AddItem appends a blank row. At the seven row cap this is a silent no-op
// and the unchanged draft is returned.
func (s *Service) AddItem(ctx context.Context, id string) (Draft, error) {
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	items := AddItem(d.Items)
	if len(items) == len(d.Items) {
		return d, nil
	}
	d.Items = items
	if err := s.Store.Save(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// UpdateItem applies a single-field update to one row. A missing item id is
// a silent no-op.
func (s *Service) UpdateItem(ctx context.Context, id, itemID string, field Field, value string) (Draft, error) {
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	d.Items = UpdateField(d.Items, itemID, field, value)
	if err := s.Store.Save(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// RemoveItem drops one row. The draft may end up with zero rows; the ledger
// still derives zero totals over it.
func (s *Service) RemoveItem(ctx context.Context, id, itemID string) (Draft, error) {
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	d.Items = RemoveItem(d.Items, itemID)
	if err := s.Store.Save(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// Reset discards the draft contents: blank header with today's date, empty
// adjustment, one fresh row.
func (s *Service) Reset(ctx context.Context, id string) (Draft, error) {
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	d.Header = Header{Date: s.now().Format(dateLayout)}
	d.Adjustment = ""
	d.Items = []Item{NewItem()}
	if err := s.Store.Save(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// PaymentURI builds a UPI payment request for the draft's current net
// amount. It fails when the net amount is not strictly positive.
func (s *Service) PaymentURI(ctx context.Context, id string) (string, error) {
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return upi.BuildPaymentURI(s.PayeeID, s.PayeeName, NetAmount(d.Items, d.Adjustment))
}

// Finalize issues the next slip number, snapshots the document, schedules
// the share dispatch and deletes the draft. The returned snapshot is the
// only copy; drafts are working state, not history.
func (s *Service) Finalize(ctx context.Context, id string) (FinalizedSlip, error) {
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return FinalizedSlip{}, err
	}
	slipNo, err := s.Counter.Next(ctx)
	if err != nil {
		return FinalizedSlip{}, common.NewAppError("SLIP_NUMBER_UNAVAILABLE", "slip number allocation failed", http.StatusServiceUnavailable, err)
	}

	totals := ComputeTotals(d.Items, d.Adjustment)
	out := FinalizedSlip{
		SlipNo:     slipNo,
		IssuedAt:   s.now().Format(time.RFC3339),
		Header:     d.Header,
		Items:      d.Items,
		Adjustment: d.Adjustment,
		Totals:     totals,
	}
	if uri, err := upi.BuildPaymentURI(s.PayeeID, s.PayeeName, totals.NetAmount); err == nil {
		out.PaymentURI = uri
	}

	if s.Share != nil {
		payload := notify.SharePayload{
			SlipNo:       out.SlipNo,
			IssuedAt:     out.IssuedAt,
			CustomerName: d.Header.CustomerName,
			Mobile:       d.Header.Mobile,
			Date:         d.Header.Date,
			Bundles:      d.Header.Bundles,
			TotalPieces:  totals.TotalPieces,
			GrossAmount:  totals.GrossAmount,
			NetAmount:    totals.NetAmount,
			PaymentURI:   out.PaymentURI,
		}
		if err := s.Share.EnqueueShare(ctx, payload); err != nil && s.OnShareError != nil {
			s.OnShareError(err)
		}
	}

	if err := s.Store.Delete(ctx, id); err != nil {
		return FinalizedSlip{}, err
	}
	return out, nil
}
