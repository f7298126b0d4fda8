package feed

import (
	"context"
	"sort"
	"sync"

	"domus/internal/identity/cache"
	"domus/pkg/logger"
	"domus/pkg/model"
	"domus/pkg/sanitizer"
)

// BookingSource loads a seller's bookings. In production this is the
// bookings service reached over HTTP; the feed never touches the booking
// store directly.
type BookingSource interface {
	ListBySeller(ctx context.Context, sellerID string) ([]*model.Booking, error)
}

// Change mutates a copy of one projected row. The feed applies it under the
// write lock, so a Change must not block or touch the feed itself.
type Change func(n *model.Notification)

// Feed is one seller's notification projection. All writes are serialized
// by a single mutex; snapshot reads take a read lock and copy, so callers
// never observe a half-applied reload.
type Feed struct {
	sellerID string
	source   BookingSource
	resolver cache.Resolver
	log      *logger.Logger

	mu   sync.RWMutex
	rows map[string]model.Notification
}

func New(sellerID string, source BookingSource, resolver cache.Resolver, log *logger.Logger) *Feed {
	return &Feed{
		sellerID: sellerID,
		source:   source,
		resolver: resolver,
		log:      log,
		rows:     make(map[string]model.Notification),
	}
}

func (f *Feed) SellerID() string {
	return f.sellerID
}

// Reload re-derives the whole projection from the booking source and swaps
// it in atomically. The previous rows stay visible until the swap.
func (f *Feed) Reload(ctx context.Context) error {
	bookings, err := f.source.ListBySeller(ctx, f.sellerID)
	if err != nil {
		return err
	}

	fresh := make(map[string]model.Notification, len(bookings))
	for _, b := range bookings {
		fresh[b.ID] = f.project(ctx, b)
	}

	f.mu.Lock()
	f.rows = fresh
	f.mu.Unlock()

	f.log.Info("Notification feed reloaded",
		"seller_id", f.sellerID,
		"rows", len(fresh),
	)
	return nil
}

// Insert projects a new booking into the feed. An existing row for the same
// booking is replaced.
func (f *Feed) Insert(ctx context.Context, b *model.Booking) {
	row := f.project(ctx, b)

	f.mu.Lock()
	f.rows[b.ID] = row
	f.mu.Unlock()
}

// ApplyPatch replaces one row by booking id. A patch for a row the feed does
// not hold is dropped with a diagnostic; the next reload reconciles.
func (f *Feed) ApplyPatch(ctx context.Context, bookingID string, change Change) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[bookingID]
	if !ok {
		f.log.Warn("Dropping patch for unknown feed row",
			"seller_id", f.sellerID,
			"booking_id", bookingID,
		)
		return
	}

	change(&row)
	f.rows[bookingID] = row
}

// Snapshot copies the current rows, sorted by time slot so pages render in
// a stable order.
func (f *Feed) Snapshot() []model.Notification {
	f.mu.RLock()
	rows := make([]model.Notification, 0, len(f.rows))
	for _, row := range f.rows {
		rows = append(rows, row)
	}
	f.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TimeSlot != rows[j].TimeSlot {
			return rows[i].TimeSlot < rows[j].TimeSlot
		}
		return rows[i].BookingID < rows[j].BookingID
	})
	return rows
}

func (f *Feed) Size() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.rows)
}

// project resolves the buyer's display attributes for one booking. A failed
// lookup keeps the row with blank attributes rather than losing it.
func (f *Feed) project(ctx context.Context, b *model.Booking) model.Notification {
	row := model.Notification{
		BookingID:   b.ID,
		ApartmentID: b.ApartmentID,
		BuyerID:     b.BuyerID,
		TimeSlot:    b.TimeSlot,
		Status:      b.SellerDecision,
	}

	buyer, err := f.resolver.Resolve(ctx, b.BuyerID)
	if err != nil {
		f.log.Warn("Failed to resolve buyer attributes for feed row",
			"seller_id", f.sellerID,
			"booking_id", b.ID,
			"buyer_id", b.BuyerID,
			"error", err,
		)
		return row
	}

	row.BuyerName = sanitizer.NormalizeName(buyer.Name)
	row.BuyerPhone = sanitizer.TrimAndNormalize(buyer.Phone)
	return row
}
