package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"domus/pkg/logger"
	"domus/pkg/model"
)

type mockBookingSource struct {
	bookings []*model.Booking
	err      error
}

func (m *mockBookingSource) ListBySeller(ctx context.Context, sellerID string) ([]*model.Booking, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.bookings, nil
}

type mockResolver struct {
	users map[string]*model.User
}

func (m *mockResolver) Resolve(ctx context.Context, userID string) (*model.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

func testFeed(source *mockBookingSource) *Feed {
	resolver := &mockResolver{users: map[string]*model.User{
		"buyer-1": {ID: "buyer-1", Name: "Noa Levi", Phone: "+972501234567"},
	}}
	return New("seller-1", source, resolver, testLogger())
}

func booking(id, buyerID, slot string, decision model.Decision) *model.Booking {
	return &model.Booking{
		ID:             id,
		ApartmentID:    "apt-1",
		SellerID:       "seller-1",
		BuyerID:        buyerID,
		TimeSlot:       slot,
		SellerDecision: decision,
	}
}

func TestReloadProjectsBuyerAttributes(t *testing.T) {
	source := &mockBookingSource{bookings: []*model.Booking{
		booking("b-2", "buyer-1", "2025-01-14 10:00", model.DecisionPending),
		booking("b-1", "buyer-1", "2025-01-13 10:00", model.DecisionAccepted),
	}}
	f := testFeed(source)

	if err := f.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := f.Snapshot()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].BookingID != "b-1" || rows[1].BookingID != "b-2" {
		t.Errorf("expected rows sorted by slot, got %q then %q", rows[0].BookingID, rows[1].BookingID)
	}
	if rows[0].BuyerName != "Noa Levi" || rows[0].BuyerPhone != "+972501234567" {
		t.Errorf("expected resolved buyer attributes, got %+v", rows[0])
	}
}

func TestReloadKeepsRowWhenResolutionFails(t *testing.T) {
	source := &mockBookingSource{bookings: []*model.Booking{
		booking("b-1", "buyer-unknown", "2025-01-13 10:00", model.DecisionPending),
	}}
	f := testFeed(source)

	if err := f.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := f.Snapshot()
	if len(rows) != 1 {
		t.Fatalf("expected the row to survive a failed lookup, got %d rows", len(rows))
	}
	if rows[0].BuyerName != "" {
		t.Errorf("expected blank attributes, got %q", rows[0].BuyerName)
	}
}

func TestApplyPatchReplacesKnownRow(t *testing.T) {
	source := &mockBookingSource{bookings: []*model.Booking{
		booking("b-1", "buyer-1", "2025-01-13 10:00", model.DecisionPending),
	}}
	f := testFeed(source)
	if err := f.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.ApplyPatch(context.Background(), "b-1", func(n *model.Notification) {
		n.Status = model.DecisionAccepted
	})

	rows := f.Snapshot()
	if rows[0].Status != model.DecisionAccepted {
		t.Errorf("expected patched status, got %q", rows[0].Status)
	}
}

func TestApplyPatchDropsUnknownRow(t *testing.T) {
	source := &mockBookingSource{bookings: []*model.Booking{
		booking("b-1", "buyer-1", "2025-01-13 10:00", model.DecisionPending),
	}}
	f := testFeed(source)
	if err := f.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.ApplyPatch(context.Background(), "no-such-booking", func(n *model.Notification) {
		n.Status = model.DecisionAccepted
	})

	if f.Size() != 1 {
		t.Errorf("expected size unchanged after dropped patch, got %d", f.Size())
	}
}

func TestInsertAddsRow(t *testing.T) {
	f := testFeed(&mockBookingSource{})

	f.Insert(context.Background(), booking("b-9", "buyer-1", "2025-01-15 09:00", model.DecisionPending))

	rows := f.Snapshot()
	if len(rows) != 1 || rows[0].BookingID != "b-9" {
		t.Fatalf("expected inserted row, got %+v", rows)
	}
}

func TestConcurrentReloadPatchSnapshot(t *testing.T) {
	source := &mockBookingSource{bookings: []*model.Booking{
		booking("b-1", "buyer-1", "2025-01-13 10:00", model.DecisionPending),
		booking("b-2", "buyer-1", "2025-01-14 10:00", model.DecisionPending),
	}}
	f := testFeed(source)
	if err := f.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = f.Reload(context.Background())
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				f.ApplyPatch(context.Background(), "b-1", func(n *model.Notification) {
					n.Status = model.DecisionAccepted
				})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rows := f.Snapshot()
				if len(rows) != 2 {
					t.Errorf("snapshot observed a partial reload: %d rows", len(rows))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestRegistryLoadsOnFirstGet(t *testing.T) {
	source := &mockBookingSource{bookings: []*model.Booking{
		booking("b-1", "buyer-1", "2025-01-13 10:00", model.DecisionPending),
	}}
	resolver := &mockResolver{users: map[string]*model.User{}}
	reg := NewRegistry(source, resolver, testLogger())

	if _, ok := reg.Loaded("seller-1"); ok {
		t.Fatal("expected no feed before the first get")
	}

	f, err := reg.Get(context.Background(), "seller-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Size() != 1 {
		t.Errorf("expected a loaded feed, got size %d", f.Size())
	}
	if _, ok := reg.Loaded("seller-1"); !ok {
		t.Error("expected the feed to be registered after get")
	}
}

type blockingBookingSource struct {
	entered  chan struct{}
	release  chan struct{}
	bookings []*model.Booking
}

func (m *blockingBookingSource) ListBySeller(ctx context.Context, sellerID string) ([]*model.Booking, error) {
	m.entered <- struct{}{}
	<-m.release
	return m.bookings, nil
}

func TestRegistryConcurrentGetWaitsForInitialLoad(t *testing.T) {
	source := &blockingBookingSource{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
		bookings: []*model.Booking{
			booking("b-1", "buyer-1", "2025-01-13 10:00", model.DecisionPending),
		},
	}
	reg := NewRegistry(source, &mockResolver{}, testLogger())

	type result struct {
		feed *Feed
		err  error
	}
	first := make(chan result, 1)
	go func() {
		f, err := reg.Get(context.Background(), "seller-1")
		first <- result{f, err}
	}()
	<-source.entered // first get is now inside the initial load

	if _, ok := reg.Loaded("seller-1"); ok {
		t.Error("expected the feed to stay invisible to events until loaded")
	}

	second := make(chan result, 1)
	go func() {
		f, err := reg.Get(context.Background(), "seller-1")
		second <- result{f, err}
	}()

	select {
	case res := <-second:
		size := 0
		if res.feed != nil {
			size = res.feed.Size()
		}
		t.Fatalf("expected the second get to wait for the load, got %d rows (err %v)", size, res.err)
	case <-time.After(50 * time.Millisecond):
	}

	close(source.release)
	for _, ch := range []chan result{first, second} {
		res := <-ch
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if res.feed.Size() != 1 {
			t.Errorf("expected 1 row once loaded, got %d", res.feed.Size())
		}
	}
	if _, ok := reg.Loaded("seller-1"); !ok {
		t.Error("expected the feed to be registered once loaded")
	}
}

func TestRegistryGetFailureLeavesNothingBehind(t *testing.T) {
	source := &mockBookingSource{err: errors.New("bookings service down")}
	reg := NewRegistry(source, &mockResolver{}, testLogger())

	if _, err := reg.Get(context.Background(), "seller-1"); err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := reg.Loaded("seller-1"); ok {
		t.Error("expected no half-loaded feed after a failed get")
	}
}
