package service

import (
	"context"
	"testing"
	"time"

	"domus/internal/apartments/calendar"
	"domus/internal/apartments/validator"
	"domus/pkg/config"
	mongotx "domus/pkg/db/mongo"
	apperrors "domus/pkg/errors"
	"domus/pkg/logger"
	"domus/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockApartmentRepository struct {
	createFunc          func(ctx context.Context, a *model.Apartment) error
	findByIDFunc        func(ctx context.Context, id string) (*model.Apartment, error)
	findAllFunc         func(ctx context.Context, limit int, offset int64) ([]*model.Apartment, error)
	findBySellerFunc    func(ctx context.Context, sellerID string) ([]*model.Apartment, error)
	updateFunc          func(ctx context.Context, id string, a *model.Apartment) (*mongo.UpdateResult, error)
	updateTimeSlotsFunc func(ctx context.Context, id string, slots map[string]map[string]bool) error
	deleteFunc          func(ctx context.Context, id string) error
	countFunc           func(ctx context.Context) (int64, error)
}

func (m *mockApartmentRepository) Create(ctx context.Context, a *model.Apartment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, a)
	}
	return nil
}

func (m *mockApartmentRepository) FindByID(ctx context.Context, id string) (*model.Apartment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Apartment{ID: id}, nil
}

func (m *mockApartmentRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Apartment, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Apartment{}, nil
}

func (m *mockApartmentRepository) FindBySeller(ctx context.Context, sellerID string) ([]*model.Apartment, error) {
	if m.findBySellerFunc != nil {
		return m.findBySellerFunc(ctx, sellerID)
	}
	return []*model.Apartment{}, nil
}

func (m *mockApartmentRepository) Update(ctx context.Context, id string, a *model.Apartment) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, a)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockApartmentRepository) UpdateTimeSlots(ctx context.Context, id string, slots map[string]map[string]bool) error {
	if m.updateTimeSlotsFunc != nil {
		return m.updateTimeSlotsFunc(ctx, id, slots)
	}
	return nil
}

func (m *mockApartmentRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockApartmentRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockApartmentRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
		WindowDays:     5,
		MaxSlotsPerDay: 8,
	}
}

// Friday noon keeps window math off the weekend boundary.
var testNow = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mockApartmentRepository) ApartmentService {
	cfg := testConfig()
	cal := calendar.New(cfg.WindowDays, cfg.MaxSlotsPerDay, func() time.Time { return testNow })
	return NewApartmentService(repo, validator.NewApartmentValidator(cfg.Log), cal, cfg)
}

func TestCreateGeneratesWindow(t *testing.T) {
	var created *model.Apartment
	repo := &mockApartmentRepository{
		createFunc: func(ctx context.Context, a *model.Apartment) error {
			created = a
			a.ID = "apt-1"
			return nil
		},
	}
	svc := newTestService(repo)

	a := &model.Apartment{
		SellerID:      "seller-1",
		LocationName:  "Dizengoff 1, Tel Aviv",
		Price:         "1800000",
		SquareMeters:  "62",
		NumberOfRooms: "2.5",
	}
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("expected repository create to be called")
	}
	if len(created.TimeSlots) != 5 {
		t.Errorf("expected 5-day window on new listing, got %d days", len(created.TimeSlots))
	}
	for dateKey := range created.TimeSlots {
		if !model.IsBusinessDay(dateKey) {
			t.Errorf("window contains non-business day %s", dateKey)
		}
	}
}

func TestCreateRejectsInvalidApartment(t *testing.T) {
	repo := &mockApartmentRepository{
		createFunc: func(ctx context.Context, a *model.Apartment) error {
			t.Fatal("create must not reach the repository on validation failure")
			return nil
		},
	}
	svc := newTestService(repo)

	err := svc.Create(context.Background(), &model.Apartment{SellerID: "seller-1"})
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected validation error code, got %s", appErr.Code)
	}
}

func TestApplyTemplatePersistsAcrossDays(t *testing.T) {
	stored := &model.Apartment{
		ID:            "apt-1",
		SellerID:      "seller-1",
		LocationName:  "Herzl 5, Haifa",
		Price:         "990000",
		SquareMeters:  "70",
		NumberOfRooms: "3",
		TimeSlots: map[string]map[string]bool{
			"2025-01-10": {"07:00": false},
			"2025-01-13": {},
		},
	}
	var saved map[string]map[string]bool
	repo := &mockApartmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Apartment, error) {
			return stored, nil
		},
		updateTimeSlotsFunc: func(ctx context.Context, id string, slots map[string]map[string]bool) error {
			saved = slots
			return nil
		},
	}
	svc := newTestService(repo)

	err := svc.ApplyTemplate(context.Background(), "apt-1", []string{"10:00", "14:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if saved == nil {
		t.Fatal("expected time slots to be persisted")
	}
	for dateKey, day := range saved {
		if len(day) != 2 || !day["10:00"] || !day["14:00"] {
			t.Errorf("day %s: expected exactly the template slots active, got %v", dateKey, day)
		}
	}
}

func TestApplyTemplateRejectsOversizedTemplate(t *testing.T) {
	repo := &mockApartmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Apartment, error) {
			t.Fatal("template validation must fail before any repository access")
			return nil, nil
		},
	}
	svc := newTestService(repo)

	times := []string{"08:00", "09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}
	err := svc.ApplyTemplate(context.Background(), "apt-1", times)
	if err == nil {
		t.Fatal("expected template size error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input code, got %s", appErr.Code)
	}
}

func TestSetSlotActivePastSlotConflict(t *testing.T) {
	stored := &model.Apartment{
		ID: "apt-1",
		TimeSlots: map[string]map[string]bool{
			"2025-01-10": {"09:00": false},
		},
	}
	repo := &mockApartmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Apartment, error) {
			return stored, nil
		},
	}
	svc := newTestService(repo)

	err := svc.SetSlotActive(context.Background(), "apt-1", "2025-01-10", "09:00", true)
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code for past slot reactivation, got %s", appErr.Code)
	}
}

func TestBookableSlotsFiltersInactiveAndPast(t *testing.T) {
	stored := &model.Apartment{
		ID: "apt-1",
		TimeSlots: map[string]map[string]bool{
			"2025-01-10": {
				"09:00": true,
				"13:00": false,
				"15:00": true,
			},
		},
	}
	repo := &mockApartmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Apartment, error) {
			return stored, nil
		},
	}
	svc := newTestService(repo)

	slots, err := svc.BookableSlots(context.Background(), "apt-1", "2025-01-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 || slots[0].Time != "15:00" || slots[0].Date != "2025-01-10" {
		t.Errorf("expected only the active future slot, got %v", slots)
	}
}
