package service

import (
	"context"
	"errors"
	"sync"

	"domus/internal/apartments/calendar"
	apartmenterrors "domus/internal/apartments/errors"
	"domus/internal/apartments/repository"
	"domus/internal/apartments/validator"
	"domus/pkg/config"
	apperrors "domus/pkg/errors"
	"domus/pkg/model"
	"domus/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type ApartmentService interface {
	Create(ctx context.Context, a *model.Apartment) error
	GetByID(ctx context.Context, id string) (*model.Apartment, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Apartment, int64, error)
	GetBySeller(ctx context.Context, sellerID string) ([]*model.Apartment, error)
	Update(ctx context.Context, id string, updates *model.ApartmentUpdate) error
	Delete(ctx context.Context, id string) error

	GenerateWindow(ctx context.Context, id string, days int) error
	ApplyTemplate(ctx context.Context, id string, times []string) error
	AdvanceDay(ctx context.Context, id string) error
	RemoveSlot(ctx context.Context, id string, dateKey, timeKey string) error
	SetSlotActive(ctx context.Context, id string, dateKey, timeKey string, active bool) error
	BookableSlots(ctx context.Context, id string, dateKey string) ([]model.TimeSlot, error)
}

type apartmentService struct {
	repo      repository.ApartmentRepository
	validator *validator.ApartmentValidator
	calendar  *calendar.Calendar
	cfg       *config.Config
}

func NewApartmentService(
	repo repository.ApartmentRepository,
	validator *validator.ApartmentValidator,
	cal *calendar.Calendar,
	cfg *config.Config,
) ApartmentService {
	return &apartmentService{
		repo:      repo,
		validator: validator,
		calendar:  cal,
		cfg:       cfg,
	}
}

func (s *apartmentService) Create(ctx context.Context, a *model.Apartment) error {
	s.sanitize(a)

	// A fresh listing starts with an empty availability window.
	if a.TimeSlots == nil {
		a.TimeSlots = make(map[string]map[string]bool)
		s.calendar.GenerateWindow(a.TimeSlots, s.cfg.WindowDays)
	}

	if err := s.validator.Validate(a); err != nil {
		s.cfg.Log.Warn("Apartment validation failed",
			"seller_id", a.SellerID,
			"location", a.LocationName,
			"error", err,
		)
		return apperrors.Validation("Apartment validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.cfg.Log.Error("Failed to create apartment",
			"seller_id", a.SellerID,
			"error", err,
		)
		return apperrors.Internal("Failed to create apartment", err)
	}

	s.cfg.Log.Info("Apartment created successfully",
		"id", a.ID,
		"seller_id", a.SellerID,
		"location", a.LocationName,
	)
	return nil
}

func (s *apartmentService) GetByID(ctx context.Context, id string) (*model.Apartment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Apartment ID cannot be empty")
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	return a, nil
}

func (s *apartmentService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Apartment, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var apartments []*model.Apartment
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count apartments", "error", errCount)
			errCount = apperrors.Internal("Failed to count apartments", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		apartments, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list apartments",
				"limit", limit,
				"offset", offset,
				"error", errFind,
			)
			errFind = apperrors.Internal("Failed to retrieve apartments", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return apartments, count, nil
}

func (s *apartmentService) GetBySeller(ctx context.Context, sellerID string) ([]*model.Apartment, error) {
	if sellerID == "" {
		return nil, apperrors.InvalidInput("Seller ID cannot be empty")
	}

	apartments, err := s.repo.FindBySeller(ctx, sellerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list apartments by seller",
			"seller_id", sellerID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve apartments", err)
	}
	return apartments, nil
}

func (s *apartmentService) Update(ctx context.Context, id string, updates *model.ApartmentUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Apartment ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapRepoError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Apartment update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{
			"error": err.Error(),
		})
	}

	merged := s.mergeApartmentUpdates(existing, updates)
	s.sanitize(merged)

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if mapped := s.mapRepoError(err, id); apperrors.IsAppError(mapped) {
			return mapped
		}
		return apperrors.Internal("Failed to update apartment", err)
	}

	s.cfg.Log.Info("Apartment updated successfully", "id", id)
	return nil
}

func (s *apartmentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Apartment ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id)
	}

	s.cfg.Log.Info("Apartment deleted successfully", "id", id)
	return nil
}

func (s *apartmentService) GenerateWindow(ctx context.Context, id string, days int) error {
	return s.mutateSlots(ctx, id, "GenerateWindow", func(slots map[string]map[string]bool) error {
		s.calendar.GenerateWindow(slots, days)
		return nil
	})
}

func (s *apartmentService) ApplyTemplate(ctx context.Context, id string, times []string) error {
	tpl := s.calendar.NewTemplate()
	for _, tm := range times {
		if err := tpl.Add(tm); err != nil {
			return s.mapCalendarError(err)
		}
	}

	return s.mutateSlots(ctx, id, "ApplyTemplate", func(slots map[string]map[string]bool) error {
		s.calendar.ApplyTemplate(slots, tpl)
		return nil
	})
}

func (s *apartmentService) AdvanceDay(ctx context.Context, id string) error {
	return s.mutateSlots(ctx, id, "AdvanceDay", func(slots map[string]map[string]bool) error {
		s.calendar.AdvanceDay(slots)
		return nil
	})
}

func (s *apartmentService) RemoveSlot(ctx context.Context, id string, dateKey, timeKey string) error {
	return s.mutateSlots(ctx, id, "RemoveSlot", func(slots map[string]map[string]bool) error {
		return s.calendar.RemoveSlot(slots, dateKey, timeKey)
	})
}

func (s *apartmentService) SetSlotActive(ctx context.Context, id string, dateKey, timeKey string, active bool) error {
	return s.mutateSlots(ctx, id, "SetSlotActive", func(slots map[string]map[string]bool) error {
		return s.calendar.SetSlotActive(slots, dateKey, timeKey, active)
	})
}

func (s *apartmentService) BookableSlots(ctx context.Context, id string, dateKey string) ([]model.TimeSlot, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Apartment ID cannot be empty")
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}

	slots := []model.TimeSlot{}
	for tm := range s.calendar.ActiveFutureSlots(a.TimeSlots, dateKey) {
		slots = append(slots, model.TimeSlot{Date: dateKey, Time: tm})
	}
	return slots, nil
}

// mutateSlots performs a read-modify-write of one apartment's availability
// map inside a transaction so concurrent slot edits cannot interleave.
func (s *apartmentService) mutateSlots(ctx context.Context, id string, op string, mutate func(slots map[string]map[string]bool) error) error {
	if id == "" {
		return apperrors.InvalidInput("Apartment ID cannot be empty")
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		a, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.mapRepoError(err, id)
		}

		if a.TimeSlots == nil {
			a.TimeSlots = make(map[string]map[string]bool)
		}
		if err := mutate(a.TimeSlots); err != nil {
			return s.mapCalendarError(err)
		}

		if err := s.repo.UpdateTimeSlots(sessCtx, id, a.TimeSlots); err != nil {
			return apperrors.Internal("Failed to persist time slots", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Slot operation failed", "op", op, "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Slot operation applied", "op", op, "id", id)
	return nil
}

func (s *apartmentService) sanitize(a *model.Apartment) {
	a.LocationName = sanitizer.NormalizeLocation(a.LocationName)
	a.Price = sanitizer.TrimAndNormalize(a.Price)
	a.SquareMeters = sanitizer.TrimAndNormalize(a.SquareMeters)
	a.NumberOfRooms = sanitizer.TrimAndNormalize(a.NumberOfRooms)
}

func (s *apartmentService) mergeApartmentUpdates(existing *model.Apartment, updates *model.ApartmentUpdate) *model.Apartment {
	merged := *existing

	if updates.LocationName != "" {
		merged.LocationName = updates.LocationName
	}
	if updates.Price != "" {
		merged.Price = updates.Price
	}
	if updates.SquareMeters != "" {
		merged.SquareMeters = updates.SquareMeters
	}
	if updates.NumberOfRooms != "" {
		merged.NumberOfRooms = updates.NumberOfRooms
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}
	if updates.Latitude != "" {
		merged.Latitude = updates.Latitude
	}
	if updates.Longitude != "" {
		merged.Longitude = updates.Longitude
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	return &merged
}

func (s *apartmentService) mapRepoError(err error, id string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, apartmenterrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Apartment", id)
	}
	if errors.Is(err, apartmenterrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid apartment ID format")
	}
	return apperrors.Internal("Apartment store operation failed", err)
}

func (s *apartmentService) mapCalendarError(err error) error {
	if err == nil || apperrors.IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, calendar.ErrTemplateFull):
		return apperrors.InvalidInput("Slot template exceeds the per-day limit")
	case errors.Is(err, calendar.ErrDuplicateSlot):
		return apperrors.InvalidInput("Slot time already present in template")
	case errors.Is(err, calendar.ErrInvalidTimeKey), errors.Is(err, calendar.ErrInvalidDateKey):
		return apperrors.InvalidInput("Slot keys must use YYYY-MM-DD dates and HH:MM times")
	case errors.Is(err, calendar.ErrSlotNotFound):
		return apperrors.NotFound("Slot not found")
	case errors.Is(err, calendar.ErrPastSlotActivation):
		return apperrors.Conflict("A past slot cannot be reactivated")
	default:
		return apperrors.Internal("Calendar operation failed", err)
	}
}
