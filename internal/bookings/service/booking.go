package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingerrors "domus/internal/bookings/errors"
	"domus/internal/bookings/events"
	"domus/internal/bookings/repository"
	"domus/internal/bookings/validator"
	"domus/pkg/config"
	apperrors "domus/pkg/errors"
	"domus/pkg/model"

	"github.com/google/uuid"
)

type BookingService interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.BookingView, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.BookingView, int64, error)
	GetBySeller(ctx context.Context, sellerID string) ([]*model.BookingView, error)
	GetByBuyer(ctx context.Context, buyerID string) ([]*model.BookingView, error)
	Decide(ctx context.Context, id string, decision model.Decision) (*model.Booking, error)
	Rate(ctx context.Context, id, buyerID string, ratingSeller, ratingApartment float64) error
	Rateable(ctx context.Context, buyerID string) ([]*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	notifRepo repository.NotificationRepository
	publisher events.Publisher
	validator *validator.BookingValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	notifRepo repository.NotificationRepository,
	publisher events.Publisher,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		notifRepo: notifRepo,
		publisher: publisher,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, b *model.Booking) error {
	b.ID = uuid.New().String()
	b.Visited = false
	b.RatingSeller = 0
	b.RatingApartment = 0
	b.SellerDecision = model.DecisionPending

	if err := s.validator.Validate(b); err != nil {
		s.cfg.Log.Warn("Booking validation failed",
			"apartment_id", b.ApartmentID,
			"buyer_id", b.BuyerID,
			"error", err,
		)
		return apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, b); err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"apartment_id", b.ApartmentID,
			"buyer_id", b.BuyerID,
			"error", err,
		)
		return apperrors.Internal("Failed to create booking", err)
	}

	// Seller notification and the created event are fire-and-forget: a
	// failure here never fails the booking itself.
	s.notifySeller(ctx, b)
	s.publishEvent(ctx, model.NewBookingCreatedEvent(b))

	s.cfg.Log.Info("Booking created successfully",
		"id", b.ID,
		"apartment_id", b.ApartmentID,
		"seller_id", b.SellerID,
		"buyer_id", b.BuyerID,
		"time_slot", b.TimeSlot,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.BookingView, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	return model.NewBookingView(b, s.now()), nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.BookingView, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return s.toViews(bookings), count, nil
}

func (s *bookingService) GetBySeller(ctx context.Context, sellerID string) ([]*model.BookingView, error) {
	if sellerID == "" {
		return nil, apperrors.InvalidInput("Seller ID cannot be empty")
	}

	bookings, err := s.repo.FindBySeller(ctx, sellerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by seller", "seller_id", sellerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return s.toViews(bookings), nil
}

func (s *bookingService) GetByBuyer(ctx context.Context, buyerID string) ([]*model.BookingView, error) {
	if buyerID == "" {
		return nil, apperrors.InvalidInput("Buyer ID cannot be empty")
	}

	bookings, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by buyer", "buyer_id", buyerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return s.toViews(bookings), nil
}

// Decide records the seller's response. Deciding an already decided booking
// is not blocked; the latest decision wins.
func (s *bookingService) Decide(ctx context.Context, id string, decision model.Decision) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if !decision.Terminal() {
		return nil, apperrors.InvalidInput("Decision must be 'accepted' or 'rejected'")
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}

	if err := s.repo.UpdateDecision(ctx, id, decision); err != nil {
		if mapped := s.mapRepoError(err, id); apperrors.IsAppError(mapped) {
			return nil, mapped
		}
		return nil, apperrors.Internal("Failed to update booking decision", err)
	}
	b.SellerDecision = decision

	s.notifyBuyer(ctx, b)
	s.publishEvent(ctx, model.NewBookingDecidedEvent(b))

	s.cfg.Log.Info("Booking decision recorded",
		"id", b.ID,
		"seller_id", b.SellerID,
		"buyer_id", b.BuyerID,
		"decision", decision,
	)
	return b, nil
}

func (s *bookingService) Rate(ctx context.Context, id, buyerID string, ratingSeller, ratingApartment float64) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if buyerID == "" {
		return apperrors.InvalidInput("Buyer ID cannot be empty")
	}
	if ratingSeller < 0 || ratingSeller > 5 || ratingApartment < 0 || ratingApartment > 5 {
		return apperrors.InvalidInput("Ratings must be between 0 and 5")
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapRepoError(err, id)
	}

	if !b.EligibleForRating(buyerID, s.now(), s.cfg.RatingGraceWindow) {
		return apperrors.Conflict("Booking is not eligible for rating")
	}

	if err := s.repo.UpdateRating(ctx, id, ratingSeller, ratingApartment); err != nil {
		if mapped := s.mapRepoError(err, id); apperrors.IsAppError(mapped) {
			return mapped
		}
		return apperrors.Internal("Failed to record rating", err)
	}

	s.refreshApartmentRating(ctx, b.ApartmentID)

	s.cfg.Log.Info("Booking rated",
		"id", id,
		"buyer_id", buyerID,
		"rating_seller", ratingSeller,
		"rating_apartment", ratingApartment,
	)
	return nil
}

// refreshApartmentRating recomputes the apartment's average from its rated
// bookings and stores it on the apartment document. The rating itself is
// already recorded, so a failed refresh is logged and swallowed.
func (s *bookingService) refreshApartmentRating(ctx context.Context, apartmentID string) {
	average, err := s.repo.AverageApartmentRating(ctx, apartmentID)
	if err == nil {
		err = s.repo.SetApartmentAverageRating(ctx, apartmentID, average)
	}
	if err != nil {
		s.cfg.Log.Warn("Failed to refresh apartment average rating",
			"apartment_id", apartmentID,
			"error", err,
		)
	}
}

// Rateable lists the requester's bookings currently inside the rating grace
// window. Malformed slot records simply fail the predicate and are skipped.
func (s *bookingService) Rateable(ctx context.Context, buyerID string) ([]*model.Booking, error) {
	if buyerID == "" {
		return nil, apperrors.InvalidInput("Buyer ID cannot be empty")
	}

	bookings, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings for rating", "buyer_id", buyerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	now := s.now()
	eligible := []*model.Booking{}
	for _, b := range bookings {
		if b.EligibleForRating(buyerID, now, s.cfg.RatingGraceWindow) {
			eligible = append(eligible, b)
		}
	}
	return eligible, nil
}

func (s *bookingService) toViews(bookings []*model.Booking) []*model.BookingView {
	now := s.now()
	views := make([]*model.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, model.NewBookingView(b, now))
	}
	return views
}

func (s *bookingService) notifySeller(ctx context.Context, b *model.Booking) {
	record := &model.OutboundNotification{
		UserID:    b.SellerID,
		Title:     "New viewing request",
		Message:   fmt.Sprintf("A buyer requested a viewing at %s", b.TimeSlot),
		BookingID: b.ID,
		Status:    string(model.DecisionPending),
	}
	if err := s.notifRepo.Insert(ctx, record); err != nil {
		s.cfg.Log.Warn("Failed to record seller notification",
			"booking_id", b.ID,
			"seller_id", b.SellerID,
			"error", err,
		)
	}
}

func (s *bookingService) notifyBuyer(ctx context.Context, b *model.Booking) {
	record := &model.OutboundNotification{
		UserID:    b.BuyerID,
		Title:     "Viewing request " + string(b.SellerDecision),
		Message:   fmt.Sprintf("The seller %s your viewing at %s", b.SellerDecision, b.TimeSlot),
		BookingID: b.ID,
		Status:    string(b.SellerDecision),
	}
	if err := s.notifRepo.Insert(ctx, record); err != nil {
		s.cfg.Log.Warn("Failed to record buyer notification",
			"booking_id", b.ID,
			"buyer_id", b.BuyerID,
			"error", err,
		)
	}
}

func (s *bookingService) publishEvent(ctx context.Context, event model.BookingEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", event.EventType,
			"booking_id", event.BookingID,
			"error", err,
		)
	}
}

func (s *bookingService) mapRepoError(err error, id string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, bookingerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	return apperrors.Internal("Booking store operation failed", err)
}
