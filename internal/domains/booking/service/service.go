package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"barber/config"
	"barber/infras/kafka"
	"barber/infras/otel"
	"barber/internal/domains/booking/model"
	"barber/internal/domains/booking/model/dto"
	"barber/internal/domains/booking/repository"
	"barber/internal/domains/booking/slot"
	"barber/shared"
	"barber/shared/cache"
	"barber/shared/constant"
	"barber/shared/failure"
	"barber/shared/lock"
	"barber/shared/timezone"
	"barber/shared/validator"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetSlots = "slots:get"

	slotSeparator = ", "
	lockSeparator = "|"

	lockedCalendarCalls = 3
)

const (
	MessageMissingField    = "Tüm alanlar gereklidir"
	MessageInvalidRequest  = "Geçersiz randevu bilgisi"
	MessageUnavailableSlot = "Seçilen saat randevuya uygun değil"
	MessageConflict        = "Bu saatte zaten bir randevu var"
	MessageConflictDetails = "Lütfen başka bir saat seçin"
	MessageCalendarAPI     = "Google Calendar API hatası"
	MessageReserveFailed   = "Randevu oluşturulurken bir hata oluştu"
	MessageUnknownError    = "Bilinmeyen hata"
	MessageBookingNotFound = "booking not found"

	guidanceNotFound   = `Calendar not found or not accessible. Please share the calendar with %s or use "primary" as calendar ID.`
	guidancePermission = "Permission denied. Please share the calendar with service account: %s"
)

// Reasons Google reports with a 403 that are quota problems rather than
// missing calendar access.
var quotaReasons = map[string]struct{}{
	"rateLimitExceeded":     {},
	"userRateLimitExceeded": {},
	"dailyLimitExceeded":    {},
	"quotaExceeded":         {},
	"usageLimits":           {},
}

type Booking interface {
	Reserve(ctx context.Context, req dto.ReserveRequest) (model.Reservation, error)
	CheckConflict(ctx context.Context, interval slot.Interval) model.ConflictCheck
	AvailableSlots(ctx context.Context, date string) (dto.SlotsResponse, error)
	Cancel(ctx context.Context, eventID string) error
}

type serviceImpl struct {
	repo     repository.Calendar
	locker   lock.Locker
	cache    cache.RedisCache
	producer kafka.Producer
	cfg      *config.Config
	otel     otel.Otel
	now      func() time.Time
}

func New(
	repo repository.Calendar,
	locker lock.Locker,
	cache cache.RedisCache,
	producer kafka.Producer,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return NewWithClock(repo, locker, cache, producer, cfg, otel, timezone.Now)
}

// NewWithClock is New with an injectable clock for the past-slot check.
func NewWithClock(
	repo repository.Calendar,
	locker lock.Locker,
	cache cache.RedisCache,
	producer kafka.Producer,
	cfg *config.Config,
	otel otel.Otel,
	now func() time.Time,
) Booking {
	return &serviceImpl{
		repo:     repo,
		locker:   locker,
		cache:    cache,
		producer: producer,
		cfg:      cfg,
		otel:     otel,
		now:      now,
	}
}

func (s *serviceImpl) Reserve(ctx context.Context, req dto.ReserveRequest) (res model.Reservation, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reserve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.validate(req)
	if err != nil {
		return res, err
	}

	interval := slot.Translate(booking.Date, booking.Clock, slot.DurationMinutes)

	scope.SetAttributes(map[string]any{
		"booking.start": interval.Start.String(),
		"booking.end":   interval.End.String(),
	})

	if !s.repo.Configured() {
		res = model.Reservation{
			Mode:     model.ModeMock,
			EventID:  newMockID(),
			Booking:  booking,
			Interval: interval,
			Check:    model.ConflictCheck{Status: model.CheckSkipped, Reason: "calendar not configured"},
		}

		log.Info().
			Str("bookingId", res.EventID).
			Str("start", interval.Start.String()).
			Msg("Google Calendar credentials not configured, returning mock booking")

		return res, nil
	}

	release := s.acquire(ctx, interval)
	if release == nil {
		return res, s.conflict(ctx, booking.Date)
	}

	defer release()

	check := s.CheckConflict(ctx, interval)
	if check.Status == model.CheckedConflict {
		log.Info().Str("start", interval.Start.String()).Int("overlaps", len(check.Busy)).Msg("requested slot is already taken")

		return res, s.conflict(ctx, booking.Date)
	}

	log.Info().
		Str("calendarId", s.repo.CalendarID()).
		Str("start", interval.Start.String()).
		Str("end", interval.End.String()).
		Msg("creating calendar event")

	created, err := s.repo.Insert(ctx, model.NewCalendarEvent(booking, interval))
	if err != nil {
		log.Error().Err(err).Msg("failed to create calendar event")

		return res, s.classify(err)
	}

	log.Info().Str("eventId", created.ID).Str("htmlLink", created.HTMLLink).Msg("calendar event created")

	res = model.Reservation{
		Mode:     model.ModeCreated,
		EventID:  created.ID,
		HTMLLink: created.HTMLLink,
		Booking:  booking,
		Interval: interval,
		Check:    check,
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetSlots, booking.Date.String())); err != nil {
			log.Error().Err(err).Msg("failed to delete slots from cache")
		}
	}()

	s.publish(ctx, model.BookingMessage{
		Type:       model.MessageTypeCreated,
		EventID:    created.ID,
		CalendarID: s.repo.CalendarID(),
		Customer:   booking.FullName(),
		Start:      interval.Start.String(),
		End:        interval.End.String(),
		OccurredAt: s.now(),
	})

	return res, nil
}

// CheckConflict looks for events overlapping interval. A failed lookup is
// logged and reported as skipped so the booking can still go ahead.
func (s *serviceImpl) CheckConflict(ctx context.Context, interval slot.Interval) model.ConflictCheck {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckConflict")
	defer scope.End()

	busy, err := s.repo.ListOverlapping(ctx, interval.Start.Time(), interval.End.Time())
	if err != nil {
		log.Warn().Err(err).Str("start", interval.Start.String()).Msg("conflict check failed, continuing without it")
		scope.AddEvent("conflict check skipped")

		return model.ConflictCheck{Status: model.CheckSkipped, Reason: err.Error()}
	}

	if len(busy) > 0 {
		return model.ConflictCheck{
			Status: model.CheckedConflict,
			Reason: fmt.Sprintf("overlaps %d existing event(s)", len(busy)),
			Busy:   busy,
		}
	}

	return model.ConflictCheck{Status: model.CheckedNoConflict}
}

func (s *serviceImpl) AvailableSlots(ctx context.Context, date string) (res dto.SlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AvailableSlots")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateVar(date, "required,date"); err != nil {
		return res, failure.Validation(MessageInvalidRequest, "date must be a date in YYYY-MM-DD format")
	}

	day, err := slot.ParseDate(date)
	if err != nil {
		return res, failure.Validation(MessageInvalidRequest, err.Error())
	}

	if day.Weekday() == slot.ClosedDay {
		res.FromModel(day, nil, !s.repo.Configured())

		return res, nil
	}

	if !s.repo.Configured() {
		res.FromModel(day, slot.Free(day, nil, s.now()), true)

		return res, nil
	}

	cacheKey := shared.BuildCacheKey(cacheGetSlots, day.String())

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for slots")

		return res, nil
	}

	free, err := s.freeSlots(ctx, day)
	if err != nil {
		log.Error().Err(err).Str("date", day.String()).Msg("failed to list busy slots")

		return res, s.classify(err)
	}

	res.FromModel(day, free, false)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cacheTTL()); err != nil {
			log.Error().Err(err).Msg("failed to save slots to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, eventID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	eventID = strings.TrimSpace(eventID)
	if eventID == constant.Empty {
		return failure.Validation(MessageInvalidRequest, "id is required")
	}

	if model.IsMockID(eventID) || !s.repo.Configured() {
		return failure.NotFound(MessageBookingNotFound)
	}

	if err = s.repo.Delete(ctx, eventID); err != nil {
		var calErr *model.CalendarError
		if errors.As(err, &calErr) && (calErr.Status == http.StatusNotFound || calErr.Status == http.StatusGone) {
			return failure.NotFound(MessageBookingNotFound)
		}

		log.Error().Err(err).Str("eventId", eventID).Msg("failed to cancel booking")

		return s.classify(err)
	}

	log.Info().Str("eventId", eventID).Msg("booking cancelled")

	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheGetSlots)
	}()

	s.publish(ctx, model.BookingMessage{
		Type:       model.MessageTypeCancelled,
		EventID:    eventID,
		CalendarID: s.repo.CalendarID(),
		OccurredAt: s.now(),
	})

	return nil
}

func (s *serviceImpl) validate(req dto.ReserveRequest) (model.Booking, error) {
	req.Normalize()

	if req.HasMissingField() {
		details := MessageMissingField
		if err := validator.ValidateStruct(&req); err != nil {
			details = err.Error()
		}

		return model.Booking{}, failure.Validation(MessageMissingField, details)
	}

	if err := validator.ValidateStruct(&req); err != nil {
		return model.Booking{}, failure.Validation(MessageInvalidRequest, err.Error())
	}

	booking, err := req.ToModel()
	if err != nil {
		return model.Booking{}, failure.Validation(MessageInvalidRequest, err.Error())
	}

	if err := slot.CheckBookable(booking.Date, booking.Clock, s.now()); err != nil {
		return model.Booking{}, failure.Validation(MessageUnavailableSlot, err.Error())
	}

	return booking, nil
}

// acquire takes the per-slot lock. It returns nil when another request holds
// the slot. A failing lock backend is logged and the booking proceeds unlocked.
func (s *serviceImpl) acquire(ctx context.Context, interval slot.Interval) func() {
	key := s.repo.CalendarID() + lockSeparator + interval.Start.String()

	release, err := s.locker.Acquire(ctx, key, s.lockTTL())
	if errors.Is(err, lock.ErrLocked) {
		log.Info().Str("start", interval.Start.String()).Msg("slot is being booked by another request")

		return nil
	}

	if err != nil {
		log.Warn().Err(err).Msg("slot lock unavailable, booking without it")

		return func() {}
	}

	return func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("failed to release slot lock")
		}
	}
}

func (s *serviceImpl) conflict(ctx context.Context, date slot.Date) error {
	available := slot.WindowDescription()

	free, err := s.freeSlots(ctx, date)
	if err != nil {
		log.Warn().Err(err).Msg("failed to list free slots for conflict response")
	} else if len(free) > 0 {
		names := make([]string, len(free))
		for i, clock := range free {
			names[i] = clock.String()
		}

		available = strings.Join(names, slotSeparator)
	}

	return failure.Conflict(MessageConflict, MessageConflictDetails, available)
}

func (s *serviceImpl) freeSlots(ctx context.Context, date slot.Date) ([]slot.Clock, error) {
	open, closing := slot.DayBounds(date)

	events, err := s.repo.ListOverlapping(ctx, open, closing)
	if err != nil {
		return nil, fmt.Errorf("failed to list busy slots: %w", err)
	}

	busy := make([]slot.Busy, len(events))
	for i, event := range events {
		busy[i] = slot.Busy{Start: event.Start, End: event.End}
	}

	return slot.Free(date, busy, s.now()), nil
}

// classify maps a calendar failure to the response the client sees.
func (s *serviceImpl) classify(err error) error {
	email := s.cfg.Google.ClientEmail

	var calErr *model.CalendarError
	if !errors.As(err, &calErr) {
		details := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			details = "calendar request timed out"
		}

		return failure.Upstream(MessageReserveFailed, shared.Coalesce(details, MessageUnknownError), nil)
	}

	_, quota := quotaReasons[calErr.Reason]

	switch {
	case calErr.Status == http.StatusNotFound || strings.Contains(calErr.Message, "Not Found"):
		return failure.CalendarNotFound(MessageReserveFailed, fmt.Sprintf(guidanceNotFound, email), calErr.Status)
	case (calErr.Status == http.StatusForbidden && !quota) || strings.Contains(calErr.Message, "Permission"):
		return failure.PermissionDenied(MessageReserveFailed, fmt.Sprintf(guidancePermission, email), calErr.Status)
	default:
		return failure.Upstream(MessageCalendarAPI, shared.Coalesce(calErr.Message, MessageUnknownError), calErr.Status)
	}
}

func (s *serviceImpl) publish(ctx context.Context, message model.BookingMessage) {
	if !s.producer.Enabled() {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.producer.SendMessages(c, kafka.Message{Key: message.EventID, Value: message}); err != nil {
			log.Error().Err(err).Str("type", message.Type).Msg("failed to publish booking message")
		}
	}()
}

func (s *serviceImpl) cacheTTL() int {
	if s.cfg.Cache.TTL > 0 {
		return s.cfg.Cache.TTL
	}

	return constant.DefaultCacheTTLSeconds
}

// lockTTL never drops below the worst case of the locked section: a busy
// list, the insert and the free-slot list of a conflict, each bounded by the
// calendar request timeout.
func (s *serviceImpl) lockTTL() time.Duration {
	ttl := time.Duration(shared.Coalesce(s.cfg.Lock.TTLSeconds, constant.DefaultLockTTLSeconds)) * time.Second

	timeout := shared.Coalesce(s.cfg.Google.RequestTimeoutSeconds, constant.DefaultRequestTimeoutSeconds)
	floor := time.Duration(lockedCalendarCalls*timeout) * time.Second

	return max(ttl, floor)
}

func newMockID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return model.MockEventIDPrefix + uuid.NewString()
	}

	return model.MockEventIDPrefix + id.String()
}
