package booking

import (
	"barber/infras/otel"
	"barber/internal/domains/booking/model/dto"
	"barber/internal/domains/booking/service"
	"barber/shared/constant"
	"barber/shared/validator"
	"barber/transport/http/middleware"
	"barber/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 16

type Handler struct {
	service    service.Booking
	middleware middleware.Auth
	otel       otel.Otel
}

func New(service service.Booking, middleware middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/book", handler.Reserve)
	router.Get("/slots", handler.GetSlots)

	router.Group(func(operator chi.Router) {
		operator.Use(handler.middleware.APIKey)
		operator.Delete("/book/{id}", handler.Cancel)
	})
}

// Reserve books an appointment in the shop calendar.
// @Summary Book an appointment
// @Description Reserve a 30 minute slot. Without calendar credentials the booking is mocked.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.ReserveRequest true "Booking Request"
// @Success 200 {object} dto.ReserveResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/book [post]
func (handler *Handler) Reserve(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Reserve")
	defer scope.End()

	req := dto.ReserveRequest{}

	if err := validator.Decode(http.MaxBytesReader(writer, request.Body, maxBodyBytes), &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(writer, err)

		return
	}

	reservation, err := handler.service.Reserve(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reserve booking")

		response.WithError(writer, err)

		return
	}

	res := dto.ReserveResponse{}
	res.FromModel(reservation)

	scope.AddEvent("Booking reserved with id " + reservation.EventID)

	response.WithBody(writer, http.StatusOK, res)
}

// GetSlots lists the free start times of a day.
// @Summary List free slots
// @Description Bookable start times of the given day that are not taken yet.
// @Tags Booking
// @Produce json
// @Param date query string true "Day in YYYY-MM-DD format"
// @Success 200 {object} dto.SlotsResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/slots [get]
func (handler *Handler) GetSlots(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	slots, err := handler.service.AvailableSlots(ctx, request.URL.Query().Get(constant.RequestParamDate))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list slots")

		response.WithError(writer, err)

		return
	}

	response.WithBody(writer, http.StatusOK, slots)
}

// Cancel removes a booking from the shop calendar.
// @Summary Cancel a booking
// @Description Delete the calendar event of a booking. Requires the operator API key.
// @Tags Booking
// @Produce json
// @Param id path string true "Calendar event ID"
// @Success 200 {object} response.Message "Booking cancelled successfully"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/book/{id} [delete]
// @Security ApiKeyAuth
func (handler *Handler) Cancel(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Cancel")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Cancel(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking cancelled " + id)

	response.WithMessage(writer, http.StatusOK, "Booking cancelled successfully")
}
