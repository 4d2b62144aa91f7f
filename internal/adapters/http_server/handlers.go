package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/santiolivoo/hotel-elefante2-sub001/internal/adapters/observability"
	"github.com/santiolivoo/hotel-elefante2-sub001/internal/app"
	"github.com/santiolivoo/hotel-elefante2-sub001/internal/domain"
)

type Handlers struct {
	Avail    *app.AvailabilityService
	Bookings *app.BookingService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/room-types", h.listRoomTypes)
	s.mux.Get("/v1/room-types/{id}/availability", h.roomTypeRange)
	s.mux.Get("/v1/room-types/{id}/availability/daily", h.roomTypeDaily)
	s.mux.Get("/v1/rooms/{id}/availability", h.roomRange)
	s.mux.Post("/v1/reservations", h.createReservation)
	s.mux.Get("/v1/reservations/{id}", h.getReservation)
	s.mux.Post("/v1/reservations/{id}/status", h.changeStatus)
	s.mux.Post("/v1/reservations/{id}/payments", h.recordPayment)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeServiceError maps the domain error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		writeProblem(w, http.StatusBadRequest, "Invalid Range", err.Error())
	case errors.Is(err, domain.ErrGuestCount), errors.Is(err, domain.ErrInvalidPayment):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrNoRooms):
		writeProblem(w, http.StatusUnprocessableEntity, "No Rooms", err.Error())
	case errors.Is(err, domain.ErrRoomConflict), errors.Is(err, domain.ErrRoomUnavailable),
		errors.Is(err, domain.ErrInvalidStatusChange):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func availabilityOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidRange), errors.Is(err, domain.ErrNoRooms):
		return "invalid"
	default:
		return "error"
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSONWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// parseRange reads the mandatory start/end query params as YYYY-MM-DD. Dates
// cross the HTTP boundary only in that form.
func parseRange(r *http.Request) (start, end domain.Date, err error) {
	start, err = domain.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		return
	}
	end, err = domain.ParseDate(r.URL.Query().Get("end"))
	return
}

func (h *Handlers) listRoomTypes(w http.ResponseWriter, r *http.Request) {
	// served straight from the repository through the availability service's
	// room port; room types change rarely and the payload is tiny
	types, err := h.Avail.ListRoomTypes(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONWithETag(w, r, types)
}

func (h *Handlers) roomTypeRange(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	start, end, err := parseRange(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", "start and end must be YYYY-MM-DD")
		return
	}

	rep, err := h.Avail.RoomTypeRange(r.Context(), id, start, end)
	observability.ObserveAvailability("range", availabilityOutcome(err))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONWithETag(w, r, rep)
}

func (h *Handlers) roomTypeDaily(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	start, end, err := parseRange(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", "start and end must be YYYY-MM-DD")
		return
	}

	days, err := h.Avail.RoomTypeDaily(r.Context(), id, start, end)
	observability.ObserveAvailability("daily", availabilityOutcome(err))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONWithETag(w, r, days)
}

func (h *Handlers) roomRange(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	start, end, err := parseRange(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", "start and end must be YYYY-MM-DD")
		return
	}
	var exclude int64
	if es := r.URL.Query().Get("exclude"); es != "" {
		exclude, err = strconv.ParseInt(es, 10, 64)
		if err != nil || exclude <= 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid Exclude", "exclude must be a positive reservation id")
			return
		}
	}

	rep, err := h.Avail.RoomRange(r.Context(), id, start, end, exclude)
	observability.ObserveAvailability("room", availabilityOutcome(err))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONWithETag(w, r, rep)
}

type createReservationRequest struct {
	RoomID   int64       `json:"roomId"`
	UserID   int64       `json:"userId"`
	CheckIn  domain.Date `json:"checkIn"`
	CheckOut domain.Date `json:"checkOut"`
	Guests   int         `json:"guests"`
}

type reservationResponse struct {
	ID       int64       `json:"id"`
	RoomID   int64       `json:"roomId"`
	UserID   int64       `json:"userId"`
	CheckIn  domain.Date `json:"checkIn"`
	CheckOut domain.Date `json:"checkOut"`
	Guests   int         `json:"guests"`
	Total    float64     `json:"total"`
	Paid     float64     `json:"paid"`
	Status   string      `json:"status"`
}

func toReservationResponse(r domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:       r.ID,
		RoomID:   r.RoomID,
		UserID:   r.UserID,
		CheckIn:  r.CheckIn,
		CheckOut: r.CheckOut,
		Guests:   r.Guests,
		Total:    r.Total,
		Paid:     r.Paid,
		Status:   string(r.Status),
	}
}

func (h *Handlers) createReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if req.RoomID <= 0 || req.UserID <= 0 || req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "roomId, userId, checkIn and checkOut are required")
		return
	}

	res, err := h.Bookings.CreateReservation(r.Context(), app.BookingRequest{
		RoomID:   req.RoomID,
		UserID:   req.UserID,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Guests:   req.Guests,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRoomConflict) {
			observability.ObserveBooking("conflict")
		}
		writeServiceError(w, err)
		return
	}
	observability.ObserveBooking("created")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toReservationResponse(res)); err != nil {
		log.Error().Err(err).Msg("failed to write createReservation body")
	}
}

func (h *Handlers) getReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	res, err := h.Bookings.GetReservation(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONWithETag(w, r, toReservationResponse(res))
}

func (h *Handlers) changeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "status is required")
		return
	}

	res, err := h.Bookings.ChangeStatus(r.Context(), id, domain.ReservationStatus(req.Status))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	observability.ObserveBooking("status_changed")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toReservationResponse(res)); err != nil {
		log.Error().Err(err).Msg("failed to write changeStatus body")
	}
}

func (h *Handlers) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}

	res, err := h.Bookings.RecordPayment(r.Context(), id, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	observability.ObserveBooking("payment")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toReservationResponse(res)); err != nil {
		log.Error().Err(err).Msg("failed to write recordPayment body")
	}
}
