package http

import (
	"net/http"

	"farmtap-backend/internal/service"
)

type BookingHandler struct {
	bookingSvc service.BookingService
}

func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

type createBookingRequest struct {
	EquipmentID int32  `json:"equipment_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.EquipmentID <= 0 {
		writeError(w, r, badRequest("equipment_id is required"))
		return
	}

	booking, err := h.bookingSvc.CreateBooking(r.Context(), PrincipalFromContext(r.Context()), req.EquipmentID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingSvc.ListBookingsForUser(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := r.URL.Query().Get("status")
	if status == "" {
		writeError(w, r, badRequest("status query parameter is required"))
		return
	}

	booking, err := h.bookingSvc.UpdateStatus(r.Context(), PrincipalFromContext(r.Context()), id, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.bookingSvc.DeleteBooking(r.Context(), PrincipalFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookingHandler) ListByFarmer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookings, err := h.bookingSvc.ListBookingsByFarmer(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookings, err := h.bookingSvc.ListBookingsByOwner(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingSvc.ListAllBookings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}
