package http

import (
	"errors"
	"net/http"

	"farmtap-backend/internal/domain"
	"farmtap-backend/internal/service"
)

type EquipmentHandler struct {
	equipmentSvc   service.EquipmentService
	maxUploadBytes int64
}

func NewEquipmentHandler(equipmentSvc service.EquipmentService, maxUploadBytes int64) *EquipmentHandler {
	return &EquipmentHandler{equipmentSvc: equipmentSvc, maxUploadBytes: maxUploadBytes}
}

type equipmentRequest struct {
	Name                   string `json:"name"`
	Type                   string `json:"type"`
	Description            string `json:"description"`
	RentalPricePerDayCents int64  `json:"rental_price_per_day_cents"`
	Location               string `json:"location"`
	ImageURL               string `json:"image_url"`
}

type availabilityRequest struct {
	ID          int32 `json:"id"`
	IsAvailable *bool `json:"is_available"`
}

func (h *EquipmentHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req equipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	equipment, err := h.equipmentSvc.AddEquipment(r.Context(), PrincipalFromContext(r.Context()), &domain.Equipment{
		Name:                   req.Name,
		Type:                   req.Type,
		Description:            req.Description,
		RentalPricePerDayCents: req.RentalPricePerDayCents,
		Location:               req.Location,
		ImageURL:               req.ImageURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, equipment)
}

func (h *EquipmentHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	items, err := h.equipmentSvc.ListAvailable(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *EquipmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	items, err := h.equipmentSvc.ListByOwner(r.Context(), PrincipalFromContext(r.Context()).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	equipment, err := h.equipmentSvc.GetEquipment(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, equipment)
}

func (h *EquipmentHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.equipmentSvc.ListByOwner(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *EquipmentHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.equipmentSvc.RemoveEquipment(r.Context(), PrincipalFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EquipmentHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ID <= 0 || req.IsAvailable == nil {
		writeError(w, r, badRequest("id and is_available are required"))
		return
	}

	equipment, err := h.equipmentSvc.SetAvailability(r.Context(), PrincipalFromContext(r.Context()), req.ID, *req.IsAvailable)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, equipment)
}

// UploadImage accepts a multipart form with the image in the "image" field.
func (h *EquipmentHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, badRequest("image exceeds %d bytes", h.maxUploadBytes))
			return
		}
		writeError(w, r, badRequest("image file is required"))
		return
	}
	defer file.Close()

	equipment, err := h.equipmentSvc.UploadImage(r.Context(), PrincipalFromContext(r.Context()), id,
		header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, equipment)
}
