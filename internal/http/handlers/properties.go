package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/propertybazaar/server/internal/model"
	"github.com/propertybazaar/server/internal/repo"
	"github.com/propertybazaar/server/internal/validate"
)

// PropertyHandler serves listings
type PropertyHandler struct {
	properties repo.PropertyRepo
	logger     *zap.Logger
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(properties repo.PropertyRepo, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{properties: properties, logger: logger}
}

type propertiesResponse struct {
	Success    bool             `json:"success"`
	Properties []model.Property `json:"properties"`
}

type propertyResponse struct {
	Success  bool           `json:"success"`
	Property model.Property `json:"property"`
}

// createPropertyRequest is the request body for POST /api/properties
type createPropertyRequest struct {
	Title        string  `json:"title" validate:"required,max=200"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" validate:"gt=0"`
	Area         float64 `json:"area" validate:"gt=0"`
	City         string  `json:"city" validate:"required"`
	Type         string  `json:"type" validate:"required"`
	Purpose      string  `json:"purpose" validate:"required"`
	ImageURL     string  `json:"image_url" validate:"omitempty,url"`
	OwnerName    string  `json:"owner_name"`
	OwnerContact string  `json:"owner_contact"`
}

type createPropertyResponse struct {
	Success  bool           `json:"success"`
	Message  string         `json:"message"`
	Property model.Property `json:"property"`
}

// HandleList handles GET /api/properties?purpose=&city=
func (h *PropertyHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := model.PropertyFilter{
		Purpose: strings.TrimSpace(r.URL.Query().Get("purpose")),
		City:    strings.TrimSpace(r.URL.Query().Get("city")),
	}
	properties, err := h.properties.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list properties", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if properties == nil {
		properties = []model.Property{}
	}
	respondWithJSON(w, h.logger, http.StatusOK, propertiesResponse{Success: true, Properties: properties})
}

// HandleGet handles GET /api/properties/{id}
func (h *PropertyHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	property, err := h.properties.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Property not found")
			return
		}
		h.logger.Error("failed to get property", zap.Int64("id", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, propertyResponse{Success: true, Property: property})
}

// HandleCreate handles POST /api/properties
func (h *PropertyHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	property, err := h.properties.Create(r.Context(), model.Property{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Price:        req.Price,
		Area:         req.Area,
		City:         strings.TrimSpace(req.City),
		Type:         req.Type,
		Purpose:      req.Purpose,
		ImageURL:     req.ImageURL,
		OwnerName:    req.OwnerName,
		OwnerContact: req.OwnerContact,
	})
	if err != nil {
		h.logger.Error("failed to create property", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, createPropertyResponse{
		Success:  true,
		Message:  "Property Listed Successfully!",
		Property: property,
	})
}
