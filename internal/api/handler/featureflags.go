package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/rs/zerolog"

	"github.com/alcoholemia/alcoholemia/internal/api/models"
	"github.com/alcoholemia/alcoholemia/internal/api/response"
	"github.com/alcoholemia/alcoholemia/internal/featureflags"
	"github.com/alcoholemia/alcoholemia/internal/resilience"
)

// maxFlagsBody caps the request body of PUT /v1/admin/feature-flags.
const maxFlagsBody = 4 << 10

// FeatureFlagsHandler handles feature flag endpoints.
type FeatureFlagsHandler struct {
	service *featureflags.Service
	logger  zerolog.Logger
}

// NewFeatureFlagsHandler creates a new FeatureFlagsHandler.
func NewFeatureFlagsHandler(service *featureflags.Service, logger zerolog.Logger) *FeatureFlagsHandler {
	return &FeatureFlagsHandler{
		service: service,
		logger:  logger,
	}
}

// ListFeatureFlags handles GET /v1/admin/feature-flags - list all feature flags.
func (h *FeatureFlagsHandler) ListFeatureFlags(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, toFlagList(h.service.GetAllFlags(r.Context())))
}

// UpsertFeatureFlags handles PUT /v1/admin/feature-flags - update feature flags.
func (h *FeatureFlagsHandler) UpsertFeatureFlags(w http.ResponseWriter, r *http.Request) {
	var req models.FeatureFlagUpsertRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFlagsBody)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(w, r, "request body too large", nil)
			return
		}
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if len(req.Flags) == 0 {
		response.BadRequest(w, r, "flags must not be empty", nil)
		return
	}

	keys := make([]string, 0, len(req.Flags))
	for k := range req.Flags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var fieldErrors []models.FieldError
	flags := make([]*featureflags.Flag, 0, len(keys))
	for _, k := range keys {
		if err := featureflags.ValidateValue(k, req.Flags[k]); err != nil {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   "flags." + k,
				Message: "invalid value for flag",
				Code:    "invalid_value",
			})
			continue
		}
		flags = append(flags, &featureflags.Flag{Key: k, Value: req.Flags[k]})
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors)
		return
	}

	if err := h.service.SetFlags(r.Context(), flags); err != nil {
		switch {
		case errors.Is(err, featureflags.ErrInvalidFlagValue):
			response.BadRequest(w, r, err.Error(), nil)
		case errors.Is(err, resilience.ErrCircuitOpen):
			response.ServiceUnavailable(w, r, "feature flag store unavailable")
		default:
			h.logger.Error().Err(err).Msg("failed to update feature flags")
			response.InternalError(w, r, "failed to update feature flags")
		}
		return
	}

	h.logger.Info().
		Str("operator", GetOperator(r.Context())).
		Strs("keys", keys).
		Msg("feature flags updated")

	response.JSON(w, r, http.StatusOK, toFlagList(h.service.GetAllFlags(r.Context())))
}

// InvalidateCache handles POST /v1/admin/feature-flags/invalidate - invalidate flag cache.
func (h *FeatureFlagsHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.service.InvalidateCache()
	h.logger.Info().
		Str("operator", GetOperator(r.Context())).
		Msg("feature flag cache invalidated")
	response.NoContent(w, r)
}

func toFlagList(flags map[string]*featureflags.Flag) models.FeatureFlagList {
	keys := make([]string, 0, len(flags))
	for k := range flags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := models.FeatureFlagList{Items: make([]models.FeatureFlag, 0, len(keys))}
	for _, k := range keys {
		f := flags[k]
		list.Items = append(list.Items, models.FeatureFlag{
			Key:       f.Key,
			Value:     f.Value,
			UpdatedAt: models.Timestamp(f.UpdatedAt),
		})
	}
	return list
}
