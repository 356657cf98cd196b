package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alcoholemia/alcoholemia/internal/api/middleware"
	"github.com/alcoholemia/alcoholemia/internal/api/models"
	"github.com/alcoholemia/alcoholemia/internal/api/response"
	"github.com/alcoholemia/alcoholemia/internal/bac"
	"github.com/alcoholemia/alcoholemia/internal/calculator"
	"github.com/alcoholemia/alcoholemia/internal/sanction"
)

// maxCalculationBody caps the request body of POST /v1/calculations.
const maxCalculationBody = 16 << 10

// Calculator runs a single estimate. *calculator.Service satisfies it.
type Calculator interface {
	Calculate(ctx context.Context, in calculator.Input) (*calculator.Result, error)
}

// CalculationHandler handles calculation endpoints.
type CalculationHandler struct {
	calculator Calculator
	logger     zerolog.Logger
}

// NewCalculationHandler creates a new CalculationHandler.
func NewCalculationHandler(calc Calculator, logger zerolog.Logger) *CalculationHandler {
	return &CalculationHandler{
		calculator: calc,
		logger:     logger,
	}
}

// CreateCalculation handles POST /v1/calculations - estimate BAC and sanction.
func (h *CalculationHandler) CreateCalculation(w http.ResponseWriter, r *http.Request) {
	var req models.CalculationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCalculationBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		middleware.Annotate(r.Context(), middleware.LogOutcome, "invalid")
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	in := inputFromRequest(req)
	result, err := h.calculator.Calculate(r.Context(), in)
	if err != nil {
		var validationErr *calculator.ValidationError
		switch {
		case errors.As(err, &validationErr):
			middleware.Annotate(r.Context(), middleware.LogOutcome, "invalid")
			response.BadRequest(w, r, "validation error", validationErr.Errors)
		case errors.Is(err, calculator.ErrEmptyConsumption):
			middleware.Annotate(r.Context(), middleware.LogOutcome, "empty")
			response.EmptyConsumption(w, r)
		default:
			middleware.Annotate(r.Context(), middleware.LogOutcome, "error")
			h.logger.Error().
				Err(err).
				Str("request_id", middleware.GetRequestID(r.Context())).
				Msg("calculation failed")
			response.InternalError(w, r, "calculation failed")
		}
		return
	}

	middleware.Annotate(r.Context(), middleware.LogOutcome, "ok")
	middleware.Annotate(r.Context(), middleware.LogEdition, string(result.Edition))
	middleware.Annotate(r.Context(), middleware.LogOverLimit, strconv.FormatBool(result.OverLimit()))
	response.JSON(w, r, http.StatusOK, toCalculationResponse(in, result))
}

// inputFromRequest applies defaults and normalizes enum casing.
func inputFromRequest(req models.CalculationRequest) calculator.Input {
	in := calculator.Input{
		WeightKg:     models.DefaultWeightKg,
		Sex:          bac.Sex(models.DefaultSex),
		HoursElapsed: models.DefaultHoursElapsed,
		Category:     bac.DriverCategory(models.DefaultDriverCategory),
		Recidivist:   req.Recidivist,
		Drinks:       make(map[string]int, len(req.Drinks)),
		Edition:      sanction.Edition(normalizeEnum(req.Edition)),
	}
	if req.WeightKg != nil {
		in.WeightKg = *req.WeightKg
	}
	if req.HoursElapsed != nil {
		in.HoursElapsed = *req.HoursElapsed
	}
	if s := normalizeEnum(req.Sex); s != "" {
		in.Sex = bac.Sex(s)
	}
	if c := normalizeEnum(req.DriverCategory); c != "" {
		in.Category = bac.DriverCategory(c)
	}
	for k, v := range req.Drinks {
		in.Drinks[k] = v
	}
	return in
}

func normalizeEnum(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func toCalculationResponse(in calculator.Input, res *calculator.Result) models.CalculationResponse {
	fragments := make([]models.SanctionFragment, 0, len(res.Fragments))
	for _, f := range res.Fragments {
		fragments = append(fragments, models.SanctionFragment{
			Kind:    string(f.Kind),
			FineEUR: f.FineEUR,
			Points:  f.Points,
			Text:    f.Text(),
		})
	}

	var advisory *models.HealthAdvisory
	if res.Advisory != nil {
		advisory = &models.HealthAdvisory{
			Level:   string(res.Advisory.Level),
			Message: res.Advisory.Message,
		}
	}

	return models.CalculationResponse{
		Input: models.CalculationInput{
			WeightKg:       in.WeightKg,
			Sex:            string(in.Sex),
			HoursElapsed:   in.HoursElapsed,
			DriverCategory: string(res.Category),
			Recidivist:     in.Recidivist,
			Drinks:         in.Drinks,
		},
		EthanolGrams: res.EthanolGrams,
		BloodGPerL:   res.BloodGPerL,
		BreathMgPerL: res.BreathMgPerL,
		LegalLimit: models.LegalLimit{
			BloodGPerL:   res.LegalLimitGPerL,
			BreathMgPerL: res.LegalLimitMgPerL,
		},
		OverLimit:    res.OverLimit(),
		HoursToLegal: res.HoursToLegal,
		Sanction: models.Sanction{
			Edition:   string(res.Edition),
			Fragments: fragments,
			Text:      res.SanctionText,
		},
		Advisory: advisory,
		Display: models.CalculationDisplay{
			Blood:        fmt.Sprintf("%.2f g/L", res.BloodGPerL),
			Breath:       fmt.Sprintf("%.2f mg/L", res.BreathMgPerL),
			LegalLimit:   fmt.Sprintf("%.2f g/L (%.2f mg/L)", res.LegalLimitGPerL, res.LegalLimitMgPerL),
			HoursToLegal: fmt.Sprintf("%.1f h", res.HoursToLegal),
			Sanction:     res.SanctionText,
			Disclaimer:   models.Disclaimer,
		},
	}
}
