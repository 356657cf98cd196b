package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alcoholemia/alcoholemia/internal/api"
	"github.com/alcoholemia/alcoholemia/internal/api/models"
	"github.com/alcoholemia/alcoholemia/internal/auth"
	"github.com/alcoholemia/alcoholemia/internal/calculator"
	"github.com/alcoholemia/alcoholemia/internal/featureflags"
	"github.com/alcoholemia/alcoholemia/internal/resilience"
)

// testJWTService creates a JWT service for generating test tokens.
func testJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "alcoholemia-api",
		Audience:   "alcoholemia-admin",
	})
	require.NoError(t, err)
	return jwtService
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouterWithLogger(t, zerolog.New(io.Discard))
}

func newTestRouterWithLogger(t *testing.T, logger zerolog.Logger) http.Handler {
	t.Helper()

	flags := featureflags.NewService(featureflags.ServiceConfig{
		Repository: featureflags.NewInMemoryRepository(),
		Logger:     logger,
	})
	calc, err := calculator.NewService(calculator.Config{
		Flags:  flags,
		Logger: logger,
	})
	require.NoError(t, err)

	return api.NewRouter(api.RouterConfig{
		Version:            "test",
		BuildTime:          "2024-01-01T00:00:00Z",
		Logger:             logger,
		Calculator:         calc,
		FeatureFlagService: flags,
		AdminTokens:        testJWTService(t),
		Registry:           resilience.NewRegistry(),
	})
}

// addAdminHeader adds a valid admin Bearer token to the request.
func addAdminHeader(t *testing.T, req *http.Request) {
	t.Helper()
	token, _, err := testJWTService(t).GenerateAdminToken("ops-test", time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
}

func postCalculation(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/calculations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "test", health.Details["version"])
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var readiness models.Readiness
	err := json.Unmarshal(w.Body.Bytes(), &readiness)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, readiness.Status)
	assert.Empty(t, readiness.Dependencies)
}

func TestRouter_ListDrinks(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/metadata/drinks", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var catalog models.DrinkCatalog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))

	require.Len(t, catalog.Items, 5)
	assert.Equal(t, "cerveza", catalog.Items[0].Key)
	assert.Equal(t, "Cerveza (330 ml, 5%)", catalog.Items[0].Label)
	assert.InDelta(t, 13.2, catalog.Items[0].EthanolGrams, 1e-9)
	assert.Equal(t, 20, catalog.MaxQuantity)
}

func TestRouter_GetEnums(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/metadata/enums", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var enums models.Enums
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &enums))

	assert.Equal(t, []string{"MALE", "FEMALE"}, enums.Sexes)
	assert.Equal(t, []string{"BASIC", "EXTENDED"}, enums.Editions)
	assert.Equal(t, "BASIC", enums.DefaultEdition)
	require.Len(t, enums.DriverCategories, 3)
	assert.Equal(t, "GENERAL", enums.DriverCategories[0].Value)
	assert.InDelta(t, 0.5, enums.DriverCategories[0].LegalLimit.BloodGPerL, 1e-9)
	assert.InDelta(t, 0.25, enums.DriverCategories[0].LegalLimit.BreathMgPerL, 1e-9)
	assert.InDelta(t, 0.3, enums.DriverCategories[1].LegalLimit.BloodGPerL, 1e-9)
	assert.Contains(t, enums.AdvisoryLevels, "SEVERE")
}

func TestRouter_Calculation_TwoBeers(t *testing.T) {
	router := newTestRouter(t)

	w := postCalculation(t, router, `{"weightKg":70,"sex":"MALE","hoursElapsed":1,"driverCategory":"GENERAL","drinks":{"cerveza":2}}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CalculationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.InDelta(t, 26.4, resp.EthanolGrams, 1e-9)
	assert.InDelta(t, 0.3888, resp.BloodGPerL, 1e-3)
	assert.InDelta(t, resp.BloodGPerL/2, resp.BreathMgPerL, 1e-12)
	assert.False(t, resp.OverLimit)
	assert.Zero(t, resp.HoursToLegal)

	assert.Equal(t, "BASIC", resp.Sanction.Edition)
	assert.Equal(t, "Multa: 200 €, 2 puntos", resp.Sanction.Text)
	require.Len(t, resp.Sanction.Fragments, 1)
	assert.Equal(t, 200, resp.Sanction.Fragments[0].FineEUR)

	assert.Equal(t, "0.39 g/L", resp.Display.Blood)
	assert.Equal(t, "0.19 mg/L", resp.Display.Breath)
	assert.Equal(t, "0.50 g/L (0.25 mg/L)", resp.Display.LegalLimit)
	assert.Equal(t, "0.0 h", resp.Display.HoursToLegal)
	assert.NotEmpty(t, resp.Display.Disclaimer)

	require.NotNil(t, resp.Advisory)
	assert.Equal(t, "MILD", resp.Advisory.Level)
}

func TestRouter_Calculation_Defaults(t *testing.T) {
	router := newTestRouter(t)

	w := postCalculation(t, router, `{"drinks":{"cerveza":2}}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CalculationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 70.0, resp.Input.WeightKg)
	assert.Equal(t, 1.0, resp.Input.HoursElapsed)
	assert.Equal(t, "MALE", resp.Input.Sex)
	assert.Equal(t, "GENERAL", resp.Input.DriverCategory)
	assert.InDelta(t, 0.3888, resp.BloodGPerL, 1e-3)
}

func TestRouter_Calculation_ExtendedOverride(t *testing.T) {
	router := newTestRouter(t)

	w := postCalculation(t, router, `{"sex":"male","edition":"extended","recidivist":true,"drinks":{"cerveza":6}}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CalculationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "EXTENDED", resp.Sanction.Edition)
	assert.True(t, resp.OverLimit)
	assert.Greater(t, resp.HoursToLegal, 0.0)

	kinds := make([]string, 0, len(resp.Sanction.Fragments))
	for _, f := range resp.Sanction.Fragments {
		kinds = append(kinds, f.Kind)
	}
	assert.Equal(t, "CRIMINAL", kinds[0])
	assert.Contains(t, kinds, "ADMINISTRATIVE")
	assert.Equal(t, "RECIDIVISM", kinds[len(kinds)-1])
	assert.Contains(t, resp.Sanction.Text, "\n")
}

func TestRouter_Calculation_EmptyConsumption(t *testing.T) {
	router := newTestRouter(t)

	for _, body := range []string{`{"drinks":{}}`, `{"drinks":{"cerveza":0,"vino":0}}`, `{}`} {
		w := postCalculation(t, router, body)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
		assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

		var problem models.Problem
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
		assert.Equal(t, models.ProblemTypeEmptyConsumption, problem.Type)
		assert.Equal(t, "Introduce al menos una bebida.", problem.Detail)
		assert.Equal(t, "/v1/calculations", problem.Instance)
	}
}

func TestRouter_Calculation_ValidationError(t *testing.T) {
	router := newTestRouter(t)

	w := postCalculation(t, router, `{"weightKg":10,"hoursElapsed":30,"sex":"X","drinks":{"absenta":1,"vino":21}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeValidation, problem.Type)

	fields := make([]string, 0, len(problem.Errors))
	for _, e := range problem.Errors {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"weightKg", "hoursElapsed", "sex", "drinks.absenta", "drinks.vino"}, fields)
}

func TestRouter_Calculation_InvalidJSON(t *testing.T) {
	router := newTestRouter(t)

	for _, body := range []string{`{"drinks":`, `{"drinks":{"cerveza":1},"age":30}`, `{"drinks":{"cerveza":"two"}}`} {
		w := postCalculation(t, router, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestRouter_Calculation_UnsupportedMediaType(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/calculations", strings.NewReader("cerveza=2"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestRouter_Calculation_Idempotent(t *testing.T) {
	router := newTestRouter(t)
	body := `{"weightKg":82.5,"sex":"FEMALE","hoursElapsed":2.5,"drinks":{"vino":3,"licor":1}}`

	first := postCalculation(t, router, body)
	second := postCalculation(t, router, body)

	require.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestRouter_Admin_RequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/feature-flags", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_Admin_ListFeatureFlags(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/feature-flags", http.NoBody)
	addAdminHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var list models.FeatureFlagList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, featureflags.FlagHealthAdvisories, list.Items[0].Key)
	assert.Equal(t, true, list.Items[0].Value)
	assert.Equal(t, featureflags.FlagSanctionEdition, list.Items[1].Key)
	assert.Equal(t, "BASIC", list.Items[1].Value)
}

func TestRouter_Admin_UpsertFeatureFlagsSwitchesEdition(t *testing.T) {
	router := newTestRouter(t)

	body, err := json.Marshal(models.FeatureFlagUpsertRequest{
		Flags: map[string]interface{}{
			featureflags.FlagSanctionEdition:  "EXTENDED",
			featureflags.FlagHealthAdvisories: false,
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/v1/admin/feature-flags", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addAdminHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	calc := postCalculation(t, router, `{"drinks":{"cerveza":2}}`)
	require.Equal(t, http.StatusOK, calc.Code)

	var resp models.CalculationResponse
	require.NoError(t, json.Unmarshal(calc.Body.Bytes(), &resp))
	assert.Equal(t, "EXTENDED", resp.Sanction.Edition)
	assert.Nil(t, resp.Advisory)
}

func TestRouter_Admin_UpsertFeatureFlagsInvalidValue(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/v1/admin/feature-flags",
		strings.NewReader(`{"flags":{"sanction_edition":"2019","health_advisories":"yes"}}`))
	req.Header.Set("Content-Type", "application/json")
	addAdminHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	require.Len(t, problem.Errors, 2)
	assert.Equal(t, "flags.health_advisories", problem.Errors[0].Field)
	assert.Equal(t, "flags.sanction_edition", problem.Errors[1].Field)
}

func TestRouter_Admin_UpsertFeatureFlagsBodyTooLarge(t *testing.T) {
	router := newTestRouter(t)

	body := `{"flags":{"sanction_edition":"EXTENDED","note":"` + strings.Repeat("x", 8<<10) + `"}}`
	req := httptest.NewRequest(http.MethodPut, "/v1/admin/feature-flags", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addAdminHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "request body too large", problem.Detail)

	// The edition is untouched
	calc := postCalculation(t, router, `{"drinks":{"cerveza":1}}`)
	require.Equal(t, http.StatusOK, calc.Code)
	var resp models.CalculationResponse
	require.NoError(t, json.Unmarshal(calc.Body.Bytes(), &resp))
	assert.Equal(t, "BASIC", resp.Sanction.Edition)
}

// lastLogLine decodes the final JSON line, which is the access log entry.
func lastLogLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestRouter_AccessLogCarriesCalculationOutcome(t *testing.T) {
	var buf bytes.Buffer
	router := newTestRouterWithLogger(t, zerolog.New(&buf))

	w := postCalculation(t, router, `{"drinks":{"cerveza":6},"edition":"extended"}`)
	require.Equal(t, http.StatusOK, w.Code)

	entry := lastLogLine(t, &buf)
	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, "/v1/calculations", entry["route"])
	assert.Equal(t, "ok", entry["outcome"])
	assert.Equal(t, "EXTENDED", entry["edition"])
	assert.Equal(t, "true", entry["over_limit"])

	buf.Reset()
	w = postCalculation(t, router, `{"drinks":{}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	entry = lastLogLine(t, &buf)
	assert.Equal(t, "empty", entry["outcome"])
	assert.Equal(t, "warn", entry["level"])
}

func TestRouter_AccessLogCarriesOperator(t *testing.T) {
	var buf bytes.Buffer
	router := newTestRouterWithLogger(t, zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/feature-flags/invalidate", http.NoBody)
	addAdminHeader(t, req)
	router.ServeHTTP(httptest.NewRecorder(), req)

	entry := lastLogLine(t, &buf)
	assert.Equal(t, "/v1/admin/feature-flags/invalidate", entry["route"])
	assert.Equal(t, "ops-test", entry["operator"])
}

func TestRouter_Admin_InvalidateCache(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/feature-flags/invalidate", http.NoBody)
	addAdminHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_RequestID_Generated(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}
