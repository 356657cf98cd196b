// Package handler provides HTTP handlers for the Alcoholemia API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/alcoholemia/alcoholemia/internal/api/models"
	"github.com/alcoholemia/alcoholemia/internal/api/response"
	"github.com/alcoholemia/alcoholemia/internal/resilience"
)

// readinessTimeout bounds each dependency ping.
const readinessTimeout = 2 * time.Second

// DependencyCheck pings a backing store during readiness checks.
type DependencyCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
	checks    []DependencyCheck
}

// NewOpsHandler creates a new OpsHandler. registry may be nil.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry, checks ...DependencyCheck) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
		checks:    checks,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
// Calculations never depend on the flag store, so a failing store degrades
// the service instead of taking it out of rotation.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	readiness := models.Readiness{
		Status:       models.HealthStatusOK,
		Time:         models.Timestamp(time.Now()),
		Dependencies: []models.DependencyStatus{},
	}

	for _, check := range h.checks {
		status := models.DependencyStatus{Name: check.Name, Status: models.HealthStatusOK}
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		if err := check.Ping(ctx); err != nil {
			msg := err.Error()
			status.Status = models.HealthStatusFail
			status.Message = &msg
		}
		cancel()
		readiness.Dependencies = append(readiness.Dependencies, status)
	}

	if h.registry != nil {
		for _, dep := range h.registry.GetAllHealth() {
			readiness.Dependencies = append(readiness.Dependencies, breakerStatus(dep))
		}
	}

	for _, dep := range readiness.Dependencies {
		if dep.Status != models.HealthStatusOK {
			readiness.Status = models.HealthStatusDegraded
			break
		}
	}

	response.JSON(w, r, http.StatusOK, readiness)
}

func breakerStatus(dep *resilience.DependencyHealth) models.DependencyStatus {
	status := models.DependencyStatus{
		Name:          dep.Name,
		Status:        models.HealthStatusOK,
		CircuitState:  dep.CircuitState.String(),
		LastSuccessAt: models.TimestampPtr(dep.LastSuccessAt),
		LastFailureAt: models.TimestampPtr(dep.LastFailureAt),
	}
	switch {
	case dep.IsUnhealthy():
		status.Status = models.HealthStatusFail
	case dep.IsDegraded():
		status.Status = models.HealthStatusDegraded
	}
	if dep.LastError != "" {
		msg := dep.LastError
		status.Message = &msg
	}
	return status
}
