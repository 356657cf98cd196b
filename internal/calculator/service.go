package calculator

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/alcoholemia/alcoholemia/internal/bac"
	"github.com/alcoholemia/alcoholemia/internal/sanction"
)

const instrumentationName = "github.com/alcoholemia/alcoholemia/internal/calculator"

// Outcome labels recorded on the calculations counter.
const (
	outcomeOK      = "ok"
	outcomeInvalid = "invalid"
	outcomeEmpty   = "empty"
	outcomeError   = "error"
)

// FlagSource supplies runtime settings. *featureflags.Service satisfies it.
type FlagSource interface {
	SanctionEdition(ctx context.Context) sanction.Edition
	HealthAdvisoriesEnabled(ctx context.Context) bool
}

// Config holds dependencies for the calculator service.
type Config struct {
	Catalog        *bac.Catalog
	Flags          FlagSource // optional
	DefaultEdition sanction.Edition
	Logger         zerolog.Logger
}

// Service wraps Calculate with edition resolution, tracing and metrics.
type Service struct {
	catalog        *bac.Catalog
	flags          FlagSource
	defaultEdition sanction.Edition
	logger         zerolog.Logger

	tracer       trace.Tracer
	calculations metric.Int64Counter
	bloodBAC     metric.Float64Histogram
}

// NewService creates a new calculator service.
func NewService(cfg Config) (*Service, error) {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = bac.DefaultCatalog()
	}

	defaultEdition := sanction.EditionBasic
	if cfg.DefaultEdition != "" {
		edition, err := sanction.ParseEdition(string(cfg.DefaultEdition))
		if err != nil {
			return nil, err
		}
		defaultEdition = edition
	}

	meter := otel.Meter(instrumentationName)

	calculations, err := meter.Int64Counter(
		"alcoholemia.calculations",
		metric.WithDescription("Number of BAC calculations by edition and outcome"),
		metric.WithUnit("{calculation}"),
	)
	if err != nil {
		return nil, err
	}

	bloodBAC, err := meter.Float64Histogram(
		"alcoholemia.calculation.blood_bac",
		metric.WithDescription("Estimated blood alcohol concentration"),
		metric.WithUnit("g/L"),
	)
	if err != nil {
		return nil, err
	}

	return &Service{
		catalog:        catalog,
		flags:          cfg.Flags,
		defaultEdition: defaultEdition,
		logger:         cfg.Logger,
		tracer:         otel.Tracer(instrumentationName),
		calculations:   calculations,
		bloodBAC:       bloodBAC,
	}, nil
}

// Catalog returns the drink catalog used by the service.
func (s *Service) Catalog() *bac.Catalog {
	return s.catalog
}

// ResolveEdition picks the sanction edition for a request: the explicit
// request value first, then the runtime flag, then the configured default.
func (s *Service) ResolveEdition(ctx context.Context, requested sanction.Edition) (sanction.Edition, error) {
	if requested != "" {
		return sanction.ParseEdition(string(requested))
	}
	if s.flags != nil {
		if edition := s.flags.SanctionEdition(ctx); edition != "" {
			return edition, nil
		}
	}
	return s.defaultEdition, nil
}

// Calculate validates in, resolves the sanction edition and runs the estimate.
func (s *Service) Calculate(ctx context.Context, in Input) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "calculator.Calculate",
		trace.WithAttributes(
			attribute.String("driver.category", string(in.Category)),
			attribute.Int("drinks.kinds", len(in.Drinks)),
		),
	)
	defer span.End()

	edition, err := s.ResolveEdition(ctx, in.Edition)
	if err != nil {
		// An unknown requested edition is reported with the other field errors.
		return nil, s.fail(ctx, span, in.Edition, in.Validate(s.catalog))
	}
	span.SetAttributes(attribute.String("sanction.edition", string(edition)))

	classifier, err := sanction.ForEdition(edition)
	if err != nil {
		return nil, s.fail(ctx, span, edition, err)
	}

	in.Edition = edition
	result, err := Calculate(s.catalog, classifier, in)
	if err != nil {
		return nil, s.fail(ctx, span, edition, err)
	}

	if s.flags != nil && !s.flags.HealthAdvisoriesEnabled(ctx) {
		result.Advisory = nil
	}

	s.record(ctx, edition, outcomeOK)
	s.bloodBAC.Record(ctx, result.BloodGPerL, metric.WithAttributes(
		attribute.String("driver.category", string(in.Category)),
	))
	span.SetAttributes(
		attribute.String("calculation.outcome", outcomeOK),
		attribute.Float64("bac.blood_g_per_l", result.BloodGPerL),
		attribute.Bool("bac.over_limit", result.OverLimit()),
	)

	s.logger.Debug().
		Str("edition", string(edition)).
		Str("category", string(in.Category)).
		Float64("ethanol_g", result.EthanolGrams).
		Float64("blood_g_l", result.BloodGPerL).
		Int("fragments", len(result.Fragments)).
		Msg("calculation completed")

	return result, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, edition sanction.Edition, err error) error {
	outcome := outcomeFor(err)
	s.record(ctx, edition, outcome)
	span.SetAttributes(attribute.String("calculation.outcome", outcome))
	if outcome == outcomeError {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error().Err(err).Str("edition", string(edition)).Msg("calculation failed")
	}
	return err
}

func (s *Service) record(ctx context.Context, edition sanction.Edition, outcome string) {
	s.calculations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("sanction.edition", string(edition)),
		attribute.String("outcome", outcome),
	))
}

func outcomeFor(err error) string {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return outcomeInvalid
	case errors.Is(err, ErrEmptyConsumption):
		return outcomeEmpty
	default:
		return outcomeError
	}
}
