package diagnosisController

import (
	"context"
	"time"

	"applianceassist/internal/diagnosis"
	"applianceassist/internal/logger"
	"applianceassist/internal/metrics"
	. "applianceassist/internal/models"
	"applianceassist/internal/validation"
)

type DiagnosisController struct {
	diagnoser diagnosis.Diagnoser
	metrics   *metrics.Metrics
	log       logger.Logger
}

func New(diagnoser diagnosis.Diagnoser, metrics *metrics.Metrics) *DiagnosisController {
	return &DiagnosisController{
		diagnoser: diagnoser,
		metrics:   metrics,
		log:       logger.New("DiagnosisController"),
	}
}

// Diagnose validates the query and asks the provider once. Provider failures
// are returned as errors for the caller to hide behind a generic message.
func (c *DiagnosisController) Diagnose(
	ctx context.Context,
	raw map[string]string,
) (Diagnosis, validation.Violations, error) {
	log := c.log.Function("Diagnose")

	query, violations := validation.ValidateDiagnosisQuery(raw)
	if len(violations) > 0 {
		c.metrics.DiagnosisRequestsTotal.WithLabelValues("invalid").Inc()
		return Diagnosis{}, violations, nil
	}

	start := time.Now()
	result, err := c.diagnoser.Diagnose(ctx, query)
	c.metrics.DiagnosisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.DiagnosisRequestsTotal.WithLabelValues("error").Inc()
		return Diagnosis{}, nil, log.Err("failed to get diagnosis", err, "applianceType", query.ApplianceType)
	}

	c.metrics.DiagnosisRequestsTotal.WithLabelValues("success").Inc()
	return result, nil, nil
}
