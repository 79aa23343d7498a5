package diagnosisController

import (
	"context"
	"errors"
	"testing"

	"applianceassist/internal/metrics"
	. "applianceassist/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDiagnoser struct {
	result Diagnosis
	err    error
	calls  int
}

func (f *fakeDiagnoser) Diagnose(ctx context.Context, query DiagnosisQuery) (Diagnosis, error) {
	f.calls++
	return f.result, f.err
}

func validQuery() map[string]string {
	return map[string]string{
		"applianceType":    "oven",
		"issueDescription": "Oven does not heat past 100 degrees",
	}
}

func TestDiagnosisController_Diagnose(t *testing.T) {
	diagnoser := &fakeDiagnoser{result: Diagnosis{
		PossibleCauses:  []string{"Faulty heating element", "Broken thermostat"},
		ConfidenceLevel: "medium",
	}}
	m := metrics.New()
	controller := New(diagnoser, m)

	result, violations, err := controller.Diagnose(context.Background(), validQuery())
	require.NoError(t, err)
	assert.Empty(t, violations)
	assert.Equal(t, diagnoser.result, result)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DiagnosisRequestsTotal.WithLabelValues("success")))
}

func TestDiagnosisController_InvalidQueryNeverCallsProvider(t *testing.T) {
	diagnoser := &fakeDiagnoser{}
	controller := New(diagnoser, metrics.New())

	_, violations, err := controller.Diagnose(context.Background(), map[string]string{
		"applianceType":    "oven",
		"issueDescription": "hot",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"issueDescription"}, violations.Fields())
	assert.Zero(t, diagnoser.calls)
}

func TestDiagnosisController_ProviderFailure(t *testing.T) {
	cause := errors.New("upstream unavailable")
	diagnoser := &fakeDiagnoser{err: cause}
	m := metrics.New()
	controller := New(diagnoser, m)

	_, violations, err := controller.Diagnose(context.Background(), validQuery())
	assert.Empty(t, violations)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, diagnoser.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DiagnosisRequestsTotal.WithLabelValues("error")))
}
