package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hive-corporation/loboguara-connector/internal/core/domain"
)

func TestInitMetrics(t *testing.T) {
	// Should be idempotent (safe to call multiple times)
	InitMetrics()
	InitMetrics()
	InitMetrics()
}

func TestRecorder_RecordCycle(t *testing.T) {
	r := NewRecorder()

	successBefore := testutil.ToFloat64(cyclesTotal.WithLabelValues("success"))
	failureBefore := testutil.ToFloat64(cyclesTotal.WithLabelValues("failure"))
	createdBefore := testutil.ToFloat64(observablesTotal.WithLabelValues("created"))
	rejectedBefore := testutil.ToFloat64(observablesTotal.WithLabelValues("rejected"))
	fetchedBefore := testutil.ToFloat64(certificatesFetched)

	started := time.Unix(1700000000, 0)
	r.RecordCycle(domain.CycleResult{StartedAt: started, Duration: 2 * time.Second, Fetched: 3, Created: 2, Rejected: 1})
	r.RecordCycle(domain.CycleResult{StartedAt: started, Duration: time.Second, Err: errors.New("boom")})

	if got := testutil.ToFloat64(cyclesTotal.WithLabelValues("success")) - successBefore; got != 1 {
		t.Errorf("expected 1 successful cycle, got %v", got)
	}
	if got := testutil.ToFloat64(cyclesTotal.WithLabelValues("failure")) - failureBefore; got != 1 {
		t.Errorf("expected 1 failed cycle, got %v", got)
	}
	if got := testutil.ToFloat64(observablesTotal.WithLabelValues("created")) - createdBefore; got != 2 {
		t.Errorf("expected 2 created observables, got %v", got)
	}
	if got := testutil.ToFloat64(observablesTotal.WithLabelValues("rejected")) - rejectedBefore; got != 1 {
		t.Errorf("expected 1 rejected observable, got %v", got)
	}
	if got := testutil.ToFloat64(certificatesFetched) - fetchedBefore; got != 3 {
		t.Errorf("expected 3 fetched certificates, got %v", got)
	}
	if got := testutil.ToFloat64(lastSuccessfulCycleSec); got != 1700000002 {
		t.Errorf("expected last success timestamp 1700000002, got %v", got)
	}
}

func TestRecordGraphQLError(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(graphqlErrorsTotal.WithLabelValues("labelAdd"))
	RecordGraphQLError("labelAdd")
	RecordGraphQLError("labelAdd")

	if got := testutil.ToFloat64(graphqlErrorsTotal.WithLabelValues("labelAdd")) - before; got != 2 {
		t.Errorf("expected 2 graphql errors, got %v", got)
	}
}
