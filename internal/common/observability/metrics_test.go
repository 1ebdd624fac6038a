package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObservability_Record(t *testing.T) {
	obs := New("loan-risk-sim-test")
	defer obs.Shutdown()

	ctx := context.Background()
	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(ctx, "completed")
		obs.RecordJobDuration(ctx, 120*time.Millisecond, "completed")
		obs.RecordClientMonths(ctx, 240, "A")
	})
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability
	ctx := context.Background()
	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(ctx, "failed")
		obs.RecordJobDuration(ctx, time.Second, "failed")
		obs.RecordClientMonths(ctx, 1, "B")
		obs.Shutdown()
	})
}
