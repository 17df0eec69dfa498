// pkg/network/circuit_breaker_test.go
package network

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
)

func TestNetworkService_SuccessKeepsCircuitClosed(t *testing.T) {
	ns := NewNetworkService(testEnvConfig())

	for i := 0; i < 5; i++ {
		if err := ns.Execute(context.Background(), func() error { return nil }); err != nil {
			t.Fatalf("successful operation returned error: %v", err)
		}
	}

	if state := ns.GetState(); state != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed", state)
	}
	if counts := ns.GetCounts(); counts.TotalFailures != 0 {
		t.Errorf("failures = %d, want 0", counts.TotalFailures)
	}
}

func TestNetworkService_ConsecutiveFailuresOpenCircuit(t *testing.T) {
	// testEnvConfig trips the breaker after 2 consecutive failures.
	ns := NewNetworkService(testEnvConfig())
	boom := errors.New("connection refused")

	for i := 0; i < 2; i++ {
		if err := ns.Execute(context.Background(), func() error { return boom }); err == nil {
			t.Fatal("failing operation returned nil error")
		}
	}

	if state := ns.GetState(); state != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", state)
	}

	// With the circuit open the operation must not run at all.
	ran := false
	err := ns.Execute(context.Background(), func() error {
		ran = true
		return nil
	})
	if err == nil {
		t.Error("expected fast failure with open circuit")
	}
	if ran {
		t.Error("operation ran despite open circuit")
	}
}

func TestNetworkService_RetryStopsWhenCircuitOpens(t *testing.T) {
	ns := NewNetworkService(testEnvConfig())
	attempts := 0

	err := ns.ExecuteWithRetry(context.Background(), func() error {
		attempts++
		return errors.New("still down")
	})
	if err == nil {
		t.Fatal("expected error from persistently failing operation")
	}

	// The breaker opens after 2 consecutive failures, so the third
	// retry never executes the operation.
	if attempts > 2 {
		t.Errorf("operation attempted %d times after circuit opened", attempts)
	}
}

func TestNetworkService_RetryRespectsCancellation(t *testing.T) {
	ns := NewNetworkService(testEnvConfig())

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := ns.ExecuteWithRetry(ctx, func() error {
		calls++
		cancel()
		return errors.New("transient")
	})

	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if calls != 1 {
		t.Errorf("operation ran %d times, want 1", calls)
	}
}
