package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTokensRejectedCounter(t *testing.T) {
	before := testutil.ToFloat64(TokensRejectedTotal.WithLabelValues("test"))
	TokensRejectedTotal.WithLabelValues("test").Inc()
	after := testutil.ToFloat64(TokensRejectedTotal.WithLabelValues("test"))
	if after-before != 1 {
		t.Fatalf("expected counter to advance by 1, got %v", after-before)
	}
}

func TestDBQueryCounterLabels(t *testing.T) {
	DBQueryTotal.WithLabelValues("select", "success").Inc()
	if got := testutil.ToFloat64(DBQueryTotal.WithLabelValues("select", "success")); got < 1 {
		t.Fatalf("expected select/success counter >= 1, got %v", got)
	}
}
