package otel

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/MrEthical07/signet"
)

func TestExporterRegistersAndCollects(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("signet-test")

	exp, err := New(meter)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	// Drive the counters through a real sign/verify pair so the exporter
	// observes live process totals.
	signer, err := signet.NewSigner(signet.SignerConfig{Secret: signet.StaticKeyString("metrics-secret")})
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	token, err := signer.Sign(map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	verifier, err := signet.NewVerifier(signet.VerifierConfig{
		Secret:     signet.StaticKeyString("metrics-secret"),
		Algorithms: []signet.Algorithm{signet.AlgHS256},
	})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	if _, err := verifier.Verify(token); err != nil {
		t.Fatalf("verify: %v", err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	found := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				found[m.Name] = dp.Value
			}
		}
	}

	for _, id := range []signet.MetricID{signet.MetricSignSuccess, signet.MetricVerifySuccess} {
		name := signet.MetricName(id)
		if found[name] < 1 {
			t.Fatalf("expected %s >= 1, got %d (all: %v)", name, found[name], found)
		}
	}
	if _, ok := found[signet.MetricName(signet.MetricSecretCacheHit)]; !ok {
		t.Fatalf("expected %s to be registered", signet.MetricName(signet.MetricSecretCacheHit))
	}
}

func TestExporterRejectsNilMeter(t *testing.T) {
	if _, err := New(nil); err != ErrNilMeter {
		t.Fatalf("expected ErrNilMeter, got %v", err)
	}
}
