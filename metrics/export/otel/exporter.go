package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/MrEthical07/signet"
)

// ErrNilMeter is returned when the meter argument is nil.
var ErrNilMeter = errors.New("nil meter")

type observedCounter struct {
	id         signet.MetricID
	instrument metric.Int64ObservableCounter
}

// Exporter registers one observable counter per signet metric and observes
// the current totals on each collection cycle.
type Exporter struct {
	registration metric.Registration
	counters     []observedCounter
}

// New registers signet's counters on meter.
func New(meter metric.Meter) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}

	ids := signet.MetricIDs()
	exporter := &Exporter{counters: make([]observedCounter, 0, len(ids))}
	observables := make([]metric.Observable, 0, len(ids))

	for _, id := range ids {
		ins, err := meter.Int64ObservableCounter(signet.MetricName(id))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", signet.MetricName(id), err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: id, instrument: ins})
		observables = append(observables, ins)
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := signet.SnapshotMetrics()
		for _, c := range exporter.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Get(c.id)))
		}
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
