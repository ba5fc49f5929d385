// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/models"
)

// StatsWorker periodically copies the number of pending documents into a
// gauge. The first refresh happens right away.
type StatsWorker struct {
	counter  StatusCounter
	gauge    PendingGauge
	interval time.Duration
	log      *logger.Logger

	done chan struct{}
}

func NewStatsWorker(counter StatusCounter, gauge PendingGauge, interval time.Duration, log *logger.Logger) *StatsWorker {
	return &StatsWorker{
		counter:  counter,
		gauge:    gauge,
		interval: interval,
		log:      log,
		done:     make(chan struct{}),
	}
}

func (w *StatsWorker) Run(ctx context.Context) {
	go w.loop(ctx)
}

// Done is closed once the worker has stopped.
func (w *StatsWorker) Done() <-chan struct{} {
	return w.done
}

func (w *StatsWorker) loop(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Debug().Str("func", "*StatsWorker.loop").Msg("stats worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *StatsWorker) refresh(ctx context.Context) {
	n, err := w.counter.CountByStatus(ctx, models.StatusPending)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Err(err).Str("func", "*StatsWorker.refresh").Msg("error counting pending documents")
		}
		return
	}
	w.gauge.SetPending(n)
}
