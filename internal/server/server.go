// Package server serves parsed benchmark results over HTTP as JSON and as
// Prometheus metrics.
package server

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mmapeak/internal/extract"
	"mmapeak/internal/format"
)

const (
	metricPrefix        = "mmapeak_"
	// defaultMaxParseBody limits the size of a log posted to /api/parse
	defaultMaxParseBody = 32 << 20
	shutdownTimeout     = 5 * time.Second
)

// Server holds the current result snapshot and the metrics derived from it.
type Server struct {
	parser       *extract.Parser
	maxParseBody int64

	mu     sync.RWMutex
	result extract.ParseResult

	registry     *prometheus.Registry
	tflopsGauge  *prometheus.GaugeVec
	timeGauge    *prometheus.GaugeVec
	devicesGauge prometheus.Gauge
}

// New returns a Server with an empty snapshot. The parser is used for logs
// posted to /api/parse; nil selects the default parser.
func New(parser *extract.Parser) *Server {
	if parser == nil {
		parser = extract.NewParser()
	}
	s := &Server{
		parser:       parser,
		maxParseBody: defaultMaxParseBody,
		result:       extract.Merge(),
		tflopsGauge: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "tflops",
				Help: "Best measured throughput of an operation on a device, in TFLOPS",
			},
			[]string{"device", "operation"},
		),
		timeGauge: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "time_seconds",
				Help: "Run time of the best measurement of an operation on a device",
			},
			[]string{"device", "operation"},
		),
		devicesGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "devices",
				Help: "Number of devices in the loaded logs",
			},
		),
		registry: prometheus.NewRegistry(),
	}
	s.registry.MustRegister(s.tflopsGauge, s.timeGauge, s.devicesGauge)
	return s
}

// Load replaces the snapshot with the merge of results and refreshes the metrics.
func (s *Server) Load(results ...extract.ParseResult) {
	merged := extract.Merge(results...)
	s.mu.Lock()
	s.result = merged
	s.mu.Unlock()
	s.updateMetrics(merged)
	slog.Info("results loaded", slog.Int("devices", len(merged.Devices)), slog.Int("samples", len(merged.PerformanceData)))
}

// Result returns the current snapshot.
func (s *Server) Result() extract.ParseResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

func (s *Server) updateMetrics(result extract.ParseResult) {
	s.tflopsGauge.Reset()
	s.timeGauge.Reset()
	best := make(map[[2]string]extract.PerformanceData)
	for _, sample := range result.PerformanceData {
		key := [2]string{sample.Device, sample.Operation}
		if current, ok := best[key]; !ok || sample.Tflops > current.Tflops {
			best[key] = sample
		}
	}
	for key, sample := range best {
		s.tflopsGauge.WithLabelValues(key[0], key[1]).Set(sample.Tflops)
		s.timeGauge.WithLabelValues(key[0], key[1]).Set(sample.TimeSec)
	}
	s.devicesGauge.Set(float64(len(result.Devices)))
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/results", s.handleResults)
	mux.HandleFunc("GET /api/devices", s.handleDevices)
	mux.HandleFunc("GET /api/performance", s.handlePerformance)
	mux.HandleFunc("POST /api/parse", s.handleParse)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 3 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server", slog.String("address", addr))
		errCh <- server.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrapf(err, "failed to serve on %s", addr)
		}
		return nil
	case <-ctx.Done():
		slog.Info("stopping HTTP server", slog.String("address", addr))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "failed to shut down HTTP server")
		}
		return nil
	}
}

// PerformanceRecord is a sample annotated with its display values.
type PerformanceRecord struct {
	extract.PerformanceData
	TimeFormatted   string                  `json:"timeFormatted"`
	TflopsFormatted string                  `json:"tflopsFormatted"`
	Level           format.PerformanceLevel `json:"level"`
}

func newPerformanceRecord(sample extract.PerformanceData) PerformanceRecord {
	return PerformanceRecord{
		PerformanceData: sample,
		TimeFormatted:   format.Time(sample.TimeMs),
		TflopsFormatted: format.Tflops(sample.Tflops),
		Level:           format.Level(sample.Tflops),
	}
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Result())
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Result().Devices)
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	var level format.PerformanceLevel
	if value := r.URL.Query().Get("level"); value != "" {
		var err error
		if level, err = format.ParseLevel(value); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	device := r.URL.Query().Get("device")
	records := []PerformanceRecord{}
	for _, sample := range s.Result().PerformanceData {
		if device != "" && sample.Device != device {
			continue
		}
		record := newPerformanceRecord(sample)
		if level != "" && record.Level != level {
			continue
		}
		records = append(records, record)
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxParseBody))
	if err != nil {
		status := http.StatusBadRequest
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, errors.Wrap(err, "failed to read log"))
		return
	}
	writeJSON(w, http.StatusOK, s.parser.Parse(string(body)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	slog.Warn("request failed", slog.Int("status", status), slog.String("error", err.Error()))
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
