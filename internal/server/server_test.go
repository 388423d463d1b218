package server

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmapeak/internal/extract"
)

const device1 = "NVIDIA GeForce RTX 5090 (设备 1)"

func sampleLog(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../extract/testdata/sample.log")
	require.NoError(t, err)
	return string(data)
}

func newLoadedServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(nil)
	s.Load(extract.ParseResultData(sampleLog(t)))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestResults(t *testing.T) {
	_, ts := newLoadedServer(t)
	var result extract.ParseResult
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/results", &result))
	assert.Len(t, result.Devices, 2)
	assert.Len(t, result.PerformanceData, 40)
}

func TestDevices(t *testing.T) {
	_, ts := newLoadedServer(t)
	var devices []extract.DeviceInfo
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/devices", &devices))
	require.Len(t, devices, 2)
	assert.Equal(t, device1, devices[1].Name)
	assert.Equal(t, 170, devices[1].MultiprocessorCount)
}

func TestPerformance(t *testing.T) {
	_, ts := newLoadedServer(t)

	var all []PerformanceRecord
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/performance", &all))
	require.Len(t, all, 40)
	assert.Equal(t, "2.987 s", all[0].TimeFormatted)
	assert.Equal(t, "75.8 TFLOPS", all[0].TflopsFormatted)
	assert.EqualValues(t, "low", all[0].Level)

	var high []PerformanceRecord
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/performance?level=high", &high))
	require.Len(t, high, 2)
	for _, record := range high {
		assert.Equal(t, device1, record.Device)
		assert.Greater(t, record.Tflops, 1000.0)
	}

	var byDevice []PerformanceRecord
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/performance?"+url.Values{"device": {device1}}.Encode(), &byDevice))
	assert.Len(t, byDevice, 20)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/performance?level=extreme", nil))
}

func TestParseDoesNotChangeSnapshot(t *testing.T) {
	s, ts := newLoadedServer(t)
	body := "Device 0: Test GPU\nmma_s8s8s32_16_16_16\nrun: 12.5 ms 1200 T(fl)ops\n"
	resp, err := http.Post(ts.URL+"/api/parse", "text/plain", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result extract.ParseResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.PerformanceData, 1)
	assert.Equal(t, "Test GPU (设备 0)", result.PerformanceData[0].Device)
	assert.Equal(t, 0.0125, result.PerformanceData[0].TimeSec)

	assert.Len(t, s.Result().PerformanceData, 40)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestParseReadErrors(t *testing.T) {
	s := New(nil)
	s.maxParseBody = 16
	handler := s.Handler()

	tests := []struct {
		name string
		body io.Reader
		want int
	}{
		{name: "body over the limit", body: strings.NewReader(strings.Repeat("x", 17)), want: http.StatusRequestEntityTooLarge},
		{name: "body at the limit", body: strings.NewReader(strings.Repeat("x", 16)), want: http.StatusOK},
		{name: "broken body", body: failingReader{}, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/parse", tt.body)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, ts := newLoadedServer(t)
	resp, err := http.Post(ts.URL+"/api/results", "text/plain", strings.NewReader(""))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	_, ts := newLoadedServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestMetrics(t *testing.T) {
	s, ts := newLoadedServer(t)
	assert.Equal(t, 40, testutil.CollectAndCount(s.tflopsGauge))
	assert.Equal(t, 40, testutil.CollectAndCount(s.timeGauge))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.devicesGauge))
	assert.Equal(t, 75.8, testutil.ToFloat64(s.tflopsGauge.WithLabelValues("NVIDIA GeForce RTX 5090 D (设备 0)", "mma_s4s4s32_8_8_32")))

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "mmapeak_devices 2")
	assert.Contains(t, string(body), "mmapeak_tflops{")

	// reloading replaces the series
	s.Load()
	assert.Equal(t, 0, testutil.CollectAndCount(s.tflopsGauge))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.devicesGauge))
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.ListenAndServe(ctx, "127.0.0.1:0")
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
