package cmd

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"
	"log/slog"
	"log/syslog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// SyslogHandler is a slog.Handler that logs to syslog.
type SyslogHandler struct {
	writer     *syslog.Writer
	logLeveler slog.Leveler
	addSource  bool
	attrs      []slog.Attr // added with WithAttrs, keys already carry the group prefix
	group      string      // dotted prefix for attribute keys
}

// NewSyslogHandler returns a handler that writes to the local syslog daemon,
// tagged with the executable name. logOpts supplies the level and whether the
// source location is included.
func NewSyslogHandler(logOpts *slog.HandlerOptions) (*SyslogHandler, error) {
	writer, err := syslog.New(syslog.LOG_INFO|syslog.LOG_USER, filepath.Base(os.Args[0]))
	if err != nil {
		return nil, err
	}
	return &SyslogHandler{writer: writer, logLeveler: logOpts.Level, addSource: logOpts.AddSource}, nil
}

// Handle writes the record at the syslog priority matching its level.
func (h *SyslogHandler) Handle(ctx context.Context, r slog.Record) error {
	msg := h.format(r)
	switch {
	case r.Level < slog.LevelInfo:
		return h.writer.Debug(msg)
	case r.Level < slog.LevelWarn:
		return h.writer.Info(msg)
	case r.Level < slog.LevelError:
		return h.writer.Warning(msg)
	default:
		return h.writer.Err(msg)
	}
}

// format renders the record as logfmt style key=value pairs
func (h *SyslogHandler) format(r slog.Record) string {
	var sb strings.Builder
	sb.WriteString("level=" + r.Level.String())
	if r.PC != 0 && h.addSource {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fs.Next()
		sb.WriteString(fmt.Sprintf(" source=%s:%d", filepath.Base(f.File), f.Line))
	}
	sb.WriteString(fmt.Sprintf(" msg=%q", r.Message))
	for _, attr := range h.attrs {
		sb.WriteString(fmt.Sprintf(" %s=%q", attr.Key, attr.Value.String()))
	}
	r.Attrs(func(attr slog.Attr) bool {
		sb.WriteString(fmt.Sprintf(" %s%s=%q", h.group, attr.Key, attr.Value.String()))
		return true
	})
	return sb.String()
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *SyslogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = slices.Clone(h.attrs)
	for _, attr := range attrs {
		h2.attrs = append(h2.attrs, slog.Attr{Key: h.group + attr.Key, Value: attr.Value})
	}
	return &h2
}

// WithGroup returns a handler that prefixes the keys of later attributes with name.
func (h *SyslogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.group = h.group + name + "."
	return &h2
}

// Enabled reports whether records at level are logged.
func (h *SyslogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.logLeveler.Level()
}
