// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package progress shows the status of each input while reports are generated.
*/
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
)

var spinChars = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const tickInterval = 250 * time.Millisecond

type spinnerState struct {
	label       string
	status      string
	statusIsNew bool
	spinIndex   int
}

// MultiSpinner draws one line per input. On a terminal the lines are redrawn
// in place, otherwise a line is written only when its status changes.
type MultiSpinner struct {
	out        io.Writer
	isTerminal bool
	labelWidth int

	mu       sync.Mutex
	spinners []spinnerState
	ticker   *time.Ticker
	done     chan struct{}
	spinning bool
}

// NewMultiSpinner creates a MultiSpinner that writes to out
func NewMultiSpinner(out io.Writer, isTerminal bool) *MultiSpinner {
	return &MultiSpinner{out: out, isTerminal: isTerminal, labelWidth: 20}
}

// AddSpinner adds a spinner, labels must be unique
func (ms *MultiSpinner) AddSpinner(label string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, spinner := range ms.spinners {
		if spinner.label == label {
			return fmt.Errorf("spinner with label %s already exists", label)
		}
	}
	ms.spinners = append(ms.spinners, spinnerState{label: label, status: "?"})
	ms.labelWidth = max(ms.labelWidth, ansi.StringWidth(label))
	return nil
}

// Start draws the spinners and redraws them until Finish is called
func (ms *MultiSpinner) Start() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.spinning {
		return
	}
	ms.draw(true)
	ms.ticker = time.NewTicker(tickInterval)
	ms.done = make(chan struct{})
	ms.spinning = true
	go ms.onTick(ms.ticker, ms.done)
}

// Finish stops the spinners and draws their final status
func (ms *MultiSpinner) Finish() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if !ms.spinning {
		return
	}
	ms.ticker.Stop()
	close(ms.done)
	ms.spinning = false
	ms.draw(false)
}

// Status updates the status of a spinner
func (ms *MultiSpinner) Status(label string, status string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for i, spinner := range ms.spinners {
		if spinner.label == label {
			if status != spinner.status {
				ms.spinners[i].status = status
				ms.spinners[i].statusIsNew = true
			}
			return nil
		}
	}
	return fmt.Errorf("did not find spinner with label %s", label)
}

func (ms *MultiSpinner) onTick(ticker *time.Ticker, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			ms.mu.Lock()
			if ms.spinning {
				ms.draw(true)
			}
			ms.mu.Unlock()
		}
	}
}

// draw must be called with mu held
func (ms *MultiSpinner) draw(goUp bool) {
	for i, spinner := range ms.spinners {
		if !ms.isTerminal && !spinner.statusIsNew {
			continue
		}
		label := spinner.label + strings.Repeat(" ", ms.labelWidth-ansi.StringWidth(spinner.label))
		fmt.Fprintf(ms.out, "%s  %s  %-40s\n", label, spinChars[spinner.spinIndex], spinner.status)
		ms.spinners[i].statusIsNew = false
		ms.spinners[i].spinIndex = (spinner.spinIndex + 1) % len(spinChars)
	}
	if goUp && ms.isTerminal {
		fmt.Fprint(ms.out, strings.Repeat("\x1b[1A", len(ms.spinners)))
	}
}
