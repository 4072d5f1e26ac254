// Copyright (c) 2023 Contributors to the Eclipse Foundation
//
// See the NOTICE file(s) distributed with this work for additional
// information regarding copyright ownership.
//
// This program and the accompanying materials are made available under the
// terms of the Eclipse Public License 2.0 which is available at
// https://www.eclipse.org/legal/epl-2.0, or the Apache License, Version 2.0
// which is available at https://www.apache.org/licenses/LICENSE-2.0.
//
// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0

package types

import "time"

// EventType defines the kind of a progress event.
type EventType string

// StreamType defines the output stream a task line originated from.
type StreamType string

const (
	// EventRunStarted is emitted once the run is accepted.
	EventRunStarted EventType = "RUN_STARTED"
	// EventStateChanged is emitted on every orchestrator state transition.
	EventStateChanged EventType = "STATE_CHANGED"
	// EventTaskStarted is emitted right before a task is executed or previewed.
	EventTaskStarted EventType = "TASK_STARTED"
	// EventTaskOutput carries a single output line of a task's external command.
	EventTaskOutput EventType = "TASK_OUTPUT"
	// EventTaskFinished carries the outcome of a task.
	EventTaskFinished EventType = "TASK_FINISHED"
	// EventPreviewReady carries the dry-run preview of a task.
	EventPreviewReady EventType = "PREVIEW_READY"
	// EventProbeReady carries the available updates reported by a task.
	EventProbeReady EventType = "PROBE_READY"
	// EventWarning carries a non-fatal condition, e.g. an unavailable preview.
	EventWarning EventType = "WARNING"
	// EventRunFinished carries the final run result.
	EventRunFinished EventType = "RUN_FINISHED"
)

const (
	// StreamStdout denotes the standard output of a command.
	StreamStdout StreamType = "stdout"
	// StreamStderr denotes the standard error of a command.
	StreamStderr StreamType = "stderr"
)

// HostInfo contains basic facts about the updated host.
type HostInfo struct {
	Hostname        string `json:"hostname"`
	Platform        string `json:"platform,omitempty"`
	PlatformVersion string `json:"platformVersion,omitempty"`
	KernelVersion   string `json:"kernelVersion,omitempty"`
}

// Event is a single progress notification produced during a run.
type Event struct {
	RunID     string         `json:"runId"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Task      TaskKind       `json:"task,omitempty"`
	State     RunState       `json:"state,omitempty"`
	Stream    StreamType     `json:"stream,omitempty"`
	Line      string         `json:"line,omitempty"`
	Message   string         `json:"message,omitempty"`
	Plan      *RunPlan       `json:"plan,omitempty"`
	Host      *HostInfo      `json:"host,omitempty"`
	Outcome   *TaskOutcome   `json:"outcome,omitempty"`
	Probe     *ProbeReport   `json:"probe,omitempty"`
	Result    *RunResult     `json:"result,omitempty"`
	Refresh   *RefreshResult `json:"refresh,omitempty"`
}
