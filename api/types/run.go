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

// ExecutionMode defines how the selected tasks are executed.
type ExecutionMode string

// OverallStatus defines the aggregated status of a run.
type OverallStatus string

const (
	// ModeSequential runs the tasks one at a time in canonical order.
	ModeSequential ExecutionMode = "SEQUENTIAL"
	// ModeParallel runs all selected tasks concurrently.
	ModeParallel ExecutionMode = "PARALLEL"
)

const (
	// OverallSuccess denotes that every task succeeded or was skipped.
	OverallSuccess OverallStatus = "SUCCESS"
	// OverallPartialFailure denotes that at least one task failed.
	OverallPartialFailure OverallStatus = "PARTIAL_FAILURE"
	// OverallAborted denotes that the run was cancelled by the user.
	OverallAborted OverallStatus = "ABORTED"
	// OverallHalted denotes that the run stopped before executing any task, e.g. preflight failure or invalid plan.
	// It is reported like an abort, but maps to the general error exit code.
	OverallHalted OverallStatus = "HALTED"
)

// RunState is a state of the orchestrator state machine.
type RunState string

const (
	StateIdle        RunState = "IDLE"
	StatePreflight   RunState = "PREFLIGHT"
	StatePlanning    RunState = "PLANNING"
	StateExecuting   RunState = "EXECUTING"
	StateAborting    RunState = "ABORTING"
	StateAggregating RunState = "AGGREGATING"
	StateDone        RunState = "DONE"
)

// Process exit codes.
const (
	ExitSuccess   = 0
	ExitFailure   = 1
	ExitCancelled = 130
)

// ExitCodeFor maps the overall status of a run to the process exit code.
func ExitCodeFor(status OverallStatus) int {
	switch status {
	case OverallSuccess:
		return ExitSuccess
	case OverallAborted:
		return ExitCancelled
	default:
		return ExitFailure
	}
}

// RunIntent is the resolved invocation, already combined with the configuration.
type RunIntent struct {
	Tasks            []TaskKind
	Mode             ExecutionMode
	DryRun           bool
	SkipNetworkCheck bool
	SkipRebootPrompt bool
	Verbosity        int
	Quiet            bool
}

// RunPlan is the ordered, duplicate free set of tasks selected for a run.
type RunPlan struct {
	Tasks  []TaskKind    `json:"tasks"`
	Mode   ExecutionMode `json:"mode"`
	DryRun bool          `json:"dryRun"`
}

// RunResult is the final aggregate of a run.
type RunResult struct {
	RunID          string         `json:"runId"`
	Outcomes       []*TaskOutcome `json:"outcomes"`
	OverallStatus  OverallStatus  `json:"overallStatus"`
	RequiresReboot bool           `json:"requiresReboot"`
	ExitCode       int            `json:"exitCode"`
	DryRun         bool           `json:"dryRun,omitempty"`
	Message        string         `json:"message,omitempty"`
}

// Outcome returns the outcome for the given task kind, or nil if the task was not part of the run.
func (result *RunResult) Outcome(kind TaskKind) *TaskOutcome {
	for _, outcome := range result.Outcomes {
		if outcome.Task == kind {
			return outcome
		}
	}
	return nil
}

// ProbeReport holds the result of probing a single task for available updates.
type ProbeReport struct {
	Summary *ProbeSummary `json:"summary,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// RefreshResult is the outcome of a refresh-only invocation.
type RefreshResult struct {
	RunID    string                    `json:"runId"`
	Tasks    []TaskKind                `json:"tasks"`
	Reports  map[TaskKind]*ProbeReport `json:"reports"`
	Status   OverallStatus             `json:"status"`
	ExitCode int                       `json:"exitCode"`
	Message  string                    `json:"message,omitempty"`
}

// Total returns the number of available updates over all probed tasks.
func (result *RefreshResult) Total() int {
	total := 0
	for _, report := range result.Reports {
		total += report.Summary.Count()
	}
	return total
}
