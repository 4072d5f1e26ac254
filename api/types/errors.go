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

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNetworkUnavailable is returned by the preflight check when the configured endpoint cannot be reached in time.
	ErrNetworkUnavailable = errors.New("no network connectivity")
	// ErrCancelled is returned when the run is cancelled by the user.
	ErrCancelled = errors.New("operation cancelled by user")
	// ErrInvalidPlan is returned when the run plan cannot be built, e.g. no task is selected.
	ErrInvalidPlan = errors.New("invalid run plan")
	// ErrProbeFailed is returned when the available updates of a task cannot be queried.
	ErrProbeFailed = errors.New("probe failed")
	// ErrPreviewUnavailable is returned when a dry-run preview cannot be produced.
	ErrPreviewUnavailable = errors.New("preview unavailable")
	// ErrCommandNotFound is returned when the external command of a task is not installed.
	ErrCommandNotFound = errors.New("command not found")
	// ErrAlreadyStarted is returned when an orchestrator instance is asked to run twice.
	ErrAlreadyStarted = errors.New("orchestrator already started")
)

// TaskExecutionFailedError describes a failed task execution and its cause.
type TaskExecutionFailedError struct {
	Task  TaskKind
	Cause error
}

func (err *TaskExecutionFailedError) Error() string {
	return fmt.Sprintf("%s update failed: %v", err.Task, err.Cause)
}

// Unwrap returns the cause of the failure.
func (err *TaskExecutionFailedError) Unwrap() error {
	return err.Cause
}

// CommandFailedError describes a non-zero exit of an external command.
type CommandFailedError struct {
	Command  string
	ExitCode int
	Details  string
}

func (err *CommandFailedError) Error() string {
	if err.Details == "" {
		return fmt.Sprintf("command failed: %s (exit code %d)", err.Command, err.ExitCode)
	}
	return fmt.Sprintf("command failed: %s (exit code %d): %s", err.Command, err.ExitCode, err.Details)
}
