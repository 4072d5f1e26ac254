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

package api

import (
	"context"

	"github.com/sysupdater/sysupdater/api/types"
)

// CancellationToken is the read-only view of the run-wide cancellation signal.
type CancellationToken interface {
	// Triggered reports whether cancellation has been requested.
	Triggered() bool
	// Done is closed once cancellation has been requested.
	Done() <-chan struct{}
}

// LineHandler receives a single output line of an external command, attributed to its source.
type LineHandler func(task types.TaskKind, stream types.StreamType, line string)

// CommandRunner runs external commands on behalf of the tasks.
type CommandRunner interface {
	// Run starts the command, streams its output to the handler (if set) and waits for it to exit.
	// If the token is triggered, the command is asked to terminate and forcibly killed after the grace period.
	Run(ctx context.Context, token CancellationToken, command *types.Command, handler LineHandler) (*types.CommandResult, error)
	// Available reports whether the named executable can be found.
	Available(name string) bool
}

// Task is one independently executable update unit.
type Task interface {
	Kind() types.TaskKind

	// Probe lists the available updates without changing the system.
	Probe(ctx context.Context) (*types.ProbeSummary, error)
	// Preview describes what Execute would do, without doing it.
	Preview(ctx context.Context) (string, error)
	// Execute performs the update and always returns exactly one outcome.
	Execute(ctx context.Context, token CancellationToken, handler LineHandler) *types.TaskOutcome
}
