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

package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/sysupdater/sysupdater/api"
	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/config"
	"github.com/sysupdater/sysupdater/logger"

	"github.com/pkg/errors"
)

const detailLines = 5

// NewTasks creates the three update tasks, all sharing the given command runner.
func NewTasks(cfg *config.Config, runner api.CommandRunner) map[types.TaskKind]api.Task {
	return map[types.TaskKind]api.Task{
		types.TaskSystem:   NewSystemTask(cfg.System, runner),
		types.TaskFlatpak:  NewFlatpakTask(cfg.Flatpak, runner),
		types.TaskFirmware: NewFirmwareTask(runner),
	}
}

// step is the result of running a single command of a task.
type step struct {
	result  *types.CommandResult
	outcome *types.TaskOutcome
}

// runStep runs the command and converts any abnormal end (cancellation, start failure, unexpected exit code) into a terminal outcome.
// The outcome is nil if the command exited with one of the accepted exit codes.
func runStep(ctx context.Context, runner api.CommandRunner, token api.CancellationToken, command *types.Command, handler api.LineHandler, accepted ...int) *step {
	if isTriggered(token) {
		return &step{outcome: cancelled(command.Task, "cancelled before '%s' started", command)}
	}
	result, err := runner.Run(ctx, token, command, handler)
	if err != nil {
		return &step{outcome: failed(command.Task, err)}
	}
	if result.Cancelled {
		if result.Killed {
			return &step{result: result, outcome: cancelled(command.Task, "'%s' killed after the grace period", command)}
		}
		return &step{result: result, outcome: cancelled(command.Task, "'%s' terminated", command)}
	}
	if result.ExitCode == 0 {
		return &step{result: result}
	}
	for _, code := range accepted {
		if result.ExitCode == code {
			return &step{result: result}
		}
	}
	return &step{
		result: result,
		outcome: failed(command.Task, &types.CommandFailedError{
			Command:  command.String(),
			ExitCode: result.ExitCode,
			Details:  lastLines(result.Lines, detailLines),
		}),
	}
}

// probe runs a read-only query command, without streaming its output.
func probe(ctx context.Context, runner api.CommandRunner, command *types.Command, accepted ...int) (*types.CommandResult, error) {
	result, err := runner.Run(ctx, nil, command, nil)
	if err != nil {
		return nil, errors.Wrapf(types.ErrProbeFailed, "%s: %v", command, err)
	}
	if result.Cancelled {
		return nil, errors.Wrapf(types.ErrCancelled, "%s", command)
	}
	if result.ExitCode == 0 {
		return result, nil
	}
	for _, code := range accepted {
		if result.ExitCode == code {
			return result, nil
		}
	}
	return nil, errors.Wrapf(types.ErrProbeFailed, "%s exited with code %d", command, result.ExitCode)
}

// preview describes the commands an execution would run, together with the number of pending updates.
func preview(ctx context.Context, task api.Task, commands []*types.Command, unit string) (string, error) {
	summary, err := task.Probe(ctx)
	if errors.Is(err, types.ErrCancelled) {
		return "", err
	}
	if err != nil {
		return "", errors.Wrapf(types.ErrPreviewUnavailable, "%v", err)
	}
	builder := &strings.Builder{}
	fmt.Fprintf(builder, "%d %s pending", summary.Count(), unit)
	for _, command := range commands {
		fmt.Fprintf(builder, "\nwould run: %s", command)
	}
	return builder.String(), nil
}

func nonEmptyLines(lines []string, skip func(string) bool) []string {
	var items []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || (skip != nil && skip(line)) {
			continue
		}
		items = append(items, line)
	}
	return items
}

func lastLines(lines []string, n int) string {
	lines = nonEmptyLines(lines, nil)
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func success(task types.TaskKind, changed, requiresReboot bool, detail string) *types.TaskOutcome {
	return &types.TaskOutcome{
		Task:           task,
		Status:         types.StatusSuccess,
		Changed:        changed,
		RequiresReboot: requiresReboot,
		Detail:         detail,
	}
}

func skipped(task types.TaskKind, detail string) *types.TaskOutcome {
	return &types.TaskOutcome{
		Task:   task,
		Status: types.StatusSkipped,
		Detail: detail,
	}
}

func failed(task types.TaskKind, cause error) *types.TaskOutcome {
	err := &types.TaskExecutionFailedError{Task: task, Cause: cause}
	logger.ErrorErr(cause, "%s update failed:", task.Label())
	return &types.TaskOutcome{
		Task:   task,
		Status: types.StatusFailed,
		Detail: err.Error(),
	}
}

func cancelled(task types.TaskKind, format string, args ...interface{}) *types.TaskOutcome {
	return &types.TaskOutcome{
		Task:   task,
		Status: types.StatusCancelled,
		Detail: fmt.Sprintf(format, args...),
	}
}
