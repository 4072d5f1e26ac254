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
	"strings"

	"github.com/sysupdater/sysupdater/api"
	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/logger"
)

const (
	fwupdmgr = "fwupdmgr"

	// fwupdmgr exits with 2 if there is nothing to do
	exitNothingToDo = 2
)

type firmwareTask struct {
	runner api.CommandRunner
}

// NewFirmwareTask creates the task updating the device firmware with fwupd.
func NewFirmwareTask(runner api.CommandRunner) api.Task {
	return &firmwareTask{runner: runner}
}

func (task *firmwareTask) Kind() types.TaskKind {
	return types.TaskFirmware
}

func (task *firmwareTask) command(args ...string) *types.Command {
	return &types.Command{Task: types.TaskFirmware, Name: fwupdmgr, Args: args}
}

func (task *firmwareTask) refreshCommand() *types.Command {
	return task.command("refresh", "--force")
}

func (task *firmwareTask) updateCommand() *types.Command {
	return task.command("update", "-y", "--no-reboot-check")
}

func (task *firmwareTask) Probe(ctx context.Context) (*types.ProbeSummary, error) {
	if !task.runner.Available(fwupdmgr) {
		logger.Debug("%s fwupdmgr not installed, nothing to probe", types.TaskFirmware.Label())
		return &types.ProbeSummary{Task: types.TaskFirmware}, nil
	}
	if _, err := probe(ctx, task.runner, task.refreshCommand(), exitNothingToDo); err != nil {
		logger.DebugErr(err, "%s metadata refresh failed", types.TaskFirmware.Label())
	}
	result, err := probe(ctx, task.runner, task.command("get-updates", "-y"), exitNothingToDo)
	if err != nil {
		return nil, err
	}
	summary := &types.ProbeSummary{Task: types.TaskFirmware}
	if result.ExitCode == exitNothingToDo {
		return summary, nil
	}
	summary.Items = nonEmptyLines(result.Lines, func(line string) bool {
		return !strings.Contains(line, "→") && !strings.Contains(line, "New version")
	})
	return summary, nil
}

func (task *firmwareTask) Preview(ctx context.Context) (string, error) {
	return preview(ctx, task, []*types.Command{task.refreshCommand(), task.updateCommand()}, "device(s)")
}

func (task *firmwareTask) Execute(ctx context.Context, token api.CancellationToken, handler api.LineHandler) *types.TaskOutcome {
	if !task.runner.Available(fwupdmgr) {
		logger.Info("%s fwupdmgr not installed, skipping firmware updates", types.TaskFirmware.Label())
		return skipped(types.TaskFirmware, "fwupdmgr not installed")
	}

	// stale metadata only hides updates, the refresh may fail
	refresh := runStep(ctx, task.runner, token, task.refreshCommand(), handler, exitNothingToDo)
	if refresh.outcome != nil {
		if refresh.outcome.Status == types.StatusCancelled {
			return refresh.outcome
		}
		logger.Warn("%s metadata refresh failed, continuing with the cached metadata", types.TaskFirmware.Label())
	}

	update := runStep(ctx, task.runner, token, task.updateCommand(), handler, exitNothingToDo)
	if update.outcome != nil {
		return update.outcome
	}
	if update.result.ExitCode == exitNothingToDo {
		return skipped(types.TaskFirmware, "no firmware updates available")
	}
	requiresReboot := firmwareRequiresReboot(update.result.Lines) || task.pendingRestart(ctx, token)
	return success(types.TaskFirmware, true, requiresReboot, "firmware updated")
}

// pendingRestart asks fwupd whether an updated device waits for a reboot or a shutdown to apply its new firmware.
// The update runs with --no-reboot-check, so fwupdmgr never reports this itself. It is best-effort, any failure is treated as no restart needed.
func (task *firmwareTask) pendingRestart(ctx context.Context, token api.CancellationToken) bool {
	if isTriggered(token) {
		return false
	}
	result, err := task.runner.Run(ctx, token, task.command("get-devices", "--json"), nil)
	if err != nil {
		logger.DebugErr(err, "%s cannot query the device state", types.TaskFirmware.Label())
		return false
	}
	if result.Cancelled || result.ExitCode != 0 {
		return false
	}
	devices, err := devicesAwaitingRestart(result.Lines)
	if err != nil {
		logger.DebugErr(err, "%s cannot parse the device state", types.TaskFirmware.Label())
		return false
	}
	if len(devices) > 0 {
		logger.Info("%s restart needed to apply the firmware of %s", types.TaskFirmware.Label(), strings.Join(devices, ", "))
	}
	return len(devices) > 0
}
