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
	"github.com/sysupdater/sysupdater/config"
	"github.com/sysupdater/sysupdater/logger"

	"github.com/pkg/errors"
)

const (
	dnf5 = "dnf5"

	// dnf5 check-upgrade exits with 100 if updates are available
	exitUpdatesAvailable = 100
	// dnf5 needs-restarting -r exits with 1 if a reboot is needed
	exitRebootNeeded = 1
)

type systemTask struct {
	cfg    config.SystemConfig
	runner api.CommandRunner
}

// NewSystemTask creates the task updating the system packages with dnf5.
// dnf5 is mandatory on the host, its absence fails the task.
func NewSystemTask(cfg *config.SystemConfig, runner api.CommandRunner) api.Task {
	return &systemTask{cfg: *cfg, runner: runner}
}

func (task *systemTask) Kind() types.TaskKind {
	return types.TaskSystem
}

func (task *systemTask) command(args ...string) *types.Command {
	return &types.Command{Task: types.TaskSystem, Name: dnf5, Args: args}
}

func (task *systemTask) upgradeCommand() *types.Command {
	if task.cfg.Refresh {
		return task.command("upgrade", "--refresh", "-y")
	}
	return task.command("upgrade", "-y")
}

func (task *systemTask) commands() []*types.Command {
	commands := []*types.Command{task.upgradeCommand()}
	if task.cfg.AutoRemove {
		commands = append(commands, task.command("autoremove", "-y"))
	}
	return commands
}

func (task *systemTask) Probe(ctx context.Context) (*types.ProbeSummary, error) {
	if !task.runner.Available(dnf5) {
		return nil, errors.Wrapf(types.ErrProbeFailed, "%v: %s", types.ErrCommandNotFound, dnf5)
	}
	args := []string{"check-upgrade", "-q"}
	if task.cfg.Refresh {
		args = []string{"check-upgrade", "--refresh", "-q"}
	}
	result, err := probe(ctx, task.runner, task.command(args...), exitUpdatesAvailable)
	if err != nil {
		return nil, err
	}
	return &types.ProbeSummary{
		Task: types.TaskSystem,
		Items: nonEmptyLines(result.Lines, func(line string) bool {
			return strings.HasPrefix(line, "Last metadata") || strings.HasPrefix(line, "Obsoleting")
		}),
	}, nil
}

func (task *systemTask) Preview(ctx context.Context) (string, error) {
	return preview(ctx, task, task.commands(), "package(s)")
}

func (task *systemTask) Execute(ctx context.Context, token api.CancellationToken, handler api.LineHandler) *types.TaskOutcome {
	if !task.runner.Available(dnf5) {
		return failed(types.TaskSystem, errors.Wrapf(types.ErrCommandNotFound, "%s", dnf5))
	}

	upgrade := runStep(ctx, task.runner, token, task.upgradeCommand(), handler)
	if upgrade.outcome != nil {
		return upgrade.outcome
	}
	changed := !nothingToDo(upgrade.result.Lines)
	requiresReboot := systemRequiresReboot(upgrade.result.Lines)
	if changed && !requiresReboot {
		requiresReboot = task.needsRestarting(ctx, token)
	}

	if task.cfg.AutoRemove {
		autoRemove := runStep(ctx, task.runner, token, task.command("autoremove", "-y"), handler)
		if autoRemove.outcome != nil {
			autoRemove.outcome.Changed = changed
			autoRemove.outcome.RequiresReboot = requiresReboot
			return autoRemove.outcome
		}
	}

	if !changed {
		return success(types.TaskSystem, false, false, "system packages are up to date")
	}
	return success(types.TaskSystem, true, requiresReboot, "system packages upgraded")
}

// needsRestarting asks dnf5 whether the upgraded core libraries or services need a reboot.
// It is best-effort, any failure is treated as no reboot needed.
func (task *systemTask) needsRestarting(ctx context.Context, token api.CancellationToken) bool {
	if isTriggered(token) {
		return false
	}
	result, err := task.runner.Run(ctx, token, task.command("needs-restarting", "-r"), nil)
	if err != nil {
		logger.DebugErr(err, "%s cannot check whether a reboot is needed", types.TaskSystem.Label())
		return false
	}
	return !result.Cancelled && result.ExitCode == exitRebootNeeded
}
