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

	"github.com/sysupdater/sysupdater/api"
	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/config"
	"github.com/sysupdater/sysupdater/logger"
)

const flatpak = "flatpak"

type flatpakTask struct {
	cfg    config.FlatpakConfig
	runner api.CommandRunner
}

// NewFlatpakTask creates the task updating the Flatpak applications and runtimes.
// Sandboxed applications never require a reboot of the host.
func NewFlatpakTask(cfg *config.FlatpakConfig, runner api.CommandRunner) api.Task {
	return &flatpakTask{cfg: *cfg, runner: runner}
}

func (task *flatpakTask) Kind() types.TaskKind {
	return types.TaskFlatpak
}

func (task *flatpakTask) command(args ...string) *types.Command {
	return &types.Command{Task: types.TaskFlatpak, Name: flatpak, Args: args}
}

func (task *flatpakTask) commands() []*types.Command {
	commands := []*types.Command{task.command("update", "-y", "--noninteractive")}
	if task.cfg.RemoveUnused {
		commands = append(commands, task.command("uninstall", "--unused", "-y", "--noninteractive"))
	}
	return commands
}

func (task *flatpakTask) Probe(ctx context.Context) (*types.ProbeSummary, error) {
	if !task.runner.Available(flatpak) {
		logger.Debug("%s flatpak not installed, nothing to probe", types.TaskFlatpak.Label())
		return &types.ProbeSummary{Task: types.TaskFlatpak}, nil
	}
	result, err := probe(ctx, task.runner, task.command("remote-ls", "--updates"))
	if err != nil {
		return nil, err
	}
	return &types.ProbeSummary{Task: types.TaskFlatpak, Items: nonEmptyLines(result.Lines, nil)}, nil
}

func (task *flatpakTask) Preview(ctx context.Context) (string, error) {
	return preview(ctx, task, task.commands(), "app(s)")
}

func (task *flatpakTask) Execute(ctx context.Context, token api.CancellationToken, handler api.LineHandler) *types.TaskOutcome {
	if !task.runner.Available(flatpak) {
		logger.Info("%s flatpak not installed, skipping", types.TaskFlatpak.Label())
		return skipped(types.TaskFlatpak, "flatpak not installed")
	}

	changed := false
	for i, command := range task.commands() {
		current := runStep(ctx, task.runner, token, command, handler)
		if current.outcome != nil {
			current.outcome.Changed = changed
			return current.outcome
		}
		if i == 0 {
			changed = !nothingToDo(current.result.Lines)
		}
	}
	if !changed {
		return success(types.TaskFlatpak, false, false, "flatpak applications are up to date")
	}
	return success(types.TaskFlatpak, true, false, "flatpak applications updated")
}
