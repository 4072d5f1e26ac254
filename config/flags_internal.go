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

package config

import (
	"github.com/sysupdater/sysupdater/api/types"
)

// Intent resolves the flags against the configuration into the run intent.
// A task explicitly requested by its own flag always runs; --update-all only selects the tasks enabled in the configuration,
// with firmware additionally selected by -f.
func (flags *Flags) Intent(cfg *Config) *types.RunIntent {
	var tasks []types.TaskKind
	if flags.UpdateSystem || (flags.UpdateAll && cfg.System.Enabled) {
		tasks = append(tasks, types.TaskSystem)
	}
	if flags.UpdateFlatpak || (flags.UpdateAll && cfg.Flatpak.Enabled) {
		tasks = append(tasks, types.TaskFlatpak)
	}
	if flags.UpdateFirmware || (flags.UpdateAll && (flags.Firmware || cfg.Firmware.Enabled)) {
		tasks = append(tasks, types.TaskFirmware)
	}
	return &types.RunIntent{
		Tasks:            tasks,
		Mode:             flags.mode(),
		DryRun:           flags.DryRun,
		SkipNetworkCheck: flags.NoNetworkCheck,
		SkipRebootPrompt: flags.NoRebootPrompt,
		Verbosity:        flags.Verbose,
		Quiet:            flags.Quiet,
	}
}

// RefreshIntent resolves the tasks probed by a refresh-only invocation.
// Without an explicit task flag every installed update source is probed.
func (flags *Flags) RefreshIntent(cfg *Config) *types.RunIntent {
	intent := flags.Intent(cfg)
	if len(intent.Tasks) == 0 {
		intent.Tasks = append([]types.TaskKind(nil), types.CanonicalOrder...)
	}
	intent.DryRun = false
	return intent
}

func (flags *Flags) mode() types.ExecutionMode {
	if flags.Parallel {
		return types.ModeParallel
	}
	return types.ModeSequential
}
