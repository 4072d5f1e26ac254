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

package orchestration

import (
	"testing"

	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/test"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	tests := map[string]struct {
		outcomes       []*types.TaskOutcome
		aborted        bool
		dryRun         bool
		status         types.OverallStatus
		requiresReboot bool
	}{
		"test_all_success": {
			outcomes: []*types.TaskOutcome{
				test.CreateOutcome(types.TaskSystem, types.StatusSuccess, true, false),
				test.CreateOutcome(types.TaskFlatpak, types.StatusSuccess, false, false),
			},
			status: types.OverallSuccess,
		},
		"test_success_and_skipped": {
			outcomes: []*types.TaskOutcome{
				test.CreateOutcome(types.TaskSystem, types.StatusSuccess, true, true),
				test.CreateOutcome(types.TaskFirmware, types.StatusSkipped, false, false),
			},
			status:         types.OverallSuccess,
			requiresReboot: true,
		},
		"test_failed_task_requires_reboot": {
			outcomes: []*types.TaskOutcome{
				test.CreateOutcome(types.TaskSystem, types.StatusFailed, true, true),
				test.CreateOutcome(types.TaskFlatpak, types.StatusSuccess, true, false),
			},
			status:         types.OverallPartialFailure,
			requiresReboot: true,
		},
		"test_cancelled_reboot_ignored": {
			outcomes: []*types.TaskOutcome{
				test.CreateOutcome(types.TaskSystem, types.StatusCancelled, true, true),
				test.CreateOutcome(types.TaskFirmware, types.StatusSkipped, false, true),
			},
			status: types.OverallAborted,
		},
		"test_aborted_wins_over_failure": {
			outcomes: []*types.TaskOutcome{
				test.CreateOutcome(types.TaskSystem, types.StatusFailed, false, false),
				test.CreateOutcome(types.TaskFlatpak, types.StatusSuccess, false, false),
			},
			aborted: true,
			status:  types.OverallAborted,
		},
		"test_dry_run": {
			outcomes: []*types.TaskOutcome{
				test.CreateOutcome(types.TaskSystem, types.StatusSkipped, false, false),
			},
			dryRun: true,
			status: types.OverallSuccess,
		},
		"test_empty": {
			outcomes: []*types.TaskOutcome{},
			status:   types.OverallSuccess,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			result := aggregate("runId", test.outcomes, test.aborted, test.dryRun)
			assert.Equal(t, test.status, result.OverallStatus)
			assert.Equal(t, test.requiresReboot, result.RequiresReboot)
			assert.Equal(t, types.ExitCodeFor(test.status), result.ExitCode)
			assert.Equal(t, test.outcomes, result.Outcomes)
			assert.Equal(t, test.dryRun, result.DryRun)
			assert.Equal(t, "runId", result.RunID)
		})
	}
}

func TestHalted(t *testing.T) {
	result := halted("runId", types.OverallHalted, errors.Wrap(types.ErrNetworkUnavailable, "HEAD https://fedoraproject.org"), false)
	assert.Equal(t, types.OverallHalted, result.OverallStatus)
	assert.Equal(t, types.ExitFailure, result.ExitCode)
	assert.Empty(t, result.Outcomes)
	assert.False(t, result.RequiresReboot)
	assert.Equal(t, "HEAD https://fedoraproject.org: no network connectivity", result.Message)

	result = halted("runId", types.OverallAborted, nil, true)
	assert.Equal(t, types.ExitCancelled, result.ExitCode)
	assert.Empty(t, result.Message)
}
