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
	"github.com/sysupdater/sysupdater/api/types"
)

// aggregate derives the overall status, the reboot need and the exit code of a run from the task outcomes.
// Only successful or failed tasks may require a reboot, the reboot need of a cancelled task is unknown.
func aggregate(runID string, outcomes []*types.TaskOutcome, aborted, dryRun bool) *types.RunResult {
	status := types.OverallSuccess
	requiresReboot := false
	failed := false
	for _, outcome := range outcomes {
		switch outcome.Status {
		case types.StatusSuccess:
			requiresReboot = requiresReboot || outcome.RequiresReboot
		case types.StatusFailed:
			requiresReboot = requiresReboot || outcome.RequiresReboot
			failed = true
		case types.StatusCancelled:
			aborted = true
		}
	}

	switch {
	case aborted:
		status = types.OverallAborted
	case dryRun:
		status = types.OverallSuccess
	case failed:
		status = types.OverallPartialFailure
	}
	return &types.RunResult{
		RunID:          runID,
		Outcomes:       outcomes,
		OverallStatus:  status,
		RequiresReboot: requiresReboot,
		ExitCode:       types.ExitCodeFor(status),
		DryRun:         dryRun,
	}
}

// halted returns the result of a run stopped before any task was executed.
func halted(runID string, status types.OverallStatus, cause error, dryRun bool) *types.RunResult {
	result := &types.RunResult{
		RunID:         runID,
		Outcomes:      []*types.TaskOutcome{},
		OverallStatus: status,
		ExitCode:      types.ExitCodeFor(status),
		DryRun:        dryRun,
	}
	if cause != nil {
		result.Message = cause.Error()
	}
	return result
}
