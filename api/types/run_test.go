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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCodeFor(t *testing.T) {
	tests := map[string]struct {
		status   OverallStatus
		exitCode int
	}{
		"test_success":         {status: OverallSuccess, exitCode: 0},
		"test_partial_failure": {status: OverallPartialFailure, exitCode: 1},
		"test_aborted":         {status: OverallAborted, exitCode: 130},
		"test_halted":          {status: OverallHalted, exitCode: 1},
		"test_unknown":         {status: OverallStatus("unknown"), exitCode: 1},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exitCode, ExitCodeFor(test.status))
		})
	}
}

func TestTaskKindPriority(t *testing.T) {
	assert.Equal(t, 0, TaskSystem.Priority())
	assert.Equal(t, 1, TaskFlatpak.Priority())
	assert.Equal(t, 2, TaskFirmware.Priority())
	assert.Equal(t, -1, TaskKind("snap").Priority())
}

func TestTaskKindLabel(t *testing.T) {
	assert.Equal(t, "[DNF5]", TaskSystem.Label())
	assert.Equal(t, "[Flatpak]", TaskFlatpak.Label())
	assert.Equal(t, "[Firmware]", TaskFirmware.Label())
	assert.Equal(t, "[snap]", TaskKind("snap").Label())
}

func TestParseTaskKind(t *testing.T) {
	kind, err := ParseTaskKind(" Flatpak ")
	assert.NoError(t, err)
	assert.Equal(t, TaskFlatpak, kind)

	_, err = ParseTaskKind("snap")
	assert.Error(t, err)
}

func TestRunResultOutcome(t *testing.T) {
	result := &RunResult{
		Outcomes: []*TaskOutcome{
			{Task: TaskSystem, Status: StatusSuccess},
			{Task: TaskFirmware, Status: StatusFailed},
		},
	}
	assert.Equal(t, StatusFailed, result.Outcome(TaskFirmware).Status)
	assert.Nil(t, result.Outcome(TaskFlatpak))
}

func TestRefreshResultTotal(t *testing.T) {
	result := &RefreshResult{
		Reports: map[TaskKind]*ProbeReport{
			TaskSystem:   {Summary: &ProbeSummary{Task: TaskSystem, Items: []string{"a", "b"}}},
			TaskFlatpak:  {Error: "probe failed"},
			TaskFirmware: {Summary: &ProbeSummary{Task: TaskFirmware, Items: []string{"c"}}},
		},
	}
	assert.Equal(t, 3, result.Total())
}

func TestTaskExecutionFailedError(t *testing.T) {
	cause := &CommandFailedError{Command: "dnf5 upgrade -y", ExitCode: 1, Details: "boom"}
	err := errors.Wrap(&TaskExecutionFailedError{Task: TaskSystem, Cause: cause}, "run")

	var failed *TaskExecutionFailedError
	assert.True(t, errors.As(err, &failed))
	assert.Equal(t, TaskSystem, failed.Task)

	var commandErr *CommandFailedError
	assert.True(t, errors.As(err, &commandErr))
	assert.Equal(t, 1, commandErr.ExitCode)
	assert.Equal(t, "system update failed: command failed: dnf5 upgrade -y (exit code 1): boom", failed.Error())
}

func TestSentinelErrorsMatchThroughWrapping(t *testing.T) {
	err := errors.Wrapf(ErrNetworkUnavailable, "HEAD %s", "https://example.com")
	assert.True(t, errors.Is(err, ErrNetworkUnavailable))
	assert.False(t, errors.Is(err, ErrCancelled))
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "dnf5 upgrade -y", (&Command{Name: "dnf5", Args: []string{"upgrade", "-y"}}).String())
	assert.Equal(t, "fwupdmgr", (&Command{Name: "fwupdmgr"}).String())
}

func TestCommandResultContains(t *testing.T) {
	result := &CommandResult{Lines: []string{"Upgrading:", "A Reboot Required to apply"}}
	assert.True(t, result.Contains("reboot required"))
	assert.False(t, result.Contains("nothing to do"))
	assert.Equal(t, "Upgrading:\nA Reboot Required to apply", result.Output())
}
