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

//go:build linux

package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/updatem/cancellation"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGracePeriod = 300 * time.Millisecond

type recordedLine struct {
	task   types.TaskKind
	stream types.StreamType
	line   string
}

type lineRecorder struct {
	mutex sync.Mutex
	lines []recordedLine
}

func (recorder *lineRecorder) handle(task types.TaskKind, stream types.StreamType, line string) {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	recorder.lines = append(recorder.lines, recordedLine{task: task, stream: stream, line: line})
}

func (recorder *lineRecorder) all() []recordedLine {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	return append([]recordedLine(nil), recorder.lines...)
}

func shell(script string) *types.Command {
	return &types.Command{Task: types.TaskSystem, Name: "sh", Args: []string{"-c", script}}
}

func TestRunSuccess(t *testing.T) {
	runner := NewCommandRunner(testGracePeriod)
	recorder := &lineRecorder{}

	result, err := runner.Run(context.Background(), cancellation.New(), shell("echo first; echo problem 1>&2; echo second"), recorder.handle)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.False(t, result.Cancelled)
	assert.False(t, result.Killed)
	assert.ElementsMatch(t, []string{"first", "problem", "second"}, result.Lines)
	assert.ElementsMatch(t, []recordedLine{
		{task: types.TaskSystem, stream: types.StreamStdout, line: "first"},
		{task: types.TaskSystem, stream: types.StreamStderr, line: "problem"},
		{task: types.TaskSystem, stream: types.StreamStdout, line: "second"},
	}, recorder.all())
}

func TestRunExitCode(t *testing.T) {
	runner := NewCommandRunner(testGracePeriod)

	result, err := runner.Run(context.Background(), nil, shell("echo failing; exit 3"), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, []string{"failing"}, result.Lines)
}

func TestRunIncompleteLine(t *testing.T) {
	runner := NewCommandRunner(testGracePeriod)

	result, err := runner.Run(context.Background(), nil, shell("printf 'no new line'"), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"no new line"}, result.Lines)
}

func TestRunCommandNotFound(t *testing.T) {
	runner := NewCommandRunner(testGracePeriod)

	result, err := runner.Run(context.Background(), nil, &types.Command{Task: types.TaskFlatpak, Name: "sysupdater-not-existing-command"}, nil)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, types.ErrCommandNotFound))
	assert.False(t, runner.Available("sysupdater-not-existing-command"))
	assert.True(t, runner.Available("sh"))
}

func TestRunAlreadyCancelled(t *testing.T) {
	runner := NewCommandRunner(testGracePeriod)
	token := cancellation.New()
	token.Trigger()
	recorder := &lineRecorder{}

	result, err := runner.Run(context.Background(), token, shell("echo started"), recorder.handle)
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
	assert.Empty(t, recorder.all())
}

func TestRunCancelTerminates(t *testing.T) {
	runner := NewCommandRunner(5 * time.Second)
	token := cancellation.New()
	time.AfterFunc(100*time.Millisecond, func() {
		token.Trigger()
	})

	start := time.Now()
	result, err := runner.Run(context.Background(), token, shell("echo started; sleep 10"), nil)
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
	assert.False(t, result.Killed)
	assert.Equal(t, []string{"started"}, result.Lines)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestRunCancelKillsAfterGracePeriod(t *testing.T) {
	runner := NewCommandRunner(testGracePeriod)
	token := cancellation.New()
	time.AfterFunc(100*time.Millisecond, func() {
		token.Trigger()
	})

	start := time.Now()
	result, err := runner.Run(context.Background(), token, shell("trap '' TERM; sleep 10"), nil)
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
	assert.True(t, result.Killed)
	assert.GreaterOrEqual(t, time.Since(start), testGracePeriod)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunContextCancelled(t *testing.T) {
	runner := NewCommandRunner(testGracePeriod)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := runner.Run(ctx, nil, shell("sleep 10"), nil)
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
}
