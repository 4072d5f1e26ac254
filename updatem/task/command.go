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
	"os"
	"os/exec"
	"time"

	"github.com/sysupdater/sysupdater/api"
	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/logger"

	"github.com/pkg/errors"
)

type execRunner struct {
	gracePeriod time.Duration
	lookPath    func(string) (string, error)
}

// NewCommandRunner creates a command runner that gives cancelled commands the grace period to exit before killing them.
func NewCommandRunner(gracePeriod time.Duration) api.CommandRunner {
	return &execRunner{
		gracePeriod: gracePeriod,
		lookPath:    exec.LookPath,
	}
}

// Available reports whether the named executable can be found in PATH.
func (runner *execRunner) Available(name string) bool {
	_, err := runner.lookPath(name)
	return err == nil
}

// Run starts the command in its own process group and waits for it to exit.
// The process is always reaped before Run returns, regardless of how it ended.
func (runner *execRunner) Run(ctx context.Context, token api.CancellationToken, command *types.Command, handler api.LineHandler) (*types.CommandResult, error) {
	path, err := runner.lookPath(command.Name)
	if err != nil {
		return nil, errors.Wrapf(types.ErrCommandNotFound, "%s", command.Name)
	}
	if isTriggered(token) || ctx.Err() != nil {
		return &types.CommandResult{ExitCode: -1, Cancelled: true}, nil
	}

	collector := &lineCollector{}
	stdout := newLineWriter(command.Task, types.StreamStdout, handler, collector)
	stderr := newLineWriter(command.Task, types.StreamStderr, handler, collector)

	cmd := exec.Command(path, command.Args...)
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// children left holding the output pipes must not block the wait forever
	cmd.WaitDelay = runner.gracePeriod
	setProcessGroup(cmd)

	logger.Debug("%s executing '%s'", command.Task.Label(), command)
	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "cannot start '%s'", command)
	}

	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	result := &types.CommandResult{}
	var waitErr error
	select {
	case waitErr = <-exited:
	case <-tokenDone(token):
		logger.Info("%s cancellation requested, terminating '%s'", command.Task.Label(), command)
		result.Cancelled = true
		result.Killed, waitErr = runner.terminate(cmd, exited)
	case <-ctx.Done():
		logger.Info("%s context done, terminating '%s'", command.Task.Label(), command)
		result.Cancelled = true
		result.Killed, waitErr = runner.terminate(cmd, exited)
	}
	stdout.Flush()
	stderr.Flush()

	result.Duration = time.Since(start)
	result.Lines = collector.all()
	if cmd.ProcessState == nil {
		return nil, errors.Wrapf(waitErr, "cannot wait for '%s'", command)
	}
	result.ExitCode = cmd.ProcessState.ExitCode()
	if waitErr != nil && !errors.Is(waitErr, exec.ErrWaitDelay) {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			logger.WarnErr(waitErr, "%s unexpected wait error for '%s'", command.Task.Label(), command)
		}
	}
	logger.Debug("%s '%s' finished with exit code %d in %v", command.Task.Label(), command, result.ExitCode, result.Duration)
	return result, nil
}

// terminate asks the process group to exit and kills it if it is still alive after the grace period.
func (runner *execRunner) terminate(cmd *exec.Cmd, exited <-chan error) (bool, error) {
	if err := terminateProcessGroup(cmd); err != nil {
		logger.DebugErr(err, "cannot send termination signal to process %d", cmd.Process.Pid)
	}
	timer := time.NewTimer(runner.gracePeriod)
	defer timer.Stop()
	select {
	case err := <-exited:
		return false, err
	case <-timer.C:
	}
	logger.Warn("process %d did not exit in %v, killing it", cmd.Process.Pid, runner.gracePeriod)
	if err := killProcessGroup(cmd); err != nil {
		logger.DebugErr(err, "cannot kill process %d", cmd.Process.Pid)
	}
	return true, <-exited
}

func isTriggered(token api.CancellationToken) bool {
	return token != nil && token.Triggered()
}

// tokenDone returns the done channel of the token, or nil (blocking forever) if there is no token.
func tokenDone(token api.CancellationToken) <-chan struct{} {
	if token == nil {
		return nil
	}
	return token.Done()
}
