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
	"context"
	"fmt"
	"time"

	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/logger"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

func (orchestrator *runOrchestrator) executeSequential(ctx context.Context) {
	for _, kind := range orchestrator.operation.plan.Tasks {
		if orchestrator.token.Triggered() {
			orchestrator.abort()
			orchestrator.finishTask(notStarted(kind))
			continue
		}
		orchestrator.awaitOutcome(kind, orchestrator.startTask(ctx, kind))
	}
}

func (orchestrator *runOrchestrator) executeParallel(ctx context.Context) {
	tasks := orchestrator.operation.plan.Tasks
	group := &errgroup.Group{}
	group.SetLimit(len(tasks))
	for _, kind := range tasks {
		kind := kind
		if orchestrator.token.Triggered() {
			orchestrator.abort()
			orchestrator.finishTask(notStarted(kind))
			continue
		}
		group.Go(func() error {
			orchestrator.awaitOutcome(kind, orchestrator.startTask(ctx, kind))
			return nil
		})
	}
	// the tasks never return an error, a failure is part of the outcome
	_ = group.Wait()
}

// startTask executes the task in its own goroutine. Its outcome is delivered once on the returned channel.
func (orchestrator *runOrchestrator) startTask(ctx context.Context, kind types.TaskKind) <-chan *types.TaskOutcome {
	slot := make(chan *types.TaskOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slot <- &types.TaskOutcome{
					Task:   kind,
					Status: types.StatusFailed,
					Detail: (&types.TaskExecutionFailedError{Task: kind, Cause: fmt.Errorf("%v", r)}).Error(),
				}
			}
		}()
		if orchestrator.token.Triggered() {
			slot <- notStarted(kind)
			return
		}
		logger.Info("%s update started", kind.Label())
		orchestrator.emit(&types.Event{Type: types.EventTaskStarted, Task: kind})
		outcome := orchestrator.tasks[kind].Execute(ctx, orchestrator.token, orchestrator.handleLine)
		if outcome == nil {
			outcome = &types.TaskOutcome{Status: types.StatusFailed, Detail: fmt.Sprintf("%s update reported no outcome", kind)}
		}
		outcome.Task = kind
		slot <- outcome
	}()
	return slot
}

// awaitOutcome waits for the outcome of a started task. Once the run is cancelled, the task is given
// abortTimeout to report, after which it is recorded as cancelled without waiting any further.
func (orchestrator *runOrchestrator) awaitOutcome(kind types.TaskKind, slot <-chan *types.TaskOutcome) {
	var outcome *types.TaskOutcome
	select {
	case outcome = <-slot:
	case <-orchestrator.token.Done():
		orchestrator.abort()
		bound := orchestrator.abortTimeout()
		select {
		case outcome = <-slot:
		case <-time.After(bound):
			logger.Warn("%s no outcome reported within %v after cancellation", kind.Label(), bound)
			outcome = &types.TaskOutcome{
				Task:   kind,
				Status: types.StatusCancelled,
				Detail: fmt.Sprintf("no outcome reported within %v after cancellation", bound),
			}
		}
	}
	orchestrator.finishTask(outcome)
}

func (orchestrator *runOrchestrator) finishTask(outcome *types.TaskOutcome) {
	outcome = orchestrator.operation.record(outcome)
	logger.Info("%s finished with status %s, changed: %v, reboot required: %v", outcome.Task.Label(), outcome.Status, outcome.Changed, outcome.RequiresReboot)
	orchestrator.emit(&types.Event{Type: types.EventTaskFinished, Task: outcome.Task, Outcome: outcome})
}

// abortTimeout bounds the wait for a cancelled task. It exceeds the worst case of the command runner,
// which waits the grace period after terminating the process group and again for the output pipes after killing it.
func (orchestrator *runOrchestrator) abortTimeout() time.Duration {
	return 3 * orchestrator.gracePeriod
}

// previewAll describes what each planned task would do, without executing any of them.
func (orchestrator *runOrchestrator) previewAll(ctx context.Context) {
	previewCtx, cancel := orchestrator.tokenContext(ctx)
	defer cancel()

	for _, kind := range orchestrator.operation.plan.Tasks {
		if orchestrator.token.Triggered() {
			orchestrator.abort()
			orchestrator.finishTask(notStarted(kind))
			continue
		}
		orchestrator.emit(&types.Event{Type: types.EventTaskStarted, Task: kind})
		text, err := orchestrator.tasks[kind].Preview(previewCtx)
		if errors.Is(err, types.ErrCancelled) {
			orchestrator.finishTask(&types.TaskOutcome{Task: kind, Status: types.StatusCancelled, Detail: err.Error()})
			continue
		}
		if err != nil {
			orchestrator.emitWarning(kind, err)
			orchestrator.finishTask(&types.TaskOutcome{Task: kind, Status: types.StatusSkipped, Detail: err.Error()})
			continue
		}
		orchestrator.emit(&types.Event{Type: types.EventPreviewReady, Task: kind, Message: text})
		orchestrator.finishTask(&types.TaskOutcome{Task: kind, Status: types.StatusSkipped, Detail: text})
	}
}
