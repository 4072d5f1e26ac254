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
	"sync"
	"sync/atomic"
	"time"

	"github.com/sysupdater/sysupdater/api"
	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/config"
	"github.com/sysupdater/sysupdater/logger"
	"github.com/sysupdater/sysupdater/updatem/cancellation"
	"github.com/sysupdater/sysupdater/updatem/hostinfo"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type runOrchestrator struct {
	stateLock sync.Mutex
	state     types.RunState
	started   atomic.Bool

	runID       string
	gracePeriod time.Duration

	tasks    map[types.TaskKind]api.Task
	prober   api.Prober
	handler  api.EventHandler
	token    *cancellation.Token
	hostInfo func(ctx context.Context) (*types.HostInfo, error)

	operation *runOperation
}

// NewOrchestrator creates the orchestrator of a single run over the given tasks.
// The prober may be nil, in which case the network check is skipped.
// The event handler receives every progress event of the run and may be nil.
func NewOrchestrator(cfg *config.Config, tasks map[types.TaskKind]api.Task, prober api.Prober, handler api.EventHandler) api.Orchestrator {
	return &runOrchestrator{
		state:       types.StateIdle,
		runID:       uuid.NewString(),
		gracePeriod: cfg.GracePeriod(),
		tasks:       tasks,
		prober:      prober,
		handler:     handler,
		token:       cancellation.New(),
		hostInfo:    hostinfo.Collect,
	}
}

func (orchestrator *runOrchestrator) State() types.RunState {
	orchestrator.stateLock.Lock()
	defer orchestrator.stateLock.Unlock()
	return orchestrator.state
}

func (orchestrator *runOrchestrator) Cancel() bool {
	if !orchestrator.token.Trigger() {
		return false
	}
	logger.Info("cancellation requested, no further task will be started")
	return true
}

// Run executes the tasks selected by the intent and returns the aggregated result.
// The result is returned even if the run halts early; the error then holds the cause of the halt.
func (orchestrator *runOrchestrator) Run(ctx context.Context, intent *types.RunIntent) (*types.RunResult, error) {
	if !orchestrator.started.CompareAndSwap(false, true) {
		return nil, types.ErrAlreadyStarted
	}
	stop := orchestrator.watchContext(ctx)
	defer stop()

	dryRun := intent != nil && intent.DryRun
	orchestrator.emitRunStarted(ctx)

	if err := orchestrator.preflight(ctx, intent); err != nil {
		result := halted(orchestrator.runID, haltStatus(err), err, dryRun)
		return orchestrator.finish(result), err
	}

	orchestrator.transition(types.StatePlanning)
	plan, err := buildPlan(intent, orchestrator.tasks)
	if err != nil {
		logger.ErrorErr(err, "cannot plan the run:")
		result := halted(orchestrator.runID, types.OverallHalted, err, dryRun)
		return orchestrator.finish(result), err
	}
	logger.Info("run %s planned: tasks %v, mode %s, dry-run %v", orchestrator.runID, plan.Tasks, plan.Mode, plan.DryRun)

	orchestrator.operation = newRunOperation(orchestrator.runID, plan)
	orchestrator.transition(types.StateExecuting)
	if plan.DryRun {
		orchestrator.previewAll(ctx)
	} else if plan.Mode == types.ModeParallel {
		orchestrator.executeParallel(ctx)
	} else {
		orchestrator.executeSequential(ctx)
	}
	aborted := orchestrator.token.Triggered()
	if aborted {
		orchestrator.abort()
	}

	orchestrator.transition(types.StateAggregating)
	result := aggregate(orchestrator.runID, orchestrator.operation.orderedOutcomes(), aborted, plan.DryRun)
	return orchestrator.finish(result), nil
}

// preflight checks the network connectivity, unless skipped by the intent.
func (orchestrator *runOrchestrator) preflight(ctx context.Context, intent *types.RunIntent) error {
	if intent != nil && intent.SkipNetworkCheck {
		logger.Debug("network check skipped")
		return nil
	}
	orchestrator.transition(types.StatePreflight)
	if orchestrator.prober == nil {
		logger.Warn("no network prober available, network check skipped")
		return nil
	}
	if err := orchestrator.prober.Check(ctx, orchestrator.token); err != nil {
		logger.ErrorErr(err, "network check failed:")
		return err
	}
	logger.Info("network check passed")
	return nil
}

func haltStatus(err error) types.OverallStatus {
	if errors.Is(err, types.ErrCancelled) {
		return types.OverallAborted
	}
	return types.OverallHalted
}

func (orchestrator *runOrchestrator) finish(result *types.RunResult) *types.RunResult {
	orchestrator.transition(types.StateDone)
	logger.Info("run %s finished with status %s, reboot required: %v, exit code %d", result.RunID, result.OverallStatus, result.RequiresReboot, result.ExitCode)
	orchestrator.emit(&types.Event{Type: types.EventRunFinished, Result: result})
	return result
}

// abort enters the aborting state, no matter how many tasks observe the cancellation.
func (orchestrator *runOrchestrator) abort() {
	orchestrator.transition(types.StateAborting)
}

func (orchestrator *runOrchestrator) transition(to types.RunState) {
	orchestrator.stateLock.Lock()
	from := orchestrator.state
	if from == to || !canTransition(from, to) {
		orchestrator.stateLock.Unlock()
		if from != to {
			logger.Debug("ignoring state change from %s to %s", from, to)
		}
		return
	}
	orchestrator.state = to
	orchestrator.stateLock.Unlock()

	logger.Debug("state changed from %s to %s", from, to)
	event := &types.Event{Type: types.EventStateChanged, State: to}
	if to == types.StateExecuting && orchestrator.operation != nil {
		event.Plan = orchestrator.operation.plan
	}
	orchestrator.emit(event)
}

// watchContext cancels the run when the given context is done. The returned function stops watching.
func (orchestrator *runOrchestrator) watchContext(ctx context.Context) func() {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			logger.Debug("context done, cancelling the run")
			orchestrator.Cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// tokenContext derives a context that is cancelled as soon as the run is cancelled.
func (orchestrator *runOrchestrator) tokenContext(ctx context.Context) (context.Context, context.CancelFunc) {
	tokenCtx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-orchestrator.token.Done():
			cancel()
		case <-tokenCtx.Done():
		}
	}()
	return tokenCtx, cancel
}
