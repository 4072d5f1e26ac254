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

	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/logger"
)

// Refresh queries the available updates of the selected tasks without changing the system.
// A task whose query fails is reported as such and never blocks the others.
func (orchestrator *runOrchestrator) Refresh(ctx context.Context, intent *types.RunIntent) (*types.RefreshResult, error) {
	if !orchestrator.started.CompareAndSwap(false, true) {
		return nil, types.ErrAlreadyStarted
	}
	stop := orchestrator.watchContext(ctx)
	defer stop()

	orchestrator.emitRunStarted(ctx)
	result := &types.RefreshResult{
		RunID:   orchestrator.runID,
		Tasks:   []types.TaskKind{},
		Reports: map[types.TaskKind]*types.ProbeReport{},
	}

	if err := orchestrator.preflight(ctx, intent); err != nil {
		return orchestrator.finishRefresh(result, haltStatus(err), err), err
	}

	orchestrator.transition(types.StatePlanning)
	plan, err := buildPlan(intent, orchestrator.tasks)
	if err != nil {
		logger.ErrorErr(err, "cannot plan the refresh:")
		return orchestrator.finishRefresh(result, types.OverallHalted, err), err
	}
	plan.DryRun = false
	result.Tasks = plan.Tasks
	orchestrator.operation = newRunOperation(orchestrator.runID, plan)
	orchestrator.transition(types.StateExecuting)

	probeCtx, cancel := orchestrator.tokenContext(ctx)
	defer cancel()
	for _, kind := range plan.Tasks {
		if orchestrator.token.Triggered() {
			orchestrator.abort()
			result.Reports[kind] = &types.ProbeReport{Error: types.ErrCancelled.Error()}
			continue
		}
		orchestrator.emit(&types.Event{Type: types.EventTaskStarted, Task: kind})
		report := &types.ProbeReport{}
		summary, err := orchestrator.tasks[kind].Probe(probeCtx)
		if err != nil {
			logger.WarnErr(err, "%s cannot query the available updates:", kind.Label())
			report.Error = err.Error()
		} else {
			report.Summary = summary
			logger.Info("%s %d update(s) available", kind.Label(), summary.Count())
		}
		result.Reports[kind] = report
		orchestrator.emit(&types.Event{Type: types.EventProbeReady, Task: kind, Probe: report})
	}

	status := types.OverallSuccess
	if orchestrator.token.Triggered() {
		orchestrator.abort()
		status = types.OverallAborted
	}
	orchestrator.transition(types.StateAggregating)
	return orchestrator.finishRefresh(result, status, nil), nil
}

func (orchestrator *runOrchestrator) finishRefresh(result *types.RefreshResult, status types.OverallStatus, cause error) *types.RefreshResult {
	result.Status = status
	result.ExitCode = types.ExitCodeFor(status)
	if cause != nil {
		result.Message = cause.Error()
	}
	orchestrator.transition(types.StateDone)
	logger.Info("refresh %s finished with status %s, %d update(s) available", result.RunID, status, result.Total())
	orchestrator.emit(&types.Event{Type: types.EventRunFinished, Refresh: result})
	return result
}
