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
	"sync"

	"github.com/sysupdater/sysupdater/api/types"
)

type runOperation struct {
	runID string
	plan  *types.RunPlan

	outcomesLock sync.Mutex
	outcomes     map[types.TaskKind]*types.TaskOutcome
}

func newRunOperation(runID string, plan *types.RunPlan) *runOperation {
	return &runOperation{
		runID:    runID,
		plan:     plan,
		outcomes: make(map[types.TaskKind]*types.TaskOutcome, len(plan.Tasks)),
	}
}

// record stores the outcome of a task. Only the first outcome of a task is kept.
func (operation *runOperation) record(outcome *types.TaskOutcome) *types.TaskOutcome {
	operation.outcomesLock.Lock()
	defer operation.outcomesLock.Unlock()

	if existing, ok := operation.outcomes[outcome.Task]; ok {
		return existing
	}
	operation.outcomes[outcome.Task] = outcome
	return outcome
}

// orderedOutcomes returns one outcome per planned task, in plan order.
// A task without a recorded outcome is reported as cancelled.
func (operation *runOperation) orderedOutcomes() []*types.TaskOutcome {
	operation.outcomesLock.Lock()
	defer operation.outcomesLock.Unlock()

	outcomes := make([]*types.TaskOutcome, 0, len(operation.plan.Tasks))
	for _, kind := range operation.plan.Tasks {
		outcome, ok := operation.outcomes[kind]
		if !ok {
			outcome = notStarted(kind)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func notStarted(kind types.TaskKind) *types.TaskOutcome {
	return &types.TaskOutcome{
		Task:   kind,
		Status: types.StatusCancelled,
		Detail: "not started, the run was cancelled",
	}
}
