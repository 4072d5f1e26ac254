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
	"sort"

	"github.com/sysupdater/sysupdater/api"
	"github.com/sysupdater/sysupdater/api/types"

	"github.com/pkg/errors"
)

// buildPlan orders the selected tasks by their canonical priority, regardless of the order they were requested in.
func buildPlan(intent *types.RunIntent, tasks map[types.TaskKind]api.Task) (*types.RunPlan, error) {
	if intent == nil || len(intent.Tasks) == 0 {
		return nil, errors.Wrap(types.ErrInvalidPlan, "no task selected")
	}

	mode := intent.Mode
	switch mode {
	case "":
		mode = types.ModeSequential
	case types.ModeSequential, types.ModeParallel:
	default:
		return nil, errors.Wrapf(types.ErrInvalidPlan, "unknown execution mode '%s'", mode)
	}

	selected := map[types.TaskKind]bool{}
	var ordered []types.TaskKind
	for _, kind := range intent.Tasks {
		if kind.Priority() < 0 {
			return nil, errors.Wrapf(types.ErrInvalidPlan, "unknown task '%s'", kind)
		}
		if _, ok := tasks[kind]; !ok {
			return nil, errors.Wrapf(types.ErrInvalidPlan, "no implementation for task '%s'", kind)
		}
		if selected[kind] {
			continue
		}
		selected[kind] = true
		ordered = append(ordered, kind)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	return &types.RunPlan{
		Tasks:  ordered,
		Mode:   mode,
		DryRun: intent.DryRun,
	}, nil
}
