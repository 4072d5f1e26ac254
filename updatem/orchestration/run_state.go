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

// transitions lists the states reachable from each state of a run.
var transitions = map[types.RunState][]types.RunState{
	types.StateIdle:        {types.StatePreflight, types.StatePlanning},
	types.StatePreflight:   {types.StatePlanning, types.StateDone},
	types.StatePlanning:    {types.StateExecuting, types.StateDone},
	types.StateExecuting:   {types.StateAborting, types.StateAggregating},
	types.StateAborting:    {types.StateAggregating},
	types.StateAggregating: {types.StateDone},
}

func canTransition(from, to types.RunState) bool {
	for _, state := range transitions[from] {
		if state == to {
			return true
		}
	}
	return false
}
