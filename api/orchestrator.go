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

package api

import (
	"context"

	"github.com/sysupdater/sysupdater/api/types"
)

// Prober checks that the network needed by the update commands is reachable.
type Prober interface {
	Check(ctx context.Context, token CancellationToken) error
}

// EventHandler consumes the progress events of a run. Implementations must be safe for concurrent use.
type EventHandler interface {
	HandleEvent(event *types.Event)
}

// Orchestrator drives a single run from preflight to the final result.
type Orchestrator interface {
	Run(ctx context.Context, intent *types.RunIntent) (*types.RunResult, error)
	Refresh(ctx context.Context, intent *types.RunIntent) (*types.RefreshResult, error)

	// Cancel triggers the cancellation of the run. Only the first call has an effect.
	Cancel() bool
	State() types.RunState
}
