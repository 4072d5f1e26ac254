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
	"time"

	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/logger"
)

func (orchestrator *runOrchestrator) emit(event *types.Event) {
	if orchestrator.handler == nil {
		return
	}
	event.RunID = orchestrator.runID
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	orchestrator.handler.HandleEvent(event)
}

func (orchestrator *runOrchestrator) emitRunStarted(ctx context.Context) {
	event := &types.Event{Type: types.EventRunStarted}
	if orchestrator.hostInfo != nil {
		host, err := orchestrator.hostInfo(ctx)
		if err != nil {
			logger.DebugErr(err, "host information incomplete:")
		}
		event.Host = host
	}
	logger.Info("run %s started", orchestrator.runID)
	orchestrator.emit(event)
}

// handleLine forwards a single output line of a task command, tagged with its task and stream.
func (orchestrator *runOrchestrator) handleLine(task types.TaskKind, stream types.StreamType, line string) {
	logger.Trace("%s %s: %s", task.Label(), stream, line)
	orchestrator.emit(&types.Event{
		Type:   types.EventTaskOutput,
		Task:   task,
		Stream: stream,
		Line:   line,
	})
}

func (orchestrator *runOrchestrator) emitWarning(task types.TaskKind, err error) {
	logger.WarnErr(err, "%s", task.Label())
	orchestrator.emit(&types.Event{
		Type:    types.EventWarning,
		Task:    task,
		Message: err.Error(),
	})
}
