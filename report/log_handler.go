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

package report

import (
	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/logger"
)

// LogHandler writes the progress events of a run to the log.
type LogHandler struct{}

// HandleEvent logs the event. Task output is not logged here, the orchestrator traces it already.
func (LogHandler) HandleEvent(event *types.Event) {
	switch event.Type {
	case types.EventRunStarted:
		if event.Host != nil {
			logger.Info("[%s] run started on %s (%s %s, kernel %s)", event.RunID, event.Host.Hostname, event.Host.Platform, event.Host.PlatformVersion, event.Host.KernelVersion)
		} else {
			logger.Info("[%s] run started", event.RunID)
		}
	case types.EventStateChanged:
		logger.Debug("[%s] state changed to %s", event.RunID, event.State)
	case types.EventTaskStarted:
		logger.Debug("[%s] %s started", event.RunID, event.Task.Label())
	case types.EventTaskFinished:
		if event.Outcome != nil {
			logger.Info("[%s] %s finished with status %s: %s", event.RunID, event.Task.Label(), event.Outcome.Status, event.Outcome.Detail)
		}
	case types.EventPreviewReady:
		logger.Debug("[%s] %s preview: %s", event.RunID, event.Task.Label(), event.Message)
	case types.EventProbeReady:
		if event.Probe != nil && event.Probe.Error != "" {
			logger.Debug("[%s] %s query failed: %s", event.RunID, event.Task.Label(), event.Probe.Error)
		} else if event.Probe != nil {
			logger.Debug("[%s] %s %d update(s) available", event.RunID, event.Task.Label(), event.Probe.Summary.Count())
		}
	case types.EventWarning:
		logger.Warn("[%s] %s %s", event.RunID, event.Task.Label(), event.Message)
	case types.EventRunFinished:
		if event.Result != nil {
			logger.Info("[%s] run finished with status %s, exit code %d", event.RunID, event.Result.OverallStatus, event.Result.ExitCode)
		}
		if event.Refresh != nil {
			logger.Info("[%s] refresh finished with status %s, exit code %d", event.RunID, event.Refresh.Status, event.Refresh.ExitCode)
		}
	}
}
