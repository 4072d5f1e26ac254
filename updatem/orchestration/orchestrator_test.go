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
	"testing"
	"time"

	"github.com/sysupdater/sysupdater/api"
	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/config"
	"github.com/sysupdater/sysupdater/test"
	"github.com/sysupdater/sysupdater/test/mocks"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTasks struct {
	system   *mocks.MockTask
	flatpak  *mocks.MockTask
	firmware *mocks.MockTask
	prober   *mocks.MockProber
}

func (tasks *testTasks) asMap() map[types.TaskKind]api.Task {
	return map[types.TaskKind]api.Task{
		types.TaskSystem:   tasks.system,
		types.TaskFlatpak:  tasks.flatpak,
		types.TaskFirmware: tasks.firmware,
	}
}

func newTestTasks(mockCtrl *gomock.Controller) *testTasks {
	return &testTasks{
		system:   mocks.NewMockTask(mockCtrl),
		flatpak:  mocks.NewMockTask(mockCtrl),
		firmware: mocks.NewMockTask(mockCtrl),
		prober:   mocks.NewMockProber(mockCtrl),
	}
}

func createTestConfig() *config.Config {
	return &config.Config{
		Execution: &config.ExecutionConfig{GracePeriod: test.GracePeriod.String()},
	}
}

func newTestOrchestrator(tasks *testTasks, handler api.EventHandler) *runOrchestrator {
	orchestrator := NewOrchestrator(createTestConfig(), tasks.asMap(), tasks.prober, handler).(*runOrchestrator)
	orchestrator.runID = test.RunID
	orchestrator.hostInfo = func(ctx context.Context) (*types.HostInfo, error) {
		return &types.HostInfo{Hostname: "testHost"}, nil
	}
	return orchestrator
}

func outcomeStatuses(outcomes []*types.TaskOutcome) []types.TaskStatus {
	statuses := make([]types.TaskStatus, len(outcomes))
	for i, outcome := range outcomes {
		statuses[i] = outcome.Status
	}
	return statuses
}

func TestNewOrchestrator(t *testing.T) {
	orchestrator := NewOrchestrator(createTestConfig(), nil, nil, nil).(*runOrchestrator)

	assert.Equal(t, types.StateIdle, orchestrator.State())
	assert.NotEmpty(t, orchestrator.runID)
	assert.Equal(t, test.GracePeriod, orchestrator.gracePeriod)
	assert.False(t, orchestrator.token.Triggered())
}

func TestRunSequential(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("test_all_succeed_in_canonical_order", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		recorder := &test.EventRecorder{}
		orchestrator := newTestOrchestrator(tasks, recorder)

		gomock.InOrder(
			tasks.prober.EXPECT().Check(gomock.Any(), orchestrator.token).Return(nil),
			tasks.system.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).DoAndReturn(
				func(ctx context.Context, token api.CancellationToken, handler api.LineHandler) *types.TaskOutcome {
					handler(types.TaskSystem, types.StreamStdout, "Upgrading: kernel-core")
					return test.CreateOutcome(types.TaskSystem, types.StatusSuccess, true, true)
				}),
			tasks.flatpak.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).Return(test.CreateOutcome(types.TaskFlatpak, types.StatusSuccess, false, false)),
			tasks.firmware.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).Return(test.CreateOutcome(types.TaskFirmware, types.StatusSkipped, false, false)),
		)

		intent := &types.RunIntent{Tasks: []types.TaskKind{types.TaskFirmware, types.TaskFlatpak, types.TaskSystem}}
		result, err := orchestrator.Run(context.Background(), intent)
		require.NoError(t, err)

		test.AssertOutcomeTasks(t, test.AllTasks, result.Outcomes)
		assert.Equal(t, types.OverallSuccess, result.OverallStatus)
		assert.True(t, result.RequiresReboot)
		assert.Equal(t, types.ExitSuccess, result.ExitCode)
		assert.Equal(t, test.RunID, result.RunID)
		assert.Equal(t, types.StateDone, orchestrator.State())

		assert.Equal(t, []types.RunState{types.StatePreflight, types.StatePlanning, types.StateExecuting, types.StateAggregating, types.StateDone}, recorder.States())
		output := recorder.OfType(types.EventTaskOutput)
		require.Len(t, output, 1)
		assert.Equal(t, types.TaskSystem, output[0].Task)
		assert.Equal(t, types.StreamStdout, output[0].Stream)
		assert.Equal(t, "Upgrading: kernel-core", output[0].Line)
		assert.Len(t, recorder.OfType(types.EventTaskStarted), 3)
		assert.Len(t, recorder.OfType(types.EventTaskFinished), 3)

		started := recorder.OfType(types.EventRunStarted)
		require.Len(t, started, 1)
		assert.Equal(t, "testHost", started[0].Host.Hostname)
		finished := recorder.OfType(types.EventRunFinished)
		require.Len(t, finished, 1)
		assert.Equal(t, result, finished[0].Result)
		for _, event := range recorder.Events() {
			assert.Equal(t, test.RunID, event.RunID)
		}
	})

	t.Run("test_failure_does_not_stop_later_tasks", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		orchestrator := newTestOrchestrator(tasks, nil)

		gomock.InOrder(
			tasks.system.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).Return(&types.TaskOutcome{
				Task:           types.TaskSystem,
				Status:         types.StatusFailed,
				Changed:        true,
				RequiresReboot: true,
				Detail:         "system update failed: command failed: dnf5 autoremove -y (exit code 1)",
			}),
			tasks.flatpak.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).Return(test.CreateOutcome(types.TaskFlatpak, types.StatusSuccess, true, false)),
		)

		result, err := orchestrator.Run(context.Background(), &types.RunIntent{Tasks: []types.TaskKind{types.TaskSystem, types.TaskFlatpak}, SkipNetworkCheck: true})
		require.NoError(t, err)

		test.AssertOutcomeTasks(t, []types.TaskKind{types.TaskSystem, types.TaskFlatpak}, result.Outcomes)
		assert.Equal(t, types.OverallPartialFailure, result.OverallStatus)
		assert.Equal(t, types.ExitFailure, result.ExitCode)
		assert.True(t, result.RequiresReboot)
	})

	t.Run("test_network_unavailable", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		recorder := &test.EventRecorder{}
		orchestrator := newTestOrchestrator(tasks, recorder)

		tasks.prober.EXPECT().Check(gomock.Any(), orchestrator.token).Return(errors.Wrap(types.ErrNetworkUnavailable, "HEAD https://fedoraproject.org"))

		result, err := orchestrator.Run(context.Background(), &types.RunIntent{Tasks: test.AllTasks})
		assert.True(t, errors.Is(err, types.ErrNetworkUnavailable))
		assert.Equal(t, types.OverallHalted, result.OverallStatus)
		assert.Equal(t, types.ExitFailure, result.ExitCode)
		assert.Empty(t, result.Outcomes)
		assert.Contains(t, result.Message, "no network connectivity")
		assert.Equal(t, []types.RunState{types.StatePreflight, types.StateDone}, recorder.States())
	})

	t.Run("test_network_check_skipped", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		recorder := &test.EventRecorder{}
		orchestrator := newTestOrchestrator(tasks, recorder)

		tasks.flatpak.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).Return(test.CreateOutcome(types.TaskFlatpak, types.StatusSuccess, true, false))

		result, err := orchestrator.Run(context.Background(), &types.RunIntent{Tasks: []types.TaskKind{types.TaskFlatpak}, SkipNetworkCheck: true})
		require.NoError(t, err)
		assert.Equal(t, types.OverallSuccess, result.OverallStatus)
		assert.False(t, result.RequiresReboot)
		assert.Equal(t, []types.RunState{types.StatePlanning, types.StateExecuting, types.StateAggregating, types.StateDone}, recorder.States())
	})

	t.Run("test_invalid_plan", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		recorder := &test.EventRecorder{}
		orchestrator := newTestOrchestrator(tasks, recorder)

		result, err := orchestrator.Run(context.Background(), &types.RunIntent{SkipNetworkCheck: true})
		assert.True(t, errors.Is(err, types.ErrInvalidPlan))
		assert.Equal(t, types.OverallHalted, result.OverallStatus)
		assert.Equal(t, types.ExitFailure, result.ExitCode)
		assert.Empty(t, result.Outcomes)
		assert.Equal(t, []types.RunState{types.StatePlanning, types.StateDone}, recorder.States())
	})

	t.Run("test_nil_task_outcome", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		orchestrator := newTestOrchestrator(tasks, nil)

		tasks.firmware.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).Return(nil)

		result, err := orchestrator.Run(context.Background(), &types.RunIntent{Tasks: []types.TaskKind{types.TaskFirmware}, SkipNetworkCheck: true})
		require.NoError(t, err)
		assert.Equal(t, types.StatusFailed, result.Outcomes[0].Status)
		assert.Equal(t, types.TaskFirmware, result.Outcomes[0].Task)
		assert.Equal(t, types.OverallPartialFailure, result.OverallStatus)
	})

	t.Run("test_task_panic_recovered", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		orchestrator := newTestOrchestrator(tasks, nil)

		gomock.InOrder(
			tasks.system.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).Do(
				func(ctx context.Context, token api.CancellationToken, handler api.LineHandler) {
					panic("unexpected output")
				}),
			tasks.flatpak.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).Return(test.CreateOutcome(types.TaskFlatpak, types.StatusSuccess, false, false)),
		)

		result, err := orchestrator.Run(context.Background(), &types.RunIntent{Tasks: []types.TaskKind{types.TaskSystem, types.TaskFlatpak}, SkipNetworkCheck: true})
		require.NoError(t, err)
		assert.Equal(t, []types.TaskStatus{types.StatusFailed, types.StatusSuccess}, outcomeStatuses(result.Outcomes))
		assert.Equal(t, "system update failed: unexpected output", result.Outcomes[0].Detail)
	})
}

func TestRunCancellation(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("test_cancelled_before_start", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		recorder := &test.EventRecorder{}
		orchestrator := newTestOrchestrator(tasks, recorder)

		assert.True(t, orchestrator.Cancel())
		assert.False(t, orchestrator.Cancel())

		result, err := orchestrator.Run(context.Background(), &types.RunIntent{Tasks: test.AllTasks, SkipNetworkCheck: true})
		require.NoError(t, err)

		test.AssertOutcomeTasks(t, test.AllTasks, result.Outcomes)
		assert.Equal(t, []types.TaskStatus{types.StatusCancelled, types.StatusCancelled, types.StatusCancelled}, outcomeStatuses(result.Outcomes))
		assert.Equal(t, types.OverallAborted, result.OverallStatus)
		assert.Equal(t, types.ExitCancelled, result.ExitCode)
		assert.Empty(t, recorder.OfType(types.EventTaskStarted))
		assert.Equal(t, []types.RunState{types.StatePlanning, types.StateExecuting, types.StateAborting, types.StateAggregating, types.StateDone}, recorder.States())
	})

	t.Run("test_cancelled_before_start_parallel", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		orchestrator := newTestOrchestrator(tasks, nil)
		orchestrator.Cancel()

		result, err := orchestrator.Run(context.Background(), &types.RunIntent{Tasks: test.AllTasks, Mode: types.ModeParallel, SkipNetworkCheck: true})
		require.NoError(t, err)
		assert.Equal(t, []types.TaskStatus{types.StatusCancelled, types.StatusCancelled, types.StatusCancelled}, outcomeStatuses(result.Outcomes))
		assert.Equal(t, types.ExitCancelled, result.ExitCode)
	})

	t.Run("test_cancelled_during_preflight", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		orchestrator := newTestOrchestrator(tasks, nil)

		tasks.prober.EXPECT().Check(gomock.Any(), orchestrator.token).DoAndReturn(func(ctx context.Context, token api.CancellationToken) error {
			orchestrator.Cancel()
			return types.ErrCancelled
		})

		result, err := orchestrator.Run(context.Background(), &types.RunIntent{Tasks: test.AllTasks})
		assert.Equal(t, types.ErrCancelled, err)
		assert.Equal(t, types.OverallAborted, result.OverallStatus)
		assert.Equal(t, types.ExitCancelled, result.ExitCode)
	})

	t.Run("test_no_task_started_after_cancel", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		recorder := &test.EventRecorder{}
		orchestrator := newTestOrchestrator(tasks, recorder)

		tasks.system.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).DoAndReturn(
			func(ctx context.Context, token api.CancellationToken, handler api.LineHandler) *types.TaskOutcome {
				orchestrator.Cancel()
				<-token.Done()
				return &types.TaskOutcome{Task: types.TaskSystem, Status: types.StatusCancelled, Detail: "'dnf5 upgrade -y' terminated"}
			})

		result, err := orchestrator.Run(context.Background(), &types.RunIntent{Tasks: test.AllTasks, SkipNetworkCheck: true})
		require.NoError(t, err)

		test.AssertOutcomeTasks(t, test.AllTasks, result.Outcomes)
		assert.Equal(t, []types.TaskStatus{types.StatusCancelled, types.StatusCancelled, types.StatusCancelled}, outcomeStatuses(result.Outcomes))
		assert.Equal(t, "'dnf5 upgrade -y' terminated", result.Outcomes[0].Detail)
		assert.Equal(t, types.OverallAborted, result.OverallStatus)
		assert.Equal(t, types.ExitCancelled, result.ExitCode)
		assert.Len(t, recorder.OfType(types.EventTaskStarted), 1)
		assert.Contains(t, recorder.States(), types.StateAborting)
	})

	t.Run("test_success_before_cancel_kept", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		orchestrator := newTestOrchestrator(tasks, nil)

		tasks.system.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).DoAndReturn(
			func(ctx context.Context, token api.CancellationToken, handler api.LineHandler) *types.TaskOutcome {
				orchestrator.Cancel()
				return test.CreateOutcome(types.TaskSystem, types.StatusSuccess, true, true)
			})

		result, err := orchestrator.Run(context.Background(), &types.RunIntent{Tasks: []types.TaskKind{types.TaskSystem, types.TaskFirmware}, SkipNetworkCheck: true})
		require.NoError(t, err)
		assert.Equal(t, []types.TaskStatus{types.StatusSuccess, types.StatusCancelled}, outcomeStatuses(result.Outcomes))
		assert.Equal(t, types.OverallAborted, result.OverallStatus)
		assert.True(t, result.RequiresReboot)
	})

	t.Run("test_unresponsive_task_recorded_cancelled", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		orchestrator := newTestOrchestrator(tasks, nil)
		release := make(chan struct{})
		defer close(release)

		tasks.system.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).DoAndReturn(
			func(ctx context.Context, token api.CancellationToken, handler api.LineHandler) *types.TaskOutcome {
				<-release
				return test.CreateOutcome(types.TaskSystem, types.StatusSuccess, true, false)
			})
		time.AfterFunc(50*time.Millisecond, func() { orchestrator.Cancel() })

		start := time.Now()
		result, err := orchestrator.Run(context.Background(), &types.RunIntent{Tasks: []types.TaskKind{types.TaskSystem}, SkipNetworkCheck: true})
		require.NoError(t, err)

		assert.GreaterOrEqual(t, time.Since(start), 3*test.GracePeriod)
		assert.Less(t, time.Since(start), test.Interval*5)
		assert.Equal(t, types.StatusCancelled, result.Outcomes[0].Status)
		assert.Contains(t, result.Outcomes[0].Detail, "no outcome reported within 600ms")
		assert.Equal(t, types.ExitCancelled, result.ExitCode)
	})

	t.Run("test_killed_task_outcome_kept", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		orchestrator := newTestOrchestrator(tasks, nil)

		// terminate, wait the grace period, kill, wait the grace period for the pipes
		tasks.system.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).DoAndReturn(
			func(ctx context.Context, token api.CancellationToken, handler api.LineHandler) *types.TaskOutcome {
				<-token.Done()
				time.Sleep(2*test.GracePeriod + 50*time.Millisecond)
				return &types.TaskOutcome{Task: types.TaskSystem, Status: types.StatusCancelled, Detail: "'dnf5 upgrade --refresh -y' killed after the grace period"}
			})
		time.AfterFunc(50*time.Millisecond, func() { orchestrator.Cancel() })

		result, err := orchestrator.Run(context.Background(), &types.RunIntent{Tasks: []types.TaskKind{types.TaskSystem}, SkipNetworkCheck: true})
		require.NoError(t, err)
		assert.Equal(t, "'dnf5 upgrade --refresh -y' killed after the grace period", result.Outcomes[0].Detail)
		assert.Equal(t, types.ExitCancelled, result.ExitCode)
		assert.Greater(t, orchestrator.abortTimeout(), 2*orchestrator.gracePeriod)
	})

	t.Run("test_context_done_cancels_run", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		orchestrator := newTestOrchestrator(tasks, nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		tasks.system.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).DoAndReturn(
			func(ctx context.Context, token api.CancellationToken, handler api.LineHandler) *types.TaskOutcome {
				cancel()
				<-token.Done()
				return &types.TaskOutcome{Task: types.TaskSystem, Status: types.StatusCancelled}
			})

		result, err := orchestrator.Run(ctx, &types.RunIntent{Tasks: []types.TaskKind{types.TaskSystem, types.TaskFlatpak}, SkipNetworkCheck: true})
		require.NoError(t, err)
		assert.Equal(t, types.OverallAborted, result.OverallStatus)
		assert.Equal(t, []types.TaskStatus{types.StatusCancelled, types.StatusCancelled}, outcomeStatuses(result.Outcomes))
	})
}

func TestRunParallel(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("test_all_tasks_run_concurrently", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		recorder := &test.EventRecorder{}
		orchestrator := newTestOrchestrator(tasks, recorder)

		started := &sync.WaitGroup{}
		started.Add(3)
		execute := func(kind types.TaskKind, status types.TaskStatus, delay time.Duration) func(context.Context, api.CancellationToken, api.LineHandler) *types.TaskOutcome {
			return func(ctx context.Context, token api.CancellationToken, handler api.LineHandler) *types.TaskOutcome {
				started.Done()
				started.Wait()
				handler(kind, types.StreamStdout, string(kind)+" output")
				time.Sleep(delay)
				return test.CreateOutcome(kind, status, true, kind == types.TaskFirmware)
			}
		}
		tasks.prober.EXPECT().Check(gomock.Any(), orchestrator.token).Return(nil)
		tasks.system.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).DoAndReturn(execute(types.TaskSystem, types.StatusSuccess, 100*time.Millisecond))
		tasks.flatpak.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).DoAndReturn(execute(types.TaskFlatpak, types.StatusFailed, 50*time.Millisecond))
		tasks.firmware.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).DoAndReturn(execute(types.TaskFirmware, types.StatusSuccess, 0))

		var result *types.RunResult
		wg := &sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, _ = orchestrator.Run(context.Background(), &types.RunIntent{Tasks: test.AllTasks, Mode: types.ModeParallel})
		}()
		test.AssertWithTimeout(t, wg, 5*test.Interval)

		test.AssertOutcomeTasks(t, test.AllTasks, result.Outcomes)
		assert.Equal(t, []types.TaskStatus{types.StatusSuccess, types.StatusFailed, types.StatusSuccess}, outcomeStatuses(result.Outcomes))
		assert.Equal(t, types.OverallPartialFailure, result.OverallStatus)
		assert.True(t, result.RequiresReboot)
		assert.Equal(t, types.ExitFailure, result.ExitCode)

		var sources []types.TaskKind
		for _, event := range recorder.OfType(types.EventTaskOutput) {
			assert.Equal(t, string(event.Task)+" output", event.Line)
			sources = append(sources, event.Task)
		}
		assert.ElementsMatch(t, test.AllTasks, sources)
		test.AssertEventTypesWithoutOrder(t,
			[]types.EventType{types.EventTaskFinished, types.EventTaskFinished, types.EventTaskFinished},
			eventTypes(recorder.OfType(types.EventTaskFinished)))
	})

	t.Run("test_cancel_while_running", func(t *testing.T) {
		tasks := newTestTasks(mockCtrl)
		orchestrator := newTestOrchestrator(tasks, nil)

		untilCancelled := func(kind types.TaskKind) func(context.Context, api.CancellationToken, api.LineHandler) *types.TaskOutcome {
			return func(ctx context.Context, token api.CancellationToken, handler api.LineHandler) *types.TaskOutcome {
				<-token.Done()
				return &types.TaskOutcome{Task: kind, Status: types.StatusCancelled}
			}
		}
		tasks.system.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).DoAndReturn(untilCancelled(types.TaskSystem))
		tasks.flatpak.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).Return(test.CreateOutcome(types.TaskFlatpak, types.StatusSuccess, true, false))
		tasks.firmware.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).DoAndReturn(untilCancelled(types.TaskFirmware))
		time.AfterFunc(100*time.Millisecond, func() { orchestrator.Cancel() })

		result, err := orchestrator.Run(context.Background(), &types.RunIntent{Tasks: test.AllTasks, Mode: types.ModeParallel, SkipNetworkCheck: true})
		require.NoError(t, err)
		assert.Equal(t, []types.TaskStatus{types.StatusCancelled, types.StatusSuccess, types.StatusCancelled}, outcomeStatuses(result.Outcomes))
		assert.Equal(t, types.OverallAborted, result.OverallStatus)
		assert.Equal(t, types.ExitCancelled, result.ExitCode)
	})
}

func TestRunDryRun(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	tasks := newTestTasks(mockCtrl)
	recorder := &test.EventRecorder{}
	orchestrator := newTestOrchestrator(tasks, recorder)

	gomock.InOrder(
		tasks.prober.EXPECT().Check(gomock.Any(), orchestrator.token).Return(nil),
		tasks.system.EXPECT().Preview(gomock.Any()).Return("2 package(s) pending\nwould run: dnf5 upgrade -y", nil),
		tasks.firmware.EXPECT().Preview(gomock.Any()).Return("", errors.Wrap(types.ErrPreviewUnavailable, "fwupdmgr get-updates -y exited with code 1")),
	)

	result, err := orchestrator.Run(context.Background(), &types.RunIntent{Tasks: []types.TaskKind{types.TaskSystem, types.TaskFirmware}, DryRun: true, Mode: types.ModeParallel})
	require.NoError(t, err)

	test.AssertOutcomeTasks(t, []types.TaskKind{types.TaskSystem, types.TaskFirmware}, result.Outcomes)
	assert.Equal(t, []types.TaskStatus{types.StatusSkipped, types.StatusSkipped}, outcomeStatuses(result.Outcomes))
	assert.Equal(t, "2 package(s) pending\nwould run: dnf5 upgrade -y", result.Outcomes[0].Detail)
	assert.Equal(t, types.OverallSuccess, result.OverallStatus)
	assert.Equal(t, types.ExitSuccess, result.ExitCode)
	assert.False(t, result.RequiresReboot)
	assert.True(t, result.DryRun)

	previews := recorder.OfType(types.EventPreviewReady)
	require.Len(t, previews, 1)
	assert.Equal(t, types.TaskSystem, previews[0].Task)
	warnings := recorder.OfType(types.EventWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, types.TaskFirmware, warnings[0].Task)
	assert.Contains(t, warnings[0].Message, "preview unavailable")
}

func TestRunDryRunCancelled(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	tasks := newTestTasks(mockCtrl)
	recorder := &test.EventRecorder{}
	orchestrator := newTestOrchestrator(tasks, recorder)

	tasks.system.EXPECT().Preview(gomock.Any()).DoAndReturn(func(ctx context.Context) (string, error) {
		orchestrator.Cancel()
		return "", errors.Wrap(types.ErrCancelled, "dnf5 check-upgrade --refresh -q")
	})

	result, err := orchestrator.Run(context.Background(), &types.RunIntent{Tasks: []types.TaskKind{types.TaskSystem, types.TaskFirmware}, DryRun: true, SkipNetworkCheck: true})
	require.NoError(t, err)

	assert.Equal(t, []types.TaskStatus{types.StatusCancelled, types.StatusCancelled}, outcomeStatuses(result.Outcomes))
	assert.Contains(t, result.Outcomes[0].Detail, types.ErrCancelled.Error())
	assert.Equal(t, types.OverallAborted, result.OverallStatus)
	assert.Equal(t, types.ExitCancelled, result.ExitCode)
	assert.Empty(t, recorder.OfType(types.EventWarning))
	assert.Empty(t, recorder.OfType(types.EventPreviewReady))
}

func TestAlreadyStarted(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	tasks := newTestTasks(mockCtrl)
	orchestrator := newTestOrchestrator(tasks, nil)
	tasks.system.EXPECT().Execute(gomock.Any(), orchestrator.token, gomock.Any()).Return(test.CreateOutcome(types.TaskSystem, types.StatusSuccess, false, false))

	intent := &types.RunIntent{Tasks: []types.TaskKind{types.TaskSystem}, SkipNetworkCheck: true}
	_, err := orchestrator.Run(context.Background(), intent)
	require.NoError(t, err)

	result, err := orchestrator.Run(context.Background(), intent)
	assert.Nil(t, result)
	assert.Equal(t, types.ErrAlreadyStarted, err)

	refresh, err := orchestrator.Refresh(context.Background(), intent)
	assert.Nil(t, refresh)
	assert.Equal(t, types.ErrAlreadyStarted, err)
}

func eventTypes(events []*types.Event) []types.EventType {
	result := make([]types.EventType, len(events))
	for i, event := range events {
		result[i] = event.Type
	}
	return result
}
