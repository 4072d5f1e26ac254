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

package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sysupdater/sysupdater/api"
	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/config"
	"github.com/sysupdater/sysupdater/logger"
	"github.com/sysupdater/sysupdater/mqtt"
	"github.com/sysupdater/sysupdater/report"
	"github.com/sysupdater/sysupdater/updatem/hostinfo"
	"github.com/sysupdater/sysupdater/updatem/network"
	"github.com/sysupdater/sysupdater/updatem/orchestration"
	"github.com/sysupdater/sysupdater/updatem/task"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

type launcher struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	geteuid          func() int
	isTerminal       func() bool
	newOrchestrator  func(cfg *config.Config, handler api.EventHandler) api.Orchestrator
	connectPublisher func(ctx context.Context, mqttConfig *mqtt.ConnectionConfig) *mqtt.EventPublisher
	rebootManager    orchestration.RebootManager
}

func newLauncher() *launcher {
	return &launcher{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,

		geteuid: unix.Geteuid,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		newOrchestrator:  newOrchestrator,
		connectPublisher: connectPublisher,
		rebootManager:    orchestration.NewRebootManager(),
	}
}

func newOrchestrator(cfg *config.Config, handler api.EventHandler) api.Orchestrator {
	runner := task.NewCommandRunner(cfg.GracePeriod())
	prober := network.NewProber(cfg.Network.CheckURL, cfg.NetworkTimeout())
	return orchestration.NewOrchestrator(cfg, task.NewTasks(cfg, runner), prober, handler)
}

// launch performs the requested action and returns the process exit code.
func (launcher *launcher) launch(ctx context.Context, flags *config.Flags) int {
	if launcher.geteuid() != 0 {
		fmt.Fprintln(launcher.stderr, "This program must be run as root (use sudo)")
		return types.ExitFailure
	}

	cfg, err := config.LoadConfig(flags.ConfigFile)
	if err != nil {
		fmt.Fprintln(launcher.stderr, "failed to load configuration:", err)
		return types.ExitFailure
	}
	cfg.Log.LogLevel = logger.LevelForVerbosity(cfg.Log.LogLevel, flags.Verbose, flags.Quiet)
	cfg.Log.Console = flags.Verbose > 0
	loggerOut, err := logger.SetupLogger(cfg.Log, "[sysupdater]")
	if err != nil {
		fmt.Fprintln(launcher.stderr, "failed to initialize logger:", err)
		return types.ExitFailure
	}
	defer loggerOut.Close()
	if cfg.Source != "" {
		logger.Debug("configuration loaded from '%s'", cfg.Source)
	}

	handler := report.NewMulti(report.NewConsole(launcher.stdout, launcher.stderr, flags.Quiet), report.LogHandler{})
	orchestrator := launcher.newOrchestrator(cfg, handler)

	stop := handleSignals(orchestrator)
	defer stop()

	// signals received while connecting to the broker cancel the run before it starts
	if publisher := launcher.connectPublisher(ctx, cfg.MQTT); publisher != nil {
		defer publisher.Disconnect()
		handler.Add(publisher)
	}

	if flags.Refresh {
		result, err := orchestrator.Refresh(ctx, flags.RefreshIntent(cfg))
		if result == nil {
			logger.ErrorErr(err, "refresh not performed:")
			return types.ExitFailure
		}
		return result.ExitCode
	}

	intent := flags.Intent(cfg)
	result, err := orchestrator.Run(ctx, intent)
	if result == nil {
		logger.ErrorErr(err, "update not performed:")
		return types.ExitFailure
	}
	if launcher.shouldPromptReboot(intent, result) {
		if err := launcher.promptReboot(cfg.RebootDelay()); err != nil {
			logger.ErrorErr(err, "reboot failed:")
			fmt.Fprintln(launcher.stderr, "reboot failed:", err)
		}
	}
	return result.ExitCode
}

// connectPublisher returns a connected event publisher, or nil if publishing is disabled or the broker is not reachable.
func connectPublisher(ctx context.Context, mqttConfig *mqtt.ConnectionConfig) *mqtt.EventPublisher {
	if mqttConfig == nil || !mqttConfig.Enabled {
		return nil
	}
	info, err := hostinfo.Collect(ctx)
	if err != nil {
		logger.DebugErr(err, "host information incomplete:")
	}
	publisher, err := mqtt.NewEventPublisher(mqttConfig, hostinfo.Hostname(info))
	if err != nil {
		logger.ErrorErr(err, "cannot create the MQTT event publisher:")
		return nil
	}
	if err := publisher.Connect(); err != nil {
		logger.WarnErr(err, "events will not be published:")
		return nil
	}
	return publisher
}

// handleSignals cancels the run on the first SIGINT or SIGTERM. Later signals are consumed and ignored.
func handleSignals(orchestrator api.Orchestrator) func() {
	signalChan := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for {
			select {
			case sig := <-signalChan:
				if orchestrator.Cancel() {
					logger.Info("received signal %v, cancelling", sig)
				} else {
					logger.Debug("received signal %v, cancellation already in progress", sig)
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(signalChan)
		close(done)
	}
}
