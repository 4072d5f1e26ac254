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

package config

import (
	"time"

	"github.com/sysupdater/sysupdater/api/util"
	"github.com/sysupdater/sysupdater/logger"
	"github.com/sysupdater/sysupdater/mqtt"
)

// SystemConfig holds the options of the system package update (dnf5).
type SystemConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	AutoRemove bool `mapstructure:"auto_remove"`
	Refresh    bool `mapstructure:"refresh"`
}

// FlatpakConfig holds the options of the Flatpak applications update.
type FlatpakConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	RemoveUnused bool `mapstructure:"remove_unused"`
}

// FirmwareConfig holds the options of the firmware update (fwupd).
type FirmwareConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// NetworkConfig holds the options of the network preflight check.
type NetworkConfig struct {
	CheckURL    string `mapstructure:"check_url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExecutionConfig holds the options of the task execution.
type ExecutionConfig struct {
	GracePeriod string `mapstructure:"grace_period"`
	RebootDelay string `mapstructure:"reboot_delay"`
}

// Config represents the resolved sysupdater configuration. It is read-only for the duration of a run.
type Config struct {
	System    *SystemConfig          `mapstructure:"system"`
	Flatpak   *FlatpakConfig         `mapstructure:"flatpak"`
	Firmware  *FirmwareConfig        `mapstructure:"firmware"`
	Network   *NetworkConfig         `mapstructure:"network"`
	Execution *ExecutionConfig       `mapstructure:"execution"`
	Log       *logger.LogConfig      `mapstructure:"logging"`
	MQTT      *mqtt.ConnectionConfig `mapstructure:"mqtt"`

	// Source is the path of the file the configuration was loaded from, empty if only defaults are used.
	Source string `mapstructure:"-"`
}

// NetworkTimeout returns the bound of the network preflight check.
func (cfg *Config) NetworkTimeout() time.Duration {
	return util.SecondsDuration("network.timeout_secs", cfg.Network.TimeoutSecs, networkTimeoutSecsDefault*time.Second)
}

// GracePeriod returns the time a cancelled task is given to terminate before it is killed.
func (cfg *Config) GracePeriod() time.Duration {
	return util.ParseDuration("execution.grace_period", cfg.Execution.GracePeriod, gracePeriodDefaultDuration, gracePeriodDefaultDuration)
}

// RebootDelay returns the time to wait before the host is rebooted.
func (cfg *Config) RebootDelay() time.Duration {
	return util.ParseDuration("execution.reboot_delay", cfg.Execution.RebootDelay, 0, 0)
}
