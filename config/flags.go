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
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

const (
	// config file flag
	configFileFlagID = "config"
)

// Flags holds the command line flags of a sysupdater invocation.
type Flags struct {
	Refresh        bool
	UpdateAll      bool
	UpdateSystem   bool
	UpdateFlatpak  bool
	UpdateFirmware bool
	Firmware       bool
	DryRun         bool
	NoRebootPrompt bool
	NoNetworkCheck bool
	Parallel       bool
	ConfigFile     string
	Verbose        int
	Quiet          bool
}

// SetupFlags adds all sysupdater flags to the given flag set
func SetupFlags(flagSet *pflag.FlagSet, flags *Flags) {
	// commands
	flagSet.BoolVarP(&flags.Refresh, "refresh", "r", false, "Check and display available updates")
	flagSet.BoolVarP(&flags.UpdateAll, "update-all", "u", false, "Update everything enabled in the configuration (system + flatpak)")
	flagSet.BoolVar(&flags.UpdateSystem, "update-system", false, "Update only system packages (dnf5)")
	flagSet.BoolVar(&flags.UpdateFlatpak, "update-flatpak", false, "Update only Flatpak applications")
	flagSet.BoolVar(&flags.UpdateFirmware, "update-firmware", false, "Update only firmware")

	// options
	flagSet.BoolVarP(&flags.Firmware, "firmware", "f", false, "Include firmware in --update-all")
	flagSet.BoolVarP(&flags.DryRun, "dry-run", "n", false, "Preview actions without executing")
	flagSet.BoolVar(&flags.NoRebootPrompt, "no-reboot-prompt", false, "Skip reboot prompt after updates")
	flagSet.BoolVar(&flags.NoNetworkCheck, "no-network-check", false, "Skip connectivity verification")
	flagSet.BoolVar(&flags.Parallel, "parallel", false, "Run updates concurrently")
	flagSet.StringVarP(&flags.ConfigFile, configFileFlagID, "c", "", "Use custom config file")
	flagSet.CountVarP(&flags.Verbose, "verbose", "v", "Increase verbosity (-v, -vv, -vvv)")
	flagSet.BoolVarP(&flags.Quiet, "quiet", "q", false, "Minimal output")
}

// HasAction returns true if any command flag is set.
func (flags *Flags) HasAction() bool {
	return flags.Refresh || flags.UpdateAll || flags.UpdateSystem || flags.UpdateFlatpak || flags.UpdateFirmware
}

// EnvToString check if an ENV variable is set and returns its value as a string. If not set, the default value is returned.
func EnvToString(key string, value string) string {
	envVal, ok := os.LookupEnv(key)
	if !ok {
		return value
	}
	fmt.Printf("using ENV variable %s with value %s\n", key, envVal)
	return envVal
}
