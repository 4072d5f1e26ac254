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

package task

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// systemRebootPackages are the packages whose upgrade only takes effect after a restart of the host.
var systemRebootPackages = map[string]bool{
	"kernel":              true,
	"kernel-core":         true,
	"kernel-modules":      true,
	"kernel-modules-core": true,
	"glibc":               true,
	"systemd":             true,
}

var packageArchitectures = map[string]bool{
	"x86_64":  true,
	"aarch64": true,
	"i686":    true,
	"noarch":  true,
	"ppc64le": true,
	"s390x":   true,
}

// firmwareRebootMarkers are the texts fwupdmgr prints when a device needs a power cycle to apply the new firmware.
var firmwareRebootMarkers = []string{"requires a reboot", "reboot required", "restart required", "requires the system to shutdown"}

// firmwareRestartFlags are the fwupd device flags of a firmware update that is applied on the next reboot or power cycle.
var firmwareRestartFlags = map[string]bool{
	"needs-reboot":   true,
	"needs-shutdown": true,
}

// fwupdDevices is the part of the `fwupdmgr get-devices --json` output the restart check reads.
type fwupdDevices struct {
	Devices []struct {
		Name  string   `json:"Name"`
		Flags []string `json:"Flags"`
	} `json:"Devices"`
}

// systemRequiresReboot reports whether the dnf5 transaction output lists a package from systemRebootPackages.
// The package name is the first field of a transaction line, optionally followed by its architecture.
func systemRequiresReboot(lines []string) bool {
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if systemRebootPackages[packageName(fields[0])] {
			return true
		}
	}
	return false
}

func packageName(field string) string {
	if i := strings.LastIndexByte(field, '.'); i > 0 && packageArchitectures[field[i+1:]] {
		return field[:i]
	}
	return field
}

// firmwareRequiresReboot reports whether the fwupdmgr output contains one of firmwareRebootMarkers, ignoring case.
func firmwareRequiresReboot(lines []string) bool {
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, marker := range firmwareRebootMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}

// nothingToDo reports whether the package manager output states that no update was applied.
func nothingToDo(lines []string) bool {
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), "nothing to do") {
			return true
		}
	}
	return false
}

// devicesAwaitingRestart returns the names of the devices flagged with one of firmwareRestartFlags.
// Diagnostics the command printed around the JSON document are ignored.
func devicesAwaitingRestart(lines []string) ([]string, error) {
	output := strings.Join(lines, "\n")
	start := strings.IndexByte(output, '{')
	end := strings.LastIndexByte(output, '}')
	if start < 0 || end < start {
		return nil, errors.New("no device list in the output")
	}
	devices := &fwupdDevices{}
	if err := json.Unmarshal([]byte(output[start:end+1]), devices); err != nil {
		return nil, errors.Wrap(err, "invalid device list")
	}
	var names []string
	for _, device := range devices.Devices {
		for _, flag := range device.Flags {
			if firmwareRestartFlags[flag] {
				names = append(names, device.Name)
				break
			}
		}
	}
	return names, nil
}
