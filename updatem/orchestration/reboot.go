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

//go:build linux

package orchestration

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/sysupdater/sysupdater/config"
	"github.com/sysupdater/sysupdater/logger"

	"github.com/pkg/errors"
)

const (
	defaultSuffixSysRq        = "/sys/kernel/sysrq"
	defaultSuffixSysRqTrigger = "/sysrq-trigger"
)

// RebootManager defines an interface for restarting the host system
type RebootManager interface {
	Reboot(time.Duration) error
}

type rebootManager struct {
	systemctl func() error
}

// NewRebootManager creates the manager restarting the host through systemd.
func NewRebootManager() RebootManager {
	return &rebootManager{
		systemctl: func() error {
			return exec.Command("systemctl", "reboot").Run()
		},
	}
}

// Reboot makes the host device to reboot after the given delay.
// The reboot is requested from systemd. If systemctl is not available or fails, the Linux Magic SysRq key combination is used:
// First, it writes 1 to kernel sysrq file (/proc/sys/kernel/sysrq) to enable function.
// Second, it writes b to sysrq-trigger file (/proc/sysrq-trigger) to reboot the system.
// It is possible to configure the paths to both files using ENVs FILE_SYS_RQ and FILE_SYS_RQ_TRIGGER.
// If any of these ENVs is set to empty string, then a reboot syscall is performed.
func (rebootManager *rebootManager) Reboot(delay time.Duration) error {
	logger.Debug("the system is about to reboot after the update in '%s'", delay)
	<-time.After(delay)

	err := rebootManager.systemctl()
	if err == nil {
		return nil
	}
	logger.WarnErr(err, "systemctl reboot failed, falling back to the magic SysRq key:")

	fileSysRq, fileSysRqTrigger := getSysRqFiles()
	if fileSysRq == "" || fileSysRqTrigger == "" {
		syscall.Sync()
		return syscall.Reboot(syscall.LINUX_REBOOT_CMD_RESTART)
	}
	if err := os.WriteFile(fileSysRq, []byte("1"), 0644); err != nil {
		return errors.Wrap(err, fmt.Sprintf("cannot reboot after the update. cannot send signal to %v.", fileSysRq))
	}
	if err := os.WriteFile(fileSysRqTrigger, []byte("b"), 0200); err != nil {
		return errors.Wrap(err, fmt.Sprintf("cannot reboot after the update. cannot send signal to %v.", fileSysRqTrigger))
	}
	return nil
}

func getSysRqFiles() (string, string) {
	proc := "/proc"
	return config.EnvToString("FILE_SYS_RQ", proc+defaultSuffixSysRq), config.EnvToString("FILE_SYS_RQ_TRIGGER", proc+defaultSuffixSysRqTrigger)
}
