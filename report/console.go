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
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sysupdater/sysupdater/api/types"

	"github.com/fatih/color"
)

const (
	maxListedPackages = 15
	maxListedApps     = 10

	summaryWidth = 45
	listingWidth = 50
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	ruleColor    = color.New(color.FgCyan)
	sectionColor = color.New(color.FgYellow, color.Bold)
	stdoutLabel  = color.New(color.FgWhite, color.Bold)
	stderrLabel  = color.New(color.FgRed, color.Bold)
	dryRunLabel  = color.New(color.FgCyan, color.Bold)
	okColor      = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	errColor     = color.New(color.FgRed)
	dimColor     = color.New(color.Faint)
)

// Console renders the progress events of a run for a human reader.
// Task lines are prefixed with the task label; in quiet mode only errors and the final summary are printed.
type Console struct {
	lock   sync.Mutex
	out    io.Writer
	errOut io.Writer
	quiet  bool
	dryRun bool
}

// NewConsole creates a console writing regular output to out and diagnostics to errOut.
func NewConsole(out, errOut io.Writer, quiet bool) *Console {
	return &Console{out: out, errOut: errOut, quiet: quiet}
}

// HandleEvent prints the given event.
func (console *Console) HandleEvent(event *types.Event) {
	console.lock.Lock()
	defer console.lock.Unlock()

	switch event.Type {
	case types.EventStateChanged:
		if event.Plan != nil {
			console.dryRun = event.Plan.DryRun
		}
	case types.EventTaskStarted:
		if !console.quiet {
			fmt.Fprintf(console.out, "%s %s\n", stdoutLabel.Sprint(event.Task.Label()), console.startedText(event.Task))
		}
	case types.EventTaskOutput:
		console.printLine(event)
	case types.EventPreviewReady:
		if !console.quiet {
			for _, line := range strings.Split(event.Message, "\n") {
				fmt.Fprintf(console.out, "%s [DRY RUN] %s\n", dryRunLabel.Sprint(event.Task.Label()), line)
			}
		}
	case types.EventWarning:
		if !console.quiet {
			fmt.Fprintf(console.errOut, "%s %s\n", event.Task.Label(), warnColor.Sprint(event.Message))
		}
	case types.EventTaskFinished:
		console.printOutcome(event.Outcome)
	case types.EventRunFinished:
		if event.Result != nil {
			console.printSummary(event.Result)
		}
		if event.Refresh != nil {
			console.printAvailableUpdates(event.Refresh)
		}
	}
}

func (console *Console) startedText(kind types.TaskKind) string {
	if console.dryRun {
		return "checking what would be updated"
	}
	switch kind {
	case types.TaskSystem:
		return "updating system packages"
	case types.TaskFlatpak:
		return "updating Flatpak applications"
	case types.TaskFirmware:
		return "updating firmware"
	default:
		return "started"
	}
}

func (console *Console) printLine(event *types.Event) {
	if console.quiet {
		return
	}
	if event.Stream == types.StreamStderr {
		fmt.Fprintf(console.errOut, "%s %s\n", stderrLabel.Sprint(event.Task.Label()), event.Line)
		return
	}
	fmt.Fprintf(console.out, "%s %s\n", stdoutLabel.Sprint(event.Task.Label()), event.Line)
}

func (console *Console) printOutcome(outcome *types.TaskOutcome) {
	if outcome == nil {
		return
	}
	if outcome.Status == types.StatusFailed {
		fmt.Fprintf(console.errOut, "%s %s\n", stderrLabel.Sprint(outcome.Task.Label()), errColor.Sprint(outcome.Detail))
		return
	}
	if console.quiet || console.dryRun {
		return
	}
	fmt.Fprintf(console.out, "%s %s %s\n", stdoutLabel.Sprint(outcome.Task.Label()), statusMark(outcome.Status), outcome.Detail)
}

func (console *Console) printSummary(result *types.RunResult) {
	out := console.out
	fmt.Fprintf(out, "\n%s\n", ruleColor.Sprint(strings.Repeat("═", summaryWidth)))
	fmt.Fprintln(out, headerColor.Sprint("           Update Summary"))
	fmt.Fprintln(out, ruleColor.Sprint(strings.Repeat("═", summaryWidth)))

	for _, kind := range types.CanonicalOrder {
		mark := warnColor.Sprint("○")
		if outcome := result.Outcome(kind); outcome != nil {
			mark = statusMark(outcome.Status)
		}
		fmt.Fprintf(out, "  %-16s%s\n", summaryName(kind)+":", mark)
	}

	var failures []string
	for _, outcome := range result.Outcomes {
		if outcome.Status == types.StatusFailed && outcome.Detail != "" {
			failures = append(failures, outcome.Detail)
		}
	}
	if result.Message != "" && len(result.Outcomes) == 0 {
		failures = append(failures, result.Message)
	}
	if len(failures) > 0 {
		fmt.Fprintf(out, "\n  %s Errors:\n", errColor.Sprint("✗"))
		for _, failure := range failures {
			fmt.Fprintf(out, "    • %s\n", errColor.Sprint(failure))
		}
	}

	switch {
	case result.OverallStatus == types.OverallAborted:
		fmt.Fprintf(out, "\n  %s\n", warnColor.Sprint("Update cancelled."))
	case result.DryRun:
		fmt.Fprintf(out, "\n  %s\n", dimColor.Sprint("Dry run, nothing was changed."))
	case result.RequiresReboot:
		fmt.Fprintf(out, "\n  %s\n", sectionColor.Sprint("A system reboot is recommended."))
	}
	fmt.Fprintln(out, ruleColor.Sprint(strings.Repeat("═", summaryWidth)))
}

func (console *Console) printAvailableUpdates(result *types.RefreshResult) {
	out := console.out
	fmt.Fprintf(out, "\n%s\n", ruleColor.Sprint(strings.Repeat("═", listingWidth)))
	fmt.Fprintln(out, headerColor.Sprint("         Available Updates"))
	fmt.Fprintf(out, "%s\n\n", ruleColor.Sprint(strings.Repeat("═", listingWidth)))

	if result.Status != types.OverallSuccess {
		message := result.Message
		if message == "" {
			message = "refresh cancelled"
		}
		fmt.Fprintf(out, "  %s %s\n\n", errColor.Sprint("✗"), message)
		return
	}

	for _, kind := range result.Tasks {
		report := result.Reports[kind]
		if report != nil && report.Error != "" {
			fmt.Fprintf(out, "  %s %s %s\n\n", errColor.Sprint("✗"), sectionColor.Sprint(summaryName(kind)), report.Error)
		}
	}
	total := result.Total()
	if total == 0 {
		fmt.Fprintf(out, "  %s Your system is up to date!\n\n", okColor.Sprint("✓"))
		return
	}

	for _, kind := range result.Tasks {
		report := result.Reports[kind]
		if report == nil || report.Summary.Count() == 0 {
			continue
		}
		console.printItems(kind, report.Summary.Items)
	}

	fmt.Fprintln(out, ruleColor.Sprint(strings.Repeat("═", listingWidth)))
	fmt.Fprintf(out, "  Total: %s update(s) available\n", okColor.Sprint(total))
	fmt.Fprintf(out, "  Run %s to install\n\n", headerColor.Sprint("sudo sysupdater --update-all"))
}

func (console *Console) printItems(kind types.TaskKind, items []string) {
	out := console.out
	limit := len(items)
	switch kind {
	case types.TaskSystem:
		fmt.Fprintf(out, "  %s %d package(s)\n\n", sectionColor.Sprint("System"), len(items))
		limit = maxListedPackages
	case types.TaskFlatpak:
		fmt.Fprintf(out, "  %s %d app(s)\n\n", sectionColor.Sprint("Flatpak"), len(items))
		limit = maxListedApps
	default:
		fmt.Fprintf(out, "  %s %d device(s)\n\n", sectionColor.Sprint("Firmware"), len(items))
	}

	for i, item := range items {
		if i == limit {
			fmt.Fprintf(out, "    %s ...and %s more\n", dimColor.Sprint("•"), warnColor.Sprint(len(items)-limit))
			break
		}
		fmt.Fprintf(out, "    %s %s\n", dimColor.Sprint("•"), itemText(kind, item))
	}
	fmt.Fprintln(out)
}

// itemText shortens a probe line to the package name and version, or the application ID.
func itemText(kind types.TaskKind, item string) string {
	fields := strings.Fields(item)
	if len(fields) == 0 {
		return item
	}
	switch kind {
	case types.TaskSystem:
		if len(fields) > 1 {
			return fields[0] + " " + dimColor.Sprint(fields[1])
		}
		return fields[0]
	case types.TaskFlatpak:
		return fields[0]
	default:
		return item
	}
}

func summaryName(kind types.TaskKind) string {
	switch kind {
	case types.TaskSystem:
		return "System (dnf5)"
	case types.TaskFlatpak:
		return "Flatpak"
	case types.TaskFirmware:
		return "Firmware"
	default:
		return string(kind)
	}
}

func statusMark(status types.TaskStatus) string {
	switch status {
	case types.StatusSuccess:
		return okColor.Sprint("✓")
	case types.StatusFailed:
		return errColor.Sprint("✗")
	case types.StatusCancelled:
		return errColor.Sprint("⊘")
	default:
		return warnColor.Sprint("○")
	}
}
