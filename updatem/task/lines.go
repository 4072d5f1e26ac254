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
	"bytes"
	"strings"
	"sync"

	"github.com/sysupdater/sysupdater/api"
	"github.com/sysupdater/sysupdater/api/types"
)

const maxLineLength = 64 * 1024

// lineCollector keeps the output lines of both streams of a command in the order they were completed.
type lineCollector struct {
	mutex sync.Mutex
	lines []string
}

func (collector *lineCollector) add(line string) {
	collector.mutex.Lock()
	defer collector.mutex.Unlock()
	collector.lines = append(collector.lines, line)
}

func (collector *lineCollector) all() []string {
	collector.mutex.Lock()
	defer collector.mutex.Unlock()
	return append([]string(nil), collector.lines...)
}

// lineWriter splits a command output stream into whole lines and attributes each of them to its task and stream.
type lineWriter struct {
	mutex     sync.Mutex
	buffer    []byte
	task      types.TaskKind
	stream    types.StreamType
	handler   api.LineHandler
	collector *lineCollector
}

func newLineWriter(task types.TaskKind, stream types.StreamType, handler api.LineHandler, collector *lineCollector) *lineWriter {
	return &lineWriter{
		task:      task,
		stream:    stream,
		handler:   handler,
		collector: collector,
	}
}

// Write implements io.Writer. Incomplete lines are kept until the rest arrives or Flush is called.
func (writer *lineWriter) Write(p []byte) (int, error) {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	writer.buffer = append(writer.buffer, p...)
	for {
		i := bytes.IndexByte(writer.buffer, '\n')
		if i < 0 {
			break
		}
		writer.emit(writer.buffer[:i])
		writer.buffer = writer.buffer[i+1:]
	}
	if len(writer.buffer) >= maxLineLength {
		writer.emit(writer.buffer)
		writer.buffer = nil
	}
	return len(p), nil
}

// Flush emits the pending incomplete line, if any.
func (writer *lineWriter) Flush() {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()
	if len(writer.buffer) > 0 {
		writer.emit(writer.buffer)
		writer.buffer = nil
	}
}

func (writer *lineWriter) emit(raw []byte) {
	line := string(raw)
	// progress output redraws the line with carriage returns, only the final state is kept
	if i := strings.LastIndexByte(strings.TrimRight(line, "\r"), '\r'); i >= 0 {
		line = line[i+1:]
	}
	line = strings.TrimRight(line, "\r")
	writer.collector.add(line)
	if writer.handler != nil {
		writer.handler(writer.task, writer.stream, line)
	}
}
