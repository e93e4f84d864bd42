// Copyright (C) 2022-2025, VigilantDoomer
//
// This file is part of VigilantBSP program.
//
// VigilantBSP is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// VigilantBSP is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with VigilantBSP.  If not, see <https://www.gnu.org/licenses/>.

// logger.go
// Central log, same role as the teacher's MyLogger/MiniLogger pair but
// backed by logrus rather than a hand-rolled stdout/stderr splitter.
package bsp

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Log is the package-level structured logger every non-task-local
// diagnostic goes through.
var Log = logrus.New()

// TaskLogger buffers the lines one recursive builder task produces, the
// same way the teacher's MiniLogger keeps a task's chatter out of the
// interleaved main log until the task is done and the buffer can be
// merged in one shot.
type TaskLogger struct {
	mu    sync.Mutex
	lines []string
}

func NewTaskLogger() *TaskLogger {
	return &TaskLogger{}
}

// Printf appends a formatted line to this task's private buffer.
func (t *TaskLogger) Printf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

// MergeInto flushes this task's buffered lines into dst in order, then
// clears the buffer - called once a subtree finishes, from whichever
// goroutine joins it.
func (t *TaskLogger) MergeInto(dst *TaskLogger) {
	t.mu.Lock()
	lines := t.lines
	t.lines = nil
	t.mu.Unlock()

	dst.mu.Lock()
	dst.lines = append(dst.lines, lines...)
	dst.mu.Unlock()
}

// Flush writes every buffered line to Log at debug level and clears the
// buffer.
func (t *TaskLogger) Flush() {
	t.mu.Lock()
	lines := t.lines
	t.lines = nil
	t.mu.Unlock()

	if len(lines) == 0 {
		return
	}
	Log.Debug(strings.Join(lines, "\n"))
}
