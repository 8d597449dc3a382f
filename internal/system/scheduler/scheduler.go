/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package scheduler provides cancellable delayed execution of tasks.
package scheduler

import (
	"sync"
	"time"
)

// TaskHandle is a handle to a scheduled task.
type TaskHandle interface {
	// Cancel stops the task from running. It returns false if the task already ran or was cancelled.
	Cancel() bool
}

// SchedulerInterface schedules functions to run after a delay.
type SchedulerInterface interface {
	Schedule(delay time.Duration, task func()) TaskHandle
}

// timerScheduler schedules tasks on the runtime timer.
type timerScheduler struct{}

// NewScheduler returns a scheduler backed by the runtime timer.
func NewScheduler() SchedulerInterface {
	return &timerScheduler{}
}

// Schedule runs the task on its own goroutine once the delay has elapsed.
func (s *timerScheduler) Schedule(delay time.Duration, task func()) TaskHandle {
	return &timerHandle{timer: time.AfterFunc(delay, task)}
}

type timerHandle struct {
	timer *time.Timer
}

func (h *timerHandle) Cancel() bool {
	return h.timer.Stop()
}

// ManualScheduler is a scheduler whose clock only moves when Advance is called.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	owner     *ManualScheduler
	due       time.Duration
	seq       int
	fn        func()
	done      bool
	cancelled bool
}

// NewManualScheduler creates a ManualScheduler positioned at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule registers a task to run once the clock has advanced by delay.
func (s *ManualScheduler) Schedule(delay time.Duration, task func()) TaskHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &manualTask{owner: s, due: s.now + delay, seq: s.seq, fn: task}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the clock forward and runs every task that becomes due, in due order.
// Tasks scheduled by a running task are run too if they fall due within the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDue(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.due
		next.done = true
		s.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of tasks that are neither run nor cancelled.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, t := range s.tasks {
		if !t.done && !t.cancelled {
			count++
		}
	}
	return count
}

// nextDue returns the earliest live task due at or before target. Callers must hold the lock.
func (s *ManualScheduler) nextDue(target time.Duration) *manualTask {
	var next *manualTask
	for _, t := range s.tasks {
		if t.done || t.cancelled || t.due > target {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (t *manualTask) Cancel() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()

	if t.done || t.cancelled {
		return false
	}
	t.cancelled = true
	return true
}
