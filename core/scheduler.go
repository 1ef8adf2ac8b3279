//----------------------------------------------------------------------
// This file is part of apsim.
// Copyright (C) 2023 Bernd Fix >Y<
//
// apsim is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// apsim is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package core

import (
	"fmt"
	"math/rand"

	"github.com/bfix/gospel/data"
)

//----------------------------------------------------------------------
// Metrics accumulator: process-wide counters for one run. Reset when
// the run starts, finalized on global termination; the event loop
// serializes all mutation, so no locking is involved.
//----------------------------------------------------------------------

// Metrics holds the traffic counters of a run.
type Metrics struct {
	Messages uint64            // total messages sent
	Bits     uint64            // total bits transmitted
	PerType  map[uint16]uint64 // message count per message type
	Stale    uint64            // stale/duplicate messages dropped
	Events   uint64            // deliveries processed
	Elapsed  Time              // virtual time of the last delivery
}

// NewMetrics creates a zeroed accumulator.
func NewMetrics() *Metrics {
	return &Metrics{
		PerType: make(map[uint16]uint64),
	}
}

//----------------------------------------------------------------------
// Delivery scheduler: the only way a node can reach another node. It
// applies the configured delay model, enqueues the delivery event and
// does the traffic accounting.
//----------------------------------------------------------------------

// Scheduler accepts send requests and turns them into delivery events.
type Scheduler struct {
	queue   *EventQueue
	cfg     *Config
	rng     *rand.Rand
	metrics *Metrics
	known   map[NodeID]bool // valid recipients
}

// NewScheduler creates a scheduler over the given queue and node set.
func NewScheduler(queue *EventQueue, cfg *Config, known map[NodeID]bool) *Scheduler {
	return &Scheduler{
		queue:   queue,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec // deterministic simulation
		metrics: NewMetrics(),
		known:   known,
	}
}

// Metrics returns the traffic counters of the current run.
func (s *Scheduler) Metrics() *Metrics {
	return s.metrics
}

// Send schedules the delivery of a message and accounts for it. The
// bit volume is taken from the serialized payload size. Sending to an
// unknown recipient is a programming error and fatal.
func (s *Scheduler) Send(msg Message) {
	if !s.known[msg.Receiver()] {
		panic(fmt.Sprintf("scheduler: send to unknown node %d (%s)", msg.Receiver(), msg))
	}
	buf, err := data.Marshal(msg)
	if err != nil {
		panic(fmt.Sprintf("scheduler: can't serialize %s: %s", msg, err))
	}
	s.metrics.Messages++
	s.metrics.Bits += uint64(len(buf)) * 8
	s.metrics.PerType[msg.Type()]++
	s.queue.Schedule(s.queue.Now()+s.delay(), msg)
}

// delay computes the next delivery delay from the configured model.
func (s *Scheduler) delay() Time {
	switch s.cfg.Delay {
	case DelayFixed:
		return s.cfg.DelayTime
	case DelayUniform:
		span := int64(s.cfg.DelayMax - s.cfg.DelayMin)
		if span == 0 {
			return s.cfg.DelayMin
		}
		return s.cfg.DelayMin + Time(s.rng.Int63n(span+1))
	}
	return 0
}

//----------------------------------------------------------------------

// Context is the explicit simulation state handed to every node
// handler invocation; there are no process-wide singletons.
type Context struct {
	sched    *Scheduler
	listener Listener
}

// Now returns the current virtual time.
func (c *Context) Now() Time {
	return c.sched.queue.Now()
}

// Send hands a message over to the delivery scheduler.
func (c *Context) Send(msg Message) {
	c.sched.Send(msg)
}

// Emit notifies the listener (if any) of a simulation event.
func (c *Context) Emit(ev *Event) {
	ev.At = c.Now()
	if c.listener != nil {
		c.listener(ev)
	}
}

// DropStale records a duplicate/stale message that no longer improves
// any table entry. Explicitly tolerated, invisible to callers.
func (c *Context) DropStale(n NodeID) {
	c.sched.metrics.Stale++
	c.Emit(&Event{Type: EvStaleDropped, Node: n})
}
