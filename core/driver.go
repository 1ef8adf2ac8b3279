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
)

//----------------------------------------------------------------------
// Run driver: owns the event queue, the delivery scheduler and the
// node instances of one simulation run. The run is single-threaded;
// one delivery is processed at a time and the virtual clock never
// moves backwards. Termination is detection-based: the queue runs
// empty (and for the pivot-tree protocol, all pivot rounds have
// converged), never a timeout.
//----------------------------------------------------------------------

// Variant selects the protocol the nodes speak.
type Variant string

// Protocol variants
const (
	VariantToueg Variant = "toueg" // pivot-tree protocol
	VariantFloyd Variant = "floyd" // flooding distance-vector protocol
)

// Route is one entry of a result routing table.
type Route struct {
	Cost    int64  `json:"cost"`
	NextHop NodeID `json:"nextHop"`
}

// Result of a single simulation run.
type Result struct {
	Variant   Variant                     `json:"variant"`   // protocol variant
	Converged bool                        `json:"converged"` // run terminated by itself
	Elapsed   Time                        `json:"elapsed"`   // virtual time until termination
	Messages  uint64                      `json:"messages"`  // total messages sent
	Bits      uint64                      `json:"bits"`      // total bits transmitted
	PerType   map[uint16]uint64           `json:"perType"`   // message count per type
	Stale     uint64                      `json:"stale"`     // stale messages dropped
	Events    uint64                      `json:"events"`    // deliveries processed
	Tables    map[NodeID]map[NodeID]Route `json:"tables"`    // final routing tables
}

// Driver runs one protocol variant over one topology.
type Driver struct {
	topo    *Topology
	variant Variant
	cfg     *Config
	queue   *EventQueue
	sched   *Scheduler
	nodes   map[NodeID]Node
	order   []NodeID // node ids in ascending order

	pivots   []NodeID // pivot sequence (tree protocol)
	pivotIdx int
	allDone  bool // all pivot rounds converged
}

// NewDriver assembles a run over the given topology.
func NewDriver(topo *Topology, variant Variant, cfg *Config) (*Driver, error) {
	if err := topo.Validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	d := &Driver{
		topo:    topo,
		variant: variant,
		cfg:     cfg,
		queue:   NewEventQueue(),
		nodes:   make(map[NodeID]Node),
		order:   topo.Nodes(),
	}
	known := make(map[NodeID]bool)
	for _, id := range d.order {
		known[id] = true
	}
	d.sched = NewScheduler(d.queue, cfg, known)
	for _, id := range d.order {
		switch variant {
		case VariantToueg:
			d.nodes[id] = NewTouegNode(id, topo.Neighbors(id))
		case VariantFloyd:
			d.nodes[id] = NewFloydNode(id, topo.Neighbors(id))
		default:
			return nil, fmt.Errorf("driver: unknown protocol variant '%s'", variant)
		}
	}
	if variant == VariantToueg {
		// pivots are visited in ascending id order
		d.pivots = d.order
	}
	return d, nil
}

// Node returns a node instance (for inspection).
func (d *Driver) Node(id NodeID) Node {
	return d.nodes[id]
}

// Run executes the simulation until termination and returns the
// collected result. An optional listener receives simulation events as
// they happen; it must not mutate simulation state.
func (d *Driver) Run(cb Listener) *Result {
	m := d.sched.Metrics()
	ctx := &Context{
		sched: d.sched,
		listener: func(ev *Event) {
			d.onEvent(ev)
			if cb != nil {
				cb(ev)
			}
		},
	}
	for _, id := range d.order {
		d.nodes[id].OnStart(ctx)
	}
	if d.variant == VariantToueg {
		d.announcePivot()
	}
	res := &Result{
		Variant:   d.variant,
		Converged: true,
		PerType:   m.PerType,
	}
	for !d.queue.Empty() {
		if m.Events >= d.cfg.MaxEvents {
			// runaway protection; a correct protocol never gets here
			res.Converged = false
			break
		}
		dl := d.queue.Pop()
		m.Events++
		node := d.nodes[dl.Msg.Receiver()]
		mb := node.Mailbox()
		mb.Put(dl.Msg)
		for !mb.Empty() {
			node.OnMessage(ctx, mb.Next())
		}
		m.Elapsed = d.queue.Now()
	}
	if d.variant == VariantToueg && !d.allDone {
		res.Converged = false
	}
	res.Elapsed = m.Elapsed
	res.Messages = m.Messages
	res.Bits = m.Bits
	res.Stale = m.Stale
	res.Events = m.Events
	res.Tables = make(map[NodeID]map[NodeID]Route, len(d.order))
	for _, id := range d.order {
		res.Tables[id] = d.nodes[id].Table().Routes()
	}
	return res
}

// onEvent advances the pivot sequence when a round has converged.
func (d *Driver) onEvent(ev *Event) {
	if d.variant != VariantToueg || ev.Type != EvRoundConverged {
		return
	}
	d.pivotIdx++
	if d.pivotIdx >= len(d.pivots) {
		d.allDone = true
		return
	}
	d.announcePivot()
}

// announcePivot injects the next round announcement into every node's
// delivery stream. Announcements are control plane: they are delivered
// immediately and do not enter the traffic counters.
func (d *Driver) announcePivot() {
	w := d.pivots[d.pivotIdx]
	now := d.queue.Now()
	for _, id := range d.order {
		d.queue.Schedule(now, NewStartRoundMsg(id, w))
	}
}
