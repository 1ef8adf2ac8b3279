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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOrdering(t *testing.T) {
	q := NewEventQueue()
	q.Schedule(3*Millisecond, NewStartRoundMsg(3, 0))
	q.Schedule(Millisecond, NewStartRoundMsg(1, 0))
	q.Schedule(2*Millisecond, NewStartRoundMsg(2, 0))

	var order []NodeID
	for !q.Empty() {
		order = append(order, q.Pop().Msg.Receiver())
	}
	assert.Equal(t, []NodeID{1, 2, 3}, order)
	assert.Equal(t, 3*Millisecond, q.Now())
}

func TestQueueFIFOTie(t *testing.T) {
	// equal timestamps deliver in insertion order
	q := NewEventQueue()
	for i := 0; i < 10; i++ {
		q.Schedule(Second, NewStartRoundMsg(NodeID(i), 0))
	}
	for i := 0; i < 10; i++ {
		dl := q.Pop()
		require.NotNil(t, dl)
		assert.Equal(t, NodeID(i), dl.Msg.Receiver())
	}
	assert.Nil(t, q.Pop())
}

func TestQueueClock(t *testing.T) {
	q := NewEventQueue()
	assert.Equal(t, Time(0), q.Now())
	q.Schedule(5*Microsecond, NewStartRoundMsg(0, 0))
	assert.Equal(t, Time(0), q.Now())
	_ = q.Pop()
	assert.Equal(t, 5*Microsecond, q.Now())

	// scheduling at the current time is allowed
	q.Schedule(q.Now(), NewStartRoundMsg(0, 0))
	assert.Equal(t, 1, q.Len())

	// scheduling into the past is fatal
	assert.Panics(t, func() {
		q.Schedule(Microsecond, NewStartRoundMsg(0, 0))
	})
}
