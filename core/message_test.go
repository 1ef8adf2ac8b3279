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

	"github.com/bfix/gospel/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// the declared message size must match the serialized length, since
// bit accounting is based on the wire format.
func TestMessageSizes(t *testing.T) {
	vec := []*DistEntry{
		{Dest: 1, Cost: 10},
		{Dest: 2, Cost: 20},
		{Dest: 3, Cost: 30},
	}
	msgs := []Message{
		NewStartRoundMsg(1, 2),
		NewChildMsg(1, 2, 3),
		NewNonChildMsg(1, 2, 3),
		NewPivotDataMsg(1, 2, 3, vec),
		NewRoundDoneMsg(1, 2, 3),
		NewVectorMsg(1, 2, vec),
	}
	for _, msg := range msgs {
		buf, err := data.Marshal(msg)
		require.NoError(t, err, "marshal %s", msg)
		assert.EqualValues(t, msg.Size(), len(buf), "size of %s", msg)
	}
}

func TestMessageVectorBound(t *testing.T) {
	// the declared size lives in a 16-bit header; a vector beyond that
	// bound must be refused instead of silently wrapping
	fits := make([]*DistEntry, maxVectorLen)
	long := make([]*DistEntry, maxVectorLen+1)
	for i := range long {
		e := &DistEntry{Dest: uint32(i), Cost: 1}
		if i < len(fits) {
			fits[i] = e
		}
		long[i] = e
	}
	msg := NewVectorMsg(1, 2, fits)
	assert.EqualValues(t, msgHdrSize+maxVectorLen*distEntrySize, msg.Size())
	assert.Panics(t, func() { NewVectorMsg(1, 2, long) })
	assert.Panics(t, func() { NewPivotDataMsg(1, 2, 3, long) })
}

func TestMessageAttributes(t *testing.T) {
	msg := NewVectorMsg(7, 9, nil)
	assert.Equal(t, NodeID(7), msg.Sender())
	assert.Equal(t, NodeID(9), msg.Receiver())
	assert.EqualValues(t, MsgVector, msg.Type())

	st := NewChildMsg(1, 2, 5)
	assert.EqualValues(t, MsgChild, st.Type())
	assert.EqualValues(t, 5, st.Pivot)
	st = NewNonChildMsg(1, 2, 5)
	assert.EqualValues(t, MsgNonChild, st.Type())
}
