// Copyright (c) 2022-2024, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueOrdersByTimestamp(t *testing.T) {
	q := NewQueue()
	q.Schedule(300, 1, TypeTimerFired, nil)
	q.Schedule(100, 1, TypeTimerFired, nil)
	q.Schedule(200, 1, TypeTimerFired, nil)

	assert.Equal(t, uint64(100), q.Pop().Timestamp)
	assert.Equal(t, uint64(200), q.Pop().Timestamp)
	assert.Equal(t, uint64(300), q.Pop().Timestamp)
	assert.Equal(t, 0, q.Len())
}

func TestQueueTieBreaksByNodeIdThenSeq(t *testing.T) {
	q := NewQueue()
	q.Schedule(100, 2, TypeTimerFired, nil)
	q.Schedule(100, 1, TypeTimerFired, "a")
	q.Schedule(100, 1, TypeTimerFired, "b")

	e1 := q.Pop()
	assert.Equal(t, 1, e1.NodeId)
	assert.Equal(t, "a", e1.Data)

	e2 := q.Pop()
	assert.Equal(t, 1, e2.NodeId)
	assert.Equal(t, "b", e2.Data)

	e3 := q.Pop()
	assert.Equal(t, 2, e3.NodeId)
}

func TestQueueEmptyPopReturnsNil(t *testing.T) {
	q := NewQueue()
	assert.Nil(t, q.Pop())
	assert.Nil(t, q.Peek())
	assert.Equal(t, Ever, q.NextTimestamp())
}

func TestQueueRemove(t *testing.T) {
	q := NewQueue()
	q.Schedule(100, 1, TypeTimerFired, nil)
	e2 := q.Schedule(50, 2, TypeTimerFired, nil)
	q.Schedule(200, 3, TypeTimerFired, nil)

	q.Remove(e2)
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, uint64(100), q.Pop().Timestamp)
}

func TestQueueReschedule(t *testing.T) {
	q := NewQueue()
	e1 := q.Schedule(100, 1, TypeTimerFired, nil)
	q.Schedule(50, 2, TypeTimerFired, nil)

	q.Reschedule(e1, 10)
	assert.Equal(t, 1, q.Pop().NodeId)
}
