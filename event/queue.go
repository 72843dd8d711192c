// Copyright (c) 2020-2024, The OTNS Authors.
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
	"container/heap"

	"github.com/wlanax-sim/wlanax-ns/logger"
)

// pqueue is the container/heap backing store, ordered by (Timestamp, NodeId, Seq).
type pqueue []*Event

func (q pqueue) Len() int { return len(q) }

func (q pqueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.Timestamp != b.Timestamp {
		return a.Timestamp < b.Timestamp
	}
	if a.NodeId != b.NodeId {
		return a.NodeId < b.NodeId
	}
	return a.Seq < b.Seq
}

func (q pqueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index, q[j].index = i, j
}

func (q *pqueue) Push(x interface{}) {
	e := x.(*Event)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *pqueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

// Queue is the simulation's discrete-event schedule: a priority queue of pending Events,
// always delivering the lowest (Timestamp, NodeId, Seq) entry next.
type Queue struct {
	q       pqueue
	nextSeq uint64
}

// NewQueue creates an empty, ready-to-use event queue.
func NewQueue() *Queue {
	q := &Queue{q: pqueue{}}
	heap.Init(&q.q)
	return q
}

// Schedule enqueues a new event at the given timestamp and returns it. Seq is assigned
// automatically so that two events scheduled for the same node at the same timestamp are
// delivered in the order Schedule was called.
func (eq *Queue) Schedule(timestamp uint64, nodeId int, typ Type, data interface{}) *Event {
	e := &Event{
		Timestamp: timestamp,
		NodeId:    nodeId,
		Seq:       eq.nextSeq,
		Type:      typ,
		Data:      data,
	}
	eq.nextSeq++
	heap.Push(&eq.q, e)
	return e
}

// Pop removes and returns the next event to deliver, or nil if the queue is empty.
func (eq *Queue) Pop() *Event {
	if eq.q.Len() == 0 {
		return nil
	}
	return heap.Pop(&eq.q).(*Event)
}

// Peek returns the next event to deliver without removing it, or nil if the queue is empty.
func (eq *Queue) Peek() *Event {
	if eq.q.Len() == 0 {
		return nil
	}
	return eq.q[0]
}

// NextTimestamp returns the timestamp of the next event, or Ever if the queue is empty.
func (eq *Queue) NextTimestamp() uint64 {
	if eq.q.Len() == 0 {
		return Ever
	}
	return eq.q[0].Timestamp
}

// Len returns the number of pending events.
func (eq *Queue) Len() int {
	return eq.q.Len()
}

// Remove cancels a previously-scheduled event. It panics if the event is not in the queue,
// matching the teacher's assert-heavy style for internal invariant violations.
func (eq *Queue) Remove(e *Event) {
	logger.AssertTrue(e.index >= 0 && e.index < len(eq.q))
	heap.Remove(&eq.q, e.index)
}

// Reschedule changes the timestamp of a pending event and restores heap order.
func (eq *Queue) Reschedule(e *Event, timestamp uint64) {
	e.Timestamp = timestamp
	heap.Fix(&eq.q, e.index)
}
