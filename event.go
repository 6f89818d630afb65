// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tpusim

import "container/heap"

// event is a timed stimulus. fn runs outside of any process, at the start of
// time instant at, before the instant is settled.
type event struct {
	at  uint64
	seq uint64
	fn  func()
}

// eventQueue implements heap.Interface. Events are ordered by time, then by
// insertion order.
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// After schedules fn to run delay time units from now. Writes done by fn are
// committed at the beginning of that time instant. A zero delay schedules a
// new settling pass within the current instant.
//
func (s *Scheduler) After(delay uint64, fn func()) {
	if fn == nil {
		panic("tpusim: nil event function")
	}
	s.seq++
	heap.Push(&s.events, &event{at: s.now + delay, seq: s.seq, fn: fn})
}

// WriteAfter schedules a write of v to sig delay time units from now.
//
func (s *Scheduler) WriteAfter(sig *Signal, v uint64, delay uint64) {
	s.After(delay, func() { sig.Write(v) })
}

// NextEvent returns the time of the next timed event, if any.
//
func (s *Scheduler) NextEvent() (uint64, bool) {
	if len(s.events) == 0 {
		return 0, false
	}
	return s.events[0].at, true
}
