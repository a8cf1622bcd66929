package core

import (
	"sync"
	"time"
)

// State holds the single in-memory dashboard snapshot. Refresh cycles from
// different triggers (scheduler tick, manual refresh) overlap in time, so
// every series/headline mutation carries the sequence number assigned when
// its cycle started: a slot remembers the highest committed sequence and
// discards lower ones. Last-committed-wins by cycle start order, not by
// completion order.
type State struct {
	mu        sync.RWMutex
	snap      Snapshot
	committed map[string]uint64
}

func NewState() *State {
	return &State{
		snap: Snapshot{
			Headlines:  make(map[HeadlineKey]Headline),
			Connection: ConnectionUnknown,
			Data:       DataUnknown,
		},
		committed: make(map[string]uint64),
	}
}

// commit records seq for the named slot, reporting false when a newer cycle
// already wrote it.
func (s *State) commit(slot string, seq uint64) bool {
	if last, ok := s.committed[slot]; ok && seq < last {
		return false
	}
	s.committed[slot] = seq
	return true
}

// SetConfig replaces the configuration wholesale.
func (s *State) SetConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Config = cfg
	s.snap.ConfigLoaded = true
}

// MergeSeries replaces a series buffer atomically. It reports false when the
// update lost to a newer cycle and was discarded.
func (s *State) MergeSeries(seq uint64, slot Slot, points []SeriesPoint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.commit(string(slot), seq) {
		return false
	}
	buf := make([]SeriesPoint, len(points))
	copy(buf, points)
	switch slot {
	case SlotPeriod:
		s.snap.Period = buf
	default:
		s.snap.Live = buf
	}
	s.snap.LastUpdated = time.Now()
	return true
}

// SetPeriodSeries replaces the period-chart buffer and records which period
// it represents.
func (s *State) SetPeriodSeries(seq uint64, p Period, points []SeriesPoint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.commit(string(SlotPeriod), seq) {
		return false
	}
	buf := make([]SeriesPoint, len(points))
	copy(buf, points)
	s.snap.Period = buf
	s.snap.PeriodOf = p
	s.snap.LastUpdated = time.Now()
	return true
}

// SetHeadline commits one summary figure under the same staleness discipline
// as series slots.
func (s *State) SetHeadline(seq uint64, key HeadlineKey, h Headline) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.commit("headline/"+string(key), seq) {
		return false
	}
	s.snap.Headlines[key] = h
	s.snap.LastUpdated = time.Now()
	return true
}

func (s *State) SetInvoice(seq uint64, inv Invoice) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.commit("invoice", seq) {
		return false
	}
	s.snap.Invoice = &inv
	s.snap.LastUpdated = time.Now()
	return true
}

func (s *State) SetConnection(st ConnectionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Connection = st
}

func (s *State) SetData(st DataStatus, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Data = st
	s.snap.DataMessage = msg
}

func (s *State) SetServerVersion(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.ServerVersion = v
}

// Snapshot returns a deep copy safe for the presentation layer.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.snap
	out.Live = append([]SeriesPoint(nil), s.snap.Live...)
	out.Period = append([]SeriesPoint(nil), s.snap.Period...)
	out.Headlines = make(map[HeadlineKey]Headline, len(s.snap.Headlines))
	for k, v := range s.snap.Headlines {
		out.Headlines[k] = v
	}
	if s.snap.Invoice != nil {
		inv := *s.snap.Invoice
		out.Invoice = &inv
	}
	return out
}
