package service

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// CycleStats итог одного прохода раннера.
type CycleStats struct {
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"durationNs"`
	Fetched   int           `json:"fetched"`
	New       int           `json:"new"`
	Rejected  int           `json:"rejected"`
	Placed    int           `json:"placed"`
	Failed    int           `json:"failed"`
	Err       string        `json:"error,omitempty"`
}

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	processed atomic.Int64
	cycles    atomic.Int64

	mu        sync.RWMutex
	lastCycle CycleStats
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetProcessed(n int) { s.processed.Store(int64(n)) }
func (s *State) Processed() int     { return int(s.processed.Load()) }

func (s *State) RecordCycle(c CycleStats) {
	s.cycles.Add(1)
	s.mu.Lock()
	s.lastCycle = c
	s.mu.Unlock()
}

func (s *State) Cycles() int64 { return s.cycles.Load() }

func (s *State) LastCycle() CycleStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCycle
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

// Status текст для /status в Telegram.
func (s *State) Status() string {
	c := s.LastCycle()
	if c.StartedAt.IsZero() {
		return fmt.Sprintf("⏳ Первый цикл ещё не завершён. Uptime %s", s.Uptime().Truncate(time.Second))
	}
	msg := fmt.Sprintf("📊 Циклов: %d, обработано id: %d\nПоследний %s: фид=%d новых=%d отказ=%d выставлено=%d ошибок=%d",
		s.Cycles(), s.Processed(),
		c.StartedAt.Format(time.RFC3339),
		c.Fetched, c.New, c.Rejected, c.Placed, c.Failed,
	)
	if c.Err != "" {
		msg += "\n❗️ " + c.Err
	}
	return msg
}
