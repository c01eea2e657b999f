package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/b/ratrak/pkg/sched"
)

type timerMsg struct{ id uint64 }

// Scheduler is a sched.Clock whose timers fire inside the bubbletea
// update loop. Every timer becomes a tea.Tick carrying its id; a stopped
// timer's tick is dropped when it arrives. Commands accumulate until
// Drain, which the model calls at the end of each Update.
type Scheduler struct {
	now     func() time.Time
	seq     uint64
	live    map[uint64]*teaTimer
	pending []tea.Cmd
}

type teaTimer struct {
	s     *Scheduler
	id    uint64
	every time.Duration
	fn    func()
}

func NewScheduler() *Scheduler {
	return &Scheduler{now: time.Now, live: make(map[uint64]*teaTimer)}
}

func (s *Scheduler) Now() time.Time { return s.now() }

func (s *Scheduler) AfterFunc(d time.Duration, fn func()) sched.Timer {
	return s.add(d, 0, fn)
}

func (s *Scheduler) Every(d time.Duration, fn func()) sched.Timer {
	if d <= 0 {
		d = time.Millisecond
	}
	return s.add(d, d, fn)
}

func (s *Scheduler) add(d, every time.Duration, fn func()) *teaTimer {
	s.seq++
	t := &teaTimer{s: s, id: s.seq, every: every, fn: fn}
	s.live[t.id] = t
	s.arm(t.id, d)
	return t
}

func (s *Scheduler) arm(id uint64, d time.Duration) {
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
}

// fire runs the timer behind msg. It reports false for stopped timers.
func (s *Scheduler) fire(msg timerMsg) bool {
	t, ok := s.live[msg.id]
	if !ok {
		return false
	}
	if t.every > 0 {
		s.arm(t.id, t.every)
	} else {
		delete(s.live, t.id)
	}
	t.fn()
	return true
}

// Live returns the number of armed timers.
func (s *Scheduler) Live() int { return len(s.live) }

// Drain returns the ticks armed since the last Drain as one command.
func (s *Scheduler) Drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

func (t *teaTimer) Stop() bool {
	if _, ok := t.s.live[t.id]; !ok {
		return false
	}
	delete(t.s.live, t.id)
	return true
}
