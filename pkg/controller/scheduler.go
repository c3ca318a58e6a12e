package controller

import (
	"sort"
	"time"
)

// Timer names. Scheduling a name that is already pending replaces it.
const (
	timerFit           = "fit"
	timerFitZoom       = "fit-zoom"
	timerExplodeForces = "explode-forces"
	timerDragForces    = "drag-forces"
)

type task struct {
	name string
	due  time.Time
	seq  int
	fn   func()
}

// scheduler holds named one-shot timers and per-frame hooks. Nothing runs
// until Run is called from the frame loop.
type scheduler struct {
	tasks map[string]*task
	hooks map[string]func(time.Time)
	seq   int
}

func newScheduler() *scheduler {
	return &scheduler{
		tasks: make(map[string]*task),
		hooks: make(map[string]func(time.Time)),
	}
}

func (s *scheduler) after(now time.Time, name string, d time.Duration, fn func()) {
	s.seq++
	s.tasks[name] = &task{name: name, due: now.Add(d), seq: s.seq, fn: fn}
}

func (s *scheduler) cancel(names ...string) {
	for _, n := range names {
		delete(s.tasks, n)
	}
}

func (s *scheduler) hook(name string, fn func(time.Time)) {
	s.hooks[name] = fn
}

func (s *scheduler) unhook(name string) {
	delete(s.hooks, name)
}

func (s *scheduler) reset() {
	s.tasks = make(map[string]*task)
	s.hooks = make(map[string]func(time.Time))
}

func (s *scheduler) pending() []string {
	names := make([]string, 0, len(s.tasks))
	for n := range s.tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// run fires every task due at now, earliest first, then every hook. Tasks
// scheduled by a firing task run in the same call if they are already due.
func (s *scheduler) run(now time.Time) {
	for {
		var next *task
		for _, t := range s.tasks {
			if t.due.After(now) {
				continue
			}
			if next == nil || t.due.Before(next.due) || (t.due.Equal(next.due) && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			break
		}
		delete(s.tasks, next.name)
		next.fn()
	}

	names := make([]string, 0, len(s.hooks))
	for n := range s.hooks {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if fn, ok := s.hooks[n]; ok {
			fn(now)
		}
	}
}
