// Package upumpqueue implements the default upump.Manager: a single
// goroutine cooperative loop driven by a channel of pending jobs, using a channel/select loop generalized from a single sample channel
// to an arbitrary job queue.
// Timers and idlers are supported directly; fd readiness is not (use
// upump/upumpfd for that), so AddFDRead/AddFDWrite return ErrUnhandled.
package upumpqueue

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe/upump"
)

// Manager is a upump.Manager backed by a job channel.
type Manager struct {
	jobs    chan func()
	stop    chan struct{}
	stopped chan struct{}

	mu      sync.Mutex
	active  int // count of started, non-idler pumps + in-flight signal watchers
	idlers  []*idlerPump
	running bool
}

// New creates a Manager with the given job-queue depth.
func New(queueLen int) *Manager {
	return &Manager{
		jobs:    make(chan func(), queueLen),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Post implements upump.Manager.
func (m *Manager) Post(fn func()) {
	m.jobs <- fn
}

type timerPump struct {
	mgr     *Manager
	t       *time.Timer
	ticker  *time.Ticker
	repeat  bool
	d       time.Duration
	fn      func()
	stopped chan struct{}
}

func (p *timerPump) Start() error {
	p.mgr.incActive()
	if p.repeat {
		p.ticker = time.NewTicker(p.d)
		go func() {
			for {
				select {
				case <-p.ticker.C:
					p.mgr.Post(p.fn)
				case <-p.stopped:
					return
				}
			}
		}()
	} else {
		p.t = time.AfterFunc(p.d, func() {
			p.mgr.Post(p.fn)
			p.mgr.decActive()
		})
	}
	return nil
}

func (p *timerPump) Stop() error {
	if p.ticker != nil {
		p.ticker.Stop()
		close(p.stopped)
		p.mgr.decActive()
	}
	if p.t != nil {
		p.t.Stop()
	}
	return nil
}

// AddTimer implements upump.Manager.
func (m *Manager) AddTimer(d time.Duration, repeat bool, fn func()) (upump.Pump, error) {
	return &timerPump{mgr: m, d: d, repeat: repeat, fn: fn, stopped: make(chan struct{})}, nil
}

// AddFDRead implements upump.Manager; fd readiness requires upump/upumpfd.
func (m *Manager) AddFDRead(fd int, fn func()) (upump.Pump, error) {
	return nil, fmt.Errorf("upumpqueue: fd readiness not supported: %w", uerror.ErrUnhandled)
}

// AddFDWrite implements upump.Manager; fd readiness requires upump/upumpfd.
func (m *Manager) AddFDWrite(fd int, fn func()) (upump.Pump, error) {
	return nil, fmt.Errorf("upumpqueue: fd readiness not supported: %w", uerror.ErrUnhandled)
}

type signalPump struct {
	mgr *Manager
	ch  chan os.Signal
	fn  func()
	done chan struct{}
}

func (p *signalPump) Start() error {
	p.mgr.incActive()
	signal.Notify(p.ch)
	go func() {
		for {
			select {
			case <-p.ch:
				p.mgr.Post(p.fn)
			case <-p.done:
				return
			}
		}
	}()
	return nil
}

func (p *signalPump) Stop() error {
	signal.Stop(p.ch)
	close(p.done)
	p.mgr.decActive()
	return nil
}

// AddSignal implements upump.Manager.
func (m *Manager) AddSignal(sig os.Signal, fn func()) (upump.Pump, error) {
	ch := make(chan os.Signal, 1)
	return &signalPump{mgr: m, ch: ch, fn: fn, done: make(chan struct{})}, nil
}

type idlerPump struct {
	mgr     *Manager
	fn      func()
	started bool
}

func (p *idlerPump) Start() error {
	p.mgr.mu.Lock()
	p.started = true
	p.mgr.idlers = append(p.mgr.idlers, p)
	p.mgr.mu.Unlock()
	return nil
}

func (p *idlerPump) Stop() error {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	p.started = false
	for i, idler := range p.mgr.idlers {
		if idler == p {
			p.mgr.idlers = append(p.mgr.idlers[:i], p.mgr.idlers[i+1:]...)
			break
		}
	}
	return nil
}

// AddIdler implements upump.Manager.
func (m *Manager) AddIdler(fn func()) (upump.Pump, error) {
	return &idlerPump{mgr: m, fn: fn}, nil
}

func (m *Manager) incActive() {
	m.mu.Lock()
	m.active++
	m.mu.Unlock()
}

func (m *Manager) decActive() {
	m.mu.Lock()
	m.active--
	m.mu.Unlock()
}

// Run implements upump.Manager. It drains jobs until Stop is called; a
// zero-duration select against idlers lets registered idler pumps run
// once per otherwise-empty iteration, matching the "NEED_OUTPUT"-style
// drain loops a buffered pipe implementation would use.
func (m *Manager) Run() error {
	m.mu.Lock()
	m.running = true
	m.mu.Unlock()
	defer close(m.stopped)

	for {
		select {
		case <-m.stop:
			return nil
		case job := <-m.jobs:
			job()
		default:
			m.mu.Lock()
			idlers := append([]*idlerPump(nil), m.idlers...)
			m.mu.Unlock()
			if len(idlers) == 0 {
				select {
				case <-m.stop:
					return nil
				case job := <-m.jobs:
					job()
				}
				continue
			}
			for _, idler := range idlers {
				idler.fn()
			}
		}
	}
}

// RunOnce drains at most one pending job or idler pass without blocking
// forever; useful in tests that want to step the loop deterministically.
func (m *Manager) RunOnce() error {
	select {
	case job := <-m.jobs:
		job()
	default:
		m.mu.Lock()
		idlers := append([]*idlerPump(nil), m.idlers...)
		m.mu.Unlock()
		for _, idler := range idlers {
			idler.fn()
		}
	}
	return nil
}

// Stop implements upump.Manager.
func (m *Manager) Stop() {
	close(m.stop)
}
