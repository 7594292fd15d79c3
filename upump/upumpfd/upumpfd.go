// Package upumpfd implements a upump.Manager with real file-descriptor
// readiness notification, backed by Linux epoll (golang.org/x/sys/unix),
// using the same direct unix syscall style control-plane I/O favors.
// upumpqueue is the fallback for code that
// only needs timers and idlers; a pipe wanting AddFDRead/AddFDWrite
// should be handed an upumpfd.Manager instead.
package upumpfd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"upipe.go.dev/upipe/upump"
)

// Manager drives one epoll instance plus a job queue, matching
// upump.Manager's contract that every pump bound to it runs on the same
// goroutine.
type Manager struct {
	epfd int
	jobs chan func()
	stop chan struct{}

	mu      sync.Mutex
	watches map[int]*fdPump // keyed by fd
	idlers  []*idlerPump
}

// New opens an epoll instance and returns a ready Manager.
func New(queueLen int) (*Manager, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, fmt.Errorf("upumpfd: epoll_create1: %w", err)
	}
	return &Manager{
		epfd:    epfd,
		jobs:    make(chan func(), queueLen),
		stop:    make(chan struct{}),
		watches: make(map[int]*fdPump),
	}, nil
}

// Post implements upump.Manager.
func (m *Manager) Post(fn func()) {
	m.jobs <- fn
}

type fdPump struct {
	mgr     *Manager
	fd      int
	events  uint32
	fn      func()
	started bool
}

func (p *fdPump) Start() error {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()

	existing, ok := p.mgr.watches[p.fd]
	if ok && existing != p {
		existing.events |= p.events
		return unix.EpollCtl(p.mgr.epfd, unix.EPOLL_CTL_MOD, p.fd, &unix.EpollEvent{
			Events: existing.events,
			Fd:     int32(p.fd),
		})
	}
	p.mgr.watches[p.fd] = p
	p.started = true
	return unix.EpollCtl(p.mgr.epfd, unix.EPOLL_CTL_ADD, p.fd, &unix.EpollEvent{
		Events: p.events,
		Fd:     int32(p.fd),
	})
}

func (p *fdPump) Stop() error {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
	if !p.started {
		return nil
	}
	p.started = false
	delete(p.mgr.watches, p.fd)
	return unix.EpollCtl(p.mgr.epfd, unix.EPOLL_CTL_DEL, p.fd, nil)
}

// AddFDRead implements upump.Manager.
func (m *Manager) AddFDRead(fd int, fn func()) (upump.Pump, error) {
	return &fdPump{mgr: m, fd: fd, events: unix.EPOLLIN, fn: fn}, nil
}

// AddFDWrite implements upump.Manager.
func (m *Manager) AddFDWrite(fd int, fn func()) (upump.Pump, error) {
	return &fdPump{mgr: m, fd: fd, events: unix.EPOLLOUT, fn: fn}, nil
}

type timerPump struct {
	mgr    *Manager
	d      time.Duration
	repeat bool
	fn     func()
	t      *time.Timer
	ticker *time.Ticker
	done   chan struct{}
}

func (p *timerPump) Start() error {
	p.done = make(chan struct{})
	if p.repeat {
		p.ticker = time.NewTicker(p.d)
		go func() {
			for {
				select {
				case <-p.ticker.C:
					p.mgr.Post(p.fn)
				case <-p.done:
					return
				}
			}
		}()
	} else {
		p.t = time.AfterFunc(p.d, func() { p.mgr.Post(p.fn) })
	}
	return nil
}

func (p *timerPump) Stop() error {
	if p.ticker != nil {
		p.ticker.Stop()
		close(p.done)
	}
	if p.t != nil {
		p.t.Stop()
	}
	return nil
}

// AddTimer implements upump.Manager.
func (m *Manager) AddTimer(d time.Duration, repeat bool, fn func()) (upump.Pump, error) {
	return &timerPump{mgr: m, d: d, repeat: repeat, fn: fn}, nil
}

type signalPump struct {
	mgr  *Manager
	sig  os.Signal
	ch   chan os.Signal
	fn   func()
	done chan struct{}
}

func (p *signalPump) Start() error {
	p.ch = make(chan os.Signal, 1)
	p.done = make(chan struct{})
	signal.Notify(p.ch, p.sig)
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
	return nil
}

// AddSignal implements upump.Manager.
func (m *Manager) AddSignal(sig os.Signal, fn func()) (upump.Pump, error) {
	return &signalPump{mgr: m, sig: sig, fn: fn}, nil
}

type idlerPump struct {
	mgr *Manager
	fn  func()
}

func (p *idlerPump) Start() error {
	p.mgr.mu.Lock()
	p.mgr.idlers = append(p.mgr.idlers, p)
	p.mgr.mu.Unlock()
	return nil
}

func (p *idlerPump) Stop() error {
	p.mgr.mu.Lock()
	defer p.mgr.mu.Unlock()
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

const maxEpollEvents = 64

// Run drains posted jobs, dispatches ready fds, and runs idlers once per
// otherwise-quiet pass. It blocks in epoll_wait with a short timeout so
// idlers and the stop channel stay responsive even with no fd activity.
func (m *Manager) Run() error {
	events := make([]unix.EpollEvent, maxEpollEvents)

	for {
		select {
		case <-m.stop:
			return nil
		case job := <-m.jobs:
			job()
			continue
		default:
		}

		n, err := unix.EpollWait(m.epfd, events, 10)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("upumpfd: epoll_wait: %w", err)
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			m.mu.Lock()
			p, ok := m.watches[fd]
			m.mu.Unlock()
			if ok {
				p.fn()
			}
		}

		if n == 0 {
			m.mu.Lock()
			idlers := append([]*idlerPump(nil), m.idlers...)
			m.mu.Unlock()
			for _, idler := range idlers {
				idler.fn()
			}
		}

		select {
		case job := <-m.jobs:
			job()
		default:
		}
	}
}

// Stop implements upump.Manager.
func (m *Manager) Stop() {
	close(m.stop)
}

// Close releases the epoll file descriptor. Not part of upump.Manager;
// callers that own the Manager's lifetime call it after Run returns.
func (m *Manager) Close() error {
	return unix.Close(m.epfd)
}
