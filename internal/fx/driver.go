package fx

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

// Driver is the per-animation context: the active effect, the pointer it
// reads and the surface size it was built for. One Step is one frame.
type Driver struct {
	effect  Effect
	pointer *Pointer
	rng     *rand.Rand
	width   int
	height  int
	frame   int

	pendingW      int
	pendingH      int
	resizePending bool
}

// NewDriver builds a driver and populates effect for a w×h surface.
func NewDriver(effect Effect, pointer *Pointer, rng *rand.Rand, w, h int) *Driver {
	if pointer == nil {
		pointer = NewPointer(DefaultPointerRadius)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- visual only
	}
	d := &Driver{effect: effect, pointer: pointer, rng: rng, width: w, height: h}
	effect.Reset(w, h, rng)
	return d
}

func (d *Driver) Effect() Effect      { return d.effect }
func (d *Driver) Pointer() *Pointer   { return d.pointer }
func (d *Driver) Frame() int          { return d.frame }
func (d *Driver) Size() (int, int)    { return d.width, d.height }
func (d *Driver) ResizePending() bool { return d.resizePending }

// Resize queues a rebuild for a new surface size. The population is swapped
// at the start of the next Step so a frame never sees a half-built set.
func (d *Driver) Resize(w, h int) {
	if w == d.width && h == d.height && !d.resizePending {
		return
	}
	d.pendingW = w
	d.pendingH = h
	d.resizePending = true
}

// SetEffect replaces the active effect and populates it at the current size.
func (d *Driver) SetEffect(e Effect) {
	d.effect = e
	e.Reset(d.width, d.height, d.rng)
}

// Rebuild discards and rebuilds the current population.
func (d *Driver) Rebuild() {
	d.effect.Reset(d.width, d.height, d.rng)
}

// Step runs one frame: apply any pending resize, clear or fade the canvas,
// update every entity, then draw.
func (d *Driver) Step(c Canvas) {
	if d.resizePending {
		d.width, d.height = d.pendingW, d.pendingH
		d.resizePending = false
		d.effect.Reset(d.width, d.height, d.rng)
	}
	if trail := d.effect.Trail(); trail > 0 {
		c.Fade(trail)
	} else {
		c.Clear()
	}
	d.effect.Update(d.pointer, d.rng)
	d.effect.Draw(c)
	d.frame++
}

// ErrLoopRunning is returned by Loop.Start when the loop is already running.
var ErrLoopRunning = errors.New("loop already running")

// Loop drives a Driver at a fixed interval on its own goroutine until it is
// stopped or its context ends. Pointer and resize changes must be sent
// through Post so they run between frames.
type Loop struct {
	driver   *Driver
	canvas   Canvas
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	posts  chan func(*Driver)
}

// NewLoop creates a stopped loop.
func NewLoop(d *Driver, c Canvas, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Loop{
		driver:   d,
		canvas:   c,
		interval: interval,
		posts:    make(chan func(*Driver), 64),
	}
}

// Start begins ticking. It returns ErrLoopRunning if already started.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done != nil {
		select {
		case <-l.done:
			// Ended through its context; release it for a fresh start.
			l.cancel()
			l.cancel, l.done = nil, nil
		default:
			return ErrLoopRunning
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	go l.run(ctx, l.done)
	return nil
}

func (l *Loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(l.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.drain()
			l.driver.Step(l.canvas)
		}
	}
}

func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.posts:
			fn(l.driver)
		default:
			return
		}
	}
}

// Post queues fn to run on the loop goroutine before the next frame. While
// the loop runs it blocks if the queue is full. It returns false when the
// queue is full and the loop is stopped, or stops while waiting.
func (l *Loop) Post(fn func(*Driver)) bool {
	select {
	case l.posts <- fn:
		return true
	default:
	}
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case l.posts <- fn:
		return true
	case <-done:
		return false
	}
}

// Stop cancels the loop and waits for the current frame to finish.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	l.mu.Lock()
	if l.done == done {
		l.cancel = nil
		l.done = nil
	}
	l.mu.Unlock()
}

// Wait blocks until the loop exits.
func (l *Loop) Wait() {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Running reports whether the loop goroutine is active.
func (l *Loop) Running() bool {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}
