package wallet

import (
	"sync"

	"go.uber.org/zap"

	"github.com/hubble-exchange/web3-onboard/internal/events"
	"github.com/hubble-exchange/web3-onboard/internal/observable"
	"github.com/hubble-exchange/web3-onboard/internal/state"
)

// Resetter is an external collaborator whose derived state must be cleared
// when a new wallet connects (for example wallet checks).
type Resetter interface {
	Reset()
}

// Options configure a Coordinator.
type Options struct {
	Logger *zap.Logger
	Bus    *events.Bus
	// SyncBalance attaches the interface's balance syncer. Off by default:
	// the balance slice exists but is not driven.
	SyncBalance bool
	Checks      []Resetter
}

// Coordinator re-wires every slice whenever the active interface changes.
type Coordinator struct {
	slices *Slices
	active *observable.Cell[*Interface]
	log    *zap.Logger
	bus    *events.Bus
	opts   Options

	mu      sync.Mutex // serializes transitions
	primed  bool
	current string
	handles []state.Canceler
	stop    func()
}

// NewCoordinator starts in the disconnected state and follows the active
// interface until Close.
func NewCoordinator(slices *Slices, opts Options) *Coordinator {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	c := &Coordinator{
		slices: slices,
		active: observable.NewCell[*Interface](nil),
		log:    log,
		bus:    opts.Bus,
		opts:   opts,
	}
	stop := c.active.Subscribe(c.transition)

	c.mu.Lock()
	c.primed = true
	c.stop = stop
	c.mu.Unlock()
	return c
}

// Slices returns the stores the coordinator drives.
func (c *Coordinator) Slices() *Slices { return c.slices }

// Connect validates iface and makes it the active interface. An invalid
// interface is rejected and the previous one stays active. Connecting the
// interface that is already active re-wires every slice.
func (c *Coordinator) Connect(iface *Interface) error {
	if err := Validate(iface); err != nil {
		c.log.Error("wallet interface rejected", zap.Error(err))
		return err
	}
	c.active.Set(iface)
	return nil
}

// Disconnect clears the active interface.
func (c *Coordinator) Disconnect() {
	c.active.Set(nil)
}

// Active returns the connected interface, or nil.
func (c *Coordinator) Active() *Interface {
	return c.active.Get()
}

// Interface exposes changes of the active interface to readers.
func (c *Coordinator) Interface() observable.Notifier {
	return c.active
}

// Handles returns how many attachments are currently live.
func (c *Coordinator) Handles() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, h := range c.handles {
		if h.Active() {
			n++
		}
	}
	return n
}

// Close stops following the interface and cancels every attachment.
// Slice values are left as they are.
func (c *Coordinator) Close() {
	c.mu.Lock()
	stop := c.stop
	c.stop = nil
	c.cancelAll()
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (c *Coordinator) transition(iface *Interface) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// the first delivery is the subscription itself, not a change
	if !c.primed {
		return
	}

	c.cancelAll()
	c.slices.ResetAll()

	if iface == nil {
		previous := c.current
		c.current = ""
		c.log.Info("wallet disconnected", zap.String("wallet", previous))
		c.bus.Publish(events.TopicWalletDisconnected, previous)
		return
	}

	c.current = iface.Name
	c.attach(SliceAddress, func() (state.Canceler, error) {
		return attachIfPresent(c.slices.Address, iface.Address)
	})
	c.attach(SliceNetwork, func() (state.Canceler, error) {
		return attachIfPresent(c.slices.Network, iface.Network)
	})
	if c.opts.SyncBalance {
		c.attach(SliceBalance, func() (state.Canceler, error) {
			return attachIfPresent(c.slices.Balance, iface.Balance)
		})
	}

	for _, check := range c.opts.Checks {
		if check != nil {
			check.Reset()
		}
	}

	c.log.Info("wallet connected",
		zap.String("wallet", iface.Name),
		zap.Int("handles", len(c.handles)),
		zap.Any("modes", iface.Modes()),
	)
	c.bus.Publish(events.TopicWalletConnected, iface.Name)
}

func (c *Coordinator) attach(slice string, fn func() (state.Canceler, error)) {
	h, err := fn()
	if err != nil {
		// Connect validated the interface, so this only fires on a bug.
		c.log.Error("attach syncer", zap.String("slice", slice), zap.Error(err))
		return
	}
	if h != nil {
		c.handles = append(c.handles, h)
	}
}

func (c *Coordinator) cancelAll() {
	for _, h := range c.handles {
		h.Cancel()
	}
	c.handles = nil
}

func attachIfPresent[T comparable](store *state.Store[T], syncer *state.Syncer[T]) (state.Canceler, error) {
	if syncer == nil {
		return nil, nil
	}
	return store.SetStateSyncer(syncer)
}
