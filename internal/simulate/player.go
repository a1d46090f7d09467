package simulate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hubble-exchange/web3-onboard/internal/wallet"
)

// Connector is the part of wallet.Coordinator the player drives.
type Connector interface {
	Connect(iface *wallet.Interface) error
	Disconnect()
}

// Player connects and disconnects scenario wallets, either on the scenario's
// timeline (Run) or on demand.
type Player struct {
	scenario *Scenario
	conn     Connector
	log      *zap.Logger

	mu   sync.Mutex
	next int
}

// NewPlayer returns a player for sc. A nil logger is replaced by a no-op one.
func NewPlayer(sc *Scenario, conn Connector, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{scenario: sc, conn: conn, log: log}
}

// Run plays every step at its offset from the call. It returns nil once the
// last step ran, or ctx's error if cancelled first. A step that fails to
// connect is logged and the timeline continues.
func (p *Player) Run(ctx context.Context) error {
	start := time.Now()
	for _, step := range p.scenario.Steps {
		wait := step.At - time.Since(start)
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if step.Connect == "" {
			p.log.Info("scenario step", zap.Duration("at", step.At), zap.String("action", "disconnect"))
			p.Disconnect()
			continue
		}
		p.log.Info("scenario step", zap.Duration("at", step.At), zap.String("action", "connect"), zap.String("wallet", step.Connect))
		if err := p.Connect(step.Connect); err != nil {
			p.log.Warn("scenario step failed", zap.String("wallet", step.Connect), zap.Error(err))
		}
	}
	return nil
}

// Connect makes the named wallet active with a fresh script timeline.
func (p *Player) Connect(name string) error {
	ws, ok := p.scenario.Wallet(name)
	if !ok {
		return fmt.Errorf("unknown wallet %q", name)
	}
	p.mu.Lock()
	for i, w := range p.scenario.Wallets {
		if w.Name == name {
			p.next = i + 1
		}
	}
	p.mu.Unlock()
	return p.conn.Connect(ws.Interface())
}

// Next connects the wallet after the last one connected, wrapping around,
// and returns its name.
func (p *Player) Next() (string, error) {
	p.mu.Lock()
	if len(p.scenario.Wallets) == 0 {
		p.mu.Unlock()
		return "", fmt.Errorf("scenario has no wallets")
	}
	ws := p.scenario.Wallets[p.next%len(p.scenario.Wallets)]
	p.next = (p.next + 1) % len(p.scenario.Wallets)
	p.mu.Unlock()

	if err := p.conn.Connect(ws.Interface()); err != nil {
		return "", err
	}
	return ws.Name, nil
}

// Disconnect clears the active wallet.
func (p *Player) Disconnect() {
	p.conn.Disconnect()
}
