package escrow

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// ErrRecipientBlocked is returned by InternalGateway for payouts to a blocked recipient.
var ErrRecipientBlocked = errors.New("recipient cannot receive funds")

// InternalGateway settles payouts in process by crediting the recipients' balances.
//
// Recipients can be blocked, which makes every batch paying them fail as a whole.
// Batches are deduplicated by reference.
type InternalGateway struct {
	mu        sync.Mutex
	blocked   map[core.PrincipalString]struct{}
	balances  map[core.PrincipalString]core.Money
	delivered []Batch
	seen      map[string]struct{}
}

func NewInternalGateway(blocked ...core.PrincipalString) *InternalGateway {
	g := &InternalGateway{
		blocked:  make(map[core.PrincipalString]struct{}),
		balances: make(map[core.PrincipalString]core.Money),
		seen:     make(map[string]struct{}),
	}

	for _, principal := range blocked {
		g.blocked[principal] = struct{}{}
	}

	return g
}

func (g *InternalGateway) Transfer(ctx context.Context, batch Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[batch.Reference]; ok {
		return nil
	}

	for _, payout := range batch.Payouts {
		if _, ok := g.blocked[payout.Recipient]; ok {
			return fmt.Errorf("%w: %s", ErrRecipientBlocked, payout.Recipient)
		}
	}

	for _, payout := range batch.Payouts {
		g.balances[payout.Recipient] = g.balances[payout.Recipient].Add(payout.Amount)
	}

	g.seen[batch.Reference] = struct{}{}
	g.delivered = append(g.delivered, batch)

	return nil
}

// Block makes payouts to principal fail until Unblock is called.
func (g *InternalGateway) Block(principal core.PrincipalString) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.blocked[principal] = struct{}{}
}

func (g *InternalGateway) Unblock(principal core.PrincipalString) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.blocked, principal)
}

// Balance returns everything paid out to principal so far.
func (g *InternalGateway) Balance(principal core.PrincipalString) core.Money {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.balances[principal]
}

// Balances returns a copy of all balances.
func (g *InternalGateway) Balances() map[core.PrincipalString]core.Money {
	g.mu.Lock()
	defer g.mu.Unlock()

	return maps.Clone(g.balances)
}

// Delivered returns the delivered batches in delivery order.
func (g *InternalGateway) Delivered() []Batch {
	g.mu.Lock()
	defer g.mu.Unlock()

	return slices.Clone(g.delivered)
}
