package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SimulatedRail accepts every transfer after an optional delay, except for credentials
// carrying the decline prefix. It keeps no money; it stands in for the rail in
// development and demos.
type SimulatedRail struct {
	latency       time.Duration
	declinePrefix string
	logger        zerolog.Logger

	mu        sync.Mutex
	processed map[string]decimal.Decimal
}

// DefaultDeclinePrefix marks credentials the simulated rail rejects.
const DefaultDeclinePrefix = "decline_"

// NewSimulatedRail creates a new SimulatedRail.
func NewSimulatedRail(latency time.Duration, logger zerolog.Logger) *SimulatedRail {
	return &SimulatedRail{
		latency:       latency,
		declinePrefix: DefaultDeclinePrefix,
		logger:        logger,
		processed:     make(map[string]decimal.Decimal),
	}
}

// Transfer waits for the configured latency and then accepts or declines.
// A repeated reference is accepted without being counted twice.
func (r *SimulatedRail) Transfer(ctx context.Context, credential string, amount decimal.Decimal, reference string) error {
	if r.latency > 0 {
		timer := time.NewTimer(r.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if strings.HasPrefix(credential, r.declinePrefix) {
		return fmt.Errorf("simulated rail declined credential %q", credential)
	}

	r.mu.Lock()
	_, seen := r.processed[reference]
	if !seen {
		r.processed[reference] = amount
	}
	r.mu.Unlock()

	r.logger.Info().
		Str("reference", reference).
		Str("amount", amount.StringFixed(2)).
		Bool("replayed", seen).
		Msg("simulated transfer accepted")

	return nil
}

// Total returns the sum of distinct accepted transfers.
func (r *SimulatedRail) Total() decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := decimal.Zero
	for _, amount := range r.processed {
		total = total.Add(amount)
	}
	return total
}
