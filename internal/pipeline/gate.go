package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"
)

// Clock supplies the current time; tests pin it.
type Clock func() time.Time

// CreditGate reads the stored balance and refuses degenerate or unaffordable
// spend authorizations. It never debits.
type CreditGate struct {
	store     domain.CreditStore
	minCredit int
	band      int
}

func NewCreditGate(store domain.CreditStore, minCredit, band int) *CreditGate {
	return &CreditGate{store: store, minCredit: minCredit, band: band}
}

func (g *CreditGate) Check(ctx context.Context, userID string, maxCredit int) error {
	credit, err := g.store.LoadCredit(ctx, userID)
	if err != nil {
		return err
	}

	// maxCredit must fall strictly inside the configured band.
	if maxCredit <= g.minCredit || maxCredit >= g.band {
		return domain.NewClientError("Wrong credit request", http.StatusBadRequest, domain.CodeCreditBand).
			WithDetails(map[string]any{"min": g.minCredit, "band": g.band})
	}

	if credit < maxCredit {
		return domain.NewClientError("Out of credit", http.StatusForbidden, domain.CodeOutOfCredit)
	}
	return nil
}

// CooldownGate answers "has enough time elapsed since the last request of
// this kind". Checking has no side effects; recording the new timestamp is a
// separate explicit step so failed downstream work never consumes budget.
type CooldownGate struct {
	store domain.CooldownStore
	now   Clock
}

func NewCooldownGate(store domain.CooldownStore, now Clock) *CooldownGate {
	if now == nil {
		now = time.Now
	}
	return &CooldownGate{store: store, now: now}
}

func (g *CooldownGate) Check(ctx context.Context, userID, purpose string, cooldownSec int64) error {
	last, err := g.store.LoadLastRequestTime(ctx, userID, purpose)
	if err != nil {
		return err
	}

	elapsed := g.now().UTC().Unix() - last
	if elapsed < cooldownSec {
		slog.Warn("cooldown rejected",
			"user_id", userID, "purpose", purpose, "elapsed", elapsed, "cooldown", cooldownSec)
		return domain.NewClientError("Too many requests", http.StatusTooManyRequests, domain.CodeRateLimited).
			WithDetails(map[string]any{"purpose": purpose})
	}
	return nil
}

func (g *CooldownGate) Record(ctx context.Context, userID, purpose string) error {
	return g.store.RecordRequestTime(ctx, userID, purpose, g.now().UTC().Unix())
}

// Seed provisions the cooldown rows for a fresh account.
func (g *CooldownGate) Seed(ctx context.Context, userID string) error {
	return g.store.SeedPurposes(ctx, userID)
}
