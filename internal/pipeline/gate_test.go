package pipeline

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreditStore struct {
	credits map[string]int
	err     error
}

func (f *fakeCreditStore) LoadCredit(_ context.Context, userID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	credit, ok := f.credits[userID]
	if !ok {
		return 0, domain.NewClientError("User not found", http.StatusNotFound, domain.CodeUserNotFound)
	}
	return credit, nil
}

type fakeCooldownStore struct {
	timestamps map[string]int64
	recorded   []string
	seeded     []string
}

func cooldownKey(userID, purpose string) string {
	return userID + "/" + purpose
}

func (f *fakeCooldownStore) LoadLastRequestTime(_ context.Context, userID, purpose string) (int64, error) {
	ts, ok := f.timestamps[cooldownKey(userID, purpose)]
	if !ok {
		return 0, domain.NewClientError("User not found", http.StatusNotFound, domain.CodeUserNotFound)
	}
	return ts, nil
}

func (f *fakeCooldownStore) RecordRequestTime(_ context.Context, userID, purpose string, ts int64) error {
	if f.timestamps == nil {
		f.timestamps = make(map[string]int64)
	}
	f.timestamps[cooldownKey(userID, purpose)] = ts
	f.recorded = append(f.recorded, cooldownKey(userID, purpose))
	return nil
}

func (f *fakeCooldownStore) SeedPurposes(_ context.Context, userID string) error {
	f.seeded = append(f.seeded, userID)
	return nil
}

func TestCreditGatePasses(t *testing.T) {
	gate := NewCreditGate(&fakeCreditStore{credits: map[string]int{"u1": 50}}, 0, 1000)

	err := gate.Check(context.Background(), "u1", 10)
	assert.NoError(t, err)
}

func TestCreditGateBand(t *testing.T) {
	store := &fakeCreditStore{credits: map[string]int{"u1": 1_000_000}}
	gate := NewCreditGate(store, 0, 1000)

	// Outside the band is a 400 regardless of the stored balance.
	for _, maxCredit := range []int{-5, 0, 1000, 5000} {
		err := gate.Check(context.Background(), "u1", maxCredit)
		ce, ok := domain.AsClientError(err)
		require.True(t, ok, "maxCredit=%d", maxCredit)
		assert.Equal(t, http.StatusBadRequest, ce.HTTPStatus)
		assert.Equal(t, domain.CodeCreditBand, ce.Code)
	}

	// Band edges that are inside pass.
	assert.NoError(t, gate.Check(context.Background(), "u1", 1))
	assert.NoError(t, gate.Check(context.Background(), "u1", 999))
}

func TestCreditGateOutOfCredit(t *testing.T) {
	gate := NewCreditGate(&fakeCreditStore{credits: map[string]int{"u1": 5}}, 0, 1000)

	err := gate.Check(context.Background(), "u1", 10)
	ce, ok := domain.AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, ce.HTTPStatus)
	assert.Equal(t, "Out of credit", ce.Message)
}

func TestCreditGateUnknownUser(t *testing.T) {
	gate := NewCreditGate(&fakeCreditStore{credits: map[string]int{}}, 0, 1000)

	err := gate.Check(context.Background(), "ghost", 10)
	ce, ok := domain.AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, ce.HTTPStatus)
}

func TestCooldownGateBoundary(t *testing.T) {
	const cooldown = int64(3600)
	base := time.Unix(1_700_000_000, 0).UTC()

	store := &fakeCooldownStore{timestamps: map[string]int64{
		cooldownKey("u1", domain.PurposeSummary): base.Unix() - cooldown + 1, // elapsed = cooldown-1
		cooldownKey("u2", domain.PurposeSummary): base.Unix() - cooldown,     // elapsed = cooldown
	}}
	gate := NewCooldownGate(store, func() time.Time { return base })

	err := gate.Check(context.Background(), "u1", domain.PurposeSummary, cooldown)
	ce, ok := domain.AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, ce.HTTPStatus)

	assert.NoError(t, gate.Check(context.Background(), "u2", domain.PurposeSummary, cooldown))
}

func TestCooldownGateCheckHasNoSideEffects(t *testing.T) {
	const cooldown = int64(60)
	base := time.Unix(1_700_000_000, 0).UTC()

	store := &fakeCooldownStore{timestamps: map[string]int64{
		cooldownKey("u1", domain.PurposeUpload): base.Unix() - 10,
	}}
	gate := NewCooldownGate(store, func() time.Time { return base })

	first := gate.Check(context.Background(), "u1", domain.PurposeUpload, cooldown)
	second := gate.Check(context.Background(), "u1", domain.PurposeUpload, cooldown)

	// Same window, same verdict; nothing was recorded.
	assert.Equal(t, first, second)
	assert.Empty(t, store.recorded)
}

func TestCooldownGateUnprovisioned(t *testing.T) {
	gate := NewCooldownGate(&fakeCooldownStore{}, nil)

	err := gate.Check(context.Background(), "ghost", domain.PurposeSummary, 60)
	ce, ok := domain.AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, ce.HTTPStatus)
}

func TestCooldownGateRecord(t *testing.T) {
	base := time.Unix(1_700_000_000, 0).UTC()
	store := &fakeCooldownStore{}
	gate := NewCooldownGate(store, func() time.Time { return base })

	require.NoError(t, gate.Record(context.Background(), "u1", domain.PurposeSummary))
	assert.Equal(t, base.Unix(), store.timestamps[cooldownKey("u1", domain.PurposeSummary)])
}
