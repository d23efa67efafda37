package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

// StoreFactory builds a fresh store pre-seeded with the given rows.
// Each invocation must return an isolated store (no shared state).
type StoreFactory func(t *testing.T, seed domain.Dataset) ports.DatasetStore

// DatasetStoreContractTest is a reusable suite that verifies an adapter
// complies with the ports.DatasetStore semantics.
func DatasetStoreContractTest(t *testing.T, factory StoreFactory) {
	t.Helper()
	ctx := context.Background()

	seed := domain.Dataset{
		{ID: "alpha", Prompt: "What is a monad?", Response: "A burrito."},
		{ID: "beta", Prompt: "Sum 2+2", Response: "4"},
		{ID: "gamma", Prompt: "Name a color", Response: "Teal"},
	}

	t.Run("Load_RoundTrip", func(t *testing.T) {
		store := factory(t, seed)
		rows, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("unexpected load error: %v", err)
		}
		if len(rows) != len(seed) {
			t.Fatalf("expected %d rows, got %d", len(seed), len(rows))
		}
		for i, r := range rows {
			if r.ID != seed[i].ID || r.Prompt != seed[i].Prompt || r.Response != seed[i].Response {
				t.Errorf("row %d mismatch: got %+v, want %+v", i, r, seed[i])
			}
			if r.Label.IsSet() {
				t.Errorf("row %q should start unset, got %q", r.ID, r.Label)
			}
		}
	})

	t.Run("SetLabel_Durable", func(t *testing.T) {
		store := factory(t, seed)
		if err := store.SetLabel(ctx, "beta", domain.LabelYes); err != nil {
			t.Fatalf("SetLabel failed: %v", err)
		}

		rows, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		if got := rows.Find("beta").Label; got != domain.LabelYes {
			t.Errorf("label not persisted: got %q", got)
		}
		// Other rows untouched
		if rows.Find("alpha").Label.IsSet() || rows.Find("gamma").Label.IsSet() {
			t.Error("SetLabel mutated unrelated rows")
		}
	})

	t.Run("SetLabel_UnknownRow", func(t *testing.T) {
		store := factory(t, seed)
		err := store.SetLabel(ctx, "missing", domain.LabelNo)
		if !errors.Is(err, domain.ErrRowNotFound) {
			t.Errorf("expected ErrRowNotFound, got %v", err)
		}
	})

	t.Run("ClearLabels", func(t *testing.T) {
		store := factory(t, seed)
		if err := store.SetLabel(ctx, "alpha", domain.LabelNo); err != nil {
			t.Fatalf("SetLabel failed: %v", err)
		}
		if err := store.ClearLabels(ctx); err != nil {
			t.Fatalf("ClearLabels failed: %v", err)
		}

		rows, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		for _, r := range rows {
			if r.Label.IsSet() {
				t.Errorf("row %q still labeled after clear: %q", r.ID, r.Label)
			}
		}
		if len(rows) != len(seed) {
			t.Errorf("clear changed row count: got %d, want %d", len(rows), len(seed))
		}
	})
}
