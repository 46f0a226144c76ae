package interests

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

const epsilon = 1e-9

func newTestUpdater(t *testing.T, backend Backend) (*Updater, *Store) {
	t.Helper()
	logger := zerolog.Nop()
	cfg := NewDefaultConfig()
	store := NewStore(&logger, backend, &cfg)
	return NewUpdater(&logger, store, &cfg), store
}

func TestUpdater_Update_DiminishingReturns(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		initial    float64
		multiplier float64
	}{
		{name: "from zero", initial: 0, multiplier: 1},
		{name: "from ten", initial: 10, multiplier: 3},
		{name: "from fifty", initial: 50, multiplier: 5},
		{name: "clamped at max", initial: 99.9, multiplier: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewMemoryBackend()
			_ = backend.Save(ctx, Map{"ai": tt.initial})
			updater, store := newTestUpdater(t, backend)

			if !updater.Update(ctx, []string{"ai"}, tt.multiplier) {
				t.Fatal("expected update to be written")
			}

			want := math.Min(100, tt.initial+tt.multiplier/(1+0.1*tt.initial))
			got := store.Get(ctx)["ai"]
			if math.Abs(got-want) > epsilon {
				t.Errorf("weight = %.6f, want %.6f", got, want)
			}
			if got < tt.initial {
				t.Errorf("weight decreased from %.6f to %.6f", tt.initial, got)
			}
		})
	}
}

func TestUpdater_Update_NormalizesTags(t *testing.T) {
	ctx := context.Background()
	updater, store := newTestUpdater(t, NewMemoryBackend())

	updater.Update(ctx, []string{"  AI ", "ai", "", "   ", "Space"}, 1)

	got := store.Get(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 keywords, got %v", got)
	}
	// Duplicates within one call count once.
	if math.Abs(got["ai"]-1) > epsilon {
		t.Errorf("ai = %.6f, want 1", got["ai"])
	}
	if math.Abs(got["space"]-1) > epsilon {
		t.Errorf("space = %.6f, want 1", got["space"])
	}
}

func TestUpdater_Update_NoOp(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		tags       []string
		multiplier float64
	}{
		{name: "zero multiplier", tags: []string{"ai"}, multiplier: 0},
		{name: "no tags", tags: nil, multiplier: 1},
		{name: "blank tags", tags: []string{" ", ""}, multiplier: 1},
		{name: "nan multiplier", tags: []string{"ai"}, multiplier: math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updater, store := newTestUpdater(t, NewMemoryBackend())
			if updater.Update(ctx, tt.tags, tt.multiplier) {
				t.Error("expected no write")
			}
			if got := store.Get(ctx); len(got) != 0 {
				t.Errorf("expected empty map, got %v", got)
			}
		})
	}
}

func TestUpdater_Update_FailedWriteLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{MemoryBackend: NewMemoryBackend()}
	_ = backend.MemoryBackend.Save(ctx, Map{"ai": 5})
	updater, store := newTestUpdater(t, backend)

	backend.failSave = true
	if updater.Update(ctx, []string{"ai", "space"}, 3) {
		t.Fatal("expected update to report failure")
	}

	got := store.Get(ctx)
	if len(got) != 1 || got["ai"] != 5 {
		t.Errorf("expected store to be unchanged, got %v", got)
	}
}

func TestUpdater_FailedReadLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	seed := Map{"ai": 40, "space": 25, "go": 12}

	tests := []struct {
		name string
		run  func(u *Updater)
	}{
		{name: "update", run: func(u *Updater) { u.Update(ctx, []string{"sports"}, 1) }},
		{name: "merge", run: func(u *Updater) { u.Merge(ctx, Map{"remote": 3}) }},
		{name: "decay", run: func(u *Updater) { u.Decay(ctx) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &flakyBackend{MemoryBackend: NewMemoryBackend()}
			_ = backend.MemoryBackend.Save(ctx, seed)
			updater, store := newTestUpdater(t, backend)

			backend.failLoad = true
			tt.run(updater)
			backend.failLoad = false

			if backend.saves != 0 {
				t.Errorf("expected no writes after a failed read, got %d", backend.saves)
			}
			got := store.Get(ctx)
			if len(got) != len(seed) {
				t.Fatalf("stored profile changed after a failed read: %v", got)
			}
			for k, w := range seed {
				if got[k] != w {
					t.Errorf("%s = %.2f, want %.2f", k, got[k], w)
				}
			}
		})
	}
}

func TestUpdater_Update_FailedReadReportsNoWrite(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{MemoryBackend: NewMemoryBackend(), failLoad: true}
	updater, _ := newTestUpdater(t, backend)

	if updater.Update(ctx, []string{"ai"}, 1) {
		t.Error("expected update to report failure")
	}
	if added := updater.Merge(ctx, Map{"ai": 1}); added != 0 {
		t.Errorf("added = %d, want 0", added)
	}
}

func TestUpdater_Update_Concurrent(t *testing.T) {
	ctx := context.Background()
	updater, store := newTestUpdater(t, NewMemoryBackend())

	const workers = 50
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			updater.Update(ctx, []string{"ai"}, 1)
		}()
	}
	wg.Wait()

	// Replay the same sequence serially to get the expected weight.
	want := 0.0
	for range workers {
		want = math.Min(100, want+1/(1+0.1*want))
	}

	got := store.Get(ctx)["ai"]
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("weight = %.6f, want %.6f (lost updates)", got, want)
	}
}

func TestUpdater_Decay(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	_ = backend.Save(ctx, Map{"ai": 10, "space": 0.1, "go": 0.05, "rust": 0.2})
	updater, store := newTestUpdater(t, backend)

	updater.Decay(ctx)
	got := store.Get(ctx)

	if _, ok := got["space"]; ok {
		t.Error("expected weight 0.1 to be pruned")
	}
	if _, ok := got["go"]; ok {
		t.Error("expected weight 0.05 to be pruned")
	}
	if math.Abs(got["ai"]-9.5) > epsilon {
		t.Errorf("ai = %.6f, want 9.5", got["ai"])
	}
	if math.Abs(got["rust"]-0.19) > epsilon {
		t.Errorf("rust = %.6f, want 0.19", got["rust"])
	}
}

func TestUpdater_Decay_TwiceEqualsSquaredFactor(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	_ = backend.Save(ctx, Map{"ai": 40, "space": 3})
	updater, store := newTestUpdater(t, backend)

	updater.Decay(ctx)
	updater.Decay(ctx)
	got := store.Get(ctx)

	if math.Abs(got["ai"]-40*0.9025) > epsilon {
		t.Errorf("ai = %.6f, want %.6f", got["ai"], 40*0.9025)
	}
	if math.Abs(got["space"]-3*0.9025) > epsilon {
		t.Errorf("space = %.6f, want %.6f", got["space"], 3*0.9025)
	}
}

func TestUpdater_Decay_EmptyMapDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{MemoryBackend: NewMemoryBackend()}
	updater, _ := newTestUpdater(t, backend)

	updater.Decay(ctx)
	updater.Decay(ctx)

	if backend.saves != 0 {
		t.Errorf("expected no saves for empty map, got %d", backend.saves)
	}
}

func TestUpdater_Merge_LocalWins(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	_ = backend.Save(ctx, Map{"ai": 10})
	updater, store := newTestUpdater(t, backend)

	added := updater.Merge(ctx, Map{"AI": 80, "space": 7, "zero": 0, "huge": 500})
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	got := store.Get(ctx)
	if got["ai"] != 10 {
		t.Errorf("ai = %.2f, expected local value 10 to win", got["ai"])
	}
	if got["space"] != 7 {
		t.Errorf("space = %.2f, want 7", got["space"])
	}
	if got["huge"] != 100 {
		t.Errorf("huge = %.2f, expected clamp to 100", got["huge"])
	}
	if _, ok := got["zero"]; ok {
		t.Error("expected zero-weight remote entry to be skipped")
	}
}

func TestStore_FailsSoft(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()
	cfg := NewDefaultConfig()
	backend := &flakyBackend{MemoryBackend: NewMemoryBackend(), failLoad: true, failCount: true}
	store := NewStore(&logger, backend, &cfg)

	if got := store.Get(ctx); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil map, got %v", got)
	}
	if got := store.GetReadCount(ctx); got != 0 {
		t.Errorf("expected zero read count, got %d", got)
	}
	store.IncrementReadCount(ctx)
}

func TestStore_SanitizesCorruptEntries(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	_ = backend.Save(ctx, Map{"ok": 5, "nan": math.NaN(), "inf": math.Inf(1), "neg": -3, "": 4})
	_, store := newTestUpdater(t, backend)

	got := store.Get(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 valid entries, got %v", got)
	}
	if got["neg"] != 0 {
		t.Errorf("neg = %.2f, expected clamp to 0", got["neg"])
	}
}

func TestStore_Load(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{MemoryBackend: NewMemoryBackend()}
	_ = backend.MemoryBackend.Save(ctx, Map{"ai": 5})
	_ = backend.MemoryBackend.IncrementReadCount(ctx)
	_, store := newTestUpdater(t, backend)

	if m, ok := store.Load(ctx); !ok || m["ai"] != 5 {
		t.Errorf("Load() = %v, %v", m, ok)
	}
	if n, ok := store.LoadReadCount(ctx); !ok || n != 1 {
		t.Errorf("LoadReadCount() = %d, %v", n, ok)
	}

	backend.failLoad = true
	backend.failCount = true
	if m, ok := store.Load(ctx); ok || m == nil || len(m) != 0 {
		t.Errorf("Load() on failing backend = %v, %v", m, ok)
	}
	if _, ok := store.LoadReadCount(ctx); ok {
		t.Error("expected LoadReadCount to report failure")
	}
}

func TestStore_CollidingKeysKeepLargestWeight(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	_ = backend.Save(ctx, Map{"AI": 3, "ai": 7, " Ai ": 5})
	_, store := newTestUpdater(t, backend)

	// Repeat to cover different map iteration orders.
	for range 20 {
		got := store.Get(ctx)
		if len(got) != 1 || got["ai"] != 7 {
			t.Fatalf("expected {ai:7}, got %v", got)
		}
	}
}

type flakyBackend struct {
	*MemoryBackend
	failLoad  bool
	failSave  bool
	failCount bool
	saves     int
}

var errUnavailable = errors.New("backend unavailable")

func (b *flakyBackend) Load(ctx context.Context) (Map, error) {
	if b.failLoad {
		return nil, errUnavailable
	}
	return b.MemoryBackend.Load(ctx)
}

func (b *flakyBackend) Save(ctx context.Context, m Map) error {
	b.saves++
	if b.failSave {
		return errUnavailable
	}
	return b.MemoryBackend.Save(ctx, m)
}

func (b *flakyBackend) ReadCount(ctx context.Context) (int64, error) {
	if b.failCount {
		return 0, errUnavailable
	}
	return b.MemoryBackend.ReadCount(ctx)
}

func (b *flakyBackend) IncrementReadCount(ctx context.Context) error {
	if b.failCount {
		return errUnavailable
	}
	return b.MemoryBackend.IncrementReadCount(ctx)
}
