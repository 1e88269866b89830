package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kapu/collabhub-go/internal/domain"
	"go.uber.org/zap"
)

type fakeCache struct {
	values map[string][]byte
	ttls   map[string]time.Duration
	err    error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		values: make(map[string][]byte),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeCache) Get(_ context.Context, key string, dest any) error {
	if f.err != nil {
		return f.err
	}
	raw, ok := f.values[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = raw
	f.ttls[key] = ttl
	return nil
}

func (f *fakeCache) DelMany(_ context.Context, keys []string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return n, nil
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemory(),
		"redis":  NewRedis(newFakeCache(), "sess-1", time.Hour, zap.NewNop()),
	}
}

func TestStoreStartsEmpty(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		inf, err := s.InfluencerProfile(ctx)
		if err != nil || inf != nil {
			t.Fatalf("%s: expected no influencer profile, got %v, %v", name, inf, err)
		}
		brand, err := s.BrandProfile(ctx)
		if err != nil || brand != nil {
			t.Fatalf("%s: expected no brand profile, got %v, %v", name, brand, err)
		}
	}
}

func TestStoreSetThenReadAndClear(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		p := &domain.InfluencerProfile{ID: "a", Name: "Asha", ProfileCompletion: 85, Tags: []string{"Food"}}
		if err := s.SetInfluencerProfile(ctx, p); err != nil {
			t.Fatalf("%s: set failed: %v", name, err)
		}
		got, err := s.InfluencerProfile(ctx)
		if err != nil {
			t.Fatalf("%s: read failed: %v", name, err)
		}
		if got == nil || got.Name != "Asha" || got.ProfileCompletion != 85 {
			t.Fatalf("%s: unexpected profile %+v", name, got)
		}

		if err := s.SetInfluencerProfile(ctx, nil); err != nil {
			t.Fatalf("%s: clearing failed: %v", name, err)
		}
		got, _ = s.InfluencerProfile(ctx)
		if got != nil {
			t.Fatalf("%s: expected profile to be cleared, got %+v", name, got)
		}
	}
}

func TestStoreUpdateIsShallowMerge(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		if err := s.SetBrandProfile(ctx, &domain.BrandProfile{ID: "b", CompanyName: "Acme", GST: "G", EscrowBalance: 0}); err != nil {
			t.Fatalf("%s: set failed: %v", name, err)
		}
		industry := "Fashion"
		escrow := int64(5000)
		if err := s.UpdateBrandProfile(ctx, domain.BrandProfileUpdate{Industry: &industry, EscrowBalance: &escrow}); err != nil {
			t.Fatalf("%s: update failed: %v", name, err)
		}
		got, _ := s.BrandProfile(ctx)
		if got.Industry != "Fashion" || got.EscrowBalance != 5000 {
			t.Fatalf("%s: expected updated fields, got %+v", name, got)
		}
		if got.CompanyName != "Acme" || got.GST != "G" {
			t.Fatalf("%s: expected untouched fields to survive, got %+v", name, got)
		}
	}
}

func TestStoreUpdateWithoutProfileIsNoop(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		bio := "hello"
		if err := s.UpdateInfluencerProfile(ctx, domain.InfluencerProfileUpdate{Bio: &bio}); err != nil {
			t.Fatalf("%s: expected no error, got %v", name, err)
		}
		got, _ := s.InfluencerProfile(ctx)
		if got != nil {
			t.Fatalf("%s: expected update to leave store empty, got %+v", name, got)
		}
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	p := &domain.InfluencerProfile{Name: "Asha"}
	_ = s.SetInfluencerProfile(ctx, p)
	p.Name = "changed"

	got, _ := s.InfluencerProfile(ctx)
	got.Bio = "mutated"
	again, _ := s.InfluencerProfile(ctx)
	if again.Name != "Asha" || again.Bio != "" {
		t.Fatalf("expected store to hold its own copy, got %+v", again)
	}
}

func TestRedisUsesSessionScopedKeysWithTTL(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	s := NewRedis(cache, "abc", 30*time.Minute, zap.NewNop())

	_ = s.SetInfluencerProfile(ctx, &domain.InfluencerProfile{Name: "x"})
	_ = s.SetBrandProfile(ctx, &domain.BrandProfile{CompanyName: "y"})

	if ttl := cache.ttls["collabhub:session:abc:influencer"]; ttl != 30*time.Minute {
		t.Fatalf("expected influencer key with session TTL, got %v (keys %v)", ttl, cache.ttls)
	}
	if _, ok := cache.values["collabhub:session:abc:brand"]; !ok {
		t.Fatalf("expected brand key to be written, got %v", cache.values)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if len(cache.values) != 0 {
		t.Fatalf("expected all session keys deleted, got %v", cache.values)
	}
}

func TestRedisPropagatesBackendErrors(t *testing.T) {
	cache := newFakeCache()
	cache.err = errors.New("connection refused")
	s := NewRedis(cache, "abc", time.Minute, zap.NewNop())

	if _, err := s.InfluencerProfile(context.Background()); err == nil {
		t.Fatalf("expected backend error to surface")
	}
}

func TestContextProvider(t *testing.T) {
	if _, err := FromContext(context.Background()); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}

	s := NewMemory()
	ctx := NewContext(context.Background(), s)
	got, err := FromContext(ctx)
	if err != nil || got != s {
		t.Fatalf("expected installed store, got %v, %v", got, err)
	}
	if MustFromContext(ctx) != s {
		t.Fatalf("expected MustFromContext to return installed store")
	}
}

func TestMustFromContextPanicsWithoutProvider(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic outside a provider")
		}
	}()
	MustFromContext(context.Background())
}
