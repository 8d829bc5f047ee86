package session

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sliderule/pkg/errors"
	"github.com/matzehuels/sliderule/pkg/render/surface"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newRule(t *testing.T) *sliderule.SlideRule {
	t.Helper()
	r, err := sliderule.New(sliderule.WithLogger(log.New(io.Discard)), sliderule.WithSurfaces(surface.NewRecorder))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestCreateGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	rule := newRule(t)

	sess, err := store.Create(ctx, rule, Meta{Name: "Classic", InstrumentHash: "abc"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(sess.ID); err != nil {
		t.Errorf("session ID %q is not a UUID: %v", sess.ID, err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rule != rule || got.Meta.Name != "Classic" {
		t.Errorf("Get returned %+v", got)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("Get after Delete err = %v", err)
	}
	if err := store.Delete(ctx, sess.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("second Delete err = %v", err)
	}
}

func TestCreateRequiresRule(t *testing.T) {
	if _, err := NewStore().Create(context.Background(), nil, Meta{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v", err)
	}
}

func TestGetUnknown(t *testing.T) {
	store := NewStore()
	for _, id := range []string{"", "not-a-uuid", uuid.NewString()} {
		if _, err := store.Get(context.Background(), id); !errors.Is(err, errors.ErrCodeSessionNotFound) {
			t.Errorf("Get(%q) err = %v", id, err)
		}
	}
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewStore(WithTTL(time.Minute), WithClock(clock.Now))

	sess, err := store.Create(ctx, newRule(t), Meta{})
	if err != nil {
		t.Fatal(err)
	}

	clock.Advance(50 * time.Second)
	if _, err := store.Get(ctx, sess.ID); err != nil {
		t.Fatalf("session expired early: %v", err)
	}

	// Access extended the lifetime.
	clock.Advance(50 * time.Second)
	if _, err := store.Get(ctx, sess.ID); err != nil {
		t.Fatalf("access should extend the lifetime: %v", err)
	}

	clock.Advance(61 * time.Second)
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("expired session err = %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("expired session should stay until cleanup, len = %d", store.Len())
	}
	if n := store.Cleanup(ctx); n != 1 {
		t.Errorf("Cleanup removed %d, want 1", n)
	}
	if store.Len() != 0 {
		t.Errorf("len after cleanup = %d", store.Len())
	}
}

func TestSessionLimit(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(0, 0)}
	store := NewStore(WithMaxSessions(2), WithTTL(time.Minute), WithClock(clock.Now))
	rule := newRule(t)

	for i := 0; i < 2; i++ {
		if _, err := store.Create(ctx, rule, Meta{}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.Create(ctx, rule, Meta{}); !errors.Is(err, errors.ErrCodeSessionLimit) {
		t.Fatalf("err = %v, want SESSION_LIMIT", err)
	}

	// Expired sessions make room.
	clock.Advance(2 * time.Minute)
	if _, err := store.Create(ctx, rule, Meta{}); err != nil {
		t.Errorf("create after expiry: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("len = %d, want 1", store.Len())
	}
}

func TestRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewStore(WithTTL(time.Nanosecond))
	if _, err := store.Create(ctx, newRule(t), Meta{}); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		store.Run(ctx, time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for store.Len() > 0 {
		select {
		case <-deadline:
			t.Fatal("Run did not clean up the expired session")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	rule := newRule(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := store.Create(ctx, rule, Meta{})
			if err != nil {
				t.Error(err)
				return
			}
			if _, err := store.Get(ctx, sess.ID); err != nil {
				t.Error(err)
			}
			store.Cleanup(ctx)
			if err := store.Delete(ctx, sess.ID); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if store.Len() != 0 {
		t.Errorf("len = %d", store.Len())
	}
}
