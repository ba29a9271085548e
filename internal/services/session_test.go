package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipehub/recipebot-backend/internal/models"
)

func TestSessionManagerPutGetDelete(t *testing.T) {
	sm := NewSessionManager()

	_, exists := sm.Get("+15550001111")
	assert.False(t, exists)

	sess := models.NewSession("+15550001111", models.FlowRecipe, models.StateTitle)
	sm.Put(sess)

	got, exists := sm.Get("+15550001111")
	require.True(t, exists)
	assert.Equal(t, models.FlowRecipe, got.Flow)
	assert.Equal(t, models.StateTitle, got.State)
	assert.Equal(t, 1, sm.ActiveCount())

	// Put for the same user replaces, not accumulates
	sm.Put(models.NewSession("+15550001111", models.FlowBMI, models.StateHeight))
	got, _ = sm.Get("+15550001111")
	assert.Equal(t, models.FlowBMI, got.Flow)
	assert.Equal(t, 1, sm.ActiveCount())

	sm.Delete("+15550001111")
	_, exists = sm.Get("+15550001111")
	assert.False(t, exists)

	// Deleting again is a no-op
	sm.Delete("+15550001111")
	assert.Equal(t, 0, sm.ActiveCount())
}

func TestSessionManagerLockSerializesPerUser(t *testing.T) {
	sm := NewSessionManager()

	var order []int
	var mu sync.Mutex
	var wg sync.WaitGroup

	unlock := sm.Lock("+15550001111")

	wg.Add(1)
	go func() {
		defer wg.Done()
		u := sm.Lock("+15550001111")
		defer u()
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
	}()

	// Another user's lock is independent and must not block
	done := make(chan struct{})
	go func() {
		u := sm.Lock("+15550002222")
		u()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock of a different user blocked")
	}

	mu.Lock()
	order = append(order, 1)
	mu.Unlock()
	unlock()

	wg.Wait()
	assert.Equal(t, []int{1, 2}, order)
}

func TestExpireIdle(t *testing.T) {
	sm := NewSessionManager()

	stale := models.NewSession("+15550001111", models.FlowRecipe, models.StateTitle)
	stale.LastActive = time.Now().Add(-45 * time.Minute)
	sm.Put(stale)

	fresh := models.NewSession("+15550002222", models.FlowBMI, models.StateHeight)
	sm.Put(fresh)

	expired := sm.ExpireIdle(30 * time.Minute)
	assert.Equal(t, []string{"+15550001111"}, expired)

	_, exists := sm.Get("+15550001111")
	assert.False(t, exists)
	_, exists = sm.Get("+15550002222")
	assert.True(t, exists)

	// Nothing left to expire
	assert.Empty(t, sm.ExpireIdle(30*time.Minute))
}

func TestExpireIdleSkipsSessionsInFlight(t *testing.T) {
	sm := NewSessionManager()

	stale := models.NewSession("+15550001111", models.FlowRecipe, models.StateTitle)
	stale.LastActive = time.Now().Add(-time.Hour)
	sm.Put(stale)

	// The ordering lock is held while an event is being processed, and a
	// session with an event in flight must not be swept out from under it.
	unlock := sm.Lock("+15550001111")
	assert.Empty(t, sm.ExpireIdle(30*time.Minute))
	_, exists := sm.Get("+15550001111")
	assert.True(t, exists)
	unlock()

	assert.Equal(t, []string{"+15550001111"}, sm.ExpireIdle(30*time.Minute))
}

func TestExpireIdlePrunesOrderingLocks(t *testing.T) {
	sm := NewSessionManager()

	stale := models.NewSession("+15550001111", models.FlowRecipe, models.StateTitle)
	stale.LastActive = time.Now().Add(-time.Hour)
	sm.Put(stale)

	unlock := sm.Lock("+15550001111")
	unlock()

	sm.ExpireIdle(30 * time.Minute)

	sm.locksMu.Lock()
	_, exists := sm.locks["+15550001111"]
	sm.locksMu.Unlock()
	assert.False(t, exists, "ordering lock of an expired session lingers")

	// Locking again after pruning works and yields a usable mutex
	unlock = sm.Lock("+15550001111")
	unlock()
}

func TestSessionTouchUpdatesLastActive(t *testing.T) {
	sess := models.NewSession("+15550001111", models.FlowRecipe, models.StateTitle)
	before := sess.LastActive

	time.Sleep(5 * time.Millisecond)
	sess.Touch()

	assert.True(t, sess.LastActive.After(before))
}
