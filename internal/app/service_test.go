package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jaminalder/tictactoe-history/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimal renderer for tests: encode current move as bytes
func testRenderer(gs GameState) []byte { return []byte(fmt.Sprintf("move=%d", gs.Game.Current)) }

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	s := NewService(WithRenderer(testRenderer))
	gs, err := s.CreateGame()
	require.NoError(t, err)
	return s, gs.ID
}

func TestCreateAndGet(t *testing.T) {
	s := NewService(WithRenderer(testRenderer))
	gs, err := s.CreateGame()
	require.NoError(t, err)
	require.NotEmpty(t, gs.ID)
	assert.Equal(t, domain.X, gs.Game.Next())
	assert.False(t, gs.Created.IsZero())
	assert.False(t, gs.Updated.IsZero())

	got, ok := s.Get(gs.ID)
	require.True(t, ok)
	assert.Equal(t, gs.ID, got.ID)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestUnknownGame(t *testing.T) {
	s := NewService()
	_, _, err := s.Play("missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.JumpTo("missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Reset("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = s.Subscribe(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlayCelebratesOnce(t *testing.T) {
	s, id := newTestService(t)
	for _, i := range []int{0, 1, 3, 4} {
		_, c, err := s.Play(id, i)
		require.NoError(t, err)
		require.Nil(t, c)
	}

	st, c, err := s.Play(id, 6)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, DefaultCelebration, *c)
	assert.Equal(t, domain.X, st.Game.Winner)

	// further plays are rejected and never celebrate again
	st, c, err = s.Play(id, 8)
	assert.ErrorIs(t, err, domain.ErrGameOver)
	assert.Nil(t, c)
	require.NotNil(t, st)
	assert.Equal(t, 5, st.Game.Current)
}

func TestRejectedPlayLeavesStateUnchanged(t *testing.T) {
	s, id := newTestService(t)
	_, _, err := s.Play(id, 4)
	require.NoError(t, err)
	before, _ := s.Get(id)

	st, _, err := s.Play(id, 4)
	assert.ErrorIs(t, err, domain.ErrOccupied)
	assert.Equal(t, before.Game, st.Game)
	assert.Equal(t, before.Updated, st.Updated)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s, id := newTestService(t)
	st, _, err := s.Play(id, 0)
	require.NoError(t, err)

	st.Game.History[1][5] = domain.O
	latest, _ := s.Get(id)
	assert.Equal(t, domain.Empty, latest.Game.History[1][5])
}

func TestJumpAndResetScenario(t *testing.T) {
	s, id := newTestService(t)
	for _, i := range []int{0, 1, 3, 4, 6} {
		_, _, err := s.Play(id, i)
		require.NoError(t, err)
	}

	st, err := s.JumpTo(id, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Game.Current)
	assert.Equal(t, domain.X, st.Game.Winner)

	_, err = s.JumpTo(id, 9)
	assert.ErrorIs(t, err, domain.ErrNoSuchMove)

	st, err = s.Reset(id)
	require.NoError(t, err)
	assert.Equal(t, domain.New(), st.Game)
}

func TestSubscribeAndBroadcast(t *testing.T) {
	s, id := newTestService(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()
	ch, unsub, err := s.Subscribe(ctx, id)
	require.NoError(t, err)
	defer unsub()

	// Trigger an update: X plays
	_, _, err = s.Play(id, 0)
	require.NoError(t, err)

	select {
	case b, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		assert.Equal(t, "move=1", string(b))
	case <-ctx.Done():
		t.Fatalf("timed out waiting for broadcast")
	}
}

func TestRejectedIntentDoesNotBroadcast(t *testing.T) {
	s, id := newTestService(t)
	ch, unsub, err := s.Subscribe(context.Background(), id)
	require.NoError(t, err)
	defer unsub()

	_, _, err = s.Play(id, 12)
	require.ErrorIs(t, err, domain.ErrOutOfBounds)

	select {
	case b := <-ch:
		t.Fatalf("unexpected broadcast %q", b)
	default:
	}
}

func TestDropSlowSubscriber(t *testing.T) {
	s, id := newTestService(t)

	// Slow subscriber: never read
	ctxSlow, cancelSlow := context.WithCancel(context.Background())
	defer cancelSlow()
	slowCh, _, err := s.Subscribe(ctxSlow, id)
	require.NoError(t, err)

	// Fast subscriber: will read
	ctxFast, cancelFast := context.WithTimeout(context.Background(), time.Second*2)
	defer cancelFast()
	fastCh, unsubFast, err := s.Subscribe(ctxFast, id)
	require.NoError(t, err)
	defer unsubFast()

	_, _, err = s.Play(id, 0)
	require.NoError(t, err)
	<-fastCh
	_, _, err = s.Play(id, 4)
	require.NoError(t, err)
	<-fastCh

	// The slow channel holds the first payload and was closed on the second.
	b, ok := <-slowCh
	assert.True(t, ok)
	assert.Equal(t, "move=1", string(b))
	_, ok = <-slowCh
	assert.False(t, ok)
}

func TestUnsubscribeOnContextDone(t *testing.T) {
	s, id := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	ch, _, err := s.Subscribe(ctx, id)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatalf("channel not closed after cancel")
	}
}

func TestUnsubscribeDuringFanOut(t *testing.T) {
	s, id := newTestService(t)
	for round := 0; round < 500; round++ {
		_, unsub, err := s.Subscribe(context.Background(), id)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Reset(id)
		}()
		go func() {
			defer wg.Done()
			unsub()
		}()
		wg.Wait()
		unsub()
	}
}

func TestSlowSubscriberDropRacesUnsubscribe(t *testing.T) {
	s, id := newTestService(t)
	for round := 0; round < 200; round++ {
		_, unsub, err := s.Subscribe(context.Background(), id)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(3)
		for i := 0; i < 2; i++ {
			go func() {
				defer wg.Done()
				_, _ = s.Reset(id)
			}()
		}
		go func() {
			defer wg.Done()
			unsub()
		}()
		wg.Wait()
	}
}

func TestReapRemovesIdleGames(t *testing.T) {
	s := NewService(WithRenderer(testRenderer))
	idle, err := s.CreateGame()
	require.NoError(t, err)
	ch, _, err := s.Subscribe(context.Background(), idle.ID)
	require.NoError(t, err)

	cutoff := time.Now().Add(time.Millisecond)
	for time.Now().Before(cutoff) {
		time.Sleep(time.Millisecond)
	}
	active, err := s.CreateGame()
	require.NoError(t, err)

	assert.Equal(t, 1, s.Reap(cutoff))
	_, ok := s.Get(idle.ID)
	assert.False(t, ok)
	_, ok = s.Get(active.ID)
	assert.True(t, ok)

	_, open := <-ch
	assert.False(t, open)

	_, _, err = s.Play(idle.ID, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReapKeepsRecentlyPlayedGames(t *testing.T) {
	s, id := newTestService(t)
	cutoff := time.Now().Add(time.Millisecond)
	for time.Now().Before(cutoff) {
		time.Sleep(time.Millisecond)
	}
	_, _, err := s.Play(id, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Reap(cutoff))
	_, ok := s.Get(id)
	assert.True(t, ok)
}

func TestRunReaperStopsWithContext(t *testing.T) {
	s, id := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunReaper(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, ok := s.Get(id)
		return !ok
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("reaper did not stop")
	}
}

func TestRunReaperDisabled(t *testing.T) {
	s := NewService()
	s.RunReaper(context.Background(), 0)
}
