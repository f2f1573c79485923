package core

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Pointing/internal/domain"
)

func TestCreateRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(domain.ScaleAny)
	_, err := reg.Create("R1", 3, "A", "Alice", &fakeConn{})
	require.NoError(t, err)

	_, err = reg.Create("R1", 3, "B", "Bob", &fakeConn{})
	assert.ErrorIs(t, err, domain.ErrRoomExists)
}

func TestConcurrentCreateHasOneWinner(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(domain.ScaleAny)

	const callers = 16
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = reg.Create("contested", 3, domain.Identity(fmt.Sprintf("id-%d", i)), "someone", &fakeConn{})
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, domain.ErrRoomExists)
		}
	}
	assert.Equal(t, 1, won)
}

func TestRemoveFreesTheID(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(domain.ScaleAny)
	sess, err := reg.Create("R1", 3, "A", "Alice", &fakeConn{})
	require.NoError(t, err)

	reg.Remove("R1", sess)
	_, ok := reg.Get("R1")
	assert.False(t, ok)

	_, err = reg.Create("R1", 3, "B", "Bob", &fakeConn{})
	assert.NoError(t, err)
}

func TestStaleRemoveKeepsRecreatedRoom(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(domain.ScaleAny)
	first, err := reg.Create("R1", 3, "A", "Alice", &fakeConn{})
	require.NoError(t, err)

	// An admin close and a sweep can both see the same closed session;
	// one of them frees the id, someone re-creates it, and then the
	// straggler's removal arrives.
	require.NoError(t, first.Close("A"))
	reg.Remove("R1", first)

	second, err := reg.Create("R1", 3, "B", "Bob", &fakeConn{})
	require.NoError(t, err)

	reg.Remove("R1", first)

	got, ok := reg.Get("R1")
	require.True(t, ok, "re-created room must survive a stale removal")
	assert.Same(t, second, got)
}

func TestCreateValidatesInput(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(domain.ScaleAny)

	_, err := reg.Create("", 3, "A", "Alice", &fakeConn{})
	assert.Error(t, err)

	_, err = reg.Create("R1", 3, "A", "", &fakeConn{})
	assert.ErrorIs(t, err, domain.ErrNameEmpty)
	_, ok := reg.Get("R1")
	assert.False(t, ok)
}

func TestListReportsParticipantCounts(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(domain.ScaleAny)
	sess, err := reg.Create("R1", 3, "A", "Alice", &fakeConn{})
	require.NoError(t, err)
	_, err = sess.Join("B", "Bob", &fakeConn{})
	require.NoError(t, err)
	_, err = reg.Create("R2", 3, "C", "Carol", &fakeConn{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []domain.RoomID{"R1", "R2"}, reg.ListIDs())
	assert.ElementsMatch(t, []RoomInfo{
		{ID: "R1", ParticipantCount: 2},
		{ID: "R2", ParticipantCount: 1},
	}, reg.List())
}
