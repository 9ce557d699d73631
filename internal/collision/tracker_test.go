package collision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cscarchive/errs"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker(4)

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
}

func TestTracker_Track(t *testing.T) {
	tracker := NewTracker(0)

	require.NoError(t, tracker.Track("indptr", 0x1234567890abcdef))
	require.NoError(t, tracker.Track("indices", 0xfedcba0987654321))
	require.Equal(t, 2, tracker.Count())
	require.False(t, tracker.HasCollision())
}

func TestTracker_Track_EmptyKey(t *testing.T) {
	tracker := NewTracker(0)

	err := tracker.Track("", 1)
	require.ErrorIs(t, err, errs.ErrInvalidKey)
	require.Equal(t, 0, tracker.Count())
}

func TestTracker_Track_Duplicate(t *testing.T) {
	tracker := NewTracker(0)

	require.NoError(t, tracker.Track("indptr", 7))
	err := tracker.Track("indptr", 7)
	require.ErrorIs(t, err, errs.ErrDuplicateKey)
	require.ErrorContains(t, err, `"indptr"`)
	require.Equal(t, 1, tracker.Count())
}

func TestTracker_Track_Collision(t *testing.T) {
	tracker := NewTracker(0)

	require.NoError(t, tracker.Track("attr::a", 42))
	require.NoError(t, tracker.Track("attr::b", 42))
	require.NoError(t, tracker.Track("attr::c", 42))
	require.True(t, tracker.HasCollision())
	require.Equal(t, 2, tracker.Collisions())
	require.Equal(t, 3, tracker.Count())

	// a duplicate is still detected inside a shared bucket
	require.ErrorIs(t, tracker.Track("attr::b", 42), errs.ErrDuplicateKey)
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker(0)
	require.NoError(t, tracker.Track("a", 1))
	require.NoError(t, tracker.Track("b", 1))

	tracker.Reset()

	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.NoError(t, tracker.Track("a", 1))
}
