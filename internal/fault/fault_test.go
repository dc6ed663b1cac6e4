package fault

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_MatchesKindThroughWrapping(t *testing.T) {
	t.Parallel()

	base := New(FileOpenFailed, "grid", os.ErrNotExist)
	wrapped := fmt.Errorf("loading input: %w", base)

	assert.True(t, errors.Is(wrapped, FileOpenFailed))
	assert.False(t, errors.Is(wrapped, FileWriteFailed))
	assert.True(t, errors.Is(wrapped, os.ErrNotExist), "the OS cause must stay reachable")
	assert.Equal(t, FileOpenFailed, KindOf(wrapped))
}

func TestError_MessageCarriesSubsystemAndCause(t *testing.T) {
	t.Parallel()

	err := Newf(InvalidConfiguration, "partition", "%d workers for %d rows", 8, 3)
	require.EqualError(t, err, "partition: invalid configuration: 8 workers for 3 rows")

	bare := New(ThreadCreateFailed, "engine", nil)
	require.EqualError(t, bare, "engine: thread create failed")
}

func TestKindOf_UntaggedError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, "kind(42)", Kind(42).String())
}
