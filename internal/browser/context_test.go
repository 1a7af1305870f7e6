// internal/browser/context_test.go
package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey string

func TestCombineContextInheritsPrimaryValues(t *testing.T) {
	primary := context.WithValue(context.Background(), ctxKey("target"), "tab-1")
	secondary := context.Background()

	combined, cancel := CombineContext(primary, secondary)
	defer cancel()

	assert.Equal(t, "tab-1", combined.Value(ctxKey("target")))
}

func TestCombineContextCancelsWithSecondary(t *testing.T) {
	primary := context.Background()
	secondary, secondaryCancel := context.WithCancel(context.Background())

	combined, cancel := CombineContext(primary, secondary)
	defer cancel()

	secondaryCancel()

	select {
	case <-combined.Done():
	case <-time.After(time.Second):
		t.Fatal("combined context not canceled after secondary cancellation")
	}
}

func TestCombineContextCancelsWithPrimary(t *testing.T) {
	primary, primaryCancel := context.WithCancel(context.Background())
	secondary := context.Background()

	combined, cancel := CombineContext(primary, secondary)
	defer cancel()

	primaryCancel()

	select {
	case <-combined.Done():
	case <-time.After(time.Second):
		t.Fatal("combined context not canceled after primary cancellation")
	}
	require.Error(t, combined.Err())
}
