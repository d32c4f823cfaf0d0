package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseAggregateRoot_PersistedVersion(t *testing.T) {
	t.Run("fresh aggregate has no persisted version", func(t *testing.T) {
		root := NewBaseAggregateRoot()
		assert.Equal(t, 1, root.GetVersion())
		assert.Equal(t, 0, root.PersistedVersion())
	})

	t.Run("mark persisted pins the current version", func(t *testing.T) {
		root := NewBaseAggregateRoot()
		root.MarkPersisted()
		assert.Equal(t, 1, root.PersistedVersion())

		// several mutations before the next save move Version ahead while
		// the persisted version stays at the loaded value
		root.IncrementVersion()
		root.IncrementVersion()
		assert.Equal(t, 3, root.GetVersion())
		assert.Equal(t, 1, root.PersistedVersion())

		root.MarkPersisted()
		assert.Equal(t, 3, root.PersistedVersion())
	})

	t.Run("load hook captures the row version", func(t *testing.T) {
		root := BaseAggregateRoot{Version: 7}
		assert.NoError(t, root.AfterFind(nil))
		assert.Equal(t, 7, root.PersistedVersion())
	})
}
