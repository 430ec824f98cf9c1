package store_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gopherdesk/contentd/internal/model"
	"github.com/gopherdesk/contentd/internal/store"
)

func TestRegisterAndIsWritable(t *testing.T) {
	assert := assert.New(t)

	s := store.New()
	s.RegisterNamespace("vault", true)
	s.RegisterNamespace("local", false)

	assert.True(s.IsWritable("vault"))
	assert.False(s.IsWritable("local"))
	assert.False(s.IsWritable("unknown"))
}

func TestPutDocumentAndGet(t *testing.T) {
	require := require.New(t)

	s := store.New()
	s.RegisterNamespace("local", false)
	s.PutDocument("local", "/welcome", "hello", "text/plain")

	node, ok := s.Get("local", "/welcome")
	require.True(ok)
	require.True(node.IsDocument())
	require.Equal("hello", node.Text)
}

func TestGetMissingSelectorIsAbsent(t *testing.T) {
	s := store.New()
	s.RegisterNamespace("local", false)

	_, ok := s.Get("local", "/nope")
	assert.False(t, ok)
}

func TestGetUnregisteredNamespaceIsAbsent(t *testing.T) {
	s := store.New()
	_, ok := s.Get("ghost", "/")
	assert.False(t, ok)
}

// Invariant #3: sync totality. Selectors absent from a fresh sync
// disappear.
func TestReplaceNamespaceDropsStaleSelectors(t *testing.T) {
	require := require.New(t)

	s := store.New()
	s.RegisterNamespace("vault", true)
	s.PutDocument("vault", "/a", "a", "text/plain")
	s.PutDocument("vault", "/b", "b", "text/plain")

	s.ReplaceNamespace("vault", map[string]model.ContentNode{
		"/a": model.NewDocument("a2", "text/plain"),
	})

	_, ok := s.Get("vault", "/b")
	require.False(ok)

	node, ok := s.Get("vault", "/a")
	require.True(ok)
	require.Equal("a2", node.Text)
}

func TestRemove(t *testing.T) {
	s := store.New()
	s.RegisterNamespace("vault", true)
	s.PutDocument("vault", "/a", "a", "text/plain")
	s.Remove("vault", "/a")

	_, ok := s.Get("vault", "/a")
	assert.False(t, ok)
}

func TestWithNamespaceWriteRejectsReadOnly(t *testing.T) {
	s := store.New()
	s.RegisterNamespace("local", false)

	err := s.WithNamespaceWrite("local", func() {})
	assert.Error(t, err)
}

// Invariant #2: concurrent put/get on the same key never observe a
// partial node — every read returns either the prior value, the new
// value, or absence.
func TestConcurrentPutGetNeverPartial(t *testing.T) {
	s := store.New()
	s.RegisterNamespace("vault", true)
	s.PutDocument("vault", "/x", "before", "text/plain")

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.PutDocument("vault", "/x", fmt.Sprintf("after-%d", i), "text/plain")
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			node, ok := s.Get("vault", "/x")
			if ok {
				assert.True(t, node.Text == "before" || len(node.Text) > 0)
			}
		}
	}()

	wg.Wait()
}

func TestNamespacesListsRegistered(t *testing.T) {
	s := store.New()
	s.RegisterNamespace("local", false)
	s.RegisterNamespace("vault", true)

	assert.ElementsMatch(t, []string{"local", "vault"}, s.Namespaces())
}
