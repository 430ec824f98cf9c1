package fsadapter_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gopherdesk/contentd/internal/adapter/fsadapter"
	"github.com/gopherdesk/contentd/internal/contenterr"
	"github.com/gopherdesk/contentd/internal/store"
)

func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello a"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "notes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes", "b.md"), []byte("hello b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "photo.png"), []byte{0x89, 0x50, 0x4e, 0x47}, 0o644))
	return root
}

func TestSyncProjectsDirectoryTree(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	root := writeTree(t)
	a := fsadapter.New("vault", root, nil, true)
	s := store.New()

	require.NoError(a.Sync(context.Background(), s))

	rootNode, ok := s.Get("vault", "/")
	require.True(ok)
	require.True(rootNode.IsMenu())
	assert.Len(rootNode.Items, 3) // a.txt, notes/, photo.png

	doc, ok := s.Get("vault", "/a.txt")
	require.True(ok)
	assert.Equal("hello a", doc.Text)

	sub, ok := s.Get("vault", "/notes")
	require.True(ok)
	require.True(sub.IsMenu())
	assert.Len(sub.Items, 1)
}

func TestSyncIsIdempotent(t *testing.T) {
	require := require.New(t)

	root := writeTree(t)
	a := fsadapter.New("vault", root, nil, false)
	s := store.New()

	require.NoError(a.Sync(context.Background(), s))
	first, _ := s.Get("vault", "/")

	require.NoError(a.Sync(context.Background(), s))
	second, _ := s.Get("vault", "/")

	require.Equal(first, second)
}

func TestGophermapOverridesDirectory(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	root := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))
	gophermap := "iWelcome\t\t\t0\n1Custom Link\t/a.txt\tvault\t0\n"
	require.NoError(os.WriteFile(filepath.Join(root, ".gophermap"), []byte(gophermap), 0o644))

	a := fsadapter.New("vault", root, nil, false)
	s := store.New()
	require.NoError(a.Sync(context.Background(), s))

	node, ok := s.Get("vault", "/")
	require.True(ok)
	require.Len(node.Items, 2)
	assert.Equal("Welcome", node.Items[0].Display)
}

func TestPublishNewFileThenFetch(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	root := t.TempDir()
	a := fsadapter.New("vault", root, nil, true)
	s := store.New()
	require.NoError(a.Sync(context.Background(), s))

	action, err := a.Publish(context.Background(), s, "/notes/a.md", "hello")
	require.NoError(err)
	assert.Equal("published", action)

	doc, ok := s.Get("vault", "/notes/a.md")
	require.True(ok)
	assert.Equal("hello", doc.Text)

	action, err = a.Publish(context.Background(), s, "/notes/a.md", "hello again")
	require.NoError(err)
	assert.Equal("updated", action)
}

func TestPublishRejectsReadOnly(t *testing.T) {
	root := t.TempDir()
	a := fsadapter.New("vault", root, nil, false)
	s := store.New()

	_, err := a.Publish(context.Background(), s, "/a.txt", "x")
	assert.Equal(t, contenterr.NotWritable, contenterr.KindOf(err))
}

func TestPublishRejectsEscapingRoot(t *testing.T) {
	root := t.TempDir()
	a := fsadapter.New("vault", root, nil, true)
	s := store.New()

	_, err := a.Publish(context.Background(), s, "/../../etc/passwd", "x")
	assert.Equal(t, contenterr.InvalidPath, contenterr.KindOf(err))
}

func TestDeleteRemovesFile(t *testing.T) {
	require := require.New(t)

	root := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))

	a := fsadapter.New("vault", root, nil, true)
	s := store.New()
	require.NoError(a.Sync(context.Background(), s))

	require.NoError(a.Delete(context.Background(), s, "/a.txt"))

	_, ok := s.Get("vault", "/a.txt")
	require.False(ok)
}

func TestDeleteMissingFileIsNotFound(t *testing.T) {
	root := t.TempDir()
	a := fsadapter.New("vault", root, nil, true)
	s := store.New()
	require.NoError(t, a.Sync(context.Background(), s))

	err := a.Delete(context.Background(), s, "/missing.txt")
	assert.Equal(t, contenterr.NotFound, contenterr.KindOf(err))
}

func TestExtensionAllowList(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	root := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))
	require.NoError(os.WriteFile(filepath.Join(root, "b.md"), []byte("b"), 0o644))

	a := fsadapter.New("vault", root, []string{".txt"}, false)
	s := store.New()
	require.NoError(a.Sync(context.Background(), s))

	node, _ := s.Get("vault", "/")
	assert.Len(node.Items, 1)
	assert.Equal("a.txt", node.Items[0].Display)
}
