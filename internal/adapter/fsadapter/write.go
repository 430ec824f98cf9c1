package fsadapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopherdesk/contentd/internal/adapter"
	"github.com/gopherdesk/contentd/internal/contenterr"
	"github.com/gopherdesk/contentd/internal/store"
)

var _ adapter.Writable = (*Adapter)(nil)

// resolve turns a selector into an absolute filesystem path under Root,
// rejecting anything that would escape it.
func (a *Adapter) resolve(selector string) (string, error) {
	for _, seg := range strings.Split(selector, "/") {
		if seg == ".." {
			return "", contenterr.New(contenterr.InvalidPath, "fsadapter", selector, "selector contains a .. segment")
		}
	}
	clean := filepath.Clean("/" + selector)
	if clean == "/" {
		return "", contenterr.New(contenterr.InvalidPath, "fsadapter", selector, "selector names the namespace root")
	}
	rel := strings.TrimPrefix(clean, "/")
	full := filepath.Join(a.Root, rel)
	if !strings.HasPrefix(full, filepath.Clean(a.Root)+string(filepath.Separator)) {
		return "", contenterr.New(contenterr.InvalidPath, "fsadapter", selector, "selector escapes namespace root")
	}
	return full, nil
}

// Publish writes content to the file named by selector, creating parent
// directories as needed, using a temp-file-then-rename so a cancelled or
// failed write never leaves a partially-visible file. It then
// regenerates the affected menus by re-running Sync.
func (a *Adapter) Publish(ctx context.Context, s *store.LocalStore, selector, content string) (string, error) {
	if !a.Writable {
		return "", contenterr.New(contenterr.NotWritable, "fsadapter.Publish", selector, "namespace is read-only")
	}
	full, err := a.resolve(selector)
	if err != nil {
		return "", err
	}

	_, statErr := os.Stat(full)
	action := "published"
	if statErr == nil {
		action = "updated"
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", contenterr.Wrap(contenterr.IO, "fsadapter.Publish", selector, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".tmp-*")
	if err != nil {
		return "", contenterr.Wrap(contenterr.IO, "fsadapter.Publish", selector, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", contenterr.Wrap(contenterr.IO, "fsadapter.Publish", selector, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", contenterr.Wrap(contenterr.IO, "fsadapter.Publish", selector, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return "", contenterr.Wrap(contenterr.IO, "fsadapter.Publish", selector, err)
	}

	if err := a.Sync(ctx, s); err != nil {
		return "", err
	}
	a.log.WithField("selector", selector).Debug("published")
	return action, nil
}

// Delete removes the file or directory named by selector and
// regenerates menus. It never follows a symlink out of Root (resolve
// already rejects any path outside Root).
func (a *Adapter) Delete(ctx context.Context, s *store.LocalStore, selector string) error {
	if !a.Writable {
		return contenterr.New(contenterr.NotWritable, "fsadapter.Delete", selector, "namespace is read-only")
	}
	full, err := a.resolve(selector)
	if err != nil {
		return err
	}

	if _, statErr := os.Lstat(full); statErr != nil {
		return contenterr.Wrap(contenterr.NotFound, "fsadapter.Delete", selector, statErr)
	}
	if err := os.RemoveAll(full); err != nil {
		return contenterr.Wrap(contenterr.IO, "fsadapter.Delete", selector, fmt.Errorf("remove %s: %w", full, err))
	}

	if err := a.Sync(ctx, s); err != nil {
		return err
	}
	a.log.WithField("selector", selector).Debug("deleted")
	return nil
}
