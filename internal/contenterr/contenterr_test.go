package contenterr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gopherdesk/contentd/internal/contenterr"
)

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, contenterr.Wrap(contenterr.IO, "op", "path", nil))
}

func TestKindOfUnwrapsStandardErrors(t *testing.T) {
	assert := assert.New(t)

	base := errors.New("boom")
	wrapped := contenterr.Wrap(contenterr.NotFound, "fetch", "local/missing", base)

	assert.Equal(contenterr.NotFound, contenterr.KindOf(wrapped))
	assert.True(contenterr.Is(wrapped, contenterr.NotFound))
	assert.False(contenterr.Is(wrapped, contenterr.IO))
	assert.True(errors.Is(wrapped, base))
}

func TestKindOfPlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, contenterr.Internal, contenterr.KindOf(errors.New("plain")))
}

func TestErrorMessageIncludesPath(t *testing.T) {
	err := contenterr.New(contenterr.InvalidPath, "browse", "bad//path", "embedded //")
	assert.Contains(t, err.Error(), "bad//path")
	assert.Contains(t, err.Error(), "InvalidPath")
}
