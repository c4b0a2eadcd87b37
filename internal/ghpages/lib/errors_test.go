package lib

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := fmt.Errorf("boom: %w", fs.ErrPermission)

	remote := RemoteError("error creating tree", cause)
	assert.EqualError(t, remote, "error creating tree: boom: permission denied")
	assert.True(t, errors.Is(remote, ErrRemoteOperation))
	assert.True(t, errors.Is(remote, fs.ErrPermission))
	assert.False(t, errors.Is(remote, ErrFilesystem))

	local := FilesystemError("error reading file a.html", cause)
	assert.True(t, errors.Is(local, ErrFilesystem))

	config := ConfigError("server '%s' not found in settings", "site")
	assert.EqualError(t, config, "server 'site' not found in settings")
	assert.True(t, errors.Is(config, ErrConfiguration))

	var libErr *Error
	wrapped := fmt.Errorf("publish: %w", remote)
	if assert.True(t, errors.As(wrapped, &libErr)) {
		assert.Equal(t, "error creating tree", libErr.Op)
	}
}
