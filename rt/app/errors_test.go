package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindStringNamesEveryTaxonomyMember(t *testing.T) {
	cases := map[ErrorKind]string{
		UnsupportedDevice:       "UnsupportedDevice",
		ResourceCreationFailed:  "ResourceCreationFailed",
		ShaderCompilationFailed: "ShaderCompilationFailed",
		TextureLoadFailed:       "TextureLoadFailed",
		DeviceLost:              "DeviceLost",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
	assert.Equal(t, "Unknown", ErrorKind(99).String())
}

func TestNewErrorWrapsUnderlyingCause(t *testing.T) {
	cause := errors.New("adapter request timed out")
	err := newError(UnsupportedDevice, cause)

	require.Error(t, err)
	assert.Equal(t, UnsupportedDevice, err.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "UnsupportedDevice")
	assert.Contains(t, err.Error(), "adapter request timed out")
}

func TestRendererErrorWithoutCauseFormatsKindOnly(t *testing.T) {
	err := newError(DeviceLost, nil)
	assert.Equal(t, "DeviceLost", err.Error())
	assert.NoError(t, errors.Unwrap(err))
}
