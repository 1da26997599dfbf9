package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 16
	s, err := MakeRandHexString(n)
	require.NoError(t, err)
	require.Len(t, s, n*2)
	_, err = hex.DecodeString(s)
	require.NoError(t, err)
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	require.NoError(t, err)
	require.Empty(t, s)
}

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, buf)
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	require.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestValidationError_IsAndMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"password": "must be at least 8 characters",
		"email":    "is required",
	}}

	wrapped := fmt.Errorf("signup: %w", err)
	require.True(t, errors.Is(wrapped, ErrValidation))
	require.False(t, errors.Is(wrapped, ErrNotFound))

	assert.Equal(t,
		"validation failed: email is required; password must be at least 8 characters",
		err.Error())
}

func TestNewValidationError_SingleField(t *testing.T) {
	err := NewValidationError("name", "is required")
	assert.Equal(t, "validation failed: name is required", err.Error())

	var ve *ValidationError
	require.True(t, errors.As(error(err), &ve))
	assert.Equal(t, "is required", ve.Fields["name"])
}
