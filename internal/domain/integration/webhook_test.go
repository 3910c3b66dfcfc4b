package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"id":820982911946154500,"email":"jon@example.com"}`)
	secret := "shpss_0123456789abcdef"
	sig := ComputeSignature(body, secret)

	t.Run("valid signature", func(t *testing.T) {
		assert.True(t, VerifySignature(body, sig, secret))
	})

	t.Run("tampered body", func(t *testing.T) {
		tampered := []byte(`{"id":820982911946154500,"email":"eve@example.com"}`)
		assert.False(t, VerifySignature(tampered, sig, secret))
	})

	t.Run("wrong secret", func(t *testing.T) {
		assert.False(t, VerifySignature(body, sig, "other-secret"))
	})

	t.Run("empty secret", func(t *testing.T) {
		assert.False(t, VerifySignature(body, sig, ""))
	})

	t.Run("missing signature", func(t *testing.T) {
		assert.False(t, VerifySignature(body, "", secret))
	})

	t.Run("garbage signature", func(t *testing.T) {
		assert.False(t, VerifySignature(body, "not-base64!!", secret))
	})
}

func TestComputeSignatureDeterministic(t *testing.T) {
	body := []byte("payload")
	assert.Equal(t, ComputeSignature(body, "s"), ComputeSignature(body, "s"))
	assert.NotEqual(t, ComputeSignature(body, "s"), ComputeSignature(body, "t"))
}
