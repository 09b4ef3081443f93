package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("normalizes state and postal code", func(t *testing.T) {
		addr, err := NewAddress(" Rua das Flores, 100 ", "Curitiba", "pr", "80010-000")
		require.NoError(t, err)
		assert.Equal(t, "Rua das Flores, 100", addr.Street())
		assert.Equal(t, "PR", addr.State())
		assert.Equal(t, "80010000", addr.PostalCode())
		assert.Equal(t, "80010-000", addr.FormattedPostalCode())
		assert.Equal(t, "Rua das Flores, 100, Curitiba/PR, 80010-000", addr.String())
	})

	t.Run("empty address is valid", func(t *testing.T) {
		addr, err := NewAddress("", "", "", "")
		require.NoError(t, err)
		assert.True(t, addr.IsEmpty())
		assert.Equal(t, "", addr.String())
	})

	t.Run("rejects unknown state", func(t *testing.T) {
		_, err := NewAddress("", "", "XX", "")
		assert.Error(t, err)
	})

	t.Run("rejects short postal code", func(t *testing.T) {
		_, err := NewAddress("", "", "SP", "1234")
		assert.Error(t, err)
	})
}
