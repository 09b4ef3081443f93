package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVendor(t *testing.T) {
	v, err := NewVendor(uuid.New(), "  Concreteira Sul  ")
	require.NoError(t, err)
	assert.Equal(t, "Concreteira Sul", v.Name)
	assert.True(t, v.Active)
	assert.Len(t, v.GetDomainEvents(), 1)

	_, err = NewVendor(uuid.New(), " ")
	assert.Error(t, err)
}

func TestVendor_SetTaxID(t *testing.T) {
	v, err := NewVendor(uuid.New(), "Aço Forte")
	require.NoError(t, err)

	require.NoError(t, v.SetTaxID("12.345.678/0001-90"))
	assert.Equal(t, "12345678000190", v.TaxID)

	assert.Error(t, v.SetTaxID("123"))
	require.NoError(t, v.SetTaxID(""))
	assert.Equal(t, "", v.TaxID)
}

func TestVendor_SetContact(t *testing.T) {
	v, err := NewVendor(uuid.New(), "Elétrica Norte")
	require.NoError(t, err)

	require.NoError(t, v.SetContact("Ana", "(41) 99999-0000", "compras@eletricanorte.com.br"))
	assert.Equal(t, "compras@eletricanorte.com.br", v.Email)
	assert.Error(t, v.SetContact("Ana", "", "not-an-email"))
}

func TestClient(t *testing.T) {
	c, err := NewClient(uuid.New(), "Construtora Horizonte")
	require.NoError(t, err)
	require.NoError(t, c.SetDocument("123.456.789-09"))
	assert.Equal(t, "12345678909", c.Document)
	assert.Error(t, c.Rename(""))
}
