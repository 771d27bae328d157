package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalize_DefaultsToSpanish(t *testing.T) {
	tr, err := New("es")
	require.NoError(t, err)

	msg, ok := tr.Localize("", "over_delivery", map[string]any{
		"Requested": 3, "Product": "Fernet", "Remaining": 1,
	})
	require.True(t, ok)
	assert.Equal(t, "No se puede entregar 3 de Fernet. Solo quedan 1 por entregar.", msg)
}

func TestLocalize_English(t *testing.T) {
	tr, err := New("es")
	require.NoError(t, err)

	msg, ok := tr.Localize("en", "insufficient_stock", map[string]any{
		"Product": "Speed", "Available": 0, "Requested": 5,
	})
	require.True(t, ok)
	assert.Equal(t, "Insufficient stock of Speed (available: 0, requested: 5)", msg)
}

func TestLocalize_UnknownID(t *testing.T) {
	tr, err := New("es")
	require.NoError(t, err)

	_, ok := tr.Localize("en", "does_not_exist", nil)
	assert.False(t, ok)
}
