package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		s := Settings{Hostname: "proxy.local", Port: 3128}
		assert.False(t, s.HasProxy())
		assert.Empty(t, s.HostPort())
		assert.Nil(t, s.URL())
	})

	t.Run("MissingPort", func(t *testing.T) {
		s := Settings{Enabled: true, Hostname: "proxy.local"}
		assert.False(t, s.HasProxy())
	})

	t.Run("WithoutCredentials", func(t *testing.T) {
		s := Settings{Enabled: true, Hostname: "proxy.local", Port: 3128}
		assert.Equal(t, "http://proxy.local:3128", s.HostPort())
		require.NotNil(t, s.URL())
		assert.Equal(t, "http://proxy.local:3128", s.URL().String())
	})

	t.Run("WithCredentials", func(t *testing.T) {
		s := Settings{Enabled: true, Hostname: "proxy.local", Port: 3128, Username: "u", Password: "p"}
		assert.Equal(t, "http://proxy.local:3128", s.HostPort())
		assert.Equal(t, "http://u:p@proxy.local:3128", s.URL().String())
	})
}
