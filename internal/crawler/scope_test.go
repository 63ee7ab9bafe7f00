package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOriginScope(t *testing.T) {
	t.Run("same origin only", func(t *testing.T) {
		scope, err := NewOriginScope("https://site.test/docs/", true)
		require.NoError(t, err)

		assert.True(t, scope.AllowsExpansion("https://site.test/other"))
		assert.False(t, scope.AllowsExpansion("https://blog.site.test/"), "subdomains are a different origin")
		assert.False(t, scope.AllowsExpansion("http://site.test/"), "scheme is part of the origin")
		assert.False(t, scope.AllowsExpansion("https://site.test:8443/"), "port is part of the origin")
		assert.False(t, scope.AllowsExpansion("https://other.test/"))
	})

	t.Run("unrestricted", func(t *testing.T) {
		scope, err := NewOriginScope("https://site.test/", false)
		require.NoError(t, err)
		assert.True(t, scope.AllowsExpansion("https://anywhere.test/"))
	})
}
