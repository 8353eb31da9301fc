package triemap_test

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpeckett/tcpio/internal/triemap"
)

func TestTrieMap(t *testing.T) {
	t.Run("Prefix membership", func(t *testing.T) {
		tm := triemap.New[string]()
		tm.Insert(netip.MustParsePrefix("10.0.0.0/8"), "ten")
		tm.Insert(netip.MustParsePrefix("192.168.1.0/24"), "lan")

		v, ok := tm.Get(netip.MustParseAddr("10.1.2.3"))
		require.True(t, ok)
		assert.Equal(t, "ten", v)

		v, ok = tm.Get(netip.MustParseAddr("192.168.1.200"))
		require.True(t, ok)
		assert.Equal(t, "lan", v)

		_, ok = tm.Get(netip.MustParseAddr("192.168.2.1"))
		assert.False(t, ok)
	})

	t.Run("Longest prefix wins", func(t *testing.T) {
		tm := triemap.New[string]()
		tm.Insert(netip.MustParsePrefix("10.0.0.0/8"), "wide")
		tm.Insert(netip.MustParsePrefix("10.0.1.0/24"), "narrow")

		v, ok := tm.Get(netip.MustParseAddr("10.0.1.1"))
		require.True(t, ok)
		assert.Equal(t, "narrow", v)

		v, ok = tm.Get(netip.MustParseAddr("10.0.2.1"))
		require.True(t, ok)
		assert.Equal(t, "wide", v)
	})

	t.Run("Exact host prefix", func(t *testing.T) {
		tm := triemap.New[struct{}]()
		tm.Insert(netip.MustParsePrefix("127.0.0.1/32"), struct{}{})

		_, ok := tm.Get(netip.MustParseAddr("127.0.0.1"))
		assert.True(t, ok)

		_, ok = tm.Get(netip.MustParseAddr("127.0.0.2"))
		assert.False(t, ok)
	})

	t.Run("IPv6", func(t *testing.T) {
		tm := triemap.New[struct{}]()
		tm.Insert(netip.MustParsePrefix("fd00::/8"), struct{}{})

		_, ok := tm.Get(netip.MustParseAddr("fd00::1"))
		assert.True(t, ok)

		_, ok = tm.Get(netip.MustParseAddr("2001:db8::1"))
		assert.False(t, ok)

		// Families do not bleed into each other.
		_, ok = tm.Get(netip.MustParseAddr("253.0.0.1"))
		assert.False(t, ok)
	})

	t.Run("Default route", func(t *testing.T) {
		tm := triemap.New[string]()
		tm.Insert(netip.MustParsePrefix("0.0.0.0/0"), "default")

		v, ok := tm.Get(netip.MustParseAddr("203.0.113.1"))
		require.True(t, ok)
		assert.Equal(t, "default", v)
	})
}
