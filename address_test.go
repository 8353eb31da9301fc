package tcpio_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpeckett/tcpio"
)

func TestParseAddress(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		for _, text := range []string{
			"127.0.0.1",
			"192.168.0.1",
			"0.0.0.0",
			"::1",
			"2001:db8::1",
			"::",
		} {
			addr, err := tcpio.ParseAddress(text)
			require.NoError(t, err, text)

			reparsed, err := tcpio.ParseAddress(addr.String())
			require.NoError(t, err, text)

			assert.Equal(t, addr, reparsed, text)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		for _, text := range []string{
			"600.1.1.1",
			"not-an-ip",
			"",
			"1.2.3",
			"1.2.3.4.5",
			"1.2.3.4:80",
			":::1",
		} {
			_, err := tcpio.ParseAddress(text)
			require.Error(t, err, text)

			var parseErr *tcpio.ParseError
			require.ErrorAs(t, err, &parseErr, text)

			assert.Equal(t, text, parseErr.Input)
			assert.NotEmpty(t, parseErr.Reason)
		}
	})

	t.Run("Version tagging", func(t *testing.T) {
		v4, err := tcpio.ParseAddress("10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, tcpio.V4, v4.Version())

		v6, err := tcpio.ParseAddress("fd00::1")
		require.NoError(t, err)
		assert.Equal(t, tcpio.V6, v6.Version())
	})

	t.Run("Mapped addresses are canonicalized", func(t *testing.T) {
		mapped, err := tcpio.ParseAddress("::ffff:10.0.0.1")
		require.NoError(t, err)

		plain, err := tcpio.ParseAddress("10.0.0.1")
		require.NoError(t, err)

		assert.Equal(t, tcpio.V4, mapped.Version())
		assert.Equal(t, plain, mapped)
	})
}

func TestWildcard(t *testing.T) {
	v4 := tcpio.Wildcard(tcpio.V4)
	require.True(t, v4.IsValid())
	assert.Equal(t, "0.0.0.0", v4.String())
	assert.Equal(t, tcpio.V4, v4.Version())

	v6 := tcpio.Wildcard(tcpio.V6)
	require.True(t, v6.IsValid())
	assert.Equal(t, "::", v6.String())
	assert.Equal(t, tcpio.V6, v6.Version())

	assert.False(t, tcpio.Address{}.IsValid())
}

func TestEndpoint(t *testing.T) {
	addr, err := tcpio.ParseAddress("127.0.0.1")
	require.NoError(t, err)

	ep := tcpio.NewEndpoint(addr, 3333)

	t.Run("Equality", func(t *testing.T) {
		reparsed, err := tcpio.ParseAddress("127.0.0.1")
		require.NoError(t, err)

		assert.Equal(t, ep, tcpio.NewEndpoint(reparsed, 3333))
		assert.NotEqual(t, ep, tcpio.NewEndpoint(reparsed, 3334))

		other, err := tcpio.ParseAddress("127.0.0.2")
		require.NoError(t, err)
		assert.NotEqual(t, ep, tcpio.NewEndpoint(other, 3333))
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "127.0.0.1:3333", ep.String())

		v6, err := tcpio.ParseAddress("::1")
		require.NoError(t, err)
		assert.Equal(t, "[::1]:3333", tcpio.NewEndpoint(v6, 3333).String())
	})

	t.Run("Port zero is legal", func(t *testing.T) {
		assert.Equal(t, uint16(0), tcpio.NewEndpoint(addr, 0).Port)
	})
}

func TestParseErrorMatching(t *testing.T) {
	_, err := tcpio.ParseAddress("not-an-ip")
	require.Error(t, err)

	var parseErr *tcpio.ParseError
	assert.True(t, errors.As(err, &parseErr))
}
