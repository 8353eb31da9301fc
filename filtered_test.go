// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package tcpio_test

import (
	"context"
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpeckett/tcpio"
)

func TestFilteredTransport(t *testing.T) {
	transport := tcpio.Filtered(&tcpio.FilteredTransportConfig{
		AllowedDestinations: []netip.Prefix{
			netip.MustParsePrefix("127.0.0.0/8"),
		},
		DeniedDestinations: []netip.Prefix{
			netip.MustParsePrefix("127.0.1.0/24"),
		},
		Upstream: tcpio.Host(),
	})

	ctx := context.Background()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, lis.Close())
	})

	go func() {
		for {
			conn, err := lis.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	port := lis.Addr().(*net.TCPAddr).AddrPort().Port()
	ep := listenerEndpoint(t, lis)

	t.Run("Allowed destination", func(t *testing.T) {
		conn, err := transport.DialContext(ctx, "tcp4", ep.String())
		require.NoError(t, err)
		_ = conn.Close()
	})

	t.Run("Denied destination", func(t *testing.T) {
		denied := tcpio.NewEndpoint(mustParseAddress(t, "127.0.1.1"), port)

		_, err := transport.DialContext(ctx, "tcp4", denied.String())
		require.Error(t, err)
	})

	t.Run("Destination outside the allowed list", func(t *testing.T) {
		outside := tcpio.NewEndpoint(mustParseAddress(t, "192.0.2.1"), port)

		_, err := transport.DialContext(ctx, "tcp4", outside.String())
		require.Error(t, err)
	})

	t.Run("AllowsEndpoint", func(t *testing.T) {
		assert.True(t, transport.AllowsEndpoint(ep))
		assert.False(t, transport.AllowsEndpoint(tcpio.NewEndpoint(mustParseAddress(t, "127.0.1.1"), port)))
		assert.False(t, transport.AllowsEndpoint(tcpio.NewEndpoint(mustParseAddress(t, "192.0.2.1"), port)))
	})

	t.Run("Connector policy", func(t *testing.T) {
		connector := tcpio.Connector{Transport: transport}

		sock, err := connector.Connect(ctx, ep)
		require.NoError(t, err)
		require.NoError(t, sock.Close())

		_, err = connector.Connect(ctx, tcpio.NewEndpoint(mustParseAddress(t, "127.0.1.1"), port))

		var connectErr *tcpio.ConnectError
		require.ErrorAs(t, err, &connectErr)
	})
}

func mustParseAddress(t *testing.T, s string) tcpio.Address {
	t.Helper()

	addr, err := tcpio.ParseAddress(s)
	require.NoError(t, err)

	return addr
}
