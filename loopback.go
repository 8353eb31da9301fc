// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package tcpio

import (
	"context"
	"net"
)

var _ Transport = (*LoopbackTransport)(nil)

type LoopbackTransport struct{}

// Loopback returns a transport that only connects to localhost.
func Loopback() *LoopbackTransport {
	return &LoopbackTransport{}
}

func (t *LoopbackTransport) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}

	var d net.Dialer
	return d.DialContext(ctx, network, net.JoinHostPort("localhost", port))
}

func (t *LoopbackTransport) LookupContextHost(ctx context.Context, host string) ([]string, error) {
	return (&net.Resolver{}).LookupHost(ctx, "localhost")
}

func (t *LoopbackTransport) Listen(network, address string) (net.Listener, error) {
	_, port, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}

	return net.Listen(network, net.JoinHostPort("localhost", port))
}

func (t *LoopbackTransport) ListenPacket(network, address string) (net.PacketConn, error) {
	_, port, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}

	return net.ListenPacket(network, net.JoinHostPort("localhost", port))
}
