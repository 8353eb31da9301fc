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
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/dpeckett/tcpio/internal/triemap"
)

var _ Transport = (*FilteredTransport)(nil)

// FilteredTransportConfig is the configuration for a FilteredTransport.
type FilteredTransportConfig struct {
	// Allowed destination prefixes.
	AllowedDestinations []netip.Prefix
	// Denied destination prefixes.
	DeniedDestinations []netip.Prefix
	// The transport to forward connections to.
	Upstream Transport
}

// FilteredTransport restricts which destinations may be dialed or listened
// on, based on allowed and denied prefixes. Connection policy of this kind
// deliberately lives outside the connector and resolver primitives.
type FilteredTransport struct {
	allowedDestinations *triemap.TrieMap[struct{}]
	deniedDestinations  *triemap.TrieMap[struct{}]
	upstream            Transport
}

// Filtered creates a new filtered transport with the given configuration.
func Filtered(conf *FilteredTransportConfig) *FilteredTransport {
	allowedDestinations := triemap.New[struct{}]()
	for _, prefix := range conf.AllowedDestinations {
		allowedDestinations.Insert(prefix, struct{}{})
	}

	deniedDestinations := triemap.New[struct{}]()
	for _, prefix := range conf.DeniedDestinations {
		deniedDestinations.Insert(prefix, struct{}{})
	}

	return &FilteredTransport{
		allowedDestinations: allowedDestinations,
		deniedDestinations:  deniedDestinations,
		upstream:            conf.Upstream,
	}
}

// AllowsEndpoint reports whether connections to the endpoint would be
// forwarded. Callers iterating a resolved set can use it to skip denied
// candidates without dialing.
func (t *FilteredTransport) AllowsEndpoint(ep Endpoint) bool {
	return t.allowedDestination(ep.Addr.Addr().Unmap())
}

func (t *FilteredTransport) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	ip, port, err := t.resolveHostPort(ctx, addr)
	if err != nil {
		return nil, err
	}

	if !t.allowedDestination(ip.Unmap()) {
		return nil, fmt.Errorf("destination %s is not allowed", ip)
	}

	return t.upstream.DialContext(ctx, network, net.JoinHostPort(ip.String(), port))
}

func (t *FilteredTransport) LookupContextHost(ctx context.Context, host string) ([]string, error) {
	return t.upstream.LookupContextHost(ctx, host)
}

func (t *FilteredTransport) Listen(network, address string) (net.Listener, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ip, port, err := t.resolveHostPort(ctx, address)
	if err != nil {
		return nil, err
	}

	if !t.allowedDestination(ip.Unmap()) {
		return nil, fmt.Errorf("not allowed to listen on %s", ip)
	}

	return t.upstream.Listen(network, net.JoinHostPort(ip.String(), port))
}

func (t *FilteredTransport) ListenPacket(network, address string) (net.PacketConn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ip, port, err := t.resolveHostPort(ctx, address)
	if err != nil {
		return nil, err
	}

	if !t.allowedDestination(ip.Unmap()) {
		return nil, fmt.Errorf("not allowed to listen on %s", ip)
	}

	return t.upstream.ListenPacket(network, net.JoinHostPort(ip.String(), port))
}

func (t *FilteredTransport) resolveHostPort(ctx context.Context, address string) (netip.Addr, string, error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return netip.Addr{}, "", err
	}

	// Is the host a literal address?
	addr, err := ParseAddress(host)
	if err != nil {
		// If not, resolve it to one.
		addrs, err := t.upstream.LookupContextHost(ctx, host)
		if err != nil {
			return netip.Addr{}, "", err
		}

		// Try and find an allowed address.
		for _, s := range addrs {
			addr, err := ParseAddress(s)
			if err != nil {
				return netip.Addr{}, "", fmt.Errorf("invalid address %s: %w", s, err)
			}

			if t.allowedDestination(addr.Addr()) {
				return addr.Addr(), port, nil
			}
		}

		return netip.Addr{}, "", fmt.Errorf("no allowed addresses found for host %s", host)
	}

	return addr.Addr(), port, nil
}

func (t *FilteredTransport) allowedDestination(addr netip.Addr) bool {
	_, allowed := t.allowedDestinations.Get(addr)
	if allowed {
		if _, denied := t.deniedDestinations.Get(addr); denied {
			allowed = false
		}
	}
	return allowed
}
