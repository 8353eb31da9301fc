package tcpio

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

// Query describes a single host/service resolution request.
type Query struct {
	// Host is a host name or a literal address.
	Host string
	// Service is a service name or a decimal port number.
	Service string
	// NumericService restricts Service to a decimal port number; symbolic
	// service names fail the query.
	NumericService bool
}

// Resolver turns host/service queries into ordered candidate endpoints. The
// zero value resolves through the system resolver over the host network
// stack.
type Resolver struct {
	// Config overrides the system resolver when it carries nameservers.
	Config *ResolveConfig
	// Transport used to look up hosts and reach configured nameservers.
	// If nil, Host() is used.
	Transport Transport
}

// Resolve performs a single blocking resolution of the query. The returned
// endpoints are in resolver preference order; callers wanting connect
// fallback iterate them with their own policy. There is no caching and no
// retrying.
func (r *Resolver) Resolve(ctx context.Context, q Query) ([]Endpoint, error) {
	port, err := r.resolveService(q)
	if err != nil {
		return nil, err
	}

	// A literal address short-circuits the host lookup.
	if addr, err := ParseAddress(q.Host); err == nil {
		return []Endpoint{NewEndpoint(addr, port)}, nil
	}

	addrs, err := r.lookupHost(ctx, q.Host)
	if err != nil {
		return nil, &ResolveError{Host: q.Host, Service: q.Service, Err: err}
	}

	endpoints := make([]Endpoint, 0, len(addrs))
	for _, s := range addrs {
		addr, err := ParseAddress(s)
		if err != nil {
			return nil, &ResolveError{Host: q.Host, Service: q.Service, Err: err}
		}

		endpoints = append(endpoints, NewEndpoint(addr, port))
	}

	if len(endpoints) == 0 {
		return nil, &ResolveError{Host: q.Host, Service: q.Service, Reason: "no addresses found"}
	}

	return endpoints, nil
}

func (r *Resolver) resolveService(q Query) (uint16, error) {
	if q.NumericService {
		port, err := strconv.ParseUint(q.Service, 10, 16)
		if err != nil {
			return 0, &ResolveError{Host: q.Host, Service: q.Service, Reason: "service is not a decimal port number"}
		}

		return uint16(port), nil
	}

	port, err := net.LookupPort("tcp", q.Service)
	if err != nil {
		return 0, &ResolveError{Host: q.Host, Service: q.Service, Err: err}
	}

	return uint16(port), nil
}

func (r *Resolver) lookupHost(ctx context.Context, host string) ([]string, error) {
	transport := r.Transport
	if transport == nil {
		transport = Host()
	}

	if r.Config != nil && len(r.Config.Nameservers) > 0 {
		return r.Config.LookupContextHost(ctx, host, transport.DialContext)
	}

	return transport.LookupContextHost(ctx, host)
}

// ResolveConfig holds the resolver configuration.
type ResolveConfig struct {
	// Nameservers is a list of nameservers to use.
	// If empty, the system default resolver is used.
	Nameservers []string
	// SearchDomains is a list of search domains to use.
	SearchDomains []string
	// Options is a list of resolver options to use.
	// Supported options:
	// - ndots:<n> sets the number of dots that must appear in a name before an initial absolute query is made.
	//   The default is 1.
	Options []string
}

// LookupContextHost looks up the given host using the resolver configuration.
func (r *ResolveConfig) LookupContextHost(ctx context.Context, host string, dialContext DialContext) ([]string, error) {
	var resolver = &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			ns := r.Nameservers[rand.IntN(len(r.Nameservers))]

			// If the nameserver does not have a port, add the default DNS port.
			if _, _, err := net.SplitHostPort(ns); err != nil {
				ns = net.JoinHostPort(ns, "53")
			}

			return dialContext(ctx, network, ns)
		},
	}

	ndots := 1
	for _, opt := range r.Options {
		if len(opt) > 6 && opt[:6] == "ndots:" {
			if n, err := fmt.Sscanf(opt[6:], "%d", &ndots); err != nil || n != 1 {
				ndots = 1
			}
		}
	}

	// Try search domains first.
	if strings.Count(host, ".") < ndots && !dns.IsFqdn(host) {
		for _, domain := range r.SearchDomains {
			searchName := host + "." + domain
			addrs, err := resolver.LookupHost(ctx, searchName)
			if err == nil && len(addrs) > 0 {
				return addrs, nil
			}
		}
	}

	return resolver.LookupHost(ctx, host)
}
