// Package resolve turns a destination argument into the IPv4 address pinged.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"
)

// ErrNotFound is returned when a destination has no IPv4 address.
var ErrNotFound = errors.New("no IPv4 address found")

// Config selects the DNS servers used for names and bounds each lookup.
// No servers means the system resolver, so /etc/hosts keeps working.
type Config struct {
	Servers []string
	Timeout time.Duration
}

// DefaultConfig returns the system resolver with a 5s lookup timeout.
func DefaultConfig() Config {
	return Config{
		Timeout: 5 * time.Second,
	}
}

// lookupFunc matches (*net.Resolver).LookupNetIP.
type lookupFunc func(ctx context.Context, network, host string) ([]netip.Addr, error)

// Resolver maps destination arguments to IPv4 addresses.
type Resolver struct {
	timeout time.Duration
	lookup  lookupFunc
}

// New creates a resolver for cfg.
func New(cfg Config) *Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	r := &Resolver{
		timeout: cfg.Timeout,
		lookup:  net.DefaultResolver.LookupNetIP,
	}
	if len(cfg.Servers) > 0 {
		r.lookup = serverResolver(cfg.Servers, cfg.Timeout).LookupNetIP
	}
	return r
}

// serverResolver queries the first of servers that accepts a connection.
func serverResolver(servers []string, timeout time.Duration) *net.Resolver {
	d := &net.Dialer{Timeout: timeout}
	return &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var errs []error
			for _, server := range servers {
				conn, err := d.DialContext(ctx, "udp", server)
				if err == nil {
					return conn, nil
				}
				errs = append(errs, err)
			}
			return nil, errors.Join(errs...)
		},
	}
}

// Resolve returns the IPv4 address for host. IPv4 literals are returned
// unchanged; IPv6 literals and names without an A record yield ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, host string) (netip.Addr, error) {
	if addr, err := netip.ParseAddr(host); err == nil {
		if addr = addr.Unmap(); addr.Is4() {
			return addr, nil
		}
		return netip.Addr{}, fmt.Errorf("%s: %w", host, ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	addrs, err := r.lookup(ctx, "ip4", host)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return netip.Addr{}, fmt.Errorf("%s: %w", host, ErrNotFound)
		}
		return netip.Addr{}, fmt.Errorf("resolve %s: %w", host, err)
	}

	for _, addr := range addrs {
		if addr = addr.Unmap(); addr.Is4() {
			return addr, nil
		}
	}
	return netip.Addr{}, fmt.Errorf("%s: %w", host, ErrNotFound)
}
