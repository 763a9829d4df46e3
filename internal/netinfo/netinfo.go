// Package netinfo reports host network identification for the service's
// pre-start diagnostic hook. The report is best-effort: every lookup has a
// fallback, and the final fallback is loopback.
package netinfo

import (
	"fmt"
	"net"
	"os"
	"strings"
)

// AddrLister abstracts interface address lookup for testability.
type AddrLister func(name string) ([]net.Addr, error)

// InterfaceAddrs is the real AddrLister.
func InterfaceAddrs(name string) ([]net.Addr, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, err
	}
	return iface.Addrs()
}

// IPAddress returns the device's primary IPv4 address. Wireless is checked
// before ethernet to match typical deployments; hostname resolution and
// loopback are the fallbacks.
func IPAddress(list AddrLister) string {
	for _, name := range []string{"wlan0", "eth0"} {
		addrs, err := list(name)
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok {
				if ip4 := ipnet.IP.To4(); ip4 != nil {
					return ip4.String()
				}
			}
		}
	}

	if host, err := os.Hostname(); err == nil {
		if ips, err := net.LookupIP(host); err == nil {
			for _, ip := range ips {
				if ip4 := ip.To4(); ip4 != nil && !ip4.IsLoopback() {
					return ip4.String()
				}
			}
		}
	}

	return "127.0.0.1"
}

// Report renders the host identification lines printed before service start.
func Report(list AddrLister) string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "hostname: %s\n", host)
	fmt.Fprintf(&b, "address:  %s\n", IPAddress(list))
	return b.String()
}
