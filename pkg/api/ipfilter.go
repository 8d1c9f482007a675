package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
)

// IPAllowlist returns middleware that rejects clients whose address is not
// in the given list of IPs or CIDR ranges. An empty list allows everyone.
func IPAllowlist(logger *slog.Logger, allowed []string) (func(http.Handler) http.Handler, error) {
	if len(allowed) == 0 {
		return func(next http.Handler) http.Handler { return next }, nil
	}

	var nets []*net.IPNet
	for _, entry := range allowed {
		if _, ipnet, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, ipnet)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			return nil, fmt.Errorf("invalid allowlist entry %q", entry)
		}
		bits := 32
		if ip.To4() == nil {
			bits = 128
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			ip := net.ParseIP(host)
			if ip != nil {
				for _, n := range nets {
					if n.Contains(ip) {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			logger.Warn("rejected client outside allowlist", "remote_addr", r.RemoteAddr)
			writeError(w, http.StatusForbidden, "forbidden", "client address not allowed")
		})
	}, nil
}
