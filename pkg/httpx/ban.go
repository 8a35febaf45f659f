package httpx

import (
	"log/slog"
	"net/http"
	"net/netip"
	"regexp"
)

// BanConfig lists clients that are refused outright before any routing.
type BanConfig struct {
	// IPs are exact client addresses to refuse.
	IPs []netip.Addr
	// UserAgentPatterns are regular expressions matched against the
	// User-Agent header (e.g. scraper bots).
	UserAgentPatterns []*regexp.Regexp
}

// CompileUserAgentPatterns compiles the given patterns, skipping any that do
// not parse. Bad patterns in config shouldn't take the service down.
func CompileUserAgentPatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			slog.Warn("skipping invalid user-agent ban pattern", "pattern", p, "err", err)
			continue
		}
		out = append(out, re)
	}
	return out
}

// ParseBannedIPs parses the given addresses, skipping any that do not parse,
// same as CompileUserAgentPatterns.
func ParseBannedIPs(addrs []string) []netip.Addr {
	out := make([]netip.Addr, 0, len(addrs))
	for _, a := range addrs {
		ip, err := netip.ParseAddr(a)
		if err != nil {
			slog.Warn("skipping invalid banned ip", "addr", a, "err", err)
			continue
		}
		out = append(out, ip)
	}
	return out
}

// BanMiddleware refuses requests from banned IPs and user agents with 403.
// It sits at the outermost edge of the chain, before logging-heavy work.
func BanMiddleware(cfg BanConfig) Middleware {
	banned := make(map[netip.Addr]struct{}, len(cfg.IPs))
	for _, ip := range cfg.IPs {
		banned[ip] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(banned) > 0 {
				if addr, err := netip.ParseAddr(IPKeyExtractor(r)); err == nil {
					if _, ok := banned[addr]; ok {
						WriteError(w, http.StatusForbidden, "You are banned")
						return
					}
				}
			}

			ua := r.UserAgent()
			for _, re := range cfg.UserAgentPatterns {
				if re.MatchString(ua) {
					WriteError(w, http.StatusForbidden, "You are banned")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
