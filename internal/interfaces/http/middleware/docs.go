package middleware

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"github.com/erp-obras/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// DocsAccessConfig restricts who can browse the Swagger UI.
type DocsAccessConfig struct {
	RequireAuth bool
	// AllowedIPs holds addresses or CIDR prefixes; empty allows every client.
	AllowedIPs []string
}

// DocsAccess guards the API documentation with an optional client IP
// allow-list followed by the JWT chain. It fails on malformed entries so a
// typo cannot silently open the docs.
func DocsAccess(cfg DocsAccessConfig, authenticate gin.HandlerFunc) (gin.HandlerFunc, error) {
	prefixes, err := parsePrefixes(cfg.AllowedIPs)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		if len(prefixes) > 0 && !clientAllowed(c.ClientIP(), prefixes) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Access to API documentation is restricted", GetRequestID(c)))
			return
		}
		if cfg.RequireAuth && authenticate != nil {
			authenticate(c)
			if c.IsAborted() {
				return
			}
		}
		c.Next()
	}, nil
}

func parsePrefixes(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("swagger allowed ip %q: %w", entry, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("swagger allowed ip %q: %w", entry, err)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return prefixes, nil
}

func clientAllowed(ip string, prefixes []netip.Prefix) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
