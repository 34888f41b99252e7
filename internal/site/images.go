package site

import (
	"fmt"
	"net/url"
	"strings"
)

// PlaceholderImage replaces any image URL the policy refuses.
const PlaceholderImage = "/images/placeholder.jpg"

type remotePattern struct {
	scheme string
	host   string
	prefix string
	// exact is set for patterns without a trailing "**".
	exact bool
}

// ImagePolicy decides which image URLs pages may embed. Site-local paths are
// always allowed; remote URLs must match one of the configured patterns.
type ImagePolicy struct {
	patterns []remotePattern
}

// NewImagePolicy parses patterns of the form scheme://host/path-prefix/**.
func NewImagePolicy(patterns []string) (*ImagePolicy, error) {
	p := &ImagePolicy{}
	for _, raw := range patterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid image pattern %q", raw)
		}
		rp := remotePattern{scheme: strings.ToLower(u.Scheme), host: strings.ToLower(u.Host), prefix: u.Path}
		if strings.HasSuffix(rp.prefix, "**") {
			rp.prefix = strings.TrimSuffix(rp.prefix, "**")
		} else {
			rp.exact = true
		}
		p.patterns = append(p.patterns, rp)
	}
	return p, nil
}

// Allowed reports whether src may be embedded as is.
func (p *ImagePolicy) Allowed(src string) bool {
	src = strings.TrimSpace(src)
	if src == "" {
		return false
	}
	if strings.HasPrefix(src, "/") && !strings.HasPrefix(src, "//") {
		return !strings.Contains(src, "..")
	}

	u, err := url.Parse(src)
	if err != nil || u.Host == "" {
		return false
	}
	scheme, host := strings.ToLower(u.Scheme), strings.ToLower(u.Host)
	for _, rp := range p.patterns {
		if rp.scheme != scheme || rp.host != host {
			continue
		}
		if rp.exact && u.Path == rp.prefix {
			return true
		}
		if !rp.exact && strings.HasPrefix(u.Path, rp.prefix) && !strings.Contains(u.Path, "..") {
			return true
		}
	}
	return false
}

// Resolve returns src when allowed, otherwise PlaceholderImage.
func (p *ImagePolicy) Resolve(src string) string {
	if p.Allowed(src) {
		return strings.TrimSpace(src)
	}
	return PlaceholderImage
}
