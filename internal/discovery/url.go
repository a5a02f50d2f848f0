package discovery

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParams are per-impression query keys some boards append to links.
// Keeping them would defeat dedup across runs.
var trackingParams = map[string]bool{
	"refid": true, "trackingid": true, "position": true, "pagenum": true,
	"gclid": true, "fbclid": true, "msclkid": true,
}

// CanonicalURL lowercases scheme and host, drops the fragment and tracking
// query keys, and sorts what is left. Unparseable input is returned trimmed.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || trackingParams[lk] {
			q.Del(k)
		}
	}
	for k := range q {
		sort.Strings(q[k])
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// ResolveURL decodes entities in ref and resolves it against base, the page
// it was found on. ref is returned decoded when base is nil or ref does not
// parse.
func ResolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(entityReplacer.Replace(ref))
	if base == nil || ref == "" {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// IsAbsoluteHTTP reports whether raw is an http or https URL with a host.
func IsAbsoluteHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
