package pipeline

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// JoinURL concatenates a base URL and an operation path. When both sides
// agree on slash adjacency (base ends with "/" and path starts with one,
// or neither does) the join normalizes to exactly one slash; when they
// disagree there is already exactly one slash and the concatenation is
// literal.
func JoinURL(base, path string) string {
	baseSlash := strings.HasSuffix(base, "/")
	pathSlash := strings.HasPrefix(path, "/")

	switch {
	case baseSlash && pathSlash:
		return base + path[1:]
	case !baseSlash && !pathSlash:
		return base + "/" + path
	default:
		return base + path
	}
}

// WithSchemeHost replaces the scheme and/or host of an assembled URL.
// Empty override values keep the corresponding part.
func WithSchemeHost(rawurl, scheme, host string) (string, error) {
	if scheme == "" && host == "" {
		return rawurl, nil
	}

	u, err := url.Parse(rawurl)
	if err != nil {
		return "", fmt.Errorf("invalid request URL: %w", err)
	}

	if scheme != "" {
		u.Scheme = scheme
	}
	if host != "" {
		u.Host = host
	}

	return u.String(), nil
}

// AppendQuery appends encoded query values to a URL, preserving any query
// string already present. Encoding sorts keys, so output is deterministic.
func AppendQuery(rawurl string, query url.Values) string {
	if len(query) == 0 {
		return rawurl
	}

	sep := "?"
	switch {
	case strings.HasSuffix(rawurl, "?"), strings.HasSuffix(rawurl, "&"):
		sep = ""
	case strings.Contains(rawurl, "?"):
		sep = "&"
	}

	return rawurl + sep + query.Encode()
}

// MergeValues copies base and appends every entry of extra. Neither input
// is mutated.
func MergeValues(base, extra url.Values) url.Values {
	out := url.Values{}
	for k, vs := range base {
		out[k] = append([]string(nil), vs...)
	}
	for k, vs := range extra {
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	return out
}

// MergeHeaders copies base and applies override on top. An override key
// replaces all values of the same key in base. Neither input is mutated.
func MergeHeaders(base, override http.Header) http.Header {
	out := http.Header{}
	for k, vs := range base {
		out[k] = append([]string(nil), vs...)
	}
	for k, vs := range override {
		out.Del(k)
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	return out
}
