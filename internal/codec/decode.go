// Package codec decodes raw response bodies into values based on the
// response's declared content type.
//
// Decoding is a pure function of the body bytes and response headers. A
// JSON content type wins over a generic text one; anything else passes
// the raw bytes through untouched. JSON numbers decode as json.Number so
// integers past float64 precision survive the round trip exactly.
package codec

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// Content-type sniffing patterns. JSON takes precedence over text; the
// order of checks in Decode is a hard contract.
var (
	jsonPattern = regexp.MustCompile(`(?i)^application/([\w.+-]+\+)?json\s*(;.*)?$`)
	textPattern = regexp.MustCompile(`(?i)^text/`)
)

// Decode converts a response body into a value using the Content-Type
// header. JSON bodies decode into map[string]any / []any trees with
// json.Number leaves; text bodies decode into a string honoring any
// declared charset; unrecognized content types return the raw bytes.
//
// A body that declares JSON but does not parse as a single JSON value
// falls back to text decoding rather than failing the call.
func Decode(body []byte, header http.Header) any {
	contentType := header.Get("Content-Type")
	charset := charsetOf(contentType)

	switch {
	case jsonPattern.MatchString(contentType):
		return decodeJSON(body, charset)
	case textPattern.MatchString(contentType):
		return decodeText(body, charset)
	default:
		return body
	}
}

func decodeJSON(body []byte, charset string) any {
	text := body
	if enc := lookupEncoding(charset); enc != nil {
		if converted, err := enc.NewDecoder().Bytes(body); err == nil {
			text = converted
		}
	}

	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil || dec.More() {
		return decodeText(body, charset)
	}
	return value
}

func decodeText(body []byte, charset string) string {
	enc := lookupEncoding(charset)
	if enc == nil {
		return string(body)
	}

	converted, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(converted)
}

// charsetOf extracts the charset parameter from a content-type value.
func charsetOf(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

// lookupEncoding resolves a charset name to a decoder. The Latin
// single-byte family resolves directly; other names go through the IANA
// index. Unknown names and UTF-8 itself return nil, meaning bytes are
// used as-is.
func lookupEncoding(name string) encoding.Encoding {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil
	case "iso-8859-1", "iso8859-1", "latin1", "l1", "us-ascii", "ascii":
		return charmap.ISO8859_1
	case "windows-1252", "cp1252":
		return charmap.Windows1252
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil
	}
	return enc
}
