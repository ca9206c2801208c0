// Package negotiate classifies request payloads into content types.
//
// Classification runs once per attempt and only when the caller has not
// already supplied a content type, either through an explicit header or a
// configured resolver hook. Rules apply in fixed priority order: binary
// payloads win over structured ones, structured over text, and anything
// unrecognized falls back to text.
package negotiate

import (
	"encoding/json"
	"io"
	"reflect"
)

// Content types produced by Classify.
const (
	ContentTypeJSON        = "application/json;charset=utf-8"
	ContentTypeOctetStream = "application/octet-stream"
	ContentTypeText        = "text/plain"
)

// HeaderName is the request header populated with the negotiated type.
const HeaderName = "Content-Type"

// Classify returns the content type for a request payload.
//
// Priority order is a hard contract: raw JSON keeps its JSON type, byte
// slices and readers are binary, strings are text, object-like values
// (structs, maps, non-byte slices, arrays) are JSON, and everything else
// is text. Only the first matching rule applies.
func Classify(payload any) string {
	switch payload.(type) {
	case nil:
		return ContentTypeText
	case json.RawMessage:
		return ContentTypeJSON
	case []byte:
		return ContentTypeOctetStream
	case string:
		return ContentTypeText
	}

	if _, ok := payload.(io.Reader); ok {
		return ContentTypeOctetStream
	}

	t := reflect.TypeOf(payload)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct, reflect.Map, reflect.Array:
		return ContentTypeJSON
	case reflect.Slice:
		// Named byte slice types are binary like []byte itself.
		if t.Elem().Kind() == reflect.Uint8 {
			return ContentTypeOctetStream
		}
		return ContentTypeJSON
	}

	return ContentTypeText
}
