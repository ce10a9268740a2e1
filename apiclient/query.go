package apiclient

import (
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/gorilla/schema"
)

const queryTag = "schema"

var queryEncoder = schema.NewEncoder()

// EncodeQuery serializes a querystring parameter struct. Keys come from the
// `schema` struct tags and are emitted in field declaration order.
func EncodeQuery(params any) (string, error) {
	values := url.Values{}
	if err := queryEncoder.Encode(params, values); err != nil {
		return "", &BaseError{Kind: KindQuerystringSerialize, Err: err}
	}
	return encodeOrdered(values, fieldOrder(params)), nil
}

// fieldOrder lists the query keys of params in declaration order.
func fieldOrder(params any) []string {
	t := reflect.TypeOf(params)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	keys := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get(queryTag), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		keys = append(keys, name)
	}
	return keys
}

func encodeOrdered(values url.Values, order []string) string {
	seen := make(map[string]bool, len(order))
	var b strings.Builder
	write := func(key string) {
		for _, v := range values[key] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}

	for _, key := range order {
		seen[key] = true
		write(key)
	}

	// Keys from nested structs are not in the top-level order.
	var rest []string
	for key := range values {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		write(key)
	}

	return b.String()
}
