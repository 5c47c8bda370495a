package cachestore

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached query by operation name and parameter values.
type Key struct {
	Op     string
	Params map[string]string
}

// NewKey starts a key for the named operation.
func NewKey(op string) Key {
	return Key{Op: op}
}

// With returns a copy of k with the named parameter set. Values are rendered
// with fmt's default formatting.
func (k Key) With(name string, value any) Key {
	params := make(map[string]string, len(k.Params)+1)
	for pk, pv := range k.Params {
		params[pk] = pv
	}
	params[name] = fmt.Sprint(value)
	return Key{Op: k.Op, Params: params}
}

// String renders "op?a=1&b=2" with parameters sorted by name and values
// query-escaped, so equal keys always render identically.
func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Op
	}
	names := make([]string, 0, len(k.Params))
	for name := range k.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(k.Op)
	b.WriteByte('?')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(k.Params[name]))
	}
	return b.String()
}
