package oauth

import (
	"net/url"
	"slices"
	"strings"
)

// Param is a single key/value pair of Params.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered string mapping.
// Keys are unique and keep their insertion order, which is also the order
// they are rendered in query strings and form bodies.
// Params values are immutable: every modifying method returns a new value.
type Params struct {
	pairs []Param
}

// NewParams builds Params from the given pairs.
// A repeated key replaces the earlier value in place.
func NewParams(pairs ...Param) Params {
	var p Params
	for _, pair := range pairs {
		p = p.Set(pair.Key, pair.Value)
	}
	return p
}

// Len returns the number of keys.
func (p Params) Len() int {
	return len(p.pairs)
}

// Get returns the value stored under key.
func (p Params) Get(key string) (string, bool) {
	if i := p.index(key); i >= 0 {
		return p.pairs[i].Value, true
	}
	return "", false
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	return p.index(key) >= 0
}

// Keys returns the keys in order.
func (p Params) Keys() []string {
	keys := make([]string, len(p.pairs))
	for i, pair := range p.pairs {
		keys[i] = pair.Key
	}
	return keys
}

// Pairs returns a copy of the ordered pairs.
func (p Params) Pairs() []Param {
	return slices.Clone(p.pairs)
}

// Set returns a copy of p with key set to value.
// An existing key keeps its position; a new key is appended.
func (p Params) Set(key, value string) Params {
	pairs := slices.Clone(p.pairs)
	if i := p.index(key); i >= 0 {
		pairs[i].Value = value
		return Params{pairs: pairs}
	}
	return Params{pairs: append(pairs, Param{Key: key, Value: value})}
}

// Merge returns p followed by the pairs of other.
// Keys present in both take the value from other but keep the position from p.
func (p Params) Merge(other Params) Params {
	out := p
	for _, pair := range other.pairs {
		out = out.Set(pair.Key, pair.Value)
	}
	return out
}

// Only returns the pairs whose key is listed, in the original order of p.
// Unknown keys are ignored.
func (p Params) Only(keys ...string) Params {
	return p.filter(func(key string) bool { return slices.Contains(keys, key) })
}

// Without returns the pairs whose key is not listed, in the original order of p.
// Unknown keys are ignored.
func (p Params) Without(keys ...string) Params {
	return p.filter(func(key string) bool { return !slices.Contains(keys, key) })
}

// Map returns the pairs as an unordered map.
func (p Params) Map() map[string]string {
	m := make(map[string]string, len(p.pairs))
	for _, pair := range p.pairs {
		m[pair.Key] = pair.Value
	}
	return m
}

// Values returns the pairs as url.Values.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p.pairs))
	for _, pair := range p.pairs {
		v.Set(pair.Key, pair.Value)
	}
	return v
}

// Encode renders the pairs in "application/x-www-form-urlencoded" form,
// keeping insertion order (url.Values.Encode would sort the keys).
func (p Params) Encode() string {
	var sb strings.Builder
	for i, pair := range p.pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(pair.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(pair.Value))
	}
	return sb.String()
}

func (p Params) index(key string) int {
	return slices.IndexFunc(p.pairs, func(pair Param) bool { return pair.Key == key })
}

func (p Params) filter(keep func(key string) bool) Params {
	var pairs []Param
	for _, pair := range p.pairs {
		if keep(pair.Key) {
			pairs = append(pairs, pair)
		}
	}
	return Params{pairs: pairs}
}

// BuildURL trims surrounding slashes from base and appends "?" and params as a
// query string, even when params is empty.
// If base already carries a query, the params are appended with "&".
func BuildURL(base string, params Params) string {
	base = strings.Trim(base, "/")
	if !strings.Contains(base, "?") {
		return base + "?" + params.Encode()
	}
	if params.Len() == 0 {
		return base
	}
	return base + "&" + params.Encode()
}
