package engine

import (
	"net/url"
	"slices"
	"strings"
)

// Param is one name/value query parameter.
type Param struct {
	Name  string
	Value string
}

// Params is an ordered parameter list. Unlike url.Values it keeps insertion
// order, so a rendered query is byte-identical across calls.
type Params struct {
	list []Param
}

// NewParams creates an empty parameter list.
func NewParams() *Params {
	return &Params{}
}

// Add appends a parameter.
func (p *Params) Add(name, value string) *Params {
	p.list = append(p.list, Param{Name: name, Value: value})
	return p
}

// AddIf appends a parameter when cond holds.
func (p *Params) AddIf(cond bool, name, value string) *Params {
	if cond {
		p.Add(name, value)
	}
	return p
}

// First returns the first value of name.
func (p *Params) First(name string) (string, bool) {
	for _, x := range p.list {
		if x.Name == name {
			return x.Value, true
		}
	}
	return "", false
}

// Has reports whether name is present.
func (p *Params) Has(name string) bool {
	_, ok := p.First(name)
	return ok
}

// Clone returns an independent copy.
func (p *Params) Clone() *Params {
	return &Params{list: slices.Clone(p.list)}
}

// Encode renders the parameters as a URL-encoded query string in insertion order.
func (p *Params) Encode() string {
	var b strings.Builder
	for i, x := range p.list {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(x.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(x.Value))
	}
	return b.String()
}

// String renders the parameters unescaped, for logs.
func (p *Params) String() string {
	parts := make([]string, len(p.list))
	for i, x := range p.list {
		parts[i] = x.Name + "=" + x.Value
	}
	return strings.Join(parts, "&")
}
