// Package spec builds the immutable parameter-to-type specification of a
// callable, either from an explicit mapping or from its documentation.
package spec

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/funvibe/typesafe/internal/config"
	"github.com/funvibe/typesafe/internal/docspec"
	"github.com/funvibe/typesafe/internal/errs"
	"github.com/funvibe/typesafe/internal/typeref"
)

// RawEntry is an unresolved (name, reference) pair. Both halves are kept as
// supplied so that non-textual keys and values are reported at build time.
type RawEntry struct {
	Name any
	Ref  any
}

// Raw is an ordered list of unresolved entries.
type Raw []RawEntry

// Entry is a resolved specification entry.
type Entry struct {
	Name       string
	Ref        string
	Descriptor typeref.Descriptor
}

// Spec is an ordered mapping from parameter name to descriptor plus an
// optional return entry. It is never modified after Build.
type Spec struct {
	params []Entry
	ret    *Entry
}

// FromMapping turns an explicit mapping into raw entries. Any Go map is
// accepted, ordered by key with the return key last; config.Mapping keeps
// its own order. No return entry is synthesized.
func FromMapping(m any) (Raw, error) {
	if pairs, ok := m.(config.Mapping); ok {
		raw := make(Raw, 0, len(pairs))
		for _, p := range pairs {
			raw = append(raw, RawEntry{Name: p.Key, Ref: p.Value})
		}
		return raw, nil
	}

	v := reflect.ValueOf(m)
	if v.Kind() != reflect.Map || v.IsNil() {
		return nil, errs.NewConfigError("specification must be a mapping, got %T", m)
	}

	keys := v.MapKeys()
	sort.SliceStable(keys, func(i, j int) bool {
		ki, kj := fmt.Sprint(keys[i].Interface()), fmt.Sprint(keys[j].Interface())
		if (ki == config.ReturnKey) != (kj == config.ReturnKey) {
			return kj == config.ReturnKey
		}
		return ki < kj
	})
	raw := make(Raw, 0, len(keys))
	for _, k := range keys {
		raw = append(raw, RawEntry{Name: k.Interface(), Ref: v.MapIndex(k).Interface()})
	}
	return raw, nil
}

// FromDoc extracts raw entries from the documentation of fn. A missing
// :rtype declares that fn returns no value.
func FromDoc(fn, doc string) (Raw, error) {
	if strings.TrimSpace(doc) == "" {
		return nil, errs.NewMissingSpecError(fn)
	}
	d := docspec.Parse(doc)
	raw := make(Raw, 0, len(d.Params)+1)
	for _, p := range d.Params {
		raw = append(raw, RawEntry{Name: p.Name, Ref: p.Ref})
	}
	ret := d.Return
	if ret == "" {
		ret = config.NoneTypeName
	}
	return append(raw, RawEntry{Name: config.ReturnKey, Ref: ret}), nil
}

// Build resolves every raw entry. The first failure is returned as a
// ResolutionError naming the parameter. A repeated name replaces the earlier
// entry but keeps its position.
func Build(raw Raw, r typeref.Resolver) (*Spec, error) {
	s := &Spec{}
	index := make(map[string]int, len(raw))
	for _, re := range raw {
		name, ok := re.Name.(string)
		if !ok {
			return nil, errs.NewResolutionError(fmt.Sprint(re.Name), fmt.Sprint(re.Ref),
				fmt.Errorf("%w: parameter name %v (%T) is not text", typeref.ErrMalformed, re.Name, re.Name))
		}
		refText := fmt.Sprint(re.Ref)
		ref, err := typeref.ParseValue(re.Ref)
		if err != nil {
			return nil, errs.NewResolutionError(name, refText, err)
		}
		d, err := r.Resolve(ref)
		if err != nil {
			return nil, errs.NewResolutionError(name, refText, err)
		}

		e := Entry{Name: name, Ref: ref.String(), Descriptor: d}
		if name == config.ReturnKey {
			s.ret = &e
			continue
		}
		if i, dup := index[name]; dup {
			s.params[i] = e
			continue
		}
		index[name] = len(s.params)
		s.params = append(s.params, e)
	}
	return s, nil
}

// Params returns the parameter entries in order.
func (s *Spec) Params() []Entry {
	return append([]Entry(nil), s.params...)
}

// Names returns the declared parameter names in order.
func (s *Spec) Names() []string {
	names := make([]string, len(s.params))
	for i, e := range s.params {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the entry for a parameter name.
func (s *Spec) Lookup(name string) (Entry, bool) {
	for _, e := range s.params {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Return returns the return entry, if one was declared.
func (s *Spec) Return() (Entry, bool) {
	if s.ret == nil {
		return Entry{}, false
	}
	return *s.ret, true
}

// Format renders the specification as a signature, e.g. "add(a int, b int) int".
// A None return is left out.
func (s *Spec) Format(name string) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, e := range s.params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.Name)
		sb.WriteByte(' ')
		sb.WriteString(e.Ref)
	}
	sb.WriteByte(')')
	if s.ret != nil && s.ret.Descriptor.Kind != typeref.KindNone {
		sb.WriteByte(' ')
		sb.WriteString(s.ret.Ref)
	}
	return sb.String()
}
