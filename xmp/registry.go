package xmp

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// AliasForm describes how an alias maps onto its actual property.
type AliasForm int

const (
	// AliasSimple maps the alias onto the whole actual property.
	AliasSimple AliasForm = iota
	// AliasBagItem maps the alias onto the first item of an unordered array.
	AliasBagItem
	// AliasSeqItem maps the alias onto the first item of an ordered array.
	AliasSeqItem
	// AliasAltText maps the alias onto the x-default item of an alt-text array.
	AliasAltText
)

func (f AliasForm) String() string {
	switch f {
	case AliasSimple:
		return "simple"
	case AliasBagItem:
		return "bag-item"
	case AliasSeqItem:
		return "seq-item"
	case AliasAltText:
		return "alt-text"
	default:
		return fmt.Sprintf("AliasForm(%d)", int(f))
	}
}

// arrayForm returns the array kind holding the aliased value.
func (f AliasForm) arrayForm() (ArrayForm, bool) {
	switch f {
	case AliasBagItem:
		return ArrayUnordered, true
	case AliasSeqItem:
		return ArrayOrdered, true
	case AliasAltText:
		return ArrayAlternative, true
	}
	return 0, false
}

// Alias is the actual property an alias resolves to.
type Alias struct {
	Namespace string
	Name      string
	Form      AliasForm
}

// Path returns the path of the aliased value below the actual property.
func (a Alias) Path() Path {
	p := P(a.Name)
	p[0].Namespace = a.Namespace
	switch a.Form {
	case AliasBagItem, AliasSeqItem:
		return p.Index(1)
	case AliasAltText:
		return p.Lang(XDefault)
	}
	return p
}

// Registry maps namespace URIs to prefixes and alias names to actual
// properties. It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	uriToPrefix map[string]string
	prefixToURI map[string]string
	aliases     map[QName]Alias
}

// DefaultRegistry is the process-wide registry used when no other is given.
var DefaultRegistry = NewRegistry()

// NewRegistry returns a registry holding the well-known namespaces and the
// standard aliases.
func NewRegistry() *Registry {
	r := newEmptyRegistry()
	for _, ns := range standardNamespaces {
		if _, err := r.Register(ns.uri, ns.prefix); err != nil {
			panic(err)
		}
	}
	for _, a := range standardAliases {
		if err := r.RegisterAlias(a.ns, a.name, a.actualNS, a.actualName, a.form); err != nil {
			panic(err)
		}
	}
	return r
}

func newEmptyRegistry() *Registry {
	return &Registry{
		uriToPrefix: make(map[string]string),
		prefixToURI: make(map[string]string),
		aliases:     make(map[QName]Alias),
	}
}

// Register binds uri to suggestedPrefix and returns the prefix actually in
// use. Registering a known URI returns its existing prefix. When the
// suggested prefix is taken by another URI a unique one is derived from it
// by appending "_1_", "_2_" and so on.
func (r *Registry) Register(uri, suggestedPrefix string) (string, error) {
	if !isValidNamespaceURI(uri) {
		return "", errorf(ErrInvalidNamespace, "bad namespace URI %q", uri)
	}
	suggestedPrefix = strings.TrimSuffix(suggestedPrefix, ":")
	if !isNCName(suggestedPrefix) {
		return "", errorf(ErrInvalidNamespace, "bad prefix %q for %s", suggestedPrefix, uri)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prefix, ok := r.uriToPrefix[uri]; ok {
		return prefix, nil
	}
	prefix := suggestedPrefix
	for i := 1; ; i++ {
		if _, taken := r.prefixToURI[prefix]; !taken {
			break
		}
		prefix = fmt.Sprintf("%s_%d_", suggestedPrefix, i)
	}
	r.uriToPrefix[uri] = prefix
	r.prefixToURI[prefix] = uri
	return prefix, nil
}

// Prefix returns the prefix registered for uri.
func (r *Registry) Prefix(uri string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if prefix, ok := r.uriToPrefix[uri]; ok {
		return prefix, nil
	}
	return "", fmt.Errorf("%w: namespace %s", ErrNotFound, uri)
}

// URI returns the namespace URI registered for prefix.
func (r *Registry) URI(prefix string) (string, error) {
	prefix = strings.TrimSuffix(prefix, ":")
	r.mu.RLock()
	defer r.mu.RUnlock()
	if uri, ok := r.prefixToURI[prefix]; ok {
		return uri, nil
	}
	return "", fmt.Errorf("%w: prefix %q", ErrNotFound, prefix)
}

// ResolveURI resolves prefix against nested xmlns declarations, innermost
// first, and falls back to the registered prefixes.
func (r *Registry) ResolveURI(prefix string, scope *NamespaceScope) (string, error) {
	if uri, ok := scope.Lookup(prefix); ok {
		return uri, nil
	}
	if prefix == "" {
		return "", fmt.Errorf("%w: no default namespace in scope", ErrNotFound)
	}
	return r.URI(prefix)
}

// Delete removes the namespace and every alias that refers to it.
func (r *Registry) Delete(uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefix, ok := r.uriToPrefix[uri]
	if !ok {
		return
	}
	delete(r.uriToPrefix, uri)
	delete(r.prefixToURI, prefix)
	for name, actual := range r.aliases {
		if name.Namespace == uri || actual.Namespace == uri {
			delete(r.aliases, name)
		}
	}
}

// Namespaces returns a copy of the URI to prefix table.
func (r *Registry) Namespaces() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.uriToPrefix))
	for uri, prefix := range r.uriToPrefix {
		out[uri] = prefix
	}
	return out
}

// RegisterAlias declares (ns, name) an alias of (actualNS, actualName).
// Both namespaces must already be registered. Aliases cannot be chained.
func (r *Registry) RegisterAlias(ns, name, actualNS, actualName string, form AliasForm) error {
	if !isNCName(name) || !isNCName(actualName) {
		return errorf(ErrInvalidValue, "bad alias name %q -> %q", name, actualName)
	}
	if form < AliasSimple || form > AliasAltText {
		return errorf(ErrInvalidValue, "bad alias form %d", int(form))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.uriToPrefix[ns]; !ok {
		return fmt.Errorf("%w: alias namespace %s is not registered", ErrInvalidNamespace, ns)
	}
	if _, ok := r.uriToPrefix[actualNS]; !ok {
		return fmt.Errorf("%w: actual namespace %s is not registered", ErrInvalidNamespace, actualNS)
	}
	key := QName{ns, name}
	actual := Alias{Namespace: actualNS, Name: actualName, Form: form}
	if existing, ok := r.aliases[key]; ok {
		if existing == actual {
			return nil
		}
		return errorf(ErrInvalidValue, "alias %s is already registered for %s", key, QName{existing.Namespace, existing.Name})
	}
	if _, ok := r.aliases[QName{actualNS, actualName}]; ok {
		return errorf(ErrInvalidValue, "actual property %s is itself an alias", QName{actualNS, actualName})
	}
	for _, other := range r.aliases {
		if other.Namespace == ns && other.Name == name {
			return errorf(ErrInvalidValue, "alias %s is already the target of another alias", key)
		}
	}
	r.aliases[key] = actual
	return nil
}

// ResolveAlias returns the actual property for an alias.
func (r *Registry) ResolveAlias(ns, name string) (Alias, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.aliases[QName{ns, name}]
	return a, ok
}

// Aliases returns the aliases registered in namespace ns, or all aliases
// when ns is empty, sorted by alias name.
func (r *Registry) Aliases(ns string) []QName {
	r.mu.RLock()
	out := make([]QName, 0, len(r.aliases))
	for name := range r.aliases {
		if ns == "" || name.Namespace == ns {
			out = append(out, name)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Namespace != out[j].Namespace {
			return out[i].Namespace < out[j].Namespace
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// NamespaceScope is a stack of xmlns declarations, innermost last.
type NamespaceScope struct {
	frames []map[string]string
}

// Push opens a new scope level with the given prefix to URI bindings.
// The empty prefix denotes the default namespace.
func (s *NamespaceScope) Push(bindings map[string]string) {
	s.frames = append(s.frames, bindings)
}

// Pop closes the innermost scope level.
func (s *NamespaceScope) Pop() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Lookup resolves prefix from the innermost declaration outwards.
func (s *NamespaceScope) Lookup(prefix string) (string, bool) {
	if s == nil {
		return "", false
	}
	for i := len(s.frames) - 1; i >= 0; i-- {
		if uri, ok := s.frames[i][prefix]; ok {
			return uri, true
		}
	}
	return "", false
}

// Depth returns the number of open scope levels.
func (s *NamespaceScope) Depth() int {
	if s == nil {
		return 0
	}
	return len(s.frames)
}
