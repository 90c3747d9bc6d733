package cache

import "strings"

// ScopedKeyer namespaces the keys of another Keyer, so that deployments
// sharing one redis or sqlite store do not read each other's entries.
// A missing trailing ':' is added to the scope.
//
//	keyer := NewScopedKeyer(nil, "staging")  // "staging:layout:<hash>"
type ScopedKeyer struct {
	inner Keyer
	scope string
}

func NewScopedKeyer(inner Keyer, scope string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if scope != "" && !strings.HasSuffix(scope, ":") {
		scope += ":"
	}
	return &ScopedKeyer{inner: inner, scope: scope}
}

// Scope returns the normalised prefix.
func (k *ScopedKeyer) Scope() string { return k.scope }

func (k *ScopedKeyer) LayoutKey(requestHash string, opts LayoutKeyOpts) string {
	return k.scope + k.inner.LayoutKey(requestHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.scope + k.inner.ArtifactKey(layoutHash, opts)
}
