// Package project holds the per-library facts computed once per run: the
// library kind, its feature flags, and its paths and package identity.
package project

import (
	"fmt"
	"strings"
)

// Kind is the closed set of library types.
type Kind string

const (
	KindContract   Kind = "contract"
	KindDataAccess Kind = "data-access"
	KindFeature    Kind = "feature"
	KindInfra      Kind = "infra"
	KindProvider   Kind = "provider"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindContract, KindDataAccess, KindFeature, KindInfra, KindProvider}

var kindDescriptions = map[Kind]string{
	KindContract:   "domain entities, ports, events and optional CQRS/RPC contracts",
	KindDataAccess: "repository, queries and persistence layers",
	KindFeature:    "server services with optional RPC, client hooks and edge middleware",
	KindInfra:      "infrastructure service with platform specific layers",
	KindProvider:   "third party SDK wrapper with platform entry points",
}

// UnsupportedKindError signals dispatch on a kind outside Kinds.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported library kind %q (want one of %s)", e.Kind, kindList())
}

// ParseKind converts user input to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", &UnsupportedKindError{Kind: s}
	}
	return k, nil
}

// Valid reports whether k is one of Kinds.
func (k Kind) Valid() bool {
	_, ok := kindDescriptions[k]
	return ok
}

// Directory is the subdirectory below the libraries root used when no
// directory override is given.
func (k Kind) Directory() string { return string(k) }

// Description is a one-line summary for help output.
func (k Kind) Description() string { return kindDescriptions[k] }

func kindList() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
