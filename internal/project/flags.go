package project

import "fmt"

// Platform is the runtime a library targets.
type Platform string

const (
	PlatformNode      Platform = "node"
	PlatformBrowser   Platform = "browser"
	PlatformEdge      Platform = "edge"
	PlatformUniversal Platform = "universal"
)

// ParsePlatform converts user input to a Platform. The empty string is
// allowed and means "use the kind default".
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(s); p {
	case "", PlatformNode, PlatformBrowser, PlatformEdge, PlatformUniversal:
		return p, nil
	}
	return "", fmt.Errorf("unsupported platform %q (want node, browser, edge or universal)", s)
}

// Flags gate the optional file groups of a kind.
type Flags struct {
	IncludeCQRS         bool
	IncludeRPC          bool
	IncludeClientServer bool
	IncludeEdge         bool
	Platform            Platform
}

// DefaultPlatform returns the platform a kind targets when none is given.
func DefaultPlatform(k Kind) Platform {
	switch k {
	case KindContract, KindFeature:
		return PlatformUniversal
	default:
		return PlatformNode
	}
}

// ResolveFlags fills in kind defaults. The input is not modified.
func ResolveFlags(k Kind, requested Flags) Flags {
	resolved := requested
	if resolved.Platform == "" {
		resolved.Platform = DefaultPlatform(k)
	}
	return resolved
}

// Server reports whether server entry points are wanted.
func (f Flags) Server() bool {
	return f.Platform == PlatformNode || f.Platform == PlatformUniversal || f.IncludeClientServer
}

// Client reports whether browser entry points are wanted.
func (f Flags) Client() bool {
	return f.Platform == PlatformBrowser || f.Platform == PlatformUniversal || f.IncludeClientServer
}

// Edge reports whether edge runtime entry points are wanted.
func (f Flags) Edge() bool {
	return f.Platform == PlatformEdge || f.IncludeEdge
}
