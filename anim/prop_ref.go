package anim

import (
	"fmt"
	"strings"
)

// EntityPathKind selects how a NamedPropRef finds its entity.
type EntityPathKind uint8

const (
	// PathThis is the entity that owns the animation.
	PathThis EntityPathKind = iota
	// PathParent is the owning entity's parent.
	PathParent
	// PathNamed is any entity with the given name.
	PathNamed
)

// EntityPath identifies an entity relative to the animation's owner.
type EntityPath struct {
	Kind EntityPathKind
	Name string
}

var (
	This   = EntityPath{Kind: PathThis}
	Parent = EntityPath{Kind: PathParent}
)

// Named returns a path to the entity called name.
func Named(name string) EntityPath {
	return EntityPath{Kind: PathNamed, Name: name}
}

func (p EntityPath) String() string {
	switch p.Kind {
	case PathThis:
		return "this"
	case PathParent:
		return "parent"
	default:
		return p.Name
	}
}

// NamedPropRef is a logical reference to a property: an entity path plus a
// property key. It is resolved by the host into a concrete location.
type NamedPropRef struct {
	Entity EntityPath
	Key    string
}

// NewNamedPropRef builds a reference from a path and key.
func NewNamedPropRef(entity EntityPath, key string) NamedPropRef {
	return NamedPropRef{Entity: entity, Key: key}
}

// ParseNamedPropRef reads the text form "this.x", "parent.x" or "name.x".
// The entity segment ends at the first dot.
func ParseNamedPropRef(s string) (NamedPropRef, error) {
	entity, key, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok || entity == "" || key == "" {
		return NamedPropRef{}, fmt.Errorf("property reference %q: want <entity>.<key>", s)
	}
	switch entity {
	case "this":
		return NamedPropRef{Entity: This, Key: key}, nil
	case "parent":
		return NamedPropRef{Entity: Parent, Key: key}, nil
	default:
		return NamedPropRef{Entity: Named(entity), Key: key}, nil
	}
}

func (r NamedPropRef) String() string {
	return r.Entity.String() + "." + r.Key
}
