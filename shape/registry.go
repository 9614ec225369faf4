package shape

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Kind identifies a family of shapes. Kinds are closed at startup: built-in kinds are registered
// by this package and further kinds through Register.
type Kind uint16

// Built-in shape kinds.
const (
	KindBall Kind = iota + 1
	KindPlane
	KindCuboid
	KindCapsule
	KindCylinder
	KindCone
	KindConvexHull
	KindSegment
	KindTriangle
	KindCompound
	KindTriMesh
	KindPolyline
)

// FirstUserKind is the lowest kind id available to Register.
const FirstUserKind Kind = 1024

// String returns the registered name of the kind.
func (k Kind) String() string {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	if e, ok := defaultRegistry.kinds[k]; ok {
		return e.name
	}
	return fmt.Sprintf("kind(%d)", uint16(k))
}

// Capability is a set of algorithm families a kind can be resolved to.
type Capability uint8

// Capabilities a kind can register with.
const (
	CapBall Capability = 1 << iota
	CapPlane
	CapSupportMap
	CapComposite
)

// Has reports whether every capability of other is in c.
func (c Capability) Has(other Capability) bool {
	return c&other == other && other != 0
}

func (c Capability) String() string {
	var names []string
	for _, cn := range []struct {
		c    Capability
		name string
	}{{CapBall, "ball"}, {CapPlane, "plane"}, {CapSupportMap, "support_map"}, {CapComposite, "composite"}} {
		if c&cn.c != 0 {
			names = append(names, cn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// validate checks that the set holds one dispatch role. A dedicated primitive may also be a support
// map so the generic paths can take it, a composite is only a composite.
func (c Capability) validate() error {
	switch c {
	case CapBall, CapPlane, CapSupportMap, CapComposite, CapBall | CapSupportMap, CapPlane | CapSupportMap:
		return nil
	default:
		return errors.Errorf("invalid capability set %s", c)
	}
}

type kindEntry struct {
	name string
	caps Capability
}

type registry struct {
	mu    sync.RWMutex
	kinds map[Kind]kindEntry
}

var defaultRegistry = &registry{kinds: map[Kind]kindEntry{}}

func init() {
	for _, b := range []struct {
		kind Kind
		name string
		caps Capability
	}{
		{KindBall, "ball", CapBall | CapSupportMap},
		{KindPlane, "plane", CapPlane},
		{KindCuboid, "cuboid", CapSupportMap},
		{KindCapsule, "capsule", CapSupportMap},
		{KindCylinder, "cylinder", CapSupportMap},
		{KindCone, "cone", CapSupportMap},
		{KindConvexHull, "convex_hull", CapSupportMap},
		{KindSegment, "segment", CapSupportMap},
		{KindTriangle, "triangle", CapSupportMap},
		{KindCompound, "compound", CapComposite},
		{KindTriMesh, "trimesh", CapComposite},
		{KindPolyline, "polyline", CapComposite},
	} {
		if err := defaultRegistry.register(b.kind, b.name, b.caps); err != nil {
			panic(err)
		}
	}
}

// Register adds a shape kind with the given capabilities. It is meant to be called at startup,
// before queries run, and fails if the kind is taken or the capability set is invalid.
func Register(kind Kind, name string, caps Capability) error {
	if kind < FirstUserKind {
		return errors.Errorf("kind %d is reserved for built-in shapes", uint16(kind))
	}
	return defaultRegistry.register(kind, name, caps)
}

func (r *registry) register(kind Kind, name string, caps Capability) error {
	if name == "" {
		return errors.Errorf("kind %d registered without a name", uint16(kind))
	}
	if err := caps.validate(); err != nil {
		return errors.Wrapf(err, "registering kind %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.kinds[kind]; ok {
		return errors.Errorf("kind %d already registered as %q", uint16(kind), existing.name)
	}
	r.kinds[kind] = kindEntry{name: name, caps: caps}
	return nil
}

// Capabilities returns the capabilities the kind was registered with.
func Capabilities(kind Kind) (Capability, bool) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	e, ok := defaultRegistry.kinds[kind]
	return e.caps, ok
}

// Resolve returns the capabilities of the shape's kind after checking that the shape implements
// each of them. It fails with ErrUnsupportedShape otherwise.
func Resolve(s Shape) (Capability, error) {
	if s == nil {
		return 0, newUnsupportedShapeError(s)
	}
	caps, ok := Capabilities(s.Kind())
	if !ok {
		return 0, newUnsupportedShapeError(s)
	}
	if caps&CapBall != 0 {
		if _, ok := s.(BallShape); !ok {
			return 0, newUnsupportedShapeError(s)
		}
	}
	if caps&CapPlane != 0 {
		if _, ok := s.(PlaneShape); !ok {
			return 0, newUnsupportedShapeError(s)
		}
	}
	if caps&CapSupportMap != 0 {
		if _, ok := s.(SupportMap); !ok {
			return 0, newUnsupportedShapeError(s)
		}
	}
	if caps&CapComposite != 0 {
		if _, ok := s.(Composite); !ok {
			return 0, newUnsupportedShapeError(s)
		}
	}
	return caps, nil
}

func hasCapability(s Shape, c Capability) bool {
	if s == nil {
		return false
	}
	caps, ok := Capabilities(s.Kind())
	return ok && caps.Has(c)
}

// AsBall returns the shape as a ball if its kind resolves to the dedicated ball algorithm.
func AsBall(s Shape) (BallShape, bool) {
	if !hasCapability(s, CapBall) {
		return nil, false
	}
	b, ok := s.(BallShape)
	return b, ok
}

// AsPlane returns the shape as a plane if its kind resolves to the dedicated plane algorithm.
func AsPlane(s Shape) (PlaneShape, bool) {
	if !hasCapability(s, CapPlane) {
		return nil, false
	}
	p, ok := s.(PlaneShape)
	return p, ok
}

// AsSupportMap returns the shape as a support map if its kind is support mappable.
func AsSupportMap(s Shape) (SupportMap, bool) {
	if !hasCapability(s, CapSupportMap) {
		return nil, false
	}
	sm, ok := s.(SupportMap)
	return sm, ok
}

// AsComposite returns the shape as a composite if its kind is a composite.
func AsComposite(s Shape) (Composite, bool) {
	if !hasCapability(s, CapComposite) {
		return nil, false
	}
	c, ok := s.(Composite)
	return c, ok
}
