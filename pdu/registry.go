package pdu

import (
	"fmt"
	"sync"

	"github.com/veyra-net/pktcraft/perr"
)

// Constructor parses data into a PDU. It is handed the payload that
// follows the discriminator field that selected it — never the whole
// outer packet.
type Constructor func(data []byte) (PDU, error)

// entry pairs a constructor with the Type it produces, so a registry can
// answer both dispatch directions: numeric id -> constructor (parsing)
// and Type -> numeric id (serializing).
type entry struct {
	typ Type
	new Constructor
}

// Registry is a process-wide, reader-preferred lookup table translating a
// numeric next-protocol identifier to a constructor, and a PU's tagged
// identity back to that identifier for writing (spec.md §2 item 4,
// §5). Two independent instances exist in this module: Dispatch (general
// next-header/next-protocol space) and IPv6Ext (the IPv6-specific
// allocator registry consulted only as a fallback — spec.md §4.2).
type Registry struct {
	mu     sync.RWMutex
	byID   map[uint8]entry
	byType map[Type]uint8
}

// NewRegistry returns an empty registry. Registries are meant to be
// populated once at process init and read throughout parsing; the lock
// only matters if registration continues concurrently with lookups
// (spec.md §5).
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[uint8]entry),
		byType: make(map[Type]uint8),
	}
}

// Register binds id to a constructor producing PDUs of the given Type.
// Registering the same (id, typ) pair twice is idempotent. Registering a
// different typ under an id already bound is rejected.
func (r *Registry) Register(id uint8, typ Type, ctor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byID[id]; ok {
		if existing.typ == typ {
			return nil
		}
		return fmt.Errorf("%w: id %d already bound to type %d", perr.ErrConflictingRegistration, id, existing.typ)
	}
	r.byID[id] = entry{typ: typ, new: ctor}
	r.byType[typ] = id
	return nil
}

// Lookup returns the constructor registered for id.
func (r *Registry) Lookup(id uint8) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return e.new, true
}

// IDFor returns the numeric discriminator a PDU of type typ should be
// written with.
func (r *Registry) IDFor(typ Type) (uint8, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byType[typ]
	return id, ok
}

// Dispatch is the general Protocol Dispatch Registry: it maps IANA-style
// next-protocol numbers (as carried by IPv6's next_header field, and by
// any peer unit sharing the same numeric space) to constructors.
var Dispatch = NewRegistry()

// IPv6Ext is the IPv6 Allocator Registry: a fallback consulted only when
// Dispatch has no constructor for a given next_header value, scoped to
// IPv6-specific extension identifiers (spec.md §4.2).
var IPv6Ext = NewRegistry()

// RegisterPDU registers a constructor in the general dispatch registry
// (spec.md §6 "register_pdu(id, constructor)").
func RegisterPDU(id uint8, typ Type, ctor Constructor) error {
	return Dispatch.Register(id, typ, ctor)
}

// RegisterIPv6Ext registers a constructor in the IPv6 allocator registry
// (spec.md §6 "register_ipv6_ext(id, constructor)").
func RegisterIPv6Ext(id uint8, typ Type, ctor Constructor) error {
	return IPv6Ext.Register(id, typ, ctor)
}

// DiscriminatorFor resolves the wire discriminator for inner's type,
// trying the general dispatch registry first and falling back to the
// IPv6 allocator registry, mirroring the fallback order specified for
// IPv6's write path in spec.md §4.2.
func DiscriminatorFor(inner PDU) (uint8, bool) {
	if inner == nil {
		return 0, false
	}
	if id, ok := Dispatch.IDFor(inner.PDUType()); ok {
		return id, true
	}
	return IPv6Ext.IDFor(inner.PDUType())
}

// ResolveInner dispatches on id to produce the inner PDU for data,
// trying dispatch first, then ext, then falling back to RawPDU — the
// fallback chain specified in spec.md §4.1 and §7 ("A parser that cannot
// identify an inner PU does not fail: it falls back").
func ResolveInner(dispatch, ext *Registry, id uint8, data []byte) (PDU, error) {
	if ctor, ok := dispatch.Lookup(id); ok {
		return ctor(data)
	}
	if ext != nil {
		if ctor, ok := ext.Lookup(id); ok {
			return ctor(data)
		}
	}
	return NewRawPDU(data), nil
}
