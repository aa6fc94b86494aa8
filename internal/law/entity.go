package law

import "golang.org/x/text/unicode/norm"

// Entity is the capability interface every simulated legal subject
// (person, organization) must satisfy. The engine depends only on this
// interface, never on a concrete representation, so external callers can
// supply their own entity shapes.
//
// Ownership model: an entity is either exclusively owned by its
// population (mutable simulation) or shared read-only when handed to the
// streaming processor for concurrent read access. Implementations are not
// required to be safe for concurrent mutation.
type Entity interface {
	// ID returns the stable identifier of the entity.
	ID() string

	// Attribute looks up a free-text attribute by key.
	// The second return is false when the attribute is absent.
	Attribute(key string) (string, bool)

	// SetAttribute stores or replaces an attribute.
	SetAttribute(key, value string)
}

// MapEntity is the in-memory attribute-map implementation of Entity.
//
// Attribute keys and values are NFC-normalized on write and keys on read,
// so statutes authored with differently-composed Unicode still match the
// data they were written against.
type MapEntity struct {
	id    string
	attrs map[string]string
}

// NewMapEntity creates an entity with the given id and initial attributes.
// The attribute map is copied; the caller keeps ownership of its map.
func NewMapEntity(id string, attrs map[string]string) *MapEntity {
	e := &MapEntity{
		id:    id,
		attrs: make(map[string]string, len(attrs)),
	}
	for k, v := range attrs {
		e.attrs[norm.NFC.String(k)] = norm.NFC.String(v)
	}
	return e
}

// ID returns the entity identifier.
func (e *MapEntity) ID() string {
	return e.id
}

// Reset reinitializes a recycled entity in place, reusing the attribute
// map allocation. Callers pooling entities reset them on acquire so no
// attribute from the previous occupant survives.
func (e *MapEntity) Reset(id string, attrs map[string]string) {
	e.id = id
	if e.attrs == nil {
		e.attrs = make(map[string]string, len(attrs))
	}
	clear(e.attrs)
	for k, v := range attrs {
		e.attrs[norm.NFC.String(k)] = norm.NFC.String(v)
	}
}

// Attribute looks up an attribute by NFC-normalized key.
func (e *MapEntity) Attribute(key string) (string, bool) {
	v, ok := e.attrs[norm.NFC.String(key)]
	return v, ok
}

// SetAttribute stores an attribute, normalizing key and value.
func (e *MapEntity) SetAttribute(key, value string) {
	e.attrs[norm.NFC.String(key)] = norm.NFC.String(value)
}

// Attrs returns a copy of the attribute map. Used for archiving and tests.
func (e *MapEntity) Attrs() map[string]string {
	out := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out
}
