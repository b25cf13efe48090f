package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"pyrite/internal/source"
	"pyrite/internal/types"
)

type (
	// ScopeID indexes scopes inside a Table.
	ScopeID uint32
	// BindingID indexes bindings inside a Table.
	BindingID uint32
)

// NoScopeID and NoBindingID mark absence; slot 0 of each arena is reserved.
const (
	NoScopeID   ScopeID   = 0
	NoBindingID BindingID = 0
)

func (id ScopeID) IsValid() bool   { return id != NoScopeID }
func (id BindingID) IsValid() bool { return id != NoBindingID }

// Binding is a name-to-type(-and-mutability) association. It lives exactly
// as long as its owning scope frame.
type Binding struct {
	Name    string
	Mutable bool
	Type    types.TypeID
	Span    source.Span
	Scope   ScopeID
}

// Table owns the scope stack and its bindings for one checking pass.
// Popped scopes stay in the arena (their IDs remain resolvable for
// diagnostics) but leave the active stack, so their bindings can no longer
// be found by Lookup.
type Table struct {
	scopes   []Scope
	bindings []Binding
	current  ScopeID
}

// NewTable creates a table with the module scope already pushed.
func NewTable() *Table {
	t := &Table{
		scopes:   make([]Scope, 1, 8), // slot 0 reserved
		bindings: make([]Binding, 1, 16),
	}
	t.current = t.push(ScopeModule, NoScopeID)
	return t
}

func (t *Table) push(kind ScopeKind, parent ScopeID) ScopeID {
	lenScopes, err := safecast.Conv[uint32](len(t.scopes))
	if err != nil {
		panic(fmt.Errorf("scope id overflow: %w", err))
	}
	id := ScopeID(lenScopes)
	t.scopes = append(t.scopes, Scope{
		Kind:   kind,
		Parent: parent,
		Names:  make(map[string]BindingID),
	})
	return id
}

// Push enters a new scope frame of the given kind.
func (t *Table) Push(kind ScopeKind) ScopeID {
	t.current = t.push(kind, t.current)
	return t.current
}

// Pop exits the current frame. Bindings created inside never leak to the
// enclosing frame. Popping the module scope is a programming error.
func (t *Table) Pop() {
	cur := t.scope(t.current)
	if cur == nil || !cur.Parent.IsValid() {
		panic("symbols: popped the module scope")
	}
	t.current = cur.Parent
}

// Current returns the innermost scope id.
func (t *Table) Current() ScopeID {
	return t.current
}

// CurrentKind returns the innermost scope kind.
func (t *Table) CurrentKind() ScopeKind {
	if s := t.scope(t.current); s != nil {
		return s.Kind
	}
	return ScopeInvalid
}

func (t *Table) scope(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(t.scopes) {
		return nil
	}
	return &t.scopes[id]
}

// Declare creates a fresh binding in the current frame. When the name is
// already declared in this same frame, the existing binding is returned and
// ok is false; shadowing an outer frame is legal and not reported here.
func (t *Table) Declare(name string, mutable bool, ty types.TypeID, span source.Span) (BindingID, bool) {
	cur := t.scope(t.current)
	if existing, taken := cur.Names[name]; taken {
		return existing, false
	}
	lenBindings, err := safecast.Conv[uint32](len(t.bindings))
	if err != nil {
		panic(fmt.Errorf("binding id overflow: %w", err))
	}
	id := BindingID(lenBindings)
	t.bindings = append(t.bindings, Binding{
		Name:    name,
		Mutable: mutable,
		Type:    ty,
		Span:    span,
		Scope:   t.current,
	})
	cur.Names[name] = id
	return id, true
}

// Lookup resolves a name by walking outward from the current frame to the
// module scope.
func (t *Table) Lookup(name string) (BindingID, bool) {
	for id := t.current; id.IsValid(); {
		s := t.scope(id)
		if s == nil {
			break
		}
		if b, ok := s.Names[name]; ok {
			return b, true
		}
		id = s.Parent
	}
	return NoBindingID, false
}

// LookupLocal resolves a name in the current frame only.
func (t *Table) LookupLocal(name string) (BindingID, bool) {
	cur := t.scope(t.current)
	if cur == nil {
		return NoBindingID, false
	}
	b, ok := cur.Names[name]
	return b, ok
}

// Get returns the binding for an id, or nil for an invalid id.
func (t *Table) Get(id BindingID) *Binding {
	if !id.IsValid() || int(id) >= len(t.bindings) {
		return nil
	}
	return &t.bindings[id]
}

// SetType refines a binding's type once inference has produced it.
func (t *Table) SetType(id BindingID, ty types.TypeID) {
	if b := t.Get(id); b != nil {
		b.Type = ty
	}
}
