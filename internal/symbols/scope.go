package symbols

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeModule            // module-level (top-level declarations)
	ScopeFunction          // function body scope
	ScopeBlock             // conditional/loop/nested block scope
	ScopeClosure           // comprehension body scope
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeClosure:
		return "closure"
	default:
		return "invalid"
	}
}

// Scope is one lexical frame. It keeps a lookup-only back-reference to its
// parent and never owns it; frames are created on entering a syntactic
// region and dropped on exit.
type Scope struct {
	Kind   ScopeKind
	Parent ScopeID
	Names  map[string]BindingID
}
