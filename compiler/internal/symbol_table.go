package internal

import (
	"sort"
	"sync"
)

// SymbolKind is the storage class of a variable. It decides which vm segment
// the variable lives in.
type SymbolKind int

const (
	StaticSymbolKind SymbolKind = iota
	FieldSymbolKind
	ArgumentSymbolKind
	LocalSymbolKind
)

func (k SymbolKind) String() string {
	switch k {
	case StaticSymbolKind:
		return "static"
	case FieldSymbolKind:
		return "field"
	case ArgumentSymbolKind:
		return "argument"
	case LocalSymbolKind:
		return "local"
	}
	return "unknown"
}

// Segment is the vm segment holding variables of this kind.
func (k SymbolKind) Segment() Segment {
	switch k {
	case StaticSymbolKind:
		return StaticSegment
	case FieldSymbolKind:
		return ThisSegment
	case ArgumentSymbolKind:
		return ArgumentSegment
	}
	return LocalSegment
}

func (k SymbolKind) isClassScope() bool {
	return k == StaticSymbolKind || k == FieldSymbolKind
}

type SymbolDesc struct {
	name         string
	variableType string // int, char, boolean or a class name.
	kind         SymbolKind
	index        int
}

func (desc *SymbolDesc) Name() string {
	return desc.name
}

func (desc *SymbolDesc) Type() string {
	return desc.variableType
}

func (desc *SymbolDesc) Kind() SymbolKind {
	return desc.kind
}

func (desc *SymbolDesc) Index() int {
	return desc.index
}

// SymbolTable has two nested scopes. The class scope holds statics and fields
// for the whole class, the subroutine scope holds arguments and locals and is
// cleared by StartSubroutine.
type SymbolTable struct {
	classScope      map[string]*SymbolDesc
	subroutineScope map[string]*SymbolDesc
	counters        [4]int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		classScope:      map[string]*SymbolDesc{},
		subroutineScope: map[string]*SymbolDesc{},
	}
}

func (table *SymbolTable) StartSubroutine() {
	table.subroutineScope = map[string]*SymbolDesc{}
	table.counters[ArgumentSymbolKind], table.counters[LocalSymbolKind] = 0, 0
}

// Define adds name to the scope owning kind with the next free index of that
// kind. A name already defined in that scope is an error.
func (table *SymbolTable) Define(name, variableType string, kind SymbolKind) (*SymbolDesc, error) {
	scope := table.scopeOf(kind)
	if prev, ok := scope[name]; ok {
		return nil, makeSemanticError(nil, "%s is already defined as %s %s %d", name, prev.variableType,
			prev.kind, prev.index)
	}
	desc := &SymbolDesc{
		name:         name,
		variableType: variableType,
		kind:         kind,
		index:        table.counters[kind],
	}
	table.counters[kind]++
	scope[name] = desc
	return desc, nil
}

func (table *SymbolTable) scopeOf(kind SymbolKind) map[string]*SymbolDesc {
	if kind.isClassScope() {
		return table.classScope
	}
	return table.subroutineScope
}

func (table *SymbolTable) VarCount(kind SymbolKind) int {
	return table.counters[kind]
}

// LookUp resolves name in the subroutine scope first, then in the class scope.
func (table *SymbolTable) LookUp(name string) (*SymbolDesc, bool) {
	if desc, ok := table.subroutineScope[name]; ok {
		return desc, true
	}
	desc, ok := table.classScope[name]
	return desc, ok
}

func (table *SymbolTable) KindOf(name string) (SymbolKind, bool) {
	desc, ok := table.LookUp(name)
	if !ok {
		return 0, false
	}
	return desc.kind, true
}

func (table *SymbolTable) TypeOf(name string) (string, bool) {
	desc, ok := table.LookUp(name)
	if !ok {
		return "", false
	}
	return desc.variableType, true
}

func (table *SymbolTable) IndexOf(name string) (int, bool) {
	desc, ok := table.LookUp(name)
	if !ok {
		return 0, false
	}
	return desc.index, true
}

var primitiveTypes = []string{"int", "char", "boolean"}

// Classes of the jack OS, always available to every compiled class.
var standardLibraryClasses = []string{"Math", "String", "Array", "Output", "Screen", "Keyboard", "Memory", "Sys"}

// TypeRegistry is the set of type names seen by the compiler. One registry
// can be shared by every file of a build.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]bool
}

func NewTypeRegistry() *TypeRegistry {
	registry := &TypeRegistry{types: map[string]bool{}}
	for _, name := range primitiveTypes {
		registry.types[name] = true
	}
	for _, name := range standardLibraryClasses {
		registry.types[name] = true
	}
	return registry
}

func (registry *TypeRegistry) Register(name string) {
	registry.mu.Lock()
	registry.types[name] = true
	registry.mu.Unlock()
}

func (registry *TypeRegistry) IsKnown(name string) bool {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.types[name]
}

func (registry *TypeRegistry) IsPrimitive(name string) bool {
	for _, primitive := range primitiveTypes {
		if primitive == name {
			return true
		}
	}
	return false
}

// Names returns the registered names in sorted order.
func (registry *TypeRegistry) Names() []string {
	registry.mu.RLock()
	names := make([]string, 0, len(registry.types))
	for name := range registry.types {
		names = append(names, name)
	}
	registry.mu.RUnlock()
	sort.Strings(names)
	return names
}
