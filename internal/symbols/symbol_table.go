package symbols

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libklein/nand2tetris/jackcompiler/internal/errs"
)

type scopeTable struct {
	symbols map[string]Symbol
	counts  map[Kind]int
}

func newScopeTable() scopeTable {
	return scopeTable{
		symbols: make(map[string]Symbol),
		counts:  make(map[Kind]int),
	}
}

// SymbolTable resolves identifiers against the class scope (static and field variables)
// and the procedure scope (arguments and locals) of the subroutine being compiled.
type SymbolTable struct {
	classScopeTable     scopeTable
	procedureScopeTable scopeTable
	logger              *zap.Logger
}

func NewSymbolTable(logger *zap.Logger) *SymbolTable {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SymbolTable{
		classScopeTable:     newScopeTable(),
		procedureScopeTable: newScopeTable(),
		logger:              logger,
	}
}

func (s *SymbolTable) table(scope Scope) *scopeTable {
	if scope == ClassScope {
		return &s.classScopeTable
	}
	return &s.procedureScopeTable
}

// Define declares name in the scope owning kind. The symbol gets the next index of its kind.
func (s *SymbolTable) Define(name, variableType string, kind Kind) (Symbol, error) {
	switch kind {
	case Static, Field, Argument, Local:
	default:
		return Symbol{}, errors.Errorf("invalid storage kind %q for %q", kind, name)
	}

	table := s.table(kind.Scope())
	if _, ok := table.symbols[name]; ok {
		return Symbol{}, errs.NewRedefinitionError(name, string(kind.Scope()))
	}

	symbol := Symbol{
		Name:         name,
		Kind:         kind,
		VariableType: variableType,
		Index:        table.counts[kind],
	}
	table.counts[kind]++
	table.symbols[name] = symbol

	s.logger.Debug("Registered symbol",
		zap.String("name", name),
		zap.String("kind", string(kind)),
		zap.String("type", variableType),
		zap.Int("index", symbol.Index))
	return symbol, nil
}

// Resolve looks name up in the procedure scope first and in the class scope second.
func (s *SymbolTable) Resolve(name string) (Symbol, error) {
	if symbol, ok := s.procedureScopeTable.symbols[name]; ok {
		return symbol, nil
	}
	if symbol, ok := s.classScopeTable.symbols[name]; ok {
		return symbol, nil
	}
	return Symbol{}, errs.NewUndefinedSymbolError(name)
}

// Count returns how many symbols of kind are declared in the scope owning kind.
func (s *SymbolTable) Count(kind Kind) int {
	return s.table(kind.Scope()).counts[kind]
}

// ResetProcedure clears the procedure scope and its argument and local counters.
func (s *SymbolTable) ResetProcedure() {
	s.procedureScopeTable = newScopeTable()
}

// ResetClass clears both scopes, ready for the next class.
func (s *SymbolTable) ResetClass() {
	s.classScopeTable = newScopeTable()
	s.procedureScopeTable = newScopeTable()
}
