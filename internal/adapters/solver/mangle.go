// Package solver answers the minimum-training question with an embedded
// Mangle (Datalog) program.
package solver

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	"github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"

	"github.com/okian/sinfonia/internal/domain/training"
)

// program derives, per role, how many trainings are missing once house
// supply is used, and sums them.
const program = `
Decl demand(Role, Count).
Decl supply(Role, Count).
Decl gap(Role, Count).
Decl min_trainings(Total).

gap(Role, G) :- demand(Role, N), supply(Role, B), N > B, G = fn:minus(N, B).

min_trainings(Total) :-
    gap(Role, G) |>
    do fn:group_by(),
    let Total = fn:sum(G).
`

var (
	demandSym = ast.PredicateSym{Symbol: "demand", Arity: 2}
	supplySym = ast.PredicateSym{Symbol: "supply", Arity: 2}
	gapSym    = ast.PredicateSym{Symbol: "gap", Arity: 2}
	totalSym  = ast.PredicateSym{Symbol: "min_trainings", Arity: 1}
)

// Mangle implements training.Solver. The program is analyzed once; every
// call evaluates it over a fresh fact store.
type Mangle struct {
	once sync.Once
	info *analysis.ProgramInfo
	err  error
}

// NewMangle creates a solver.
func NewMangle() *Mangle {
	return &Mangle{}
}

func (m *Mangle) compile() (*analysis.ProgramInfo, error) {
	m.once.Do(func() {
		unit, err := parse.Unit(strings.NewReader(program))
		if err != nil {
			m.err = fmt.Errorf("parse program: %w", err)
			return
		}
		m.info, m.err = analysis.AnalyzeOneUnit(unit, nil)
		if m.err != nil {
			m.err = fmt.Errorf("analyze program: %w", m.err)
		}
	})
	return m.info, m.err
}

// MinimumTrainings evaluates the program over req and returns the derived total.
func (m *Mangle) MinimumTrainings(ctx context.Context, req training.Request) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", training.ErrSolverFailure, err)
	}
	info, err := m.compile()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", training.ErrSolverFailure, err)
	}

	store := factstore.NewSimpleInMemoryStore()
	for _, role := range sortedKeys(req.Demand) {
		store.Add(ast.NewAtom(demandSym.Symbol, ast.String(role), ast.Number(int64(req.Demand[role]))))
		// Every demanded role gets a supply fact so the gap rule needs no negation.
		store.Add(ast.NewAtom(supplySym.Symbol, ast.String(role), ast.Number(int64(req.Supply[role]))))
	}

	if _, err := engine.EvalProgramWithStats(info, store); err != nil {
		return 0, fmt.Errorf("%w: evaluate: %w", training.ErrSolverFailure, err)
	}

	gaps := 0
	if err := store.GetFacts(ast.NewQuery(gapSym), func(ast.Atom) error {
		gaps++
		return nil
	}); err != nil {
		return 0, fmt.Errorf("%w: query gap: %w", training.ErrSolverFailure, err)
	}

	var totals []int64
	var bad error
	if err := store.GetFacts(ast.NewQuery(totalSym), func(a ast.Atom) error {
		c, ok := a.Args[0].(ast.Constant)
		if !ok || c.Type != ast.NumberType {
			bad = fmt.Errorf("min_trainings is not an integer: %v", a.Args[0])
			return nil
		}
		totals = append(totals, c.NumValue)
		return nil
	}); err != nil {
		return 0, fmt.Errorf("%w: query total: %w", training.ErrSolverFailure, err)
	}
	if bad != nil {
		return 0, fmt.Errorf("%w: %w", training.ErrSolverFailure, bad)
	}

	switch {
	case len(totals) == 0 && gaps == 0:
		return 0, nil
	case len(totals) != 1:
		return 0, fmt.Errorf("%w: expected one min_trainings fact, got %d", training.ErrSolverFailure, len(totals))
	case totals[0] < 0:
		return 0, fmt.Errorf("%w: negative total %d", training.ErrSolverFailure, totals[0])
	}
	return int(totals[0]), nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
