// Copyright © 2024 The ELPS authors

package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/luthersystems/jml/ast"
	"github.com/luthersystems/jml/astutil"
	"github.com/luthersystems/jml/diagnostic"
)

// AnalyzerUndefinedName reports references to names that are not bound by
// the program header, an enclosing lambda, or the environment.
var AnalyzerUndefinedName = &Analyzer{
	Name:     "undefined-name",
	Severity: SeverityError,
	Doc:      "Report references to names that are never bound.\n\nA name is bound by a header binding, a parameter of an enclosing lambda, a builtin, or a predeclared name such as a --variable of jml run.  Header bindings cannot see lambda parameters of their callers.",
	Run: func(pass *Pass) error {
		header := make(map[string]bool)
		for _, bind := range bindings(pass.Program) {
			header[bind.Identifier] = true
		}
		walkProgram(pass.Program, func(_ *ast.Bind, expr ast.Expr) {
			walkScoped(expr, nil, func(v *ast.Variable, s *scope) {
				if s.has(v.Name) || header[v.Name] || pass.Predeclared[v.Name] {
					return
				}
				d := pass.Diagnostic(v.Span, "undefined name '%s'", v.Name)
				visible := make(map[string]bool, len(header)+len(pass.Predeclared))
				for name := range header {
					visible[name] = true
				}
				for name := range pass.Predeclared {
					visible[name] = true
				}
				s.all(visible)
				if hint := diagnostic.Suggest(v.Name, sortedNames(visible)); hint != "" {
					d.Notes = append(d.Notes, hint)
				}
				pass.Report(d)
			})
		})
		return nil
	},
}

// AnalyzerUnusedBinding reports header bindings that nothing refers to.
var AnalyzerUnusedBinding = &Analyzer{
	Name:     "unused-binding",
	Severity: SeverityWarning,
	Doc:      "Report header bindings that are never referenced.\n\nA binding referenced only from its own expression is unused.  References that resolve to a lambda parameter of the same name do not count.",
	Run: func(pass *Pass) error {
		used := make(map[string]bool)
		walkProgram(pass.Program, func(bind *ast.Bind, expr ast.Expr) {
			WalkScoped(expr, func(v *ast.Variable, _, isParam bool) {
				if isParam || (bind != nil && bind.Identifier == v.Name) {
					return
				}
				used[v.Name] = true
			})
		})
		for _, bind := range lastBindings(pass.Program) {
			if !used[bind.Identifier] {
				pass.Reportf(bind.Span, "binding '%s' is never used", bind.Identifier)
			}
		}
		return nil
	},
}

// AnalyzerDuplicateBinding reports header bindings that are replaced by a
// later binding of the same name.
var AnalyzerDuplicateBinding = &Analyzer{
	Name:     "duplicate-binding",
	Severity: SeverityWarning,
	Doc:      "Report names bound more than once in a program header.\n\nThe last binding of a name replaces earlier ones, so the earlier expressions are never evaluated.",
	Run: func(pass *Pass) error {
		first := make(map[string]*ast.Bind)
		for _, bind := range bindings(pass.Program) {
			prev, ok := first[bind.Identifier]
			if !ok {
				first[bind.Identifier] = bind
				continue
			}
			d := pass.Diagnostic(bind.Span, "'%s' is already bound", bind.Identifier)
			pass.ReportWithNotes(d, "previous binding at "+pass.Position(prev.Span).String())
		}
		return nil
	},
}

// AnalyzerDuplicateKey reports object literals that set the same literal key
// more than once.
var AnalyzerDuplicateKey = &Analyzer{
	Name:     "duplicate-key",
	Severity: SeverityWarning,
	Doc:      "Report object literals with repeated keys.\n\nThe value of a repeated key replaces the earlier value while the key keeps its first position.  Computed keys are not checked.",
	Run: func(pass *Pass) error {
		astutil.WalkProgram(pass.Program, func(node, _ ast.Expr, _ int) {
			obj, ok := node.(*ast.Object)
			if !ok {
				return
			}
			seen := make(map[string]bool)
			for _, entry := range obj.Entries {
				if entry.Key.Expr != nil {
					continue
				}
				if seen[entry.Key.Name] {
					pass.Reportf(entry.Key.Span, "duplicate key %q in object", entry.Key.Name)
				}
				seen[entry.Key.Name] = true
			}
		})
		return nil
	},
}

// AnalyzerDuplicateParam reports lambdas that repeat a parameter name.
var AnalyzerDuplicateParam = &Analyzer{
	Name:     "duplicate-param",
	Severity: SeverityWarning,
	Doc:      "Report lambdas with repeated parameter names.\n\nThe last argument for a repeated parameter is the one bound, so earlier arguments are unreachable.",
	Run: func(pass *Pass) error {
		astutil.WalkProgram(pass.Program, func(node, _ ast.Expr, _ int) {
			fn, ok := node.(*ast.Lambda)
			if !ok {
				return
			}
			seen := make(map[string]bool, len(fn.Params))
			for _, p := range fn.Params {
				if seen[p] {
					pass.Reportf(fn.Span, "parameter '%s' is repeated", p)
				}
				seen[p] = true
			}
		})
		return nil
	},
}

// AnalyzerSelfReference reports header bindings whose evaluation depends on
// themselves without passing through a lambda.
var AnalyzerSelfReference = &Analyzer{
	Name:     "self-reference",
	Severity: SeverityError,
	Doc:      "Report header bindings that depend on themselves outside a lambda.\n\nHeader bindings are evaluated each time they are referenced, so a binding that refers to itself, directly or through other bindings, recurses until evaluation fails.  References inside a lambda body are only evaluated when the lambda is applied and are not reported.",
	Run: func(pass *Pass) error {
		binds := lastBindings(pass.Program)
		byName := make(map[string]*ast.Bind, len(binds))
		for _, bind := range binds {
			byName[bind.Identifier] = bind
		}
		deps := make(map[string][]string, len(binds))
		for _, bind := range binds {
			seen := make(map[string]bool)
			WalkScoped(bind.Expr, func(v *ast.Variable, inLambda, _ bool) {
				if inLambda || seen[v.Name] || byName[v.Name] == nil {
					return
				}
				seen[v.Name] = true
				deps[bind.Identifier] = append(deps[bind.Identifier], v.Name)
			})
		}
		for _, bind := range binds {
			if path := cyclePath(bind.Identifier, deps); path != nil {
				pass.Reportf(bind.Span, "binding '%s' depends on itself: %s",
					bind.Identifier, strings.Join(path, " -> "))
			}
		}
		return nil
	},
}

// AnalyzerShadowedBuiltin reports bindings and parameters that hide a
// builtin function.
var AnalyzerShadowedBuiltin = &Analyzer{
	Name:     "shadowed-builtin",
	Severity: SeverityInfo,
	Doc:      "Report bindings and lambda parameters named after a builtin.\n\nThe builtin is not reachable where the name is shadowed.",
	Run: func(pass *Pass) error {
		builtins := builtinNames()
		for _, bind := range bindings(pass.Program) {
			if builtins[bind.Identifier] {
				pass.Reportf(bind.Span, "binding '%s' shadows a builtin", bind.Identifier)
			}
		}
		astutil.WalkProgram(pass.Program, func(node, _ ast.Expr, _ int) {
			fn, ok := node.(*ast.Lambda)
			if !ok {
				return
			}
			for _, p := range fn.Params {
				if builtins[p] {
					pass.Reportf(fn.Span, "parameter '%s' shadows a builtin", p)
				}
			}
		})
		return nil
	},
}

// AnalyzerConstantCondition reports if expressions with a literal boolean
// condition.
var AnalyzerConstantCondition = &Analyzer{
	Name:     "constant-condition",
	Severity: SeverityInfo,
	Doc:      "Report if expressions whose condition is a boolean literal.\n\nOne branch is never evaluated.",
	Run: func(pass *Pass) error {
		astutil.WalkProgram(pass.Program, func(node, _ ast.Expr, _ int) {
			n, ok := node.(*ast.If)
			if !ok {
				return
			}
			if b, ok := n.Cond.(*ast.Bool); ok {
				pass.Reportf(n.Cond.Source(), "condition is always %t", b.Value)
			}
		})
		return nil
	},
}

// lastBindings returns the effective header bindings of prog: the last
// binding of each name, in header order.
func lastBindings(prog *ast.Jml) []*ast.Bind {
	binds := bindings(prog)
	last := make(map[string]int, len(binds))
	for i, bind := range binds {
		last[bind.Identifier] = i
	}
	var out []*ast.Bind
	for i, bind := range binds {
		if last[bind.Identifier] == i {
			out = append(out, bind)
		}
	}
	return out
}

// cyclePath returns a dependency path from name back to itself, or nil.
func cyclePath(name string, deps map[string][]string) []string {
	visited := make(map[string]bool)
	var path []string
	var visit func(n string) bool
	visit = func(n string) bool {
		path = append(path, n)
		for _, dep := range deps[n] {
			if dep == name {
				path = append(path, dep)
				return true
			}
			if !visited[dep] {
				visited[dep] = true
				if visit(dep) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if visit(name) {
		return path
	}
	return nil
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AnalyzerNames returns a sorted list of all default analyzer names.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns a formatted documentation string for all analyzers.
func AnalyzerDoc() string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %s\n", a.Name)
		lines := strings.Split(a.Doc, "\n")
		fmt.Fprintf(&b, "    %s\n\n", lines[0])
	}
	return b.String()
}
