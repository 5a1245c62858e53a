package lint

import (
	"fmt"
	"go/ast"
	"go/token"
	"slices"
	"strconv"
)

// tokenVisitor collects token misuse in one file.
//
// Matching is syntactic: a call is an acquisition when it invokes one of the
// configured zero-argument methods. Files that do not import a configured
// package are never visited.
type tokenVisitor struct {
	fset *token.FileSet
	cfg  *LintConfig

	findings []*Finding
}

// importsCells reports whether file imports one of the configured packages.
func importsCells(file *ast.File, paths []string) bool {
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		if slices.Contains(paths, path) {
			return true
		}
	}
	return false
}

// acquisition returns the method name when expr acquires a token.
func (v *tokenVisitor) acquisition(expr ast.Expr) (string, bool) {
	call, ok := ast.Unparen(expr).(*ast.CallExpr)
	if !ok || len(call.Args) != 0 {
		return "", false
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return "", false
	}
	name := sel.Sel.Name
	if slices.Contains(v.cfg.SharedMethods, name) || slices.Contains(v.cfg.ExclusiveMethods, name) {
		return name, true
	}
	return "", false
}

// Visit implements ast.Visitor.
//
// Nodes we care about:
//  1. *ast.ExprStmt: h.Read() as a statement (discarded-token)
//  2. *ast.AssignStmt: _ = h.Read() (discarded-token)
//  3. *ast.SelectorExpr: h.Read().Get() (chained-token)
//  4. *ast.FuncDecl, *ast.FuncLit: bodies checked for leaked-token
func (v *tokenVisitor) Visit(node ast.Node) ast.Visitor {
	switch n := node.(type) {
	case *ast.ExprStmt:
		if name, ok := v.acquisition(n.X); ok {
			v.report(n.Pos(), RuleDiscardedToken,
				fmt.Sprintf("result of %s() discarded; the cell stays borrowed", name),
				fmt.Sprintf("assign the token and defer its %s()", v.cfg.ReleaseMethod))
		}
	case *ast.AssignStmt:
		if len(n.Lhs) == 1 && len(n.Rhs) == 1 && isBlank(n.Lhs[0]) {
			if name, ok := v.acquisition(n.Rhs[0]); ok {
				v.report(n.Pos(), RuleDiscardedToken,
					fmt.Sprintf("token from %s() assigned to blank identifier; the cell stays borrowed", name),
					fmt.Sprintf("assign the token and defer its %s()", v.cfg.ReleaseMethod))
			}
		}
	case *ast.SelectorExpr:
		if n.Sel.Name != v.cfg.ReleaseMethod {
			if name, ok := v.acquisition(n.X); ok {
				v.report(n.Pos(), RuleChainedToken,
					fmt.Sprintf("%s() called on a token from %s() that is never released", n.Sel.Name, name),
					"use the handle's Get, Set, View or Update helpers, which release the token")
			}
		}
	case *ast.FuncDecl:
		if n.Body != nil {
			v.checkBody(n.Body)
		}
	case *ast.FuncLit:
		v.checkBody(n.Body)
	}
	return v
}

// checkBody reports tokens bound to a local name that the body neither
// releases nor lets escape. Bindings inside nested function literals belong
// to those literals; releases inside them count for the enclosing body.
func (v *tokenVisitor) checkBody(body *ast.BlockStmt) {
	type binding struct {
		name   string
		method string
		pos    token.Pos
	}
	var bound []binding

	ast.Inspect(body, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.FuncLit:
			return false
		case *ast.AssignStmt:
			if len(n.Lhs) != len(n.Rhs) {
				return true
			}
			for i, rhs := range n.Rhs {
				id, ok := n.Lhs[i].(*ast.Ident)
				if !ok || id.Name == "_" {
					continue
				}
				if method, ok := v.acquisition(rhs); ok {
					bound = append(bound, binding{id.Name, method, n.Pos()})
				}
			}
		case *ast.ValueSpec:
			if len(n.Names) != len(n.Values) {
				return true
			}
			for i, value := range n.Values {
				if n.Names[i].Name == "_" {
					continue
				}
				if method, ok := v.acquisition(value); ok {
					bound = append(bound, binding{n.Names[i].Name, method, n.Pos()})
				}
			}
		}
		return true
	})

	for _, b := range bound {
		if v.releasedOrEscapes(body, b.name) {
			continue
		}
		v.report(b.pos, RuleLeakedToken,
			fmt.Sprintf("token %s from %s() is never released", b.name, b.method),
			fmt.Sprintf("add defer %s.%s() after acquiring", b.name, v.cfg.ReleaseMethod))
	}
}

// releasedOrEscapes reports whether body calls name.Release() or hands name
// to other code by returning it, passing it as an argument, storing it in a
// composite literal or assigning it elsewhere.
func (v *tokenVisitor) releasedOrEscapes(body *ast.BlockStmt, name string) bool {
	is := func(e ast.Expr) bool {
		id, ok := ast.Unparen(e).(*ast.Ident)
		return ok && id.Name == name
	}
	found := false
	ast.Inspect(body, func(node ast.Node) bool {
		if found {
			return false
		}
		switch n := node.(type) {
		case *ast.CallExpr:
			if sel, ok := n.Fun.(*ast.SelectorExpr); ok && sel.Sel.Name == v.cfg.ReleaseMethod && is(sel.X) {
				found = true
			}
			if slices.ContainsFunc(n.Args, is) {
				found = true
			}
		case *ast.ReturnStmt:
			found = slices.ContainsFunc(n.Results, is)
		case *ast.CompositeLit:
			for _, elt := range n.Elts {
				if kv, ok := elt.(*ast.KeyValueExpr); ok {
					elt = kv.Value
				}
				if is(elt) {
					found = true
				}
			}
		case *ast.AssignStmt:
			if slices.ContainsFunc(n.Rhs, is) {
				found = true
			}
		case *ast.SendStmt:
			found = is(n.Value)
		}
		return !found
	})
	return found
}

func (v *tokenVisitor) report(pos token.Pos, rule, msg, suggestion string) {
	v.findings = append(v.findings, newFinding(v.fset, pos, rule, msg, suggestion))
}

func isBlank(e ast.Expr) bool {
	id, ok := e.(*ast.Ident)
	return ok && id.Name == "_"
}
