// Package buildutil provides utilities for extracting attributes from
// buildtools AST nodes.
package buildutil

import (
	"github.com/bazelbuild/buildtools/build"
)

// String extracts a string attribute from a function call by name.
// If name is empty and the call has positional arguments, returns the first
// positional string argument.
// Returns empty string if the attribute is not found or not a string.
func String(call *build.CallExpr, name string) string {
	// Handle first positional argument when name is empty
	if name == "" && len(call.List) > 0 {
		if str, ok := call.List[0].(*build.StringExpr); ok {
			return str.Value
		}
		return ""
	}

	if rhs := attr(call, name); rhs != nil {
		if str, ok := rhs.(*build.StringExpr); ok {
			return str.Value
		}
	}
	return ""
}

// Bool extracts a boolean attribute from a function call by name.
// Returns false if the attribute is not found or not a boolean identifier.
func Bool(call *build.CallExpr, name string) bool {
	if ident, ok := attr(call, name).(*build.Ident); ok {
		return ident.Name == "True"
	}
	return false
}

// StringList extracts a list of strings attribute from a function call by name.
// Returns nil if the attribute is not found or not a list.
// Non-string elements in the list are silently skipped.
func StringList(call *build.CallExpr, name string) []string {
	list, ok := attr(call, name).(*build.ListExpr)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(list.List))
	for _, elem := range list.List {
		if str, ok := elem.(*build.StringExpr); ok {
			result = append(result, str.Value)
		}
	}
	return result
}

// FuncName returns the function name from a CallExpr.
// Returns empty string if the call is not a simple function call
// (e.g., method calls like foo.bar()).
func FuncName(call *build.CallExpr) string {
	if ident, ok := call.X.(*build.Ident); ok {
		return ident.Name
	}
	return ""
}

// TagCall splits a method call like maven.install(...) into the receiver
// identifier and the method name. ok is false for any other call shape.
func TagCall(call *build.CallExpr) (receiver, tag string, ok bool) {
	dot, isDot := call.X.(*build.DotExpr)
	if !isDot {
		return "", "", false
	}
	ident, isIdent := dot.X.(*build.Ident)
	if !isIdent {
		return "", "", false
	}
	return ident.Name, dot.Name, true
}

// attr returns the right-hand side of the named keyword argument, or nil.
func attr(call *build.CallExpr, name string) build.Expr {
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			continue
		}
		lhs, ok := assign.LHS.(*build.Ident)
		if !ok || lhs.Name != name {
			continue
		}
		return assign.RHS
	}
	return nil
}
