// Copyright © 2018 The ELPS authors

package jml

import (
	"bufio"
	"fmt"
	"io"

	"github.com/luthersystems/jml/ast"
)

// Error is implemented by every error produced while evaluating a program.
// Errors carry the source span of the failing expression so they can be
// rendered against the program text.
type Error interface {
	error
	// Source returns the span of the expression being evaluated when the
	// failure was detected.
	Source() ast.Span
	// Code returns a stable diagnostic code, e.g. "eval::overflow".
	Code() string
	// Help returns a remediation hint, or the empty string.
	Help() string
	// CallStack returns the lambda call stack at the time of the failure.
	CallStack() *CallStack
}

// TypeErrorKind is the detail of a TypeError.  It is implemented by
// MismatchedTypes, ArgumentCountMismatch, NotOrderedType,
// InvalidBinaryOperator and InvalidUnaryOperator.
type TypeErrorKind interface {
	Message() string
	Code() string
	Help() string
	typeErrorKind()
}

// RuntimeErrorKind is the detail of a RuntimeError.  It is implemented by
// DivisionByZero, UndefinedVariable, Overflow and GenericError.
type RuntimeErrorKind interface {
	Message() string
	Code() string
	Help() string
	runtimeErrorKind()
}

// TypeError reports an operation applied to values of the wrong type.
type TypeError struct {
	Span  ast.Span
	Kind  TypeErrorKind
	Stack *CallStack
}

var _ Error = (*TypeError)(nil)

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error at %v: %s", e.Span, e.Kind.Message())
}

// Source implements Error.
func (e *TypeError) Source() ast.Span { return e.Span }

// Code implements Error.
func (e *TypeError) Code() string { return e.Kind.Code() }

// Help implements Error.
func (e *TypeError) Help() string { return e.Kind.Help() }

// CallStack implements Error.
func (e *TypeError) CallStack() *CallStack { return e.Stack }

// RuntimeError reports a failure of an otherwise well typed operation.
type RuntimeError struct {
	Span  ast.Span
	Kind  RuntimeErrorKind
	Stack *CallStack
}

var _ Error = (*RuntimeError)(nil)

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at %v: %s", e.Span, e.Kind.Message())
}

// Source implements Error.
func (e *RuntimeError) Source() ast.Span { return e.Span }

// Code implements Error.
func (e *RuntimeError) Code() string { return e.Kind.Code() }

// Help implements Error.
func (e *RuntimeError) Help() string { return e.Kind.Help() }

// CallStack implements Error.
func (e *RuntimeError) CallStack() *CallStack { return e.Stack }

// WriteTrace writes the error message followed by the call stack to w.
func WriteTrace(w io.Writer, err Error) (int, error) {
	bw := bufio.NewWriter(w)
	n, _ := fmt.Fprintln(bw, err.Error())
	if stack := err.CallStack(); stack != nil && len(stack.Frames) > 0 {
		_n, _ := stack.DebugPrint(bw)
		n += _n
	}
	return n, bw.Flush()
}

// MismatchedTypes reports a value whose type is not one of Expected.
type MismatchedTypes struct {
	Expected []Type
	Found    Type
}

// ArgumentCountMismatch reports a lambda applied to the wrong number of
// arguments.
type ArgumentCountMismatch struct {
	ExpectedCount int
	ActualCount   int
}

// NotOrderedType reports an ordering comparison on an unordered type.
type NotOrderedType struct {
	Found Type
}

// InvalidBinaryOperator reports an infix operator applied to unsupported
// operand types.
type InvalidBinaryOperator struct {
	Operator string
	Left     Type
	Right    Type
}

// InvalidUnaryOperator reports a prefix operator applied to an unsupported
// operand type.
type InvalidUnaryOperator struct {
	Operator string
	Right    Type
}

func (MismatchedTypes) typeErrorKind()       {}
func (ArgumentCountMismatch) typeErrorKind() {}
func (NotOrderedType) typeErrorKind()        {}
func (InvalidBinaryOperator) typeErrorKind() {}
func (InvalidUnaryOperator) typeErrorKind()  {}

func (k MismatchedTypes) Message() string {
	return fmt.Sprintf("Mismatched types: expected %s, found %v", typeList(k.Expected), k.Found)
}

func (k ArgumentCountMismatch) Message() string {
	return fmt.Sprintf("Expected %d arguments, but got %d", k.ExpectedCount, k.ActualCount)
}

func (k NotOrderedType) Message() string {
	return fmt.Sprintf("Type %v is not ordered", k.Found)
}

func (k InvalidBinaryOperator) Message() string {
	return fmt.Sprintf("Binary operator '%s' cannot be applied to types %v and %v", k.Operator, k.Left, k.Right)
}

func (k InvalidUnaryOperator) Message() string {
	return fmt.Sprintf("Unary operator '%s' cannot be applied to type %v", k.Operator, k.Right)
}

func (MismatchedTypes) Code() string       { return "type_error::mismatched_types" }
func (ArgumentCountMismatch) Code() string { return "type_error::argument_count_mismatch" }
func (NotOrderedType) Code() string        { return "type_error::not_ordered" }
func (InvalidBinaryOperator) Code() string { return "type_error::invalid_binary_operator" }
func (InvalidUnaryOperator) Code() string  { return "type_error::invalid_unary_operator" }

func (MismatchedTypes) Help() string { return "" }

func (ArgumentCountMismatch) Help() string {
	return "Check the function call to ensure the correct number of arguments are provided."
}

func (NotOrderedType) Help() string { return "" }

func (k InvalidBinaryOperator) Help() string {
	return fmt.Sprintf("Ensure the operator '%s' is used with compatible types.", k.Operator)
}

func (k InvalidUnaryOperator) Help() string {
	return fmt.Sprintf("Ensure the operator '%s' is used with a compatible type.", k.Operator)
}

// DivisionByZero reports a zero divisor.
type DivisionByZero struct{}

// UndefinedVariable reports a reference to a name with no binding.
type UndefinedVariable struct {
	Name string
}

// Overflow reports an integer result that does not fit in 64 bits.
type Overflow struct{}

// GenericError is any other runtime failure.
type GenericError struct {
	Msg string
}

func (DivisionByZero) runtimeErrorKind()    {}
func (UndefinedVariable) runtimeErrorKind() {}
func (Overflow) runtimeErrorKind()          {}
func (GenericError) runtimeErrorKind()      {}

func (DivisionByZero) Message() string { return "Division by zero" }

func (k UndefinedVariable) Message() string {
	return "Undefined variable during evaluation: " + k.Name
}

func (Overflow) Message() string { return "Overflow occurred during evaluation." }

func (k GenericError) Message() string { return k.Msg }

func (DivisionByZero) Code() string    { return "eval::division_by_zero" }
func (UndefinedVariable) Code() string { return "eval::undefined_variable" }
func (Overflow) Code() string          { return "eval::overflow" }
func (GenericError) Code() string      { return "runtime_error::generic_runtime_error" }

func (DivisionByZero) Help() string {
	return "Ensure the divisor is not zero before performing division."
}

func (k UndefinedVariable) Help() string {
	return fmt.Sprintf("Check if the variable '%s' is defined before using it.", k.Name)
}

func (Overflow) Help() string {
	return "Consider using a larger data type or rethinking the operation to avoid overflow."
}

func (GenericError) Help() string { return "" }
