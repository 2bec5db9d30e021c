package form

import (
	"errors"
	"fmt"
)

// Contract errors. They describe mistakes in the form declaration itself,
// never bad input, and abort the declaration pass.
var (
	// ErrDuplicateField is raised when a name is declared twice on one node.
	ErrDuplicateField = errors.New("duplicate field")

	// ErrNotMultiple is raised when a set validation is applied to a single-valued field.
	ErrNotMultiple = errors.New("field is not multiple")

	// ErrMapperAlreadySet is raised when a second output mapper is registered on a node.
	ErrMapperAlreadySet = errors.New("output mapper already set")

	// ErrUnknownHelper is raised when Check names a helper that is not registered.
	ErrUnknownHelper = errors.New("unknown helper")

	// ErrUnknownField is raised when Group references a field that was not declared.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidHelper is raised when a helper is registered without a name or function.
	ErrInvalidHelper = errors.New("invalid helper")

	// ErrInvalidArgument is raised when a helper receives malformed arguments.
	ErrInvalidArgument = errors.New("invalid helper argument")
)

// ErrInvalid is returned by Decode when the node holds validation errors.
var ErrInvalid = errors.New("form is invalid")

// ContractError is the panic value used for contract violations.
type ContractError struct {
	Op   string
	Name string
	Err  error
}

func (e *ContractError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("form: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("form: %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// Declare runs a declaration pass against n and converts a contract
// violation raised inside fn into a returned error. Any other panic is
// re-raised.
//
//	err := form.Declare(node, func(n *form.Node) {
//	    n.Field("email").Check("required").Check("email")
//	    n.Field("email") // duplicate: returned as ErrDuplicateField
//	})
func Declare(n *Node, fn func(*Node)) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ce, ok := r.(*ContractError)
		if !ok {
			panic(r)
		}
		err = ce
	}()

	fn(n)
	return nil
}

func contractViolation(op, name string, err error) *ContractError {
	return &ContractError{Op: op, Name: name, Err: err}
}
