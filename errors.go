package anchor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaReject is wrapped by every SchemaError.
	ErrSchemaReject = errors.New("anchor: schema reject")
	// ErrBadInput is wrapped by ConfigError.
	ErrBadInput = errors.New("anchor: bad input")
	// ErrNotMapping is returned by EncodeMap when the input is not a map.
	ErrNotMapping = errors.New("anchor: anchor state must be a map")
	// ErrUnsupportedValue reports a legacy map value that is not a scalar.
	ErrUnsupportedValue = errors.New("anchor: unsupported value")
)

// RejectKind identifies which schema check rejected an entry.
type RejectKind uint8

const (
	IndependentKey RejectKind = iota + 1
	IndependentValue
	DependentKey
	DependentValue
)

func (k RejectKind) String() string {
	switch k {
	case IndependentKey:
		return "independent key"
	case IndependentValue:
		return "independent key-value pair"
	case DependentKey:
		return "dependent key"
	case DependentValue:
		return "dependent key-value pair"
	default:
		return "unknown"
	}
}

// SchemaError reports a key or key-value pair the schema does not authorize.
type SchemaError struct {
	Kind  RejectKind
	Key   string
	Value string
}

func (e *SchemaError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case IndependentValue, DependentValue:
		return fmt.Sprintf("anchor: %s |%s|%s| not authorized by anchor schema", e.Kind, e.Key, e.Value)
	default:
		return fmt.Sprintf("anchor: %s |%s| not authorized by anchor schema", e.Kind, e.Key)
	}
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaReject
}

// ConfigError reports an unsupported configuration key.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("anchor: setting config key |%s| is not supported", e.Key)
}

func (e *ConfigError) Unwrap() error {
	return ErrBadInput
}

// EvaluationError captures rule evaluator metadata alongside the originating
// error.
type EvaluationError struct {
	Engine string
	Expr   string
	Key    string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("anchor: %s evaluator %s key=%s: %v", e.Engine, describeExpression(e.Expr), e.Key, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "anchor:") {
		return err
	}
	return fmt.Errorf("anchor: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, key string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Key == "" {
			evalErr.Key = key
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Key:    key,
		Err:    err,
	}
}
