package icetype

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for common failure cases.
var (
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("icetype: parse error")

	// ErrInvalidConfig is matched by every *ConfigError.
	ErrInvalidConfig = errors.New("icetype: invalid configuration")

	// ErrInvalidSchema is returned when a schema that failed validation
	// is handed to a consumer that requires a valid one.
	ErrInvalidSchema = errors.New("icetype: invalid schema")

	// ErrEntityMismatch is returned when two schemas of different entities
	// are diffed against each other.
	ErrEntityMismatch = errors.New("icetype: entity mismatch")

	// ErrInvalidOperation is returned when a migration operation cannot be
	// applied to a field set.
	ErrInvalidOperation = errors.New("icetype: invalid migration operation")

	// ErrUnknownAdapter is returned when an adapter name is not registered.
	ErrUnknownAdapter = errors.New("icetype: unknown adapter")

	// ErrDuplicateAdapter is returned when two adapters share a name.
	ErrDuplicateAdapter = errors.New("icetype: duplicate adapter")
)

// Code is a stable, machine-readable error kind.
type Code string

// Parse error codes.
const (
	CodeEmptyType               Code = "EMPTY_TYPE"
	CodeUnexpectedCharacter     Code = "UNEXPECTED_CHARACTER"
	CodeUnterminatedString      Code = "UNTERMINATED_STRING"
	CodeUnexpectedToken         Code = "UNEXPECTED_TOKEN"
	CodeUnknownType             Code = "UNKNOWN_TYPE"
	CodeUnknownGenericType      Code = "UNKNOWN_GENERIC_TYPE"
	CodeUnknownParametricType   Code = "UNKNOWN_PARAMETRIC_TYPE"
	CodeInvalidParamValue       Code = "INVALID_PARAM_VALUE"
	CodeInvalidParamCount       Code = "INVALID_PARAM_COUNT"
	CodeInvalidMapParams        Code = "INVALID_MAP_PARAMS"
	CodeInvalidGenericParams    Code = "INVALID_GENERIC_PARAMS"
	CodeInvalidModifierPosition Code = "INVALID_MODIFIER_POSITION"
	CodeInvalidDefaultValue     Code = "INVALID_DEFAULT_VALUE"
	CodeEmptyRelation           Code = "EMPTY_RELATION"
	CodeMissingRelationOperator Code = "MISSING_RELATION_OPERATOR"
	CodeMissingTargetType       Code = "MISSING_TARGET_TYPE"
	CodeMissingSchemaName       Code = "MISSING_SCHEMA_NAME"
	CodeInvalidSchemaName       Code = "INVALID_SCHEMA_NAME"
	CodeDuplicateField          Code = "DUPLICATE_FIELD"
	CodeDuplicateSchema         Code = "DUPLICATE_SCHEMA"
	CodeReservedFieldName       Code = "RESERVED_FIELD_NAME"
	CodeInvalidFieldDefinition  Code = "INVALID_FIELD_DEFINITION"
	CodeInvalidDirective        Code = "INVALID_DIRECTIVE"
	CodeUnknownDirective        Code = "UNKNOWN_DIRECTIVE"
	CodeInvalidSnapshot         Code = "INVALID_SNAPSHOT"
)

// Validation issue codes.
const (
	CodeUnknownPartitionField   Code = "UNKNOWN_PARTITION_FIELD"
	CodeUnknownIndexField       Code = "UNKNOWN_INDEX_FIELD"
	CodeUnknownFTSField         Code = "UNKNOWN_FTS_FIELD"
	CodeUnknownVectorField      Code = "UNKNOWN_VECTOR_FIELD"
	CodeUnknownSourceEntity     Code = "UNKNOWN_SOURCE_ENTITY"
	CodeUnknownExpandPath       Code = "UNKNOWN_EXPAND_PATH"
	CodeUnknownFlattenPath      Code = "UNKNOWN_FLATTEN_PATH"
	CodeUnknownRelationField    Code = "UNKNOWN_RELATION_FIELD"
	CodeConflictingModifiers    Code = "CONFLICTING_MODIFIERS"
	CodeInvalidVectorDimensions Code = "INVALID_VECTOR_DIMENSIONS"
	CodeInvalidDecimalParams    Code = "INVALID_DECIMAL_PARAMS"
	CodeInvalidLength           Code = "INVALID_LENGTH"
	CodeUnknownRelationTarget   Code = "UNKNOWN_RELATION_TARGET"
	CodeUnknownInverseField     Code = "UNKNOWN_INVERSE_FIELD"
	CodeFTSNonTextField         Code = "FTS_NON_TEXT_FIELD"
	CodeVectorFieldType         Code = "VECTOR_FIELD_TYPE"
	CodeProjectionWithoutSource Code = "PROJECTION_WITHOUT_SOURCE"
	CodeInvalidDefault          Code = "INVALID_DEFAULT"
)

// ParseError is a syntactic problem in a single field string, relation
// string or directive value. Parsing stops at the first one.
type ParseError struct {
	Code    Code
	Message string
	Path    string // Field name or directive key, if known.
	Line    int
	Column  int
	Token   string // Offending token text, if any.
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("icetype: ")
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, "%d:%d: ", e.Line, e.Column)
	}
	b.WriteString(e.Message)
	if e.Token != "" {
		fmt.Fprintf(&b, " (near %q)", e.Token)
	}
	fmt.Fprintf(&b, " [%s]", e.Code)
	return b.String()
}

// Is reports whether the target matches ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// WithPath returns a copy of the error scoped to the given path.
// A path that is already set is kept.
func (e *ParseError) WithPath(path string) *ParseError {
	cp := *e
	if cp.Path == "" {
		cp.Path = path
	}
	return &cp
}

// NewParseError returns a new ParseError without position information.
func NewParseError(code Code, path, message string) *ParseError {
	return &ParseError{Code: code, Path: path, Message: message}
}

// NewParseErrorAt returns a new ParseError anchored at a token position.
func NewParseErrorAt(code Code, line, column int, token, message string) *ParseError {
	return &ParseError{
		Code:    code,
		Message: message,
		Line:    line,
		Column:  column,
		Token:   token,
	}
}

// ConfigError represents an invalid option value.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("icetype: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("icetype: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError returns a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// IsParseError returns true if the error is a ParseError.
func IsParseError(err error) bool {
	if err == nil {
		return false
	}
	var e *ParseError
	return errors.As(err, &e)
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e)
}

// CodeOf returns the code carried by err, or "" if err does not carry one.
func CodeOf(err error) Code {
	var e *ParseError
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
