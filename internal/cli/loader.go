package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryerr"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/world"
)

// LoadError represents an error that occurred while loading types or a
// world.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error

	// Type schema errors
	ErrCodeTypeName      = "E101" // Duplicate or reserved name
	ErrCodeTypeParent    = "E102" // Unknown parent or inheritance cycle
	ErrCodeTypeProperty  = "E103" // Invalid or redeclared property
	ErrCodeInvalidType   = "E104" // Invalid property kind (e.g., float)
	ErrCodeInvalidAccess = "E105" // Unknown access level

	// World and store errors
	ErrCodeInvalidWorld = "E201" // World snapshot does not match the types
	ErrCodeStoreFailed  = "E202" // SQLite store error

	// Command errors
	ErrCodeSyntax   = "E301" // Malformed command
	ErrCodeBinding  = "E302" // Unknown or forbidden property
	ErrCodeSemantic = "E303" // Command cannot be evaluated
)

// LoadTypes loads and compiles the CUE types in dir into a catalog.
func LoadTypes(dir string) (*schema.Catalog, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("types directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing types directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := schema.FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	catalog, err := schema.LoadDir(dir)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return catalog, nil
}

// LoadWorld loads a YAML world snapshot and validates it against catalog.
func LoadWorld(path string, catalog *schema.Catalog) (*world.Snapshot, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("world file not found: %s", path)}
	}
	snap, err := world.LoadFile(path, catalog)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidWorld, Message: err.Error()}
	}
	return snap, nil
}

// convertCompileError converts a schema error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *schema.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()}
}

// MapFieldToErrorCode maps a schema error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "cue":
		return ErrCodeBuildFailed
	case field == "type" || strings.HasSuffix(field, ".kind"):
		return ErrCodeInvalidType
	case strings.HasSuffix(field, ".access"):
		return ErrCodeInvalidAccess
	case field == "parent" || strings.HasSuffix(field, ".parent"):
		return ErrCodeTypeParent
	case strings.Contains(field, "properties"):
		return ErrCodeTypeProperty
	case strings.HasPrefix(field, "type."):
		return ErrCodeTypeName
	default:
		return ErrCodeGeneric
	}
}

// MapQueryErrorCode maps a command rejection to an error code.
func MapQueryErrorCode(code queryerr.Code) string {
	switch code {
	case queryerr.CodeSyntax:
		return ErrCodeSyntax
	case queryerr.CodeBinding:
		return ErrCodeBinding
	case queryerr.CodeSemantic:
		return ErrCodeSemantic
	default:
		return ErrCodeGeneric
	}
}
