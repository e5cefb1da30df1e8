package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/aetherforge/internal/document"
	"github.com/roach88/aetherforge/internal/snapshot"
)

// CLI error codes used in JSON error responses.
const (
	ErrCodeGeneric     = "E001"
	ErrCodeFileAccess  = "E002"
	ErrCodeParse       = "E003"
	ErrCodeUnsupported = "E004"
)

// LoadError is a coded snapshot-file load failure.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSnapshotFile reads a snapshot document from a .json or .yaml file.
// YAML input is normalized into the same integer-only document model as
// JSON; fractional numbers are rejected either way.
func LoadSnapshotFile(path string) (document.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeFileAccess, Message: fmt.Sprintf("read %s: %v", path, err)}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		doc, err := snapshot.DecodeDocument(data)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parse %s: %v", path, err)}
		}
		return doc, nil

	case ".yaml", ".yml":
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parse %s: %v", path, err)}
		}
		val, err := document.FromGo(raw)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parse %s: %v", path, err)}
		}
		doc, ok := val.(document.Object)
		if !ok {
			return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parse %s: top level is not a mapping", path)}
		}
		return doc, nil

	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported snapshot file extension %q (want .json or .yaml)", filepath.Ext(path)),
		}
	}
}

// LoadPatchFile reads a journaled patch from a .json file.
func LoadPatchFile(path string) (snapshot.Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return snapshot.Patch{}, &LoadError{Code: ErrCodeFileAccess, Message: fmt.Sprintf("read %s: %v", path, err)}
	}

	patch, err := snapshot.DecodePatch(data)
	if err != nil {
		return snapshot.Patch{}, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parse %s: %v", path, err)}
	}
	return patch, nil
}
