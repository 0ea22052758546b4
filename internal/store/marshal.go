package store

import (
	"encoding/json"
	"fmt"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
)

// marshalProps converts props to canonical JSON TEXT for storage.
func marshalProps(props ir.IRObject) (string, error) {
	if props == nil {
		props = ir.IRObject{}
	}
	data, err := ir.MarshalCanonical(props)
	if err != nil {
		return "", fmt.Errorf("marshal props: %w", err)
	}
	return string(data), nil
}

// unmarshalProps parses JSON TEXT to IRObject. ir.IRObject.UnmarshalJSON
// keeps integers exact and rejects floats.
func unmarshalProps(data string) (ir.IRObject, error) {
	if data == "" || data == "{}" {
		return ir.IRObject{}, nil
	}
	var obj ir.IRObject
	if err := json.Unmarshal([]byte(data), &obj); err != nil {
		return nil, fmt.Errorf("unmarshal props: %w", err)
	}
	return obj, nil
}
