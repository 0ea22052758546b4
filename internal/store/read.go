package store

import (
	"context"
	"fmt"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/binder"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/world"
)

// ReadObjects returns every stored object ordered by serial ASC.
//
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ReadObjects(ctx context.Context) ([]*world.Object, error) {
	return s.QueryObjects(ctx, `
		SELECT serial, type, props
		FROM objects
		ORDER BY serial ASC
	`)
}

// Candidates returns every stored object as pipeline candidates, ordered
// by serial.
func (s *Store) Candidates(ctx context.Context) ([]binder.Object, error) {
	objs, err := s.ReadObjects(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]binder.Object, len(objs))
	for i, o := range objs {
		out[i] = o
	}
	return out, nil
}

// ReadObject retrieves a single object by serial.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadObject(ctx context.Context, serial int64) (*world.Object, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT serial, type, props
		FROM objects
		WHERE serial = ?
	`, serial)

	var (
		o         world.Object
		propsJSON string
	)
	if err := row.Scan(&o.Serial, &o.Type, &propsJSON); err != nil {
		return nil, err
	}
	props, err := unmarshalProps(propsJSON)
	if err != nil {
		return nil, fmt.Errorf("object 0x%X: %w", o.Serial, err)
	}
	o.Props = props
	return &o, nil
}

// QueryObjects runs a select whose first three columns are serial, type
// and props, preserving the query's row order. Extra columns are ignored.
func (s *Store) QueryObjects(ctx context.Context, query string, args ...any) ([]*world.Object, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query objects: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query objects: %w", err)
	}
	if len(cols) < 3 {
		return nil, fmt.Errorf("query objects: expected serial, type, props columns, got %v", cols)
	}

	objs := []*world.Object{}
	for rows.Next() {
		var (
			o         world.Object
			propsJSON string
		)
		dest := make([]any, len(cols))
		dest[0], dest[1], dest[2] = &o.Serial, &o.Type, &propsJSON
		for i := 3; i < len(dest); i++ {
			dest[i] = new(any)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan object: %w", err)
		}

		props, err := unmarshalProps(propsJSON)
		if err != nil {
			return nil, fmt.Errorf("object 0x%X: %w", o.Serial, err)
		}
		o.Props = props
		objs = append(objs, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate objects: %w", err)
	}
	return objs, nil
}

// CountObjects returns the number of stored objects.
func (s *Store) CountObjects(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM objects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count objects: %w", err)
	}
	return n, nil
}

// ReadImports returns the import log ordered by seq ASC.
func (s *Store) ReadImports(ctx context.Context) ([]Import, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, source, objects, digest
		FROM imports
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	imports := []Import{}
	for rows.Next() {
		var imp Import
		if err := rows.Scan(&imp.ID, &imp.Seq, &imp.Source, &imp.Objects, &imp.Digest); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		imports = append(imports, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate imports: %w", err)
	}
	return imports, nil
}
