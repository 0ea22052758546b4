package store

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/world"
)

// Import records one snapshot import.
type Import struct {
	ID      string `json:"id"`
	Seq     int64  `json:"seq"`
	Source  string `json:"source"`
	Objects int    `json:"objects"`
	Digest  string `json:"digest"`
}

// PutObjects inserts objects, replacing any existing row with the same
// serial. All rows are written in one transaction.
func (s *Store) PutObjects(ctx context.Context, objs []*world.Object) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put objects: %w", err)
	}
	defer tx.Rollback()

	if err := putObjects(ctx, tx, objs); err != nil {
		return fmt.Errorf("put objects: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put objects: %w", err)
	}
	return nil
}

// ImportSnapshot replaces every stored object with objs and appends an
// import record. The digest covers the objects in serial order, so it
// matches a full-scan query result over the same rows.
func (s *Store) ImportSnapshot(ctx context.Context, id, source string, objs []*world.Object) (Import, error) {
	imp := Import{ID: id, Source: source, Objects: len(objs)}

	digest, err := digestObjects(objs)
	if err != nil {
		return imp, fmt.Errorf("import snapshot: %w", err)
	}
	imp.Digest = digest

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return imp, fmt.Errorf("import snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM objects`); err != nil {
		return imp, fmt.Errorf("import snapshot: clear objects: %w", err)
	}
	if err := putObjects(ctx, tx, objs); err != nil {
		return imp, fmt.Errorf("import snapshot: %w", err)
	}

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM imports`).Scan(&imp.Seq); err != nil {
		return imp, fmt.Errorf("import snapshot: next seq: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO imports (id, seq, source, objects, digest)
		VALUES (?, ?, ?, ?, ?)
	`, imp.ID, imp.Seq, imp.Source, imp.Objects, imp.Digest)
	if err != nil {
		return imp, fmt.Errorf("import snapshot: record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return imp, fmt.Errorf("import snapshot: %w", err)
	}
	return imp, nil
}

func putObjects(ctx context.Context, tx *sql.Tx, objs []*world.Object) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO objects (serial, type, props)
		VALUES (?, ?, ?)
		ON CONFLICT(serial) DO UPDATE SET type = excluded.type, props = excluded.props
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range objs {
		propsJSON, err := marshalProps(o.Props)
		if err != nil {
			return fmt.Errorf("object 0x%X: %w", o.Serial, err)
		}
		if _, err := stmt.ExecContext(ctx, o.Serial, o.Type, propsJSON); err != nil {
			return fmt.Errorf("object 0x%X: %w", o.Serial, err)
		}
	}
	return nil
}

// digestObjects hashes the objects' records in serial order.
func digestObjects(objs []*world.Object) (string, error) {
	sorted := slices.Clone(objs)
	slices.SortFunc(sorted, func(a, b *world.Object) int {
		return cmp.Compare(a.Serial, b.Serial)
	})

	rows := make([]ir.IRObject, len(sorted))
	for i, o := range sorted {
		rows[i] = o.Record()
	}
	return ir.ResultDigest(rows)
}
