package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/command"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/store"
)

// SourceOptions holds the flags shared by commands that evaluate commands
// on behalf of an actor.
type SourceOptions struct {
	Types  string // CUE types directory
	World  string // YAML world snapshot
	DB     string // SQLite store
	As     string // actor name
	Access string // actor access level
}

func (o *SourceOptions) addActorFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Types, "types", "types", "CUE types directory")
	cmd.Flags().StringVar(&o.As, "as", "console", "actor name")
	cmd.Flags().StringVar(&o.Access, "access", ir.AccessPlayer.String(), "actor access level (Player..Owner)")
}

func (o *SourceOptions) addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.World, "world", "", "YAML world snapshot")
	cmd.Flags().StringVar(&o.DB, "db", "", "SQLite store written by import")
	cmd.MarkFlagsMutuallyExclusive("world", "db")
	cmd.MarkFlagsOneRequired("world", "db")
}

// actor builds the invoking actor from --as and --access.
func (o *SourceOptions) actor() (ir.Actor, error) {
	level, err := ir.ParseAccessLevel(o.Access)
	if err != nil {
		return ir.Actor{}, &LoadError{Code: ErrCodeInvalidAccess, Message: err.Error()}
	}
	return ir.Actor{Name: o.As, Access: level}, nil
}

// openSource opens the world or store named by the flags. The returned
// close function is never nil.
func (o *SourceOptions) openSource(catalog *schema.Catalog) (command.Source, func(), error) {
	if o.World != "" {
		snap, err := LoadWorld(o.World, catalog)
		if err != nil {
			return nil, func() {}, err
		}
		return snap, func() {}, nil
	}

	st, err := openStore(o.DB, true)
	if err != nil {
		return nil, func() {}, err
	}
	return st, func() { st.Close() }, nil
}

// openStore opens a SQLite store. With mustExist, a missing file is a
// not-found error rather than a fresh empty store.
func openStore(path string, mustExist bool) (*store.Store, error) {
	if mustExist {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("database not found: %s", path)}
		}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeStoreFailed, Message: err.Error()}
	}
	return st, nil
}

// countObjects reports how many objects a store holds, for verbose output.
func countObjects(ctx context.Context, src command.Source) (int, bool) {
	st, ok := src.(*store.Store)
	if !ok {
		return 0, false
	}
	n, err := st.CountObjects(ctx)
	if err != nil {
		return 0, false
	}
	return n, true
}
