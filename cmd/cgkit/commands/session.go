package commands

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/teranos/cgkit/db"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/kb"
	"github.com/teranos/cgkit/logger"
	"github.com/teranos/cgkit/storage"
)

// session is one knowledge base loaded from the snapshot store.
type session struct {
	conn  *sql.DB
	store *storage.SnapshotStore
	kb    *kb.KnowledgeBase
}

func currentKBName() string {
	if kbName != "" {
		return kbName
	}
	return config.GetKBName()
}

func openStore() (*sql.DB, *storage.SnapshotStore, error) {
	log := logger.ComponentLogger("storage")
	conn, err := db.OpenWithMigrations(config.GetStorePath(), log)
	if err != nil {
		return nil, nil, errors.WithHint(err, "check store.path in cgkit.toml or CGKIT_STORE_PATH")
	}
	return conn, storage.NewSnapshotStore(conn, log), nil
}

// openSession loads the current knowledge base, or starts an empty one when
// nothing is stored under its name yet.
func openSession(ctx context.Context) (*session, error) {
	conn, store, err := openStore()
	if err != nil {
		return nil, err
	}
	name := currentKBName()

	k, err := kb.New(name, kb.WithIDScheme(config.Hierarchy.IDScheme))
	if err != nil {
		conn.Close()
		return nil, err
	}

	snap, err := store.Load(ctx, name)
	switch {
	case errors.Is(err, errors.ErrNotFound):
		logger.Debugw("Starting empty knowledge base", logger.FieldKB, name)
	case err != nil:
		conn.Close()
		return nil, err
	default:
		if err := k.Restore(snap); err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "restore knowledge base %q", name)
		}
	}
	return &session{conn: conn, store: store, kb: k}, nil
}

func (s *session) save(ctx context.Context) error {
	return s.store.Save(ctx, s.kb.Snapshot())
}

func (s *session) close() {
	s.conn.Close()
}

// readKB runs fn against the current knowledge base without saving.
func readKB(cmd *cobra.Command, fn func(k *kb.KnowledgeBase) error) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()
	return fn(s.kb)
}

// mutateKB runs fn and saves the knowledge base when fn succeeds.
func mutateKB(cmd *cobra.Command, fn func(k *kb.KnowledgeBase) error) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()
	if err := fn(s.kb); err != nil {
		return err
	}
	return s.save(cmd.Context())
}
