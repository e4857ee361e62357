// Package storage persists knowledge-base snapshots in SQLite.
//
// A snapshot is written as one row in knowledge_bases plus one row per type
// node, concept and relation. Label lists are stored as JSON arrays. Every
// save replaces the previous rows of the same knowledge base in a single
// transaction, so a reader never sees a half-written knowledge base.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/teranos/cgkit/concept"
	"github.com/teranos/cgkit/db"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/hierarchy"
	"github.com/teranos/cgkit/kb"
	"github.com/teranos/cgkit/logger"
	"github.com/teranos/cgkit/sym"
)

// FormatVersion is the row layout version written by Save.
const FormatVersion = "1.0.0"

// SupportedFormats is the constraint a stored format_version must satisfy to be loaded.
const SupportedFormats = "^1.0.0"

// Summary describes one stored knowledge base.
type Summary struct {
	Name          string    `json:"name"`
	FormatVersion string    `json:"formatVersion"`
	SavedAt       time.Time `json:"savedAt"`
}

// SnapshotStore saves and loads knowledge-base snapshots.
type SnapshotStore struct {
	db        *sql.DB
	supported *semver.Constraints
	log       *zap.SugaredLogger
}

// NewSnapshotStore creates a store over an already migrated database.
func NewSnapshotStore(conn *sql.DB, log *zap.SugaredLogger) *SnapshotStore {
	if log == nil {
		log = logger.ComponentLogger("storage")
	}
	supported, err := semver.NewConstraint(SupportedFormats)
	if err != nil {
		panic(err)
	}
	return &SnapshotStore{db: conn, supported: supported, log: log}
}

// Save replaces the stored copy of snap.Name with snap.
func (s *SnapshotStore) Save(ctx context.Context, snap kb.Snapshot) error {
	if snap.Name == "" {
		return errors.NewInvalidRequestError("cannot save a knowledge base without a name")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin save")
	}
	defer tx.Rollback()

	if _, err := deleteRows(ctx, tx, snap.Name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO knowledge_bases (name, format_version, saved_at) VALUES (?, ?, ?)",
		snap.Name, FormatVersion, time.Now().UTC(),
	); err != nil {
		if db.IsConstraintViolation(err) {
			return errors.Wrapf(errors.ErrConflict, "knowledge base %q: %v", snap.Name, err)
		}
		return errors.Wrapf(err, "insert knowledge base %q", snap.Name)
	}

	if err := insertNodes(ctx, tx, snap.Name, hierarchy.KindConceptTypes, snap.ConceptTypes); err != nil {
		return err
	}
	if err := insertNodes(ctx, tx, snap.Name, hierarchy.KindRelationTypes, snap.RelationTypes); err != nil {
		return err
	}
	if err := insertConcepts(ctx, tx, snap.Name, snap.Concepts); err != nil {
		return err
	}
	if err := insertRelations(ctx, tx, snap.Name, snap.Relations); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit save of %q", snap.Name)
	}

	s.log.Infow("Knowledge base saved",
		"symbol", sym.DB,
		logger.FieldKB, snap.Name,
		"concept_types", len(snap.ConceptTypes.Nodes),
		"relation_types", len(snap.RelationTypes.Nodes),
		"concepts", len(snap.Concepts),
		"relations", len(snap.Relations))
	return nil
}

// Load reads the stored copy of a knowledge base. It fails with ErrNotFound
// when nothing is stored under name.
func (s *SnapshotStore) Load(ctx context.Context, name string) (kb.Snapshot, error) {
	var version string
	err := s.db.QueryRowContext(ctx,
		"SELECT format_version FROM knowledge_bases WHERE name = ?", name,
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return kb.Snapshot{}, errors.WithHint(
			errors.Wrapf(errors.ErrNotFound, "knowledge base %q", name),
			"run 'cgkit kb list' to see stored knowledge bases")
	}
	if err != nil {
		return kb.Snapshot{}, errors.Wrapf(err, "look up knowledge base %q", name)
	}
	if err := s.checkFormat(name, version); err != nil {
		return kb.Snapshot{}, err
	}

	snap := kb.Snapshot{Name: name}
	if snap.ConceptTypes, err = s.loadNodes(ctx, name, hierarchy.KindConceptTypes); err != nil {
		return kb.Snapshot{}, err
	}
	if snap.RelationTypes, err = s.loadNodes(ctx, name, hierarchy.KindRelationTypes); err != nil {
		return kb.Snapshot{}, err
	}
	if snap.Concepts, err = s.loadConcepts(ctx, name); err != nil {
		return kb.Snapshot{}, err
	}
	if snap.Relations, err = s.loadRelations(ctx, name); err != nil {
		return kb.Snapshot{}, err
	}

	s.log.Debugw("Knowledge base loaded",
		logger.FieldKB, name,
		"format_version", version,
		logger.FieldCount, len(snap.ConceptTypes.Nodes)+len(snap.RelationTypes.Nodes)+len(snap.Concepts)+len(snap.Relations))
	return snap, nil
}

// List returns every stored knowledge base ordered by name.
func (s *SnapshotStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, format_version, saved_at FROM knowledge_bases ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "list knowledge bases")
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.Name, &sum.FormatVersion, &sum.SavedAt); err != nil {
			return nil, errors.Wrap(err, "scan knowledge base")
		}
		out = append(out, sum)
	}
	return out, errors.Wrap(rows.Err(), "list knowledge bases")
}

// Delete removes a stored knowledge base. It reports whether anything was removed.
func (s *SnapshotStore) Delete(ctx context.Context, name string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, errors.Wrap(err, "begin delete")
	}
	defer tx.Rollback()

	n, err := deleteRows(ctx, tx, name)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, errors.Wrapf(err, "commit delete of %q", name)
	}
	if n > 0 {
		s.log.Infow("Knowledge base deleted", "symbol", sym.DB, logger.FieldKB, name)
	}
	return n > 0, nil
}

func (s *SnapshotStore) checkFormat(name, version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(errors.Mark(err, errors.ErrInvalidRequest),
			"knowledge base %q has malformed format version %q", name, version)
	}
	if !s.supported.Check(v) {
		return errors.WithHint(
			errors.Newf("knowledge base %q uses format %s, this build reads %s", name, version, SupportedFormats),
			"upgrade cgkit or re-import the knowledge base from its source document")
	}
	return nil
}

// deleteRows clears the child rows of a knowledge base and its header row,
// returning the number of header rows removed. Child rows are removed
// explicitly so the result does not depend on foreign_keys being enabled.
func deleteRows(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	var headers int64
	for _, table := range []string{"relations", "concepts", "type_nodes", "knowledge_bases"} {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE "+keyColumn(table)+" = ?", name)
		if err != nil {
			return 0, errors.Wrapf(err, "clear %s of %q", table, name)
		}
		if table == "knowledge_bases" {
			if headers, err = res.RowsAffected(); err != nil {
				return 0, errors.Wrap(err, "rows affected")
			}
		}
	}
	return headers, nil
}

func keyColumn(table string) string {
	if table == "knowledge_bases" {
		return "name"
	}
	return "kb_name"
}

func insertNodes(ctx context.Context, tx *sql.Tx, name, kind string, snap hierarchy.Snapshot) error {
	rootPos := make(map[string]int, len(snap.RootIDs))
	for i, id := range snap.RootIDs {
		rootPos[id] = i
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO type_nodes
		(kb_name, hierarchy, id, label, position, parent_labels, child_labels, signature, root_position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrapf(err, "prepare %s insert", kind)
	}
	defer stmt.Close()

	for i, n := range snap.Nodes {
		var root sql.NullInt64
		if p, ok := rootPos[n.ID]; ok {
			root = sql.NullInt64{Int64: int64(p), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, name, kind, n.ID, n.Label, i,
			encodeLabels(n.ParentLabels), encodeLabels(n.ChildLabels), encodeLabels(n.Signature), root,
		); err != nil {
			return errors.Wrapf(err, "insert %s node %q", kind, n.Label)
		}
	}
	return nil
}

func insertConcepts(ctx context.Context, tx *sql.Tx, name string, concepts []concept.Concept) error {
	for i, c := range concepts {
		if _, err := tx.ExecContext(ctx, `INSERT INTO concepts
			(kb_name, id, label, position, type_labels, designator_kind, referent_value)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			name, c.ID, c.Label, i, encodeLabels(c.TypeLabels), c.Referent.Kind.String(), c.Referent.Value,
		); err != nil {
			return errors.Wrapf(err, "insert concept %q", c.Label)
		}
	}
	return nil
}

func insertRelations(ctx context.Context, tx *sql.Tx, name string, relations []concept.Relation) error {
	for i, r := range relations {
		if _, err := tx.ExecContext(ctx, `INSERT INTO relations
			(kb_name, id, label, position, type_labels, argument_labels)
			VALUES (?, ?, ?, ?, ?, ?)`,
			name, r.ID, r.Label, i, encodeLabels(r.TypeLabels), encodeLabels(r.ArgumentLabels),
		); err != nil {
			return errors.Wrapf(err, "insert relation %q", r.Label)
		}
	}
	return nil
}

func (s *SnapshotStore) loadNodes(ctx context.Context, name, kind string) (hierarchy.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, label, parent_labels, child_labels, signature, root_position
		FROM type_nodes WHERE kb_name = ? AND hierarchy = ? ORDER BY position`, name, kind)
	if err != nil {
		return hierarchy.Snapshot{}, errors.Wrapf(err, "query %s", kind)
	}
	defer rows.Close()

	type root struct {
		id  string
		pos int64
	}
	snap := hierarchy.Snapshot{Name: kind}
	var roots []root
	for rows.Next() {
		var (
			n                      hierarchy.TypeNode
			parents, children, sig string
			rootPos                sql.NullInt64
		)
		if err := rows.Scan(&n.ID, &n.Label, &parents, &children, &sig, &rootPos); err != nil {
			return hierarchy.Snapshot{}, errors.Wrapf(err, "scan %s node", kind)
		}
		if n.ParentLabels, err = decodeLabels(parents); err != nil {
			return hierarchy.Snapshot{}, errors.Wrapf(err, "parents of %q", n.Label)
		}
		if n.ChildLabels, err = decodeLabels(children); err != nil {
			return hierarchy.Snapshot{}, errors.Wrapf(err, "children of %q", n.Label)
		}
		if n.Signature, err = decodeLabels(sig); err != nil {
			return hierarchy.Snapshot{}, errors.Wrapf(err, "signature of %q", n.Label)
		}
		if rootPos.Valid {
			roots = append(roots, root{id: n.ID, pos: rootPos.Int64})
		}
		snap.Nodes = append(snap.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return hierarchy.Snapshot{}, errors.Wrapf(err, "read %s", kind)
	}

	sort.Slice(roots, func(i, j int) bool { return roots[i].pos < roots[j].pos })
	for _, r := range roots {
		snap.RootIDs = append(snap.RootIDs, r.id)
	}
	return snap, nil
}

func (s *SnapshotStore) loadConcepts(ctx context.Context, name string) ([]concept.Concept, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, label, type_labels, designator_kind, referent_value
		FROM concepts WHERE kb_name = ? ORDER BY position`, name)
	if err != nil {
		return nil, errors.Wrap(err, "query concepts")
	}
	defer rows.Close()

	var out []concept.Concept
	for rows.Next() {
		var (
			c           concept.Concept
			types, kind string
		)
		if err := rows.Scan(&c.ID, &c.Label, &types, &kind, &c.Referent.Value); err != nil {
			return nil, errors.Wrap(err, "scan concept")
		}
		if c.TypeLabels, err = decodeLabels(types); err != nil {
			return nil, errors.Wrapf(err, "types of concept %q", c.Label)
		}
		if c.Referent.Kind, err = concept.ParseDesignatorKind(kind); err != nil {
			return nil, errors.Wrapf(err, "referent of concept %q", c.Label)
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "read concepts")
}

func (s *SnapshotStore) loadRelations(ctx context.Context, name string) ([]concept.Relation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, label, type_labels, argument_labels
		FROM relations WHERE kb_name = ? ORDER BY position`, name)
	if err != nil {
		return nil, errors.Wrap(err, "query relations")
	}
	defer rows.Close()

	var out []concept.Relation
	for rows.Next() {
		var (
			r           concept.Relation
			types, args string
		)
		if err := rows.Scan(&r.ID, &r.Label, &types, &args); err != nil {
			return nil, errors.Wrap(err, "scan relation")
		}
		if r.TypeLabels, err = decodeLabels(types); err != nil {
			return nil, errors.Wrapf(err, "types of relation %q", r.Label)
		}
		if r.ArgumentLabels, err = decodeLabels(args); err != nil {
			return nil, errors.Wrapf(err, "arguments of relation %q", r.Label)
		}
		out = append(out, r)
	}
	return out, errors.Wrap(rows.Err(), "read relations")
}

// encodeLabels renders a label list as a JSON array; nil becomes "[]".
func encodeLabels(labels []string) string {
	if len(labels) == 0 {
		return "[]"
	}
	b, err := json.Marshal(labels)
	if err != nil {
		// []string always marshals
		panic(err)
	}
	return string(b)
}

// decodeLabels parses a JSON label array; an empty array becomes nil.
func decodeLabels(s string) ([]string, error) {
	var labels []string
	if err := json.Unmarshal([]byte(s), &labels); err != nil {
		return nil, errors.Wrap(errors.Mark(err, hierarchy.ErrInconsistent), "decode label list")
	}
	if len(labels) == 0 {
		return nil, nil
	}
	return labels, nil
}
