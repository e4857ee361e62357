// Package mirror copies a knowledge base into Neo4j.
//
// The mirror is write-only: each Sync replaces every node tagged with the
// knowledge-base name, so the graph always reflects the last synced snapshot.
// Type nodes carry the :CGType label plus :ConceptType or :RelationType.
package mirror

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/teranos/cgkit/am"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/hierarchy"
	"github.com/teranos/cgkit/kb"
	"github.com/teranos/cgkit/logger"
)

// ConnectTimeout bounds the connectivity check in Open.
const ConnectTimeout = 10 * time.Second

const (
	cypherClear = `MATCH (n {kb: $kb}) WHERE n:CGType OR n:CGConcept OR n:CGRelation DETACH DELETE n`

	cypherConceptTypes = `
UNWIND $rows AS row
MERGE (t:CGType:ConceptType {kb: row.kb, id: row.id})
SET t += row`

	cypherRelationTypes = `
UNWIND $rows AS row
MERGE (t:CGType:RelationType {kb: row.kb, id: row.id})
SET t += row`

	cypherSubtypes = `
UNWIND $rows AS row
MATCH (c:CGType {kb: row.kb, label: row.child})
MATCH (p:CGType {kb: row.kb, label: row.parent})
WHERE labels(c) = labels(p)
MERGE (c)-[e:SUBTYPE_OF]->(p)
SET e.hierarchy = row.hierarchy`

	cypherConcepts = `
UNWIND $rows AS row
MERGE (c:CGConcept {kb: row.kb, id: row.id})
SET c += row`

	cypherInstanceOf = `
UNWIND $rows AS row
MATCH (c:CGConcept {kb: row.kb, label: row.concept})
MATCH (t:ConceptType {kb: row.kb, label: row.type})
MERGE (c)-[:INSTANCE_OF]->(t)`

	cypherRelations = `
UNWIND $rows AS row
MERGE (r:CGRelation {kb: row.kb, id: row.id})
SET r += row`

	cypherArguments = `
UNWIND $rows AS row
MATCH (r:CGRelation {kb: row.kb, label: row.relation})
MATCH (c:CGConcept {kb: row.kb, label: row.concept})
MERGE (r)-[a:ARGUMENT {position: row.position}]->(c)`
)

// Mirror writes knowledge-base snapshots into a Neo4j database.
type Mirror struct {
	driver   neo4j.DriverWithContext
	database string
	log      *zap.SugaredLogger
}

// Open connects to Neo4j and verifies the connection.
func Open(ctx context.Context, cfg am.Neo4jConfig, log *zap.SugaredLogger) (*Mirror, error) {
	if !cfg.Enabled {
		return nil, errors.WithHint(
			errors.NewInvalidRequestError("neo4j mirror is disabled"),
			"set neo4j.enabled = true in cgkit.toml")
	}
	if log == nil {
		log = logger.ComponentLogger("mirror")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, errors.Wrapf(err, "create neo4j driver for %s", cfg.URI)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, errors.Wrapf(err, "connect to neo4j at %s", cfg.URI)
	}

	log.Infow("Connected to Neo4j", "uri", cfg.URI, "database", cfg.Database)
	return &Mirror{driver: driver, database: cfg.Database, log: log}, nil
}

// Sync replaces the mirrored copy of snap.Name with snap in one write transaction.
func (m *Mirror) Sync(ctx context.Context, snap kb.Snapshot) (Stats, error) {
	g := BuildGraph(snap, time.Now())

	session := m.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: m.database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := run(ctx, tx, cypherClear, map[string]any{"kb": snap.Name}); err != nil {
			return nil, errors.Wrap(err, "clear previous mirror")
		}
		for _, step := range []struct {
			name   string
			cypher string
			rows   []map[string]any
		}{
			{hierarchy.KindConceptTypes, cypherConceptTypes, g.ConceptTypes},
			{hierarchy.KindRelationTypes, cypherRelationTypes, g.RelationTypes},
			{"subtypes", cypherSubtypes, g.Subtypes},
			{"concepts", cypherConcepts, g.Concepts},
			{"instance-of", cypherInstanceOf, g.InstanceOf},
			{"relations", cypherRelations, g.Relations},
			{"arguments", cypherArguments, g.Arguments},
		} {
			if len(step.rows) == 0 {
				continue
			}
			if err := run(ctx, tx, step.cypher, map[string]any{"rows": step.rows}); err != nil {
				return nil, errors.Wrapf(err, "write %s", step.name)
			}
		}
		return nil, nil
	})
	if err != nil {
		return Stats{}, errors.Wrapf(err, "mirror %q", snap.Name)
	}

	stats := g.Stats()
	m.log.Infow("Knowledge base mirrored",
		logger.FieldKB, snap.Name,
		"nodes", stats.Nodes,
		"edges", stats.Edges)
	return stats, nil
}

// Close releases the driver.
func (m *Mirror) Close(ctx context.Context) error {
	return m.driver.Close(ctx)
}

func run(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) error {
	res, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}
