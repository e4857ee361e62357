package kb

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/cgkit/concept"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/hierarchy"
	"github.com/teranos/cgkit/logger"
)

// Document is the bulk import format: nested type trees plus instances.
type Document struct {
	ConceptTypes  []hierarchy.TreeSpec `json:"conceptTypes,omitempty" yaml:"conceptTypes,omitempty" toml:"conceptTypes,omitempty"`
	RelationTypes []hierarchy.TreeSpec `json:"relationTypes,omitempty" yaml:"relationTypes,omitempty" toml:"relationTypes,omitempty"`
	Concepts      []concept.Concept    `json:"concepts,omitempty" yaml:"concepts,omitempty" toml:"concepts,omitempty"`
	Relations     []concept.Relation   `json:"relations,omitempty" yaml:"relations,omitempty" toml:"relations,omitempty"`
}

// ImportReport summarizes a document import.
type ImportReport struct {
	ConceptTypes  hierarchy.ImportReport `json:"conceptTypes"`
	RelationTypes hierarchy.ImportReport `json:"relationTypes"`
	Concepts      int                    `json:"concepts"`
	Relations     int                    `json:"relations"`
	Unchanged     int                    `json:"unchanged"`
}

// Document formats accepted by DecodeDocument.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatTOML = "toml"
)

// FormatForPath picks the document format from a file extension.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.WithHint(
		errors.NewInvalidRequestError("unsupported document type %q", filepath.Ext(path)),
		"use a .yaml, .yml, .json or .toml file")
}

// LoadDocument reads and decodes a document file.
func LoadDocument(path string) (Document, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrapf(err, "failed to read %s", path)
	}
	doc, err := DecodeDocument(data, format)
	if err != nil {
		return Document{}, errors.Wrapf(err, "failed to parse %s", path)
	}
	return doc, nil
}

// DecodeDocument decodes a document. JSON is read by the YAML decoder.
func DecodeDocument(data []byte, format string) (Document, error) {
	var doc Document
	switch format {
	case FormatYAML, FormatJSON:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return Document{}, errors.Mark(err, errors.ErrInvalidRequest)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return Document{}, errors.Mark(err, errors.ErrInvalidRequest)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Document{}, errors.NewInvalidRequestError("unknown keys %v", undecoded)
		}
	default:
		return Document{}, errors.NewInvalidRequestError("unknown document format %q", format)
	}
	return doc, nil
}

// ImportDocument imports concept types, relation types, concepts and
// relations in that order. Concepts and relations already present with the
// same content are skipped; a different one under the same label fails with
// ErrDuplicateLabel.
//
// ImportDocument stops at the first error and keeps what was imported so far.
// Use ImportDocumentAtomic for all-or-nothing imports.
func (k *KnowledgeBase) ImportDocument(doc Document) (ImportReport, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.importDocument(doc)
}

// ImportDocumentAtomic imports a document and rolls back on failure.
func (k *KnowledgeBase) ImportDocumentAtomic(doc Document) (ImportReport, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	snap := k.snapshot()
	report, err := k.importDocument(doc)
	if err != nil {
		if rerr := k.restore(snap); rerr != nil {
			return report, errors.CombineErrors(err, errors.Wrap(rerr, "rollback failed"))
		}
		k.log.Warnw("Import rolled back", logger.FieldError, err)
		return ImportReport{}, err
	}
	return report, nil
}

func (k *KnowledgeBase) importDocument(doc Document) (ImportReport, error) {
	var report ImportReport
	var err error

	report.ConceptTypes, err = hierarchy.NewImporter(k.conceptTypes).Import(doc.ConceptTypes)
	if err != nil {
		return report, errors.Wrap(err, "concept types")
	}
	report.RelationTypes, err = hierarchy.NewImporter(k.relationTypes,
		hierarchy.WithSignatureCheck(k.checkSignature)).Import(doc.RelationTypes)
	if err != nil {
		return report, errors.Wrap(err, "relation types")
	}

	for _, c := range doc.Concepts {
		if existing, ok := k.concepts.GetByLabel(c.Label); ok {
			if !sameConcept(existing, c) {
				return report, errors.Wrapf(errors.ErrDuplicateLabel, "concept %q differs from the stored one", c.Label)
			}
			report.Unchanged++
			continue
		}
		if _, err := k.concepts.Add(c); err != nil {
			return report, err
		}
		report.Concepts++
	}

	for _, r := range doc.Relations {
		if i, ok := k.findRelation(r.Label); ok {
			if !sameStrings(k.relations[i].ArgumentLabels, r.ArgumentLabels) {
				return report, errors.Wrapf(errors.ErrDuplicateLabel, "relation %q differs from the stored one", r.Label)
			}
			report.Unchanged++
			continue
		}
		if _, err := k.addRelation(r); err != nil {
			return report, err
		}
		report.Relations++
	}

	k.log.Infow("Document imported",
		"concept_types", report.ConceptTypes.Created,
		"relation_types", report.RelationTypes.Created,
		"concepts", report.Concepts,
		"relations", report.Relations,
		"unchanged", report.Unchanged)
	return report, nil
}

// Export renders the knowledge base as a document that imports back into an
// equivalent knowledge base.
func (k *KnowledgeBase) Export() Document {
	k.mu.RLock()
	defer k.mu.RUnlock()

	doc := Document{
		ConceptTypes:  k.conceptTypes.ExportNested(),
		RelationTypes: k.relationTypes.ExportNested(),
		Concepts:      k.concepts.All(),
	}
	for _, r := range k.relations {
		doc.Relations = append(doc.Relations, r.Clone())
	}
	return doc
}

func sameConcept(a, b concept.Concept) bool {
	return a.Referent.Equal(b.Referent) && sameStrings(a.TypeLabels, dedupeStrings(b.TypeLabels))
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
