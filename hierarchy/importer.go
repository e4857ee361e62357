package hierarchy

import (
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/teranos/cgkit/errors"
)

// TreeSpec is the nested bulk-import payload: a label and the specs of its
// children. Signature is only read when importing relation types.
type TreeSpec struct {
	Label     string     `json:"label" yaml:"label" toml:"label"`
	SubLabels []TreeSpec `json:"subLabels,omitempty" yaml:"subLabels,omitempty" toml:"subLabels,omitempty"`
	Signature []string   `json:"signature,omitempty" yaml:"signature,omitempty" toml:"signature,omitempty"`
}

// ImportReport summarizes what an import changed.
type ImportReport struct {
	Created int // new nodes
	Linked  int // parent/child edges added between existing nodes
	Reused  int // specs that resolved to an existing node
}

// SignatureCheck validates a signature before it is stored.
type SignatureCheck func(signature []string) error

// Importer reconciles nested tree specs against an existing hierarchy.
type Importer struct {
	store          *Store
	checkSignature SignatureCheck
	log            *zap.SugaredLogger
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithSignatureCheck validates and stores the Signature of each spec.
// Without it, signatures in specs are ignored.
func WithSignatureCheck(check SignatureCheck) ImporterOption {
	return func(im *Importer) {
		im.checkSignature = check
	}
}

// NewImporter creates an importer writing into store.
func NewImporter(store *Store, opts ...ImporterOption) *Importer {
	im := &Importer{
		store: store,
		log:   store.log,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Import creates or reuses a root for each top-level spec, then walks the
// children: a label that already exists anywhere gains an extra edge to the
// current parent, an unknown label is created under it. Recursion continues
// with the (possibly pre-existing) node as parent.
//
// Import is not atomic. On error, nodes and edges added so far remain; callers
// needing all-or-nothing take a Snapshot first and Restore it on failure.
func (im *Importer) Import(specs []TreeSpec) (ImportReport, error) {
	var report ImportReport
	for _, spec := range specs {
		if spec.Label == "" {
			return report, errors.NewInvalidRequestError("top-level import spec without label")
		}
		if im.store.Has(spec.Label) {
			report.Reused++
		} else {
			if _, err := im.store.CreateType(spec.Label, nil); err != nil {
				return report, errors.Wrapf(err, "import %q", spec.Label)
			}
			report.Created++
		}
		if err := im.applySignature(spec); err != nil {
			return report, err
		}
		if err := im.importChildren(spec.Label, spec.SubLabels, &report); err != nil {
			return report, err
		}
	}

	im.log.Infow("Hierarchy imported",
		"created", report.Created,
		"linked", report.Linked,
		"reused", report.Reused)
	return report, nil
}

func (im *Importer) importChildren(parent string, children []TreeSpec, report *ImportReport) error {
	for _, child := range children {
		if child.Label == "" {
			return errors.NewInvalidRequestError("import spec under %q without label", parent)
		}
		if im.store.Has(child.Label) {
			linked, err := im.store.Link(parent, child.Label)
			if err != nil {
				return errors.Wrapf(err, "import %q under %q", child.Label, parent)
			}
			if linked {
				report.Linked++
			}
			report.Reused++
		} else {
			if _, err := im.store.CreateType(child.Label, []string{parent}); err != nil {
				return errors.Wrapf(err, "import %q under %q", child.Label, parent)
			}
			report.Created++
		}
		if err := im.applySignature(child); err != nil {
			return err
		}
		if err := im.importChildren(child.Label, child.SubLabels, report); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) applySignature(spec TreeSpec) error {
	if im.checkSignature == nil || len(spec.Signature) == 0 {
		return nil
	}
	if err := im.checkSignature(spec.Signature); err != nil {
		return errors.Wrapf(err, "signature of %q", spec.Label)
	}
	_, err := im.store.SetSignature(spec.Label, spec.Signature)
	return err
}

// ExportNested renders the hierarchy as nested specs starting from the roots.
// A node with several parents appears under each of them; importing the
// result into an empty store rebuilds the same edges.
func (s *Store) ExportNested() []TreeSpec {
	out := make([]TreeSpec, 0, len(s.roots))
	for _, id := range s.roots {
		out = append(out, s.exportNode(s.nodes[id]))
	}
	return out
}

func (s *Store) exportNode(n *TypeNode) TreeSpec {
	spec := TreeSpec{Label: n.Label, Signature: cloneLabels(n.Signature)}
	for _, c := range n.ChildLabels {
		if child := s.lookup(c); child != nil {
			spec.SubLabels = append(spec.SubLabels, s.exportNode(child))
		}
	}
	return spec
}

// DecodeTreeSpecs reads a YAML or JSON list of tree specs.
func DecodeTreeSpecs(r io.Reader) ([]TreeSpec, error) {
	var specs []TreeSpec
	if err := yaml.NewDecoder(r).Decode(&specs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidRequest), "decode tree specs")
	}
	return specs, nil
}
