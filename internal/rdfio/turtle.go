package rdfio

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/essepuntato/dimm/internal/triplestore/sgraph"
)

const rdfType impl.Label = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Save serializes the graph to w as Turtle.
//
// Statements are grouped by subject in insertion order, with objects of the
// same predicate joined into a list. Namespace bindings that are actually
// used by some term appear as a prefix block at the top, sorted by prefix.
func Save(g *sgraph.Graph, w io.Writer) error {
	count, err := g.Count()
	if err != nil {
		return err
	}

	statements := make([]sgraph.Statement, 0, count)
	if err := g.Iterate(func(statement sgraph.Statement) error {
		statements = append(statements, statement)
		return nil
	}); err != nil {
		return err
	}

	// candidate namespaces, longest first so that the most specific one wins
	ns := g.Namespaces()
	bindings := make([]binding, 0, ns.Len())
	for _, prefix := range ns.Prefixes() {
		namespace, _ := ns.Get(prefix)
		if namespace == "" {
			continue
		}
		bindings = append(bindings, binding{prefix: prefix, namespace: namespace})
	}
	slices.SortStableFunc(bindings, func(a, b binding) int {
		return len(b.namespace) - len(a.namespace)
	})

	used := make(map[string]struct{})
	qname := func(label impl.Label) (string, bool) {
		for _, b := range bindings {
			rest, ok := strings.CutPrefix(string(label), string(b.namespace))
			if ok && isLocalPart(rest) {
				used[b.prefix] = struct{}{}
				return b.prefix + ":" + rest, true
			}
		}
		return "", false
	}

	renderTerm := func(label impl.Label) string {
		if label.IsBlank() {
			return string(label)
		}
		if q, ok := qname(label); ok {
			return q
		}
		return "<" + string(label) + ">"
	}

	renderObject := func(statement sgraph.Statement) string {
		if !statement.HasDatum {
			return renderTerm(statement.Object)
		}
		datum := statement.Datum
		if datum.Datatype != "" {
			if q, ok := qname(datum.Datatype); ok {
				plain := impl.Datum{Value: datum.Value}
				return plain.Serialize() + "^^" + q
			}
		}
		return datum.Serialize()
	}

	// the body is rendered first, so that the prefix block can name exactly
	// the prefixes it uses
	var body bytes.Buffer
	for i, subject := range subjectOrder(statements) {
		if i > 0 {
			body.WriteString("\n")
		}

		fmt.Fprintf(&body, "%s ", renderTerm(subject.label))
		for j, group := range subject.groups {
			if j > 0 {
				body.WriteString(" ;\n    ")
			}

			predicate := "a"
			if group.predicate != rdfType {
				predicate = renderTerm(group.predicate)
			}
			body.WriteString(predicate)

			for k, object := range group.objects {
				if k > 0 {
					body.WriteString(",")
				}
				body.WriteString(" ")
				body.WriteString(renderObject(object))
			}
		}
		body.WriteString(" .\n")
	}

	var header bytes.Buffer
	for _, prefix := range slices.Sorted(maps.Keys(used)) {
		namespace, _ := ns.Get(prefix)
		fmt.Fprintf(&header, "@prefix %s: <%s> .\n", prefix, namespace)
	}
	if header.Len() > 0 && body.Len() > 0 {
		header.WriteString("\n")
	}

	if _, err := w.Write(header.Bytes()); err != nil {
		return fmt.Errorf("failed to write prefixes: %w", err)
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return fmt.Errorf("failed to write statements: %w", err)
	}
	return nil
}

type binding struct {
	prefix    string
	namespace impl.Label
}

type subjectBlock struct {
	label  impl.Label
	groups []predicateGroup
}

type predicateGroup struct {
	predicate impl.Label
	objects   []sgraph.Statement
}

// subjectOrder groups statements by subject and predicate, preserving the
// order in which subjects and predicates first appear.
func subjectOrder(statements []sgraph.Statement) []subjectBlock {
	index := make(map[impl.Label]int)
	blocks := make([]subjectBlock, 0)

	for _, statement := range statements {
		i, ok := index[statement.Subject]
		if !ok {
			i = len(blocks)
			index[statement.Subject] = i
			blocks = append(blocks, subjectBlock{label: statement.Subject})
		}

		block := &blocks[i]

		j := slices.IndexFunc(block.groups, func(group predicateGroup) bool {
			return group.predicate == statement.Predicate
		})
		if j < 0 {
			j = len(block.groups)
			block.groups = append(block.groups, predicateGroup{predicate: statement.Predicate})
		}
		block.groups[j].objects = append(block.groups[j].objects, statement)
	}

	return blocks
}

// isLocalPart reports whether rest can be written as the local part of a
// prefixed name without escaping.
func isLocalPart(rest string) bool {
	for _, r := range rest {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}
