package toon

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// EncodeYAML renders the same document as YAML: fields become keys and each
// table becomes a list of mappings in column order.
func EncodeYAML(doc *Document) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range doc.Fields {
		root.Content = append(root.Content, scalar(f.Key), scalar(f.Value))
	}
	for _, t := range doc.Tables {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, row := range t.Rows {
			m := &yaml.Node{Kind: yaml.MappingNode}
			for i, col := range t.Columns {
				var cell string
				if i < len(row) {
					cell = row[i]
				}
				m.Content = append(m.Content, scalar(col), scalar(cell))
			}
			seq.Content = append(seq.Content, m)
		}
		root.Content = append(root.Content, scalar(t.Name), seq)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// scalar keeps numbers untyped and forces everything else to a string.
func scalar(value string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	if !looksNumeric.MatchString(value) {
		n.Tag = "!!str"
	}
	return n
}
