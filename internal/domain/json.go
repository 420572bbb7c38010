package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON writes the renderer's shape
// {"sidebar": {"Group": ["doc", ...]}} with keys in declaration order.
func (m *SidebarManifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sb := range m.sidebars {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, sb.Name); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, g := range sb.Groups {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, g.Label); err != nil {
				return nil, err
			}
			items := g.Items
			if items == nil {
				items = []DocRef{}
			}
			data, err := json.Marshal(items)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal group %q: %w", g.Label, err)
			}
			buf.Write(data)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the shape written by MarshalJSON, keeping key order,
// and validates it with BuildManifest.
func (m *SidebarManifest) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	decl, err := decodeDeclaration(dec)
	if err != nil {
		return fmt.Errorf("failed to decode manifest: %w", err)
	}
	built, err := BuildManifest(decl)
	if err != nil {
		return err
	}
	m.sidebars = built.sidebars
	return nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	data, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("failed to marshal key %q: %w", key, err)
	}
	buf.Write(data)
	buf.WriteByte(':')
	return nil
}

func decodeDeclaration(dec *json.Decoder) (Declaration, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var decl Declaration
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("sidebar %q: %w", name, err)
		}
		sd := SidebarDecl{Name: name}
		for dec.More() {
			label, err := readKey(dec)
			if err != nil {
				return nil, err
			}
			var items []string
			if err := dec.Decode(&items); err != nil {
				return nil, fmt.Errorf("sidebar %q group %q: %w", name, label, err)
			}
			sd.Groups = append(sd.Groups, GroupDecl{Label: label, Items: items})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		decl = append(decl, sd)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return decl, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}
