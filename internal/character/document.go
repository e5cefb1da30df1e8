package character

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/aetherforge/internal/document"
)

// ToDocument renders the aggregate as a structural snapshot document. The
// round trip goes through the JSON encoding so the document keys are exactly
// the wire keys; temporal fields come out as RFC 3339 strings.
func (c *Character) ToDocument() (document.Object, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("character %s: encode: %w", c.ID, err)
	}

	var doc document.Object
	if err := doc.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("character %s: to document: %w", c.ID, err)
	}
	return doc, nil
}

// FromDocument rehydrates an aggregate from a snapshot document. Keys the
// aggregate does not know (such as the envelope's version field) are
// ignored; migration is the caller's concern.
func FromDocument(doc document.Object) (*Character, error) {
	data, err := document.MarshalCanonical(doc)
	if err != nil {
		return nil, fmt.Errorf("character: from document: %w", err)
	}

	var c Character
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("character: from document: %w", err)
	}
	return &c, nil
}
