// Package snapshot implements the versioned character snapshot format:
// serialization to a structural document, single-step version migration,
// recursive structural diff, and checksum-verified patch replay.
package snapshot

import (
	"github.com/roach88/aetherforge/internal/character"
	"github.com/roach88/aetherforge/internal/document"
)

// CurrentVersion is the snapshot format version this engine writes.
const CurrentVersion = "2.0.0"

// Serialize flattens a character aggregate into a versioned snapshot
// document. Temporal fields come out as canonical RFC 3339 strings.
func Serialize(c *character.Character) (document.Object, error) {
	doc, err := c.ToDocument()
	if err != nil {
		return nil, newError(ErrCodeMalformedSnapshot, "serialize: %v", err)
	}
	doc["version"] = document.String(CurrentVersion)
	return doc, nil
}

// Marshal renders a snapshot document as canonical JSON. Two documents with
// equal content always marshal to identical bytes, which is what the
// checksum scheme relies on.
func Marshal(doc document.Object) ([]byte, error) {
	return document.MarshalCanonical(doc)
}

// DecodeDocument parses snapshot bytes into a structural document without
// migrating or rehydrating. Fractional numbers are rejected; the snapshot
// model is integer-only.
func DecodeDocument(data []byte) (document.Object, error) {
	var doc document.Object
	if err := doc.UnmarshalJSON(data); err != nil {
		return nil, newError(ErrCodeMalformedSnapshot, "parse snapshot: %v", err)
	}
	return doc, nil
}

// Deserialize parses snapshot bytes, migrates the document to
// CurrentVersion through the given registry, and rehydrates the aggregate.
// A snapshot whose version has no chain to current fails with a
// no-migration-path error and returns no partial data.
func Deserialize(data []byte, reg *Migrations) (*character.Character, error) {
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	return Rehydrate(doc, reg)
}

// Rehydrate migrates an already-parsed snapshot document and decodes the
// aggregate from it.
func Rehydrate(doc document.Object, reg *Migrations) (*character.Character, error) {
	version, ok := doc["version"].(document.String)
	if !ok {
		return nil, newError(ErrCodeMalformedSnapshot, "snapshot has no version")
	}

	if string(version) != CurrentVersion {
		doc, err := reg.Apply(doc, string(version), CurrentVersion)
		if err != nil {
			return nil, err
		}
		return decodeCharacter(doc)
	}

	return decodeCharacter(doc)
}

func decodeCharacter(doc document.Object) (*character.Character, error) {
	c, err := character.FromDocument(doc)
	if err != nil {
		return nil, newError(ErrCodeMalformedSnapshot, "rehydrate: %v", err)
	}
	return c, nil
}
