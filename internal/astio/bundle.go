// Package astio is the wire format between the external parser and the
// checker: one msgpack bundle per source file, carrying the module path, the
// raw source text for diagnostics rendering and the parsed tree.
package astio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"pyrite/internal/ast"
	"pyrite/internal/source"
)

// SchemaVersion changes whenever the wire layout changes; decoders reject
// bundles written with any other version.
const SchemaVersion uint16 = 1

// ErrSchema indicates a bundle written with an incompatible schema version.
var ErrSchema = errors.New("unsupported bundle schema")

// Bundle is one parsed source file as produced by the parser.
type Bundle struct {
	Schema uint16
	Module string // canonical module path: "models/user"
	Source []byte // original source text, kept for diagnostics
	File   *ast.File
}

type wireBundle struct {
	Schema uint16    `msgpack:"schema"`
	Module string    `msgpack:"module"`
	Source []byte    `msgpack:"source,omitempty"`
	File   *wireFile `msgpack:"file"`
}

// Encode writes the bundle to w. A zero Schema is stamped with the current
// SchemaVersion.
func Encode(w io.Writer, b *Bundle) error {
	schema := b.Schema
	if schema == 0 {
		schema = SchemaVersion
	}
	wire := &wireBundle{
		Schema: schema,
		Module: b.Module,
		Source: b.Source,
		File:   toWireFile(b.File),
	}
	return msgpack.NewEncoder(w).Encode(wire)
}

// EncodeBytes serializes the bundle into a byte slice.
func EncodeBytes(b *Bundle) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Payload is a decoded bundle whose tree has not been materialized yet.
// The driver registers Source with its FileSet first, then materializes the
// tree with the FileID it got back.
type Payload struct {
	Schema uint16
	Module string
	Source []byte
	file   *wireFile
}

// DecodePayload reads one bundle envelope from r and validates its schema
// version, leaving the tree in wire form.
func DecodePayload(r io.Reader) (*Payload, error) {
	var wire wireBundle
	if err := msgpack.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}
	if wire.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, wire.Schema, SchemaVersion)
	}
	return &Payload{
		Schema: wire.Schema,
		Module: wire.Module,
		Source: wire.Source,
		file:   wire.File,
	}, nil
}

// Materialize converts the wire tree into AST form, stamping every span
// with fileID.
func (p *Payload) Materialize(fileID source.FileID) (*Bundle, error) {
	file, err := decoder{file: fileID}.fromWireFile(p.file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}
	return &Bundle{
		Schema: p.Schema,
		Module: p.Module,
		Source: p.Source,
		File:   file,
	}, nil
}

// Decode reads one bundle from r and validates its schema version. Every
// span in the decoded tree is stamped with fileID, the id the checking
// session's FileSet assigned to this bundle's source.
func Decode(r io.Reader, fileID source.FileID) (*Bundle, error) {
	p, err := DecodePayload(r)
	if err != nil {
		return nil, err
	}
	return p.Materialize(fileID)
}

// DecodeBytes deserializes one bundle from a byte slice.
func DecodeBytes(data []byte, fileID source.FileID) (*Bundle, error) {
	return Decode(bytes.NewReader(data), fileID)
}
