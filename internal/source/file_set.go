package source

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet manages the collection of source files known to one checking
// session and resolves byte offsets to line/column positions.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores file content, computes its line index and hash, and returns a
// fresh FileID. Adding the same path twice produces a new FileID; the index
// always points at the latest version.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := filepath.ToSlash(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// AddVirtual registers in-memory content (tests, bundle payloads).
func (fileSet *FileSet) AddVirtual(path string, content []byte) FileID {
	return fileSet.Add(path, content, FileVirtual)
}

// Get returns the file for an id, or nil if the id is unknown.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Lookup returns the latest FileID registered under path.
func (fileSet *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fileSet.index[filepath.ToSlash(path)]
	return id, ok
}

// Len reports how many files the set holds.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// PathOf returns the path for an id, or "" when unknown.
func (fileSet *FileSet) PathOf(id FileID) string {
	if f := fileSet.Get(id); f != nil {
		return f.Path
	}
	return ""
}

// Position resolves a byte offset inside a file to a 1-based line/column.
// Columns count bytes, which is what editors expect for LSP-style ranges.
func (fileSet *FileSet) Position(id FileID, offset uint32) LineCol {
	f := fileSet.Get(id)
	if f == nil {
		return LineCol{Line: 1, Col: 1}
	}
	line := uint32(0)
	for line+1 < uint32(len(f.LineIdx)) && f.LineIdx[line+1] <= offset {
		line++
	}
	return LineCol{
		Line: line + 1,
		Col:  offset - f.LineIdx[line] + 1,
	}
}

// Line returns the raw bytes of a 1-based line without the trailing newline.
func (fileSet *FileSet) Line(id FileID, line uint32) []byte {
	f := fileSet.Get(id)
	if f == nil || line == 0 || int(line) > len(f.LineIdx) {
		return nil
	}
	start := f.LineIdx[line-1]
	end := uint32(len(f.Content))
	if int(line) < len(f.LineIdx) {
		end = f.LineIdx[line] - 1 // drop the '\n'
	}
	if end < start {
		end = start
	}
	return f.Content[start:end]
}

func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 1, 16)
	idx[0] = 0
	for i, b := range content {
		if b == '\n' {
			next, err := safecast.Conv[uint32](i + 1)
			if err != nil {
				panic(fmt.Errorf("line offset overflow: %w", err))
			}
			idx = append(idx, next)
		}
	}
	return idx
}
