package project

import (
	"errors"
	"strings"
	"unicode"

	"pyrite/internal/source"
)

// ImportMeta is one import of a module: the path expression exactly as it
// was written plus its resolved canonical path.
type ImportMeta struct {
	Expr     string // as written: "utils", "../common/errors", "/models/user"
	Path     string // canonical: "models/user"
	Span     source.Span
	Resolved bool
}

// ModuleMeta is what the driver knows about one module before checking it.
type ModuleMeta struct {
	Path        string // canonical module path: "a/b"
	Span        source.Span
	Imports     []ImportMeta
	ContentHash Digest // hash of the module's source text
	ModuleHash  Digest // aggregate hash including dependency hashes
}

// IsValidModuleIdent reports whether name can serve as a module path segment
// or a manifest module name.
func IsValidModuleIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// NormalizeModulePath canonicalizes a module path to the "a/b" form: strips
// a trailing .pyr extension and leading slashes, forbids empty segments,
// "." and "..".
func NormalizeModulePath(path string) (string, error) {
	const ext = ".pyr"
	path = strings.TrimSuffix(path, ext)
	for path != "" && (path[0] == '/' || path[0] == '\\') {
		path = path[1:]
	}
	if path == "" {
		return "", errors.New("invalid module path")
	}
	segments := strings.Split(strings.ReplaceAll(path, "\\", "/"), "/")
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return "", errors.New("invalid module path")
		}
	}
	return strings.Join(segments, "/"), nil
}

// ResolveImportExpr resolves an import path expression against the importing
// module's canonical path. Three forms exist: absolute from the project root
// ("/models/user"), parent-relative ("../common/errors") and
// sibling-relative ("utils"). Sibling-relative paths resolve against the
// importing module's directory.
func ResolveImportExpr(modulePath, expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", errors.New("empty import path")
	}

	if strings.HasPrefix(expr, "/") {
		return NormalizeModulePath(expr)
	}

	// Directory of the importing module.
	var dir []string
	if parts := strings.Split(modulePath, "/"); len(parts) > 1 {
		dir = parts[:len(parts)-1]
	}

	target := make([]string, 0, len(dir)+4)
	target = append(target, dir...)
	for _, seg := range strings.Split(expr, "/") {
		switch seg {
		case "":
			return "", errors.New("empty import segment")
		case ".":
			continue
		case "..":
			if len(target) == 0 {
				return "", errors.New("import path escapes project root")
			}
			target = target[:len(target)-1]
		default:
			target = append(target, seg)
		}
	}
	if len(target) == 0 {
		return "", errors.New("import resolves to empty path")
	}
	return NormalizeModulePath(strings.Join(target, "/"))
}
