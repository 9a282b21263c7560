package menu

import (
	"fmt"
	"strings"

	"github.com/go-ports/ctxmenu/internal/regstore"
)

// Activation selects which right-click target a tree of entries applies to:
// files of a given type, folders, or a folder's background. It determines the
// root namespace every path for the tree is derived from.
type Activation struct {
	kind activationKind
	ext  string
}

type activationKind int

const (
	activationFile activationKind = iota
	activationFolder
	activationBackground
)

// File returns the Activation for right-clicked files. ext must be an
// extension (e.g. ".txt") or "*" for any file type.
func File(ext string) Activation { return Activation{kind: activationFile, ext: ext} }

// Folder returns the Activation for right-clicked folders.
func Folder() Activation { return Activation{kind: activationFolder} }

// Background returns the Activation for a folder's background.
func Background() Activation { return Activation{kind: activationBackground} }

// String renders the activation the way the CLI accepts it: "folder",
// "background", or the file extension itself.
func (a Activation) String() string {
	switch a.kind {
	case activationFolder:
		return "folder"
	case activationBackground:
		return "background"
	default:
		return a.ext
	}
}

// ParseActivation parses the textual activation syntax used by the CLI and
// MCP tools: "folder", "background", "*" for any file, or an extension such
// as ".txt".
func ParseActivation(s string) (Activation, error) {
	switch s {
	case "folder":
		return Folder(), nil
	case "background":
		return Background(), nil
	case "*":
		return File("*"), nil
	}
	if strings.HasPrefix(s, ".") && len(s) > 1 {
		return File(s), nil
	}
	return Activation{}, fmt.Errorf(
		"%w: activation target %q (want folder, background, *, or an extension like .txt)",
		ErrInvalidInput, s,
	)
}

// shellSegment is the fixed container component separating a node from its
// children, enabling arbitrary nesting depth.
const shellSegment = "shell"

// BasePath returns the root namespace token for an activation.
func BasePath(a Activation) string {
	switch a.kind {
	case activationFolder:
		return "Directory"
	case activationBackground:
		return "Directory" + regstore.PathSep + "Background"
	default:
		return a.ext
	}
}

// FullPath derives the store path for the entry at namePath under a,
// interleaving the container segment before every name. An empty namePath
// yields the top-level container itself, used to enumerate root entries.
//
// FullPath is pure and deterministic; distinct name paths under the same
// activation never collide because every name is bracketed by separators.
func FullPath(a Activation, namePath []string) string {
	path := BasePath(a)
	if len(namePath) == 0 {
		return path + regstore.PathSep + shellSegment
	}
	for _, name := range namePath {
		path += regstore.PathSep + shellSegment + regstore.PathSep + name
	}
	return path
}
