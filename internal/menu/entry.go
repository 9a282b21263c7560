// Package menu implements the context-menu entry tree: named records stored
// in a hierarchical key/value store, rendered by the file-manager host as
// contextual actions on files, folders, and folder backgrounds.
//
// Entries form an n-ary tree per activation. Every operation re-resolves the
// entry's store path on the call; handles cache nothing, so an entry deleted
// out from under a handle is discovered lazily as a not-found result on the
// next call rather than served from stale state.
package menu

import (
	"errors"
	"fmt"

	"github.com/go-ports/ctxmenu/internal/regstore"
)

// ErrInvalidInput is returned for caller mistakes detected before any store
// round-trip, such as renaming an entry to an empty name.
var ErrInvalidInput = errors.New("menu: invalid input")

// Position pins a root-level entry to one end of the context menu.
// The host ignores it on child entries.
type Position string

// Valid positions. The empty Position means unset.
const (
	PositionTop    Position = "Top"
	PositionBottom Position = "Bottom"
)

// Separator describes which separator lines the host draws around an entry.
type Separator int

// Separator variants. SeparatorNone means no separators.
const (
	SeparatorNone Separator = iota
	SeparatorBefore
	SeparatorAfter
	SeparatorBoth
)

// String renders the separator variant the way the CLI accepts it.
func (s Separator) String() string {
	switch s {
	case SeparatorBefore:
		return "before"
	case SeparatorAfter:
		return "after"
	case SeparatorBoth:
		return "both"
	}
	return "none"
}

// ParseSeparator parses the textual separator syntax used by the CLI and MCP
// tools: "none", "before", "after", or "both".
func ParseSeparator(s string) (Separator, error) {
	switch s {
	case "none":
		return SeparatorNone, nil
	case "before":
		return SeparatorBefore, nil
	case "after":
		return SeparatorAfter, nil
	case "both":
		return SeparatorBoth, nil
	}
	return SeparatorNone, fmt.Errorf("%w: separator %q (want none, before, after, or both)", ErrInvalidInput, s)
}

// Value and key names fixed by the host's schema.
const (
	keyCommand     = "command"
	valIcon        = "Icon"
	valPosition    = "Position"
	valExtended    = "Extended"
	valSepBefore   = "SeparatorBefore"
	valSepAfter    = "SeparatorAfter"
	valSubcommands = "Subcommands"
)

// Options carries the optional attributes applied when creating an entry.
// Zero values mean unset.
type Options struct {
	// Command is the shell command line run when the entry is selected.
	// Interpolation tokens (e.g. %V) pass through opaquely.
	Command string
	// Icon is a resource path displayed beside the entry.
	Icon string
	// Position pins a root-level entry to the top or bottom of the menu.
	Position Position
	// Separator draws separator lines around the entry.
	Separator Separator
	// Extended hides the entry unless the modifier key is held.
	Extended bool
}

// Tree is the entry tree bound to a store hive. The store is injected at
// construction so the tree can run against any Store implementation.
type Tree struct {
	store regstore.Store
}

// NewTree returns a Tree over st, which should be rooted at the hive the
// file-manager host reads menu entries from.
func NewTree(st regstore.Store) *Tree {
	return &Tree{store: st}
}

// Entry is a handle to one node of the tree, identified by its activation and
// the ordered names from the root entry down to the node itself.
type Entry struct {
	tree       *Tree
	activation Activation
	namePath   []string
}

// ---------------------------------------------------------------------------
// Lookup & creation
// ---------------------------------------------------------------------------

// Get returns a handle to the entry at namePath, or nil with a nil error if
// no entry exists there. Store failures other than absence are returned.
func (t *Tree) Get(a Activation, namePath ...string) (*Entry, error) {
	if len(namePath) == 0 {
		return nil, nil
	}
	err := t.store.OpenKey(FullPath(a, namePath))
	if errors.Is(err, regstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Entry{
		tree:       t,
		activation: a,
		namePath:   append([]string(nil), namePath...),
	}, nil
}

// All returns every top-level entry under a, keyed by name. A missing
// top-level container yields an empty map. Entries that vanish between
// enumeration and resolution are skipped; the store is shared and externally
// mutable, so such races are tolerated here.
func (t *Tree) All(a Activation) (map[string]*Entry, error) {
	entries := make(map[string]*Entry)

	names, err := t.store.EnumKeys(FullPath(a, nil))
	if errors.Is(err, regstore.ErrNotFound) {
		return entries, nil
	}
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		e, err := t.Get(a, name)
		if err != nil {
			return nil, err
		}
		if e != nil {
			entries[name] = e
		}
	}
	return entries, nil
}

// Create creates a root-level entry named name under a and applies opts.
// It fails with regstore.ErrExists if an entry already occupies the location;
// an existing entry is never silently overwritten.
func (t *Tree) Create(a Activation, name string, opts Options) (*Entry, error) {
	return t.create(a, []string{name}, opts)
}

// create writes the entry key and applies the initial attributes in order:
// command, icon, position, extended, separator. Attribute application is not
// atomic: if a write fails partway the entry remains in the store with the
// attributes applied so far, and the error is returned.
func (t *Tree) create(a Activation, namePath []string, opts Options) (*Entry, error) {
	path := FullPath(a, namePath)
	createdNew, err := t.store.CreateKey(path)
	if err != nil {
		return nil, fmt.Errorf("menu: create %q: %w", path, err)
	}
	if !createdNew {
		return nil, fmt.Errorf("%w: entry %q", regstore.ErrExists, path)
	}

	e := &Entry{
		tree:       t,
		activation: a,
		namePath:   append([]string(nil), namePath...),
	}
	if err := e.applyOptions(opts); err != nil {
		return nil, fmt.Errorf("menu: create %q: apply options: %w", path, err)
	}
	return e, nil
}

func (e *Entry) applyOptions(opts Options) error {
	if opts.Command != "" {
		if err := e.SetCommand(opts.Command); err != nil {
			return err
		}
	}
	if opts.Icon != "" {
		if err := e.SetIcon(opts.Icon); err != nil {
			return err
		}
	}
	if opts.Position != "" {
		if err := e.SetPosition(opts.Position); err != nil {
			return err
		}
	}
	if opts.Extended {
		if err := e.SetExtended(true); err != nil {
			return err
		}
	}
	if opts.Separator != SeparatorNone {
		if err := e.SetSeparator(opts.Separator); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Identity
// ---------------------------------------------------------------------------

// Path returns the full store path the handle resolves to.
func (e *Entry) Path() string {
	return FullPath(e.activation, e.namePath)
}

// NamePath returns a copy of the entry's name path.
func (e *Entry) NamePath() []string {
	return append([]string(nil), e.namePath...)
}

// Activation returns the activation the entry was created under.
func (e *Entry) Activation() Activation {
	return e.activation
}

// Name returns the entry's name after verifying the backing key still exists;
// the in-memory name path is never independently re-validated, so the check
// is what keeps a stale handle from reporting a name for a deleted entry.
func (e *Entry) Name() (string, error) {
	if err := e.key(); err != nil {
		return "", err
	}
	return e.namePath[len(e.namePath)-1], nil
}

// Rename renames the entry in place. An empty name fails with ErrInvalidInput
// before any store access.
//
// The handle's in-memory name path is updated even when the store rename
// fails, so the handle resolves against the requested name from then on while
// the store may still hold the old one. Callers that need to recover should
// re-Get the entry by its store-side name.
func (e *Entry) Rename(newName string) error {
	if newName == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}
	if err := e.key(); err != nil {
		return err
	}

	parentPath := FullPath(e.activation, e.namePath[:len(e.namePath)-1])
	oldName := e.namePath[len(e.namePath)-1]
	err := e.tree.store.RenameChild(parentPath, oldName, newName)

	e.namePath[len(e.namePath)-1] = newName
	return err
}

// Delete removes the entry and its entire subtree from the store. The handle
// is consumed: any call after Delete fails with not-found.
func (e *Entry) Delete() error {
	return e.tree.store.DeleteTree(e.Path())
}

// ---------------------------------------------------------------------------
// Attributes
// ---------------------------------------------------------------------------

// Command returns the entry's command. ok is false when no command is set or
// the entry itself is gone.
func (e *Entry) Command() (command string, ok bool, err error) {
	v, err := e.tree.store.GetValue(e.Path()+regstore.PathSep+keyCommand, "")
	if errors.Is(err, regstore.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// SetCommand sets the command run when the entry is selected, stored as the
// default value of the nested command key. An empty command deletes the
// nested key; deleting an absent one is not an error.
func (e *Entry) SetCommand(command string) error {
	if err := e.key(); err != nil {
		return err
	}
	cmdPath := e.Path() + regstore.PathSep + keyCommand
	if command == "" {
		err := e.tree.store.DeleteTree(cmdPath)
		if errors.Is(err, regstore.ErrNotFound) {
			return nil
		}
		return err
	}
	if _, err := e.tree.store.CreateKey(cmdPath); err != nil {
		return err
	}
	return e.tree.store.SetValue(cmdPath, "", command)
}

// Icon returns the entry's icon resource path. ok is false when unset.
func (e *Entry) Icon() (icon string, ok bool, err error) {
	if err := e.key(); err != nil {
		return "", false, err
	}
	v, err := e.tree.store.GetValue(e.Path(), valIcon)
	if errors.Is(err, regstore.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// SetIcon sets the icon displayed beside the entry. An empty icon clears it.
func (e *Entry) SetIcon(icon string) error {
	if err := e.key(); err != nil {
		return err
	}
	if icon == "" {
		return e.clearValue(valIcon)
	}
	return e.tree.store.SetValue(e.Path(), valIcon, icon)
}

// Position returns the entry's menu position. The zero Position means unset;
// a stored value that is neither of the two known tokens also reads as unset.
func (e *Entry) Position() (Position, error) {
	if err := e.key(); err != nil {
		return "", err
	}
	v, err := e.tree.store.GetValue(e.Path(), valPosition)
	if errors.Is(err, regstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	switch p := Position(v); p {
	case PositionTop, PositionBottom:
		return p, nil
	}
	return "", nil
}

// SetPosition pins the entry to one end of the menu. The host only honors it
// on root-level entries. The zero Position clears it.
func (e *Entry) SetPosition(p Position) error {
	switch p {
	case "", PositionTop, PositionBottom:
	default:
		return fmt.Errorf("%w: position %q", ErrInvalidInput, p)
	}
	if err := e.key(); err != nil {
		return err
	}
	if p == "" {
		return e.clearValue(valPosition)
	}
	return e.tree.store.SetValue(e.Path(), valPosition, string(p))
}

// Extended reports whether the entry only appears with the modifier key held.
// It is stored as a presence marker, not a boolean payload.
func (e *Entry) Extended() (bool, error) {
	if err := e.key(); err != nil {
		return false, err
	}
	_, err := e.tree.store.GetValue(e.Path(), valExtended)
	if errors.Is(err, regstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetExtended marks or unmarks the entry as modifier-key-only.
func (e *Entry) SetExtended(extended bool) error {
	if err := e.key(); err != nil {
		return err
	}
	if extended {
		return e.tree.store.SetValue(e.Path(), valExtended, "")
	}
	return e.clearValue(valExtended)
}

// Separator returns which separator lines surround the entry, computed from
// the two independent before/after markers on the key.
func (e *Entry) Separator() (Separator, error) {
	if err := e.key(); err != nil {
		return SeparatorNone, err
	}
	before, err := e.hasValue(valSepBefore)
	if err != nil {
		return SeparatorNone, err
	}
	after, err := e.hasValue(valSepAfter)
	if err != nil {
		return SeparatorNone, err
	}
	switch {
	case before && after:
		return SeparatorBoth, nil
	case before:
		return SeparatorBefore, nil
	case after:
		return SeparatorAfter, nil
	}
	return SeparatorNone, nil
}

// SetSeparator writes exactly the markers implied by s and clears the rest.
// SeparatorNone clears both markers.
func (e *Entry) SetSeparator(s Separator) error {
	if err := e.key(); err != nil {
		return err
	}
	switch s {
	case SeparatorBefore:
		if err := e.tree.store.SetValue(e.Path(), valSepBefore, ""); err != nil {
			return err
		}
		return e.clearValue(valSepAfter)
	case SeparatorAfter:
		if err := e.tree.store.SetValue(e.Path(), valSepAfter, ""); err != nil {
			return err
		}
		return e.clearValue(valSepBefore)
	case SeparatorBoth:
		if err := e.tree.store.SetValue(e.Path(), valSepBefore, ""); err != nil {
			return err
		}
		return e.tree.store.SetValue(e.Path(), valSepAfter, "")
	case SeparatorNone:
		if err := e.clearValue(valSepBefore); err != nil {
			return err
		}
		return e.clearValue(valSepAfter)
	}
	return fmt.Errorf("%w: separator %d", ErrInvalidInput, s)
}

// ---------------------------------------------------------------------------
// Hierarchy
// ---------------------------------------------------------------------------

// Parent returns the entry's parent, nil for root-level entries, and nil with
// a nil error when the parent location no longer exists.
func (e *Entry) Parent() (*Entry, error) {
	if len(e.namePath) <= 1 {
		return nil, nil
	}
	return e.tree.Get(e.activation, e.namePath[:len(e.namePath)-1]...)
}

// Child returns the named direct child, or nil if it does not exist.
func (e *Entry) Child(name string) (*Entry, error) {
	namePath := append(e.NamePath(), name)
	return e.tree.Get(e.activation, namePath...)
}

// Children returns the entry's direct children. Unlike Tree.All, a child that
// cannot be resolved after enumeration surfaces its store error to the caller
// rather than being skipped.
func (e *Entry) Children() ([]*Entry, error) {
	if err := e.key(); err != nil {
		return nil, err
	}

	names, err := e.tree.store.EnumKeys(e.Path() + regstore.PathSep + shellSegment)
	if errors.Is(err, regstore.ErrNotFound) {
		// The container only exists once a child has been created.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	children := make([]*Entry, 0, len(names))
	for _, name := range names {
		namePath := append(e.NamePath(), name)
		if err := e.tree.store.OpenKey(FullPath(e.activation, namePath)); err != nil {
			return nil, err
		}
		children = append(children, &Entry{
			tree:       e.tree,
			activation: e.activation,
			namePath:   namePath,
		})
	}
	return children, nil
}

// NewChild creates a child entry under e and applies opts. The parent is
// marked as having subcommands first, which the host requires to render a
// submenu.
func (e *Entry) NewChild(name string, opts Options) (*Entry, error) {
	if err := e.tree.store.SetValue(e.Path(), valSubcommands, ""); err != nil {
		return nil, err
	}
	return e.tree.create(e.activation, append(e.NamePath(), name), opts)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// key verifies the entry's backing key still exists. Checked before every
// operation that trusts the in-memory name path.
func (e *Entry) key() error {
	return e.tree.store.OpenKey(e.Path())
}

// clearValue deletes a value, treating an already-absent value as success.
func (e *Entry) clearValue(name string) error {
	err := e.tree.store.DeleteValue(e.Path(), name)
	if errors.Is(err, regstore.ErrNotFound) {
		return nil
	}
	return err
}

// hasValue reports presence of a marker value on the entry's key.
func (e *Entry) hasValue(name string) (bool, error) {
	_, err := e.tree.store.GetValue(e.Path(), name)
	if errors.Is(err, regstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
