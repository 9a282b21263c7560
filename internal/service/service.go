// Package service implements the orchestrator that wires together
// configuration, the backing store, and the context-menu entry tree.
package service

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-ports/ctxmenu/internal/config"
	"github.com/go-ports/ctxmenu/internal/menu"
	"github.com/go-ports/ctxmenu/internal/regstore"
)

// Hive names within the store database. HiveClasses holds the entry trees the
// file-manager host reads; HiveUser holds per-user settings such as the
// classic-menu toggle.
const (
	HiveClasses = "HKEY_CLASSES_ROOT"
	HiveUser    = "HKEY_CURRENT_USER"
)

// Service orchestrates all context-menu operations.
type Service struct {
	Home   string
	Config *config.Config

	store *regstore.DB
	tree  *menu.Tree
}

// New initialises a Service rooted at home.
// If home is empty it is resolved via config.GetHome.
func New(home string) (*Service, error) {
	if home == "" {
		home = config.GetHome()
	}

	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, fmt.Errorf("service.New: create home: %w", err)
	}

	cfg, err := config.Load(filepath.Join(home, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}

	store, err := regstore.Open(cfg.StorePath(home))
	if err != nil {
		return nil, fmt.Errorf("service.New: open store: %w", err)
	}

	return &Service{
		Home:   home,
		Config: cfg,
		store:  store,
		tree:   menu.NewTree(store.Hive(HiveClasses)),
	}, nil
}

// Close releases all resources held by the service.
func (s *Service) Close() error {
	return s.store.Close()
}

// Tree returns the entry tree over the classes hive.
func (s *Service) Tree() *menu.Tree { return s.tree }

// ---------------------------------------------------------------------------
// Entry operations
// ---------------------------------------------------------------------------

// EntryInfo is a point-in-time snapshot of an entry and its attributes.
// It reflects the store at the moment it was taken; the store is shared and
// externally mutable, so it can go stale immediately.
type EntryInfo struct {
	Name      string
	Path      string
	Command   string // empty when unset
	Icon      string // empty when unset
	Position  menu.Position
	Separator menu.Separator
	Extended  bool
	Children  []string
}

// Create creates the entry at namePath under a. Root entries are created
// directly; deeper paths require the parent to exist already. Config defaults
// fill in position (root entries only) and extended when the caller left them
// unset.
func (s *Service) Create(a menu.Activation, namePath []string, opts menu.Options) error {
	if len(namePath) == 0 {
		return fmt.Errorf("%w: empty name path", menu.ErrInvalidInput)
	}

	if opts.Position == "" && len(namePath) == 1 {
		opts.Position = menu.Position(s.Config.Defaults.Position)
	}
	if s.Config.Defaults.Extended {
		opts.Extended = true
	}

	if len(namePath) == 1 {
		if _, err := s.tree.Create(a, namePath[0], opts); err != nil {
			return err
		}
	} else {
		parent, err := s.tree.Get(a, namePath[:len(namePath)-1]...)
		if err != nil {
			return err
		}
		if parent == nil {
			return fmt.Errorf("%w: parent entry %q", regstore.ErrNotFound,
				namePath[:len(namePath)-1])
		}
		if _, err := parent.NewChild(namePath[len(namePath)-1], opts); err != nil {
			return err
		}
	}

	slog.Debug("service: created entry", "target", a.String(), "name_path", namePath)
	return nil
}

// List returns a snapshot of every top-level entry under a, sorted by name.
// Entries that vanish while the snapshot is being assembled are skipped.
func (s *Service) List(a menu.Activation) ([]EntryInfo, error) {
	entries, err := s.tree.All(a)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]EntryInfo, 0, len(names))
	for _, name := range names {
		info, err := snapshot(entries[name])
		if err != nil {
			// Raced with external deletion; consistent with Tree.All.
			continue
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

// Show returns a snapshot of the entry at namePath, or nil if it does not exist.
func (s *Service) Show(a menu.Activation, namePath []string) (*EntryInfo, error) {
	e, err := s.tree.Get(a, namePath...)
	if err != nil || e == nil {
		return nil, err
	}
	return snapshot(e)
}

// AttrUpdate describes attribute changes for Set. Nil fields are left alone;
// a pointer to a zero value clears the attribute.
type AttrUpdate struct {
	Command   *string
	Icon      *string
	Position  *menu.Position
	Separator *menu.Separator
	Extended  *bool
}

// Set applies upd to the entry at namePath.
func (s *Service) Set(a menu.Activation, namePath []string, upd AttrUpdate) error {
	e, err := s.tree.Get(a, namePath...)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("%w: entry %q", regstore.ErrNotFound, namePath)
	}

	if upd.Command != nil {
		if err := e.SetCommand(*upd.Command); err != nil {
			return err
		}
	}
	if upd.Icon != nil {
		if err := e.SetIcon(*upd.Icon); err != nil {
			return err
		}
	}
	if upd.Position != nil {
		if err := e.SetPosition(*upd.Position); err != nil {
			return err
		}
	}
	if upd.Separator != nil {
		if err := e.SetSeparator(*upd.Separator); err != nil {
			return err
		}
	}
	if upd.Extended != nil {
		if err := e.SetExtended(*upd.Extended); err != nil {
			return err
		}
	}
	return nil
}

// Rename renames the entry at namePath to newName.
func (s *Service) Rename(a menu.Activation, namePath []string, newName string) error {
	e, err := s.tree.Get(a, namePath...)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("%w: entry %q", regstore.ErrNotFound, namePath)
	}
	return e.Rename(newName)
}

// Delete removes the entry at namePath and its subtree.
// Returns false if no entry exists there.
func (s *Service) Delete(a menu.Activation, namePath []string) (bool, error) {
	e, err := s.tree.Get(a, namePath...)
	if err != nil {
		return false, err
	}
	if e == nil {
		return false, nil
	}
	if err := e.Delete(); err != nil {
		return false, err
	}
	slog.Debug("service: deleted entry", "target", a.String(), "name_path", namePath)
	return true, nil
}

// SetClassicMenu flips the legacy-menu toggle in the user hive.
func (s *Service) SetClassicMenu(enabled bool) error {
	return menu.SetClassicMenu(s.store.Hive(HiveUser), enabled)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// snapshot reads all attributes of e into an EntryInfo.
func snapshot(e *menu.Entry) (*EntryInfo, error) {
	name, err := e.Name()
	if err != nil {
		return nil, err
	}

	info := &EntryInfo{Name: name, Path: e.Path()}

	if cmd, ok, err := e.Command(); err != nil {
		return nil, err
	} else if ok {
		info.Command = cmd
	}
	if icon, ok, err := e.Icon(); err != nil {
		return nil, err
	} else if ok {
		info.Icon = icon
	}
	if info.Position, err = e.Position(); err != nil {
		return nil, err
	}
	if info.Separator, err = e.Separator(); err != nil {
		return nil, err
	}
	if info.Extended, err = e.Extended(); err != nil {
		return nil, err
	}

	children, err := e.Children()
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		np := child.NamePath()
		info.Children = append(info.Children, np[len(np)-1])
	}
	return info, nil
}
