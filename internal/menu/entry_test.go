package menu_test

import (
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/ctxmenu/internal/menu"
	"github.com/go-ports/ctxmenu/internal/regstore"
)

// newTestTree opens a fresh store in a temp directory and returns a tree over
// its classes hive along with the hive itself for raw store assertions.
func newTestTree(t *testing.T) (*menu.Tree, regstore.Store) {
	t.Helper()
	d, err := regstore.Open(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("newTestTree: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	st := d.Hive("HKEY_CLASSES_ROOT")
	return menu.NewTree(st), st
}

// assertNoValue asserts the named value is absent on the key at path.
func assertNoValue(c *qt.C, st regstore.Store, path, name string) {
	c.Helper()
	_, err := st.GetValue(path, name)
	c.Assert(err, qt.ErrorIs, regstore.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Get / Create
// ---------------------------------------------------------------------------

func TestGet_HappyPath(t *testing.T) {
	c := qt.New(t)
	tree, _ := newTestTree(t)

	created, err := tree.Create(menu.Folder(), "Basic entry", menu.Options{})
	c.Assert(err, qt.IsNil)

	got, err := tree.Get(menu.Folder(), "Basic entry")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.IsNotNil)
	c.Assert(got.NamePath(), qt.DeepEquals, created.NamePath())

	name, err := got.Name()
	c.Assert(err, qt.IsNil)
	c.Assert(name, qt.Equals, "Basic entry")
}

func TestGet_FailurePath(t *testing.T) {
	c := qt.New(t)
	tree, _ := newTestTree(t)

	c.Run("missing entry resolves to absence, not an error", func(c *qt.C) {
		got, err := tree.Get(menu.Background(), "Missing entry")
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.IsNil)
	})

	c.Run("empty name path resolves to absence", func(c *qt.C) {
		got, err := tree.Get(menu.Folder())
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.IsNil)
	})
}

func TestCreate_HappyPath(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name       string
		activation menu.Activation
		wantKey    string
	}{
		{"on any file", menu.File("*"), `*\shell\Basic entry`},
		{"on an extension", menu.File(".txt"), `.txt\shell\Basic entry`},
		{"on folders", menu.Folder(), `Directory\shell\Basic entry`},
		{"on the background", menu.Background(), `Directory\Background\shell\Basic entry`},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			tree, st := newTestTree(t)

			entry, err := tree.Create(tt.activation, "Basic entry", menu.Options{})
			c.Assert(err, qt.IsNil)
			c.Assert(entry.Path(), qt.Equals, tt.wantKey)
			c.Assert(st.OpenKey(tt.wantKey), qt.IsNil)

			// A fresh entry carries no attributes.
			c.Assert(st.OpenKey(tt.wantKey+`\command`), qt.ErrorIs, regstore.ErrNotFound)
			assertNoValue(c, st, tt.wantKey, "Icon")
			assertNoValue(c, st, tt.wantKey, "Position")
			assertNoValue(c, st, tt.wantKey, "Extended")
		})
	}
}

func TestCreate_WithOptions(t *testing.T) {
	c := qt.New(t)
	tree, st := newTestTree(t)

	_, err := tree.Create(menu.Background(), "Full entry", menu.Options{
		Command:   `cmd /s /k pushd "%V"`,
		Icon:      `C:\Windows\System32\cmd.exe`,
		Position:  menu.PositionTop,
		Separator: menu.SeparatorAfter,
		Extended:  true,
	})
	c.Assert(err, qt.IsNil)

	key := `Directory\Background\shell\Full entry`
	cmd, err := st.GetValue(key+`\command`, "")
	c.Assert(err, qt.IsNil)
	c.Assert(cmd, qt.Equals, `cmd /s /k pushd "%V"`)

	icon, err := st.GetValue(key, "Icon")
	c.Assert(err, qt.IsNil)
	c.Assert(icon, qt.Equals, `C:\Windows\System32\cmd.exe`)

	pos, err := st.GetValue(key, "Position")
	c.Assert(err, qt.IsNil)
	c.Assert(pos, qt.Equals, "Top")

	_, err = st.GetValue(key, "Extended")
	c.Assert(err, qt.IsNil)
	_, err = st.GetValue(key, "SeparatorAfter")
	c.Assert(err, qt.IsNil)
	assertNoValue(c, st, key, "SeparatorBefore")
}

func TestCreate_FailurePath(t *testing.T) {
	c := qt.New(t)
	tree, _ := newTestTree(t)

	entry, err := tree.Create(menu.Folder(), "Taken", menu.Options{Icon: "original.ico"})
	c.Assert(err, qt.IsNil)

	_, err = tree.Create(menu.Folder(), "Taken", menu.Options{Icon: "usurper.ico"})
	c.Assert(err, qt.ErrorIs, regstore.ErrExists)

	// The original entry's attributes are untouched by the failed creation.
	icon, ok, err := entry.Icon()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(icon, qt.Equals, "original.ico")
}

// ---------------------------------------------------------------------------
// All
// ---------------------------------------------------------------------------

func TestAll_HappyPath(t *testing.T) {
	c := qt.New(t)
	tree, _ := newTestTree(t)

	c.Run("missing container yields an empty result", func(c *qt.C) {
		entries, err := tree.All(menu.Folder())
		c.Assert(err, qt.IsNil)
		c.Assert(entries, qt.HasLen, 0)
	})

	_, err := tree.Create(menu.Folder(), "One", menu.Options{})
	c.Assert(err, qt.IsNil)
	_, err = tree.Create(menu.Folder(), "Two", menu.Options{})
	c.Assert(err, qt.IsNil)
	_, err = tree.Create(menu.Background(), "Elsewhere", menu.Options{})
	c.Assert(err, qt.IsNil)

	entries, err := tree.All(menu.Folder())
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 2)
	c.Assert(entries["One"], qt.IsNotNil)
	c.Assert(entries["Two"], qt.IsNotNil)
}

// ---------------------------------------------------------------------------
// Attributes
// ---------------------------------------------------------------------------

func TestCommand_RoundTrip(t *testing.T) {
	c := qt.New(t)
	tree, st := newTestTree(t)
	entry, err := tree.Create(menu.Folder(), "Entry", menu.Options{})
	c.Assert(err, qt.IsNil)

	c.Run("unset reads as absence", func(c *qt.C) {
		_, ok, err := entry.Command()
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsFalse)
	})

	c.Run("set then get returns the exact value", func(c *qt.C) {
		c.Assert(entry.SetCommand("test command"), qt.IsNil)
		cmd, ok, err := entry.Command()
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsTrue)
		c.Assert(cmd, qt.Equals, "test command")

		// Stored as the default value of the nested command key.
		v, err := st.GetValue(`Directory\shell\Entry\command`, "")
		c.Assert(err, qt.IsNil)
		c.Assert(v, qt.Equals, "test command")
	})

	c.Run("clearing removes the nested key", func(c *qt.C) {
		c.Assert(entry.SetCommand(""), qt.IsNil)
		_, ok, err := entry.Command()
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsFalse)
		c.Assert(st.OpenKey(`Directory\shell\Entry\command`), qt.ErrorIs, regstore.ErrNotFound)
	})

	c.Run("clearing when already clear is not an error", func(c *qt.C) {
		c.Assert(entry.SetCommand(""), qt.IsNil)
	})
}

func TestIcon_RoundTrip(t *testing.T) {
	c := qt.New(t)
	tree, _ := newTestTree(t)
	entry, err := tree.Create(menu.Folder(), "Entry", menu.Options{})
	c.Assert(err, qt.IsNil)

	_, ok, err := entry.Icon()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)

	c.Assert(entry.SetIcon("test icon"), qt.IsNil)
	icon, ok, err := entry.Icon()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(icon, qt.Equals, "test icon")

	c.Assert(entry.SetIcon(""), qt.IsNil)
	_, ok, err = entry.Icon()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)
}

func TestPosition_RoundTrip(t *testing.T) {
	c := qt.New(t)
	tree, st := newTestTree(t)
	entry, err := tree.Create(menu.Folder(), "Entry", menu.Options{})
	c.Assert(err, qt.IsNil)

	pos, err := entry.Position()
	c.Assert(err, qt.IsNil)
	c.Assert(pos, qt.Equals, menu.Position(""))

	c.Assert(entry.SetPosition(menu.PositionBottom), qt.IsNil)
	pos, err = entry.Position()
	c.Assert(err, qt.IsNil)
	c.Assert(pos, qt.Equals, menu.PositionBottom)

	c.Run("an unknown stored token reads as unset", func(c *qt.C) {
		c.Assert(st.SetValue(`Directory\shell\Entry`, "Position", "Sideways"), qt.IsNil)
		pos, err := entry.Position()
		c.Assert(err, qt.IsNil)
		c.Assert(pos, qt.Equals, menu.Position(""))
	})

	c.Run("clearing deletes the value", func(c *qt.C) {
		c.Assert(entry.SetPosition(""), qt.IsNil)
		assertNoValue(c, st, `Directory\shell\Entry`, "Position")
	})

	c.Run("an arbitrary position is rejected", func(c *qt.C) {
		err := entry.SetPosition("Sideways")
		c.Assert(err, qt.ErrorIs, menu.ErrInvalidInput)
	})
}

func TestExtended_RoundTrip(t *testing.T) {
	c := qt.New(t)
	tree, st := newTestTree(t)
	entry, err := tree.Create(menu.Folder(), "Entry", menu.Options{})
	c.Assert(err, qt.IsNil)

	extended, err := entry.Extended()
	c.Assert(err, qt.IsNil)
	c.Assert(extended, qt.IsFalse)

	c.Assert(entry.SetExtended(true), qt.IsNil)
	extended, err = entry.Extended()
	c.Assert(err, qt.IsNil)
	c.Assert(extended, qt.IsTrue)

	// Stored as an empty presence marker, not a boolean payload.
	v, err := st.GetValue(`Directory\shell\Entry`, "Extended")
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, "")

	c.Assert(entry.SetExtended(false), qt.IsNil)
	extended, err = entry.Extended()
	c.Assert(err, qt.IsNil)
	c.Assert(extended, qt.IsFalse)

	c.Run("unsetting twice is not an error", func(c *qt.C) {
		c.Assert(entry.SetExtended(false), qt.IsNil)
	})
}

func TestSeparator_RoundTrip(t *testing.T) {
	c := qt.New(t)
	tree, st := newTestTree(t)
	entry, err := tree.Create(menu.Folder(), "Entry", menu.Options{})
	c.Assert(err, qt.IsNil)

	const key = `Directory\shell\Entry`

	sep, err := entry.Separator()
	c.Assert(err, qt.IsNil)
	c.Assert(sep, qt.Equals, menu.SeparatorNone)

	tests := []struct {
		set        menu.Separator
		wantBefore bool
		wantAfter  bool
	}{
		{menu.SeparatorBefore, true, false},
		{menu.SeparatorAfter, false, true},
		{menu.SeparatorBoth, true, true},
		{menu.SeparatorNone, false, false},
	}
	for _, tt := range tests {
		c.Run(tt.set.String(), func(c *qt.C) {
			c.Assert(entry.SetSeparator(tt.set), qt.IsNil)

			got, err := entry.Separator()
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tt.set)

			_, err = st.GetValue(key, "SeparatorBefore")
			if tt.wantBefore {
				c.Assert(err, qt.IsNil)
			} else {
				c.Assert(err, qt.ErrorIs, regstore.ErrNotFound)
			}
			_, err = st.GetValue(key, "SeparatorAfter")
			if tt.wantAfter {
				c.Assert(err, qt.IsNil)
			} else {
				c.Assert(err, qt.ErrorIs, regstore.ErrNotFound)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Rename / Delete
// ---------------------------------------------------------------------------

func TestRename_HappyPath(t *testing.T) {
	c := qt.New(t)
	tree, st := newTestTree(t)
	entry, err := tree.Create(menu.Folder(), "Old name", menu.Options{})
	c.Assert(err, qt.IsNil)

	c.Assert(entry.Rename("New name"), qt.IsNil)

	c.Assert(st.OpenKey(`Directory\shell\Old name`), qt.ErrorIs, regstore.ErrNotFound)
	c.Assert(st.OpenKey(`Directory\shell\New name`), qt.IsNil)

	name, err := entry.Name()
	c.Assert(err, qt.IsNil)
	c.Assert(name, qt.Equals, "New name")
}

func TestRename_FailurePath(t *testing.T) {
	c := qt.New(t)
	tree, st := newTestTree(t)
	entry, err := tree.Create(menu.Folder(), "Entry", menu.Options{})
	c.Assert(err, qt.IsNil)

	c.Run("empty name is rejected before touching the store", func(c *qt.C) {
		err := entry.Rename("")
		c.Assert(err, qt.ErrorIs, menu.ErrInvalidInput)
		c.Assert(st.OpenKey(`Directory\shell\Entry`), qt.IsNil)
	})

	c.Run("in-memory name moves even when the store rename fails", func(c *qt.C) {
		_, err := tree.Create(menu.Folder(), "Occupied", menu.Options{})
		c.Assert(err, qt.IsNil)

		err = entry.Rename("Occupied")
		c.Assert(err, qt.ErrorIs, regstore.ErrExists)

		// The documented quirk: the handle now resolves under the requested
		// name while the store still holds the old key.
		c.Assert(st.OpenKey(`Directory\shell\Entry`), qt.IsNil)
		c.Assert(entry.Path(), qt.Equals, `Directory\shell\Occupied`)
	})
}

func TestDelete_HappyPath(t *testing.T) {
	c := qt.New(t)
	tree, st := newTestTree(t)
	entry, err := tree.Create(menu.Folder(), "Entry", menu.Options{})
	c.Assert(err, qt.IsNil)

	c.Assert(entry.Delete(), qt.IsNil)
	c.Assert(st.OpenKey(`Directory\shell\Entry`), qt.ErrorIs, regstore.ErrNotFound)

	c.Run("the consumed handle fails cleanly afterwards", func(c *qt.C) {
		_, err := entry.Name()
		c.Assert(err, qt.ErrorIs, regstore.ErrNotFound)
	})
}

// ---------------------------------------------------------------------------
// Scenario: terminal entry on folders
// ---------------------------------------------------------------------------

func TestScenario_OpenInTerminal(t *testing.T) {
	c := qt.New(t)
	tree, _ := newTestTree(t)

	_, err := tree.Create(menu.Folder(), "Open in terminal", menu.Options{
		Command: `cmd /s /k pushd "%V"`,
		Icon:    `cmd.exe`,
	})
	c.Assert(err, qt.IsNil)

	entry, err := tree.Get(menu.Folder(), "Open in terminal")
	c.Assert(err, qt.IsNil)
	c.Assert(entry, qt.IsNotNil)

	cmd, ok, err := entry.Command()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(cmd, qt.Equals, `cmd /s /k pushd "%V"`)

	icon, ok, err := entry.Icon()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(icon, qt.Equals, `cmd.exe`)

	c.Assert(entry.Delete(), qt.IsNil)

	gone, err := tree.Get(menu.Folder(), "Open in terminal")
	c.Assert(err, qt.IsNil)
	c.Assert(gone, qt.IsNil)
}
