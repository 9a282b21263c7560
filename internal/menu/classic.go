package menu

import (
	"errors"

	"github.com/go-ports/ctxmenu/internal/regstore"
)

// classicMenuKey is the fixed key whose presence restores the pre-Windows 11
// full context menu. It lives in the user hive and is unrelated to the entry
// tree.
const classicMenuKey = `Software\Classes\CLSID\{86ca1aa0-34aa-4e8b-a509-50c905bae2a2}`

// SetClassicMenu enables or disables the legacy full context menu. st must be
// the user hive. Both directions are idempotent: enabling twice rewrites the
// same key, and disabling when already disabled is not an error. The file
// manager must be restarted before the change takes effect.
func SetClassicMenu(st regstore.Store, enabled bool) error {
	if enabled {
		path := classicMenuKey + regstore.PathSep + "InprocServer32"
		if _, err := st.CreateKey(path); err != nil {
			return err
		}
		return st.SetValue(path, "", "")
	}

	err := st.DeleteTree(classicMenuKey)
	if errors.Is(err, regstore.ErrNotFound) {
		return nil
	}
	return err
}
