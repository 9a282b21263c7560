package menu_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/ctxmenu/internal/menu"
)

// ---------------------------------------------------------------------------
// BasePath
// ---------------------------------------------------------------------------

func TestBasePath_HappyPath(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name       string
		activation menu.Activation
		want       string
	}{
		{"any file", menu.File("*"), `*`},
		{"extension", menu.File(".txt"), `.txt`},
		{"folder", menu.Folder(), `Directory`},
		{"background", menu.Background(), `Directory\Background`},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(menu.BasePath(tt.activation), qt.Equals, tt.want)
		})
	}
}

// ---------------------------------------------------------------------------
// FullPath
// ---------------------------------------------------------------------------

func TestFullPath_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("empty name path yields the top-level container", func(c *qt.C) {
		c.Assert(menu.FullPath(menu.Folder(), nil), qt.Equals, `Directory\shell`)
	})

	c.Run("each level nests one container deeper", func(c *qt.C) {
		got := menu.FullPath(menu.Folder(), []string{"1", "2", "3"})
		c.Assert(got, qt.Equals, `Directory\shell\1\shell\2\shell\3`)
	})

	c.Run("deterministic for the same inputs", func(c *qt.C) {
		a := menu.FullPath(menu.Background(), []string{"Open directory in", "Terminal"})
		b := menu.FullPath(menu.Background(), []string{"Open directory in", "Terminal"})
		c.Assert(a, qt.Equals, b)
	})

	c.Run("distinct name paths never collide", func(c *qt.C) {
		paths := [][]string{
			{"a"},
			{"b"},
			{"a", "b"},
			{"a", "b", "c"},
			{"ab"},
			{"a b"},
		}
		seen := make(map[string][]string)
		for _, np := range paths {
			p := menu.FullPath(menu.Folder(), np)
			prev, clash := seen[p]
			c.Assert(clash, qt.IsFalse, qt.Commentf("%v and %v both map to %s", prev, np, p))
			seen[p] = np
		}
	})
}

// ---------------------------------------------------------------------------
// ParseActivation
// ---------------------------------------------------------------------------

func TestParseActivation_HappyPath(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		in   string
		want menu.Activation
	}{
		{"folder", menu.Folder()},
		{"background", menu.Background()},
		{"*", menu.File("*")},
		{".txt", menu.File(".txt")},
	}
	for _, tt := range tests {
		c.Run(tt.in, func(c *qt.C) {
			got, err := menu.ParseActivation(tt.in)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tt.want)
		})
	}
}

func TestParseActivation_FailurePath(t *testing.T) {
	c := qt.New(t)

	for _, in := range []string{"", "txt", ".", "file"} {
		c.Run("rejects "+in, func(c *qt.C) {
			_, err := menu.ParseActivation(in)
			c.Assert(err, qt.ErrorIs, menu.ErrInvalidInput)
		})
	}
}

// ---------------------------------------------------------------------------
// ParseSeparator
// ---------------------------------------------------------------------------

func TestParseSeparator_HappyPath(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		in   string
		want menu.Separator
	}{
		{"none", menu.SeparatorNone},
		{"before", menu.SeparatorBefore},
		{"after", menu.SeparatorAfter},
		{"both", menu.SeparatorBoth},
	}
	for _, tt := range tests {
		c.Run(tt.in, func(c *qt.C) {
			got, err := menu.ParseSeparator(tt.in)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tt.want)
			c.Assert(got.String(), qt.Equals, tt.in)
		})
	}
}

func TestParseSeparator_FailurePath(t *testing.T) {
	c := qt.New(t)

	_, err := menu.ParseSeparator("sideways")
	c.Assert(err, qt.ErrorIs, menu.ErrInvalidInput)
}
