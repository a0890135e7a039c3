// FILE: conftree/ini_test.go
package conftree

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioINI = `x1 = 1 # comment
x2 = hallo
x3 = no
array = 1 2 3 4 5 6 7 8
[Foo]
peng = ligapokal
`

func TestReadINIEndToEnd(t *testing.T) {
	tr := New()
	require.NoError(t, ReadINIString(scenarioINI, tr, false))

	n, err := Get[int](tr, "x1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	s, err := Get[string](tr, "x2")
	require.NoError(t, err)
	assert.Equal(t, "hallo", s)

	b, err := Get[bool](tr, "x3")
	require.NoError(t, err)
	assert.False(t, b)

	arr, err := Get[[8]uint](tr, "array")
	require.NoError(t, err)
	assert.Equal(t, [8]uint{1, 2, 3, 4, 5, 6, 7, 8}, arr)

	vec, err := Get[[]uint](tr, "array")
	require.NoError(t, err)
	assert.Len(t, vec, 8)

	v, err := tr.Get("Foo.peng")
	require.NoError(t, err)
	assert.Equal(t, "ligapokal", v)

	ok, err := tr.HasSub("Foo")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Get[int](tr, "bar")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"x1", "x2", "x3", "array"}, tr.ValueKeys())
	assert.Equal(t, []string{"Foo"}, tr.SubKeys())
}

func TestModifyAndRead(t *testing.T) {
	tr := New()
	require.NoError(t, ReadINIString(scenarioINI, tr, false))

	require.NoError(t, tr.Set("testInt", "2"))
	require.NoError(t, tr.Set("testDouble", "3.14"))
	require.NoError(t, tr.Set("testString", "Hallo Welt!"))
	require.NoError(t, tr.Set("testVector", "2 3 5 7 11"))
	sub, err := tr.Sub("Foo")
	require.NoError(t, err)
	require.NoError(t, sub.Set("bar", "2"))

	d, err := Get[float64](tr, "testDouble")
	require.NoError(t, err)
	assert.InDelta(t, 3.14, d, 1e-9)

	i, err := Get[int](tr, "testInt")
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	str, err := Get[string](tr, "testString")
	require.NoError(t, err)
	assert.Equal(t, "Hallo Welt!", str)

	vec, err := Get[[]uint](tr, "testVector")
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3, 5, 7, 11}, vec)

	bar, err := Get[int](tr, "Foo.bar")
	require.NoError(t, err)
	assert.Equal(t, 2, bar)
}

func TestReadINISkippedLines(t *testing.T) {
	input := "\n" +
		"  # full-line comment\n" +
		"\t\n" +
		"key = value\n" +
		"   indented = yes\n" +
		"no equals sign here\n" +
		"[unterminated\n" +
		"last = 1\n"

	tr := New()
	require.NoError(t, ReadINIString(input, tr, true))
	assert.Equal(t, []string{"key", "indented", "last"}, tr.ValueKeys())

	v, err := tr.Get("indented")
	require.NoError(t, err)
	assert.Equal(t, "yes", v)
}

func TestReadINISections(t *testing.T) {
	input := `top = 1
[fruit]
apple = 2
[fruit.citrus]
lemon = 3
[]
root2 = 4
[ spaced ]
inner = 5
`
	tr := New()
	require.NoError(t, ReadINIString(input, tr, true))

	for key, want := range map[string]string{
		"top":                "1",
		"fruit.apple":        "2",
		"fruit.citrus.lemon": "3",
		"root2":              "4",
		"spaced.inner":       "5",
	} {
		v, err := tr.Get(key)
		require.NoError(t, err, key)
		assert.Equal(t, want, v, key)
	}

	// An empty section header resets to the root.
	assert.Equal(t, []string{"top", "root2"}, tr.ValueKeys())
}

func TestReadINIEmptySection(t *testing.T) {
	tr := New()
	require.NoError(t, ReadINIString("[placeholder]\n", tr, true))

	ok, err := tr.HasSub("placeholder")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadINIQuoted(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"double quoted", "v = \"  padded  \"\n", "  padded  "},
		{"single quoted", "v = 'hello world'\n", "hello world"},
		{"hash inside quotes", "v = \"a # not a comment\"\n", "a # not a comment"},
		{"multiline", "v = 'line one\nline two'\n", "line one\nline two"},
		{"multiline with blank line", "v = \"a\n\nb\"\n", "a\n\nb"},
		{"unterminated runs to eof", "v = 'abc", "abc"},
		{"empty quotes", "v = ''\n", ""},
		{"quote not in first position is literal", "v = it's\n", "it's"},
		{"trailing space after closing quote", "v = 'x'  \n", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()
			require.NoError(t, ReadINIString(tt.input, tr, true))
			v, err := tr.Get("v")
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestReadINIComments(t *testing.T) {
	tr := New()
	require.NoError(t, ReadINIString("v = 1 # trailing\nw = a#b\n", tr, true))

	v, err := tr.Get("v")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	// The hash cuts even without surrounding whitespace.
	w, err := tr.Get("w")
	require.NoError(t, err)
	assert.Equal(t, "a", w)
}

func TestReadINIDuplicateKey(t *testing.T) {
	tr := New()
	err := ReadINIString("a = 1\na = 2\n", tr, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Contains(t, err.Error(), `"a"`)
	assert.Contains(t, err.Error(), "string")

	// The same key under different sections is distinct.
	tr = New()
	require.NoError(t, ReadINIString("[a]\nk = 1\n[b]\nk = 2\n", tr, true))

	// Spelling the same full key two ways still counts as a duplicate.
	tr = New()
	err = ReadINIString("[s]\nk = 1\n[]\ns.k = 2\n", tr, true)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestReadINIOverwrite(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Set("existing", "old"))
	require.NoError(t, ReadINIString("existing = new\nfresh = 1\n", tr, false))

	v, err := tr.Get("existing")
	require.NoError(t, err)
	assert.Equal(t, "old", v)
	v, err = tr.Get("fresh")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	tr = New()
	require.NoError(t, tr.Set("existing", "old"))
	require.NoError(t, ReadINIString("existing = new\n", tr, true))
	v, err = tr.Get("existing")
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestReadINICollision(t *testing.T) {
	tr := New()
	err := ReadINIString("x = 1\nx.y = 2\n", tr, true)
	assert.ErrorIs(t, err, ErrCollision)

	tr = New()
	err = ReadINIString("p = 1\n[p]\nq = 2\n", tr, true)
	assert.ErrorIs(t, err, ErrCollision)
}

func TestReadINIFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.ini")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))

	tr := New()
	require.NoError(t, ReadINIFile(path, tr, true))
	v, err := tr.Get("x")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	err = ReadINIFile(filepath.Join(dir, "missing.ini"), New(), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileOpen)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReadINIFileInMessage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dup.ini")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\na = 2\n"), 0644))

	err := ReadINIFile(path, New(), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Contains(t, err.Error(), "dup.ini")
}
