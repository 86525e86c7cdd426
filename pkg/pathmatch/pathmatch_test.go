package pathmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchDirectoryPattern(t *testing.T) {
	m := New([]string{"src/gui/"}, true)

	assert.True(t, m.Match("src/gui/window.cpp"))
	assert.True(t, m.Match("project/src/gui/window.cpp"))
	assert.False(t, m.Match("src/core/window.cpp"))
	assert.False(t, m.Match("src/gui")) // the directory itself, not below it
}

func TestMatchFilenamePattern(t *testing.T) {
	m := New([]string{"generated.cpp"}, true)

	assert.True(t, m.Match("generated.cpp"))
	assert.True(t, m.Match("deep/tree/generated.cpp"))
	assert.False(t, m.Match("notgenerated.cpp"))
}

func TestMatchGlobPattern(t *testing.T) {
	m := New([]string{"*_test.c"}, true)

	assert.True(t, m.Match("src/parser_test.c"))
	assert.False(t, m.Match("src/parser.c"))
}

func TestMatchRelativePathPattern(t *testing.T) {
	m := New([]string{"src/legacy.c"}, true)

	assert.True(t, m.Match("src/legacy.c"))
	assert.True(t, m.Match("project/src/legacy.c"))
	assert.False(t, m.Match("other/legacy.c"))
}

func TestMatchCaseSensitivity(t *testing.T) {
	sensitive := New([]string{"Foo.cpp"}, true)
	assert.False(t, sensitive.Match("foo.cpp"))
	assert.True(t, sensitive.Match("Foo.cpp"))

	insensitive := New([]string{"Foo.cpp"}, false)
	assert.True(t, insensitive.Match("foo.cpp"))
	assert.True(t, insensitive.Match("FOO.CPP"))
}

func TestMatchBackslashNormalization(t *testing.T) {
	m := New([]string{`src\gui\`}, false)

	assert.True(t, m.Match(`src\gui\window.cpp`))
	assert.True(t, m.Match("src/gui/window.cpp"))
}

func TestEmptyMatcher(t *testing.T) {
	var m Matcher
	assert.False(t, m.Match("anything.c"))

	withEmpty := New(nil, true)
	assert.False(t, withEmpty.Match("anything.c"))
	assert.False(t, withEmpty.Match(""))
}
