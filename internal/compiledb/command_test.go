package compiledb

// Test Plan for Command Parser:
// - ParseCommand extracts compiler, definitions, warnings, machine flags and includes
// - ParseCommand walks back over flags placed between compiler and first -D
// - ParseCommand ignores launcher tokens before the compiler
// - ParseCommand keeps order and duplicates of -D/-W/-m values
// - ParseCommand fails with MalformedCommandError when no -D token exists
// - ParseCommand fails when no compiler token precedes the first -D
// - ParseCommand drops include dirs that do not exist
// - ParseCommand keeps absolute include dirs unchanged
// - ParseCommand uses the arguments list when command is empty
// - ParseCommand derives language from the file extension only

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// existsSet builds an ExistsFunc backed by a fixed set of paths.
func existsSet(paths ...string) ExistsFunc {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return func(path string) bool { return set[path] }
}

func TestParseCommand_EndToEndExample(t *testing.T) {
	t.Parallel()

	// Test: the canonical g++ record parses into the expected model
	norm := NewNormalizer("/proj/out", existsSet("/proj/inc"))
	rec := Record{
		Directory: "/proj/build",
		File:      "/proj/a.cpp",
		Command:   "/usr/bin/g++ -Wall -DFOO=1 -I../inc -mavx",
	}

	cmd, err := ParseCommand(rec, norm)
	require.NoError(t, err)

	assert.Equal(t, LangCPP, cmd.Language)
	assert.Equal(t, "/usr/bin/g++", cmd.Compiler)
	assert.Equal(t, []string{"all"}, cmd.WarningOpts)
	assert.Equal(t, []string{"FOO=1"}, cmd.Definitions)
	assert.Equal(t, []string{"-mavx"}, cmd.MachineOpts)
	assert.Equal(t, []string{"../inc"}, cmd.IncludeDirs)
}

func TestParseCommand_CompilerImmediatelyBeforeDefinition(t *testing.T) {
	t.Parallel()

	norm := NewNormalizer("/out", existsSet())
	rec := Record{
		Directory: "/src",
		File:      "main.c",
		Command:   "/usr/bin/gcc -DA -Wextra -o main.o -c main.c",
	}

	cmd, err := ParseCommand(rec, norm)
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/gcc", cmd.Compiler)
	assert.Equal(t, []string{"A"}, cmd.Definitions)
	assert.Equal(t, []string{"extra"}, cmd.WarningOpts)
	assert.Empty(t, cmd.MachineOpts)
}

func TestParseCommand_IgnoresLauncherTokens(t *testing.T) {
	t.Parallel()

	// Test: tokens before the compiler are discarded from flag extraction
	norm := NewNormalizer("/out", existsSet())
	rec := Record{
		Directory: "/src",
		File:      "x.cc",
		Command:   "ccache -Wignored /opt/gcc/bin/g++-12 -DX",
	}

	cmd, err := ParseCommand(rec, norm)
	require.NoError(t, err)

	assert.Equal(t, "/opt/gcc/bin/g++-12", cmd.Compiler)
	assert.Empty(t, cmd.WarningOpts)
	assert.Equal(t, []string{"X"}, cmd.Definitions)
}

func TestParseCommand_PreservesOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	norm := NewNormalizer("/out", existsSet())
	rec := Record{
		Directory: "/src",
		File:      "a.c",
		Command:   "gcc  -DB  -DA=2 -DB -Wall -Werror -Wall -m32 -march=native -m32",
	}

	cmd, err := ParseCommand(rec, norm)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "A=2", "B"}, cmd.Definitions)
	assert.Equal(t, []string{"all", "error", "all"}, cmd.WarningOpts)
	assert.Equal(t, []string{"-m32", "-march=native", "-m32"}, cmd.MachineOpts)
}

func TestParseCommand_NoDefinitionIsMalformed(t *testing.T) {
	t.Parallel()

	norm := NewNormalizer("/out", existsSet())
	commands := []string{
		"gcc -c a.c -o a.o",
		"",
		"   ",
		"g++ -Wall -Iinclude",
	}

	for _, command := range commands {
		_, err := ParseCommand(Record{Directory: "/src", File: "a.c", Command: command}, norm)
		require.Error(t, err, "command %q", command)
		assert.True(t, errors.Is(err, ErrMalformedCommand))

		var malformed *MalformedCommandError
		require.True(t, errors.As(err, &malformed))
		assert.Equal(t, "a.c", malformed.File)
	}
}

func TestParseCommand_NoCompilerBeforeDefinition(t *testing.T) {
	t.Parallel()

	norm := NewNormalizer("/out", existsSet())
	for _, command := range []string{"-DFOO gcc", "-Wall -DFOO"} {
		_, err := ParseCommand(Record{Directory: "/src", File: "a.c", Command: command}, norm)
		assert.ErrorIs(t, err, ErrMalformedCommand, "command %q", command)
	}
}

func TestParseCommand_DropsMissingIncludeDirs(t *testing.T) {
	t.Parallel()

	// Test: real filesystem, one include exists and one does not
	root := t.TempDir()
	build := filepath.Join(root, "build")
	out := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "include"), 0755))
	require.NoError(t, os.MkdirAll(build, 0755))

	rec := Record{
		Directory: build,
		File:      filepath.Join(root, "src", "a.c"),
		Command:   "gcc -DX -I../include -I../generated -I/usr/include/absolute",
	}

	cmd, err := ParseCommand(rec, NewNormalizer(out, nil))
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join("..", "include"), "/usr/include/absolute"}, cmd.IncludeDirs)
}

func TestParseCommand_UsesArgumentsWhenCommandEmpty(t *testing.T) {
	t.Parallel()

	norm := NewNormalizer("/out", existsSet())
	rec := Record{
		Directory: "/src",
		File:      "boot.S",
		Arguments: []string{"arm-none-eabi-gcc", "-DBOOT", "-mthumb", "-c", "boot.S"},
	}

	cmd, err := ParseCommand(rec, norm)
	require.NoError(t, err)

	assert.Equal(t, LangASM, cmd.Language)
	assert.Equal(t, "arm-none-eabi-gcc", cmd.Compiler)
	assert.Equal(t, []string{"-mthumb"}, cmd.MachineOpts)
}

func TestParseCommand_LanguageIndependentOfCommand(t *testing.T) {
	t.Parallel()

	norm := NewNormalizer("/out", existsSet())
	rec := Record{Directory: "/src", File: "lib/thing.cpp", Command: "g++ -DX -x c thing.cpp"}

	cmd, err := ParseCommand(rec, norm)
	require.NoError(t, err)
	assert.Equal(t, LangCPP, cmd.Language)
}
