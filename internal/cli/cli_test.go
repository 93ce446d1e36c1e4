package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, name := range []string{"compile", "build", "inspect"} {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestCompileCommandFlags(t *testing.T) {
	cmd := newCompileCommand()
	assert.NotNil(t, cmd.Flags().Lookup("verify-xml-attrs"))
}

func TestBuildCommandFlags(t *testing.T) {
	cmd := newBuildCommand()
	for _, name := range []string{"graph", "out-root", "module"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

// ---------- Driver behavior tests ----------

func writeDriverInputs(t *testing.T, resources map[string]string, depSymbols []string) (pairsFile, depsFile, outFile string) {
	t.Helper()
	dir := t.TempDir()

	var pairs string
	i := 0
	for logical, content := range resources {
		abs := filepath.Join(dir, "res-file-"+string(rune('a'+i)))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
		pairs += logical + " " + abs + "\n"
		i++
	}
	pairsFile = filepath.Join(dir, "pairs.txt")
	require.NoError(t, os.WriteFile(pairsFile, []byte(pairs), 0644))

	var deps string
	for _, path := range depSymbols {
		deps += path + "\n"
	}
	depsFile = filepath.Join(dir, "deps.txt")
	require.NoError(t, os.WriteFile(depsFile, []byte(deps), 0644))

	outFile = filepath.Join(dir, "R.txt")
	return pairsFile, depsFile, outFile
}

func runRoot(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func TestCompileWritesSingleStringSymbol(t *testing.T) {
	pairsFile, depsFile, outFile := writeDriverInputs(t, map[string]string{
		"values/strings.xml": `<resources><string name="app_name">X</string></resources>`,
	}, nil)

	require.NoError(t, runRoot(t, "compile", pairsFile, depsFile, outFile))

	content, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "int string app_name 0x7f000000\n", string(content))
}

func TestCompileMissingReferenceFailsAndNamesIt(t *testing.T) {
	pairsFile, depsFile, outFile := writeDriverInputs(t, map[string]string{
		"layout/main.xml": `<View xmlns:android="http://schemas.android.com/apk/res/android" android:src="@drawable/missing_icon"/>`,
	}, nil)

	err := runRoot(t, "compile", pairsFile, depsFile, outFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_icon")
	assert.Equal(t, 3, exitCodeForError(err))

	// No partial output is left behind.
	_, statErr := os.Stat(outFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCompileWrongArgumentCount(t *testing.T) {
	err := runRoot(t, "compile", "only", "two")
	require.Error(t, err)
	assert.Equal(t, 1, exitCodeForError(err))
}

func TestCompileMalformedPairsLine(t *testing.T) {
	dir := t.TempDir()
	pairsFile := filepath.Join(dir, "pairs.txt")
	require.NoError(t, os.WriteFile(pairsFile, []byte("one two three\n"), 0644))
	depsFile := filepath.Join(dir, "deps.txt")
	require.NoError(t, os.WriteFile(depsFile, nil, 0644))
	outFile := filepath.Join(dir, "R.txt")

	err := runRoot(t, "compile", pairsFile, depsFile, outFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 tokens")
	assert.Equal(t, 2, exitCodeForError(err))

	_, statErr := os.Stat(outFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCompileResolvesThroughDependencySymbols(t *testing.T) {
	dir := t.TempDir()
	depSymbols := filepath.Join(dir, "dep-R.txt")
	require.NoError(t, os.WriteFile(depSymbols, []byte("int string shared_title 0x7f040000\n"), 0644))

	pairsFile, depsFile, outFile := writeDriverInputs(t, map[string]string{
		"layout/main.xml": `<View xmlns:android="http://schemas.android.com/apk/res/android" android:text="@string/shared_title"/>`,
	}, []string{depSymbols})

	require.NoError(t, runRoot(t, "compile", pairsFile, depsFile, outFile))

	content, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "int layout main 0x7f000000\n", string(content))
}

func TestInspectSummarizesSymbolFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "R.txt")
	require.NoError(t, os.WriteFile(path,
		[]byte("int string a 0x1\nint string b 0x2\nint[] styleable W 0x3\n"), 0644))
	require.NoError(t, runRoot(t, "inspect", path))
}

// ---------- Exit code mapping ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg("x"), 2},
		{"failed precondition", errbuilder.New().WithCode(errbuilder.CodeFailedPrecondition).WithMsg("x"), 3},
		{"not found", errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("x"), 5},
		{"internal", errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("x"), 5},
		{"plain error", errors.New("x"), 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCodeForError(tc.err))
		})
	}
}
