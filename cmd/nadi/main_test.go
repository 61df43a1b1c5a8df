package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ohio = `smithland -> golconda
golconda -> cairo
wabash -> golconda
lonely
`

func newTestFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, name, []byte(content), 0o644))
	}
	return fsys
}

// executeCommand runs the root command with args against fsys and returns
// what it wrote to stdout and stderr.
func executeCommand(t *testing.T, fsys afero.Fs, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	old := appFs
	appFs = fsys
	t.Cleanup(func() {
		appFs = old
		resetFlags(rootCmd)
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// resetFlags puts every flag back to its default so commands don't see the
// values of an earlier test.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestRunScript(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"ohio.network": ohio,
		"basin.tasks": `network.basin = "ohio"
env.total = 2
node[golconda] inputs_count()
env.total
network.basin
`,
	})

	stdout, _, err := executeCommand(t, fsys, "run", "--network", "ohio.network", "basin.tasks")
	require.NoError(t, err)
	assert.Equal(t, "golconda = 2\n2\n\"ohio\"\n", stdout)
}

func TestRunLoadsAttributes(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"ohio.network":       ohio,
		"attrs/cairo.toml":   "area = 1.5\n",
		"attrs/nowhere.toml": "area = 2\n",
		"area.tasks":         "node[cairo].area\n",
	})

	stdout, _, err := executeCommand(t, fsys, "run", "-n", "ohio.network", "-a", "attrs", "area.tasks")
	require.NoError(t, err)
	assert.Equal(t, "cairo = 1.5\n", stdout)
}

func TestRunEnvFlag(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"show.tasks": "env.threshold\nenv.label\n",
	})

	stdout, _, err := executeCommand(t, fsys, "run", "-e", "threshold=10", "-e", "label=hello", "show.tasks")
	require.NoError(t, err)
	assert.Equal(t, "10\n\"hello\"\n", stdout)

	_, _, err = executeCommand(t, fsys, "run", "-e", "novalue", "show.tasks")
	assert.EqualError(t, err, `invalid env assignment "novalue", expected name=value`)
}

func TestRunEcho(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"ohio.network": ohio,
		"echo.tasks": "network echo(\"counted\")\n" +
			"network echo(\"careful\", error=true)\n" +
			"network[smithland -> cairo] count()\n" +
			"env str_replace(\"o\", \"ohio\", \"0\")\n",
	})

	stdout, stderr, err := executeCommand(t, fsys, "run", "-n", "ohio.network", "echo.tasks")
	require.NoError(t, err)
	assert.Equal(t, "counted\n3\n\"0hi0\"\n", stdout)
	assert.Contains(t, stderr, "careful\n")
}

func TestRunStopsAtExit(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"exit.tasks": "env.a = 1\nenv.a\nexit\nenv.a\n",
	})

	stdout, _, err := executeCommand(t, fsys, "run", "exit.tasks")
	require.NoError(t, err)
	assert.Equal(t, "1\n", stdout)
}

func TestRunReportsErrors(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"bad.tasks":     "env.x = 1\nx = 1\n",
		"missing.tasks": "env.nothing\n",
	})

	_, stderr, err := executeCommand(t, fsys, "run", "bad.tasks")
	require.Error(t, err)
	assert.Contains(t, stderr, "-> bad.tasks:2:")
	assert.Contains(t, stderr, "Lines should start with a keyword")

	_, _, err = executeCommand(t, fsys, "run", "missing.tasks")
	assert.EqualError(t, err, "env.nothing: env variable nothing doesn't exist")

	_, _, err = executeCommand(t, fsys, "run", "nofile.tasks")
	assert.ErrorContains(t, err, "reading task file")
}

func TestRunDryRun(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"plan.tasks": "env.x = 1\nnode[cairo].y = 2\n",
	})

	stdout, _, err := executeCommand(t, fsys, "run", "--dry-run", "plan.tasks")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 statements\n")
	assert.Contains(t, stdout, "env.x = 1")
}

func TestCheckFiles(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"ohio.network": ohio,
		"cairo.toml":   "area = 1.5\nname = \"Cairo\"\n",
		"good.tasks":   "env.x = 1\nnetwork count()\n",
		"broken.tasks": "env.x =\n",
		"script.txt":   "a -> b\n",
	})

	stdout, _, err := executeCommand(t, fsys, "check", "ohio.network", "cairo.toml", "good.tasks")
	require.NoError(t, err)
	assert.Equal(t, "ohio.network: ok (5 nodes, 3 edges)\n"+
		"cairo.toml: ok (2 attributes)\n"+
		"good.tasks: ok (2 statements)\n", stdout)

	stdout, stderr, err := executeCommand(t, fsys, "check", "good.tasks", "broken.tasks")
	assert.EqualError(t, err, "1 of 2 files failed")
	assert.Equal(t, "good.tasks: ok (2 statements)\n", stdout)
	assert.Contains(t, stderr, "Incomplete Input")

	stdout, _, err = executeCommand(t, fsys, "check", "--kind", "network", "script.txt")
	require.NoError(t, err)
	assert.Equal(t, "script.txt: ok (2 nodes, 1 edges)\n", stdout)
}

func TestFileKind(t *testing.T) {
	assert.Equal(t, "network", fileKind("rivers/ohio.network"))
	assert.Equal(t, "network", fileKind("ohio.NET"))
	assert.Equal(t, "attrs", fileKind("attrs/cairo.toml"))
	assert.Equal(t, "tasks", fileKind("run.tasks"))
	assert.Equal(t, "tasks", fileKind("script"))
}

func TestTokens(t *testing.T) {
	fsys := newTestFs(t, map[string]string{"one.tasks": "env.x = 1 # set\n"})

	stdout, _, err := executeCommand(t, fsys, "tokens", "--skip-space", "one.tasks")
	require.NoError(t, err)
	assert.Equal(t, "1:1\tkeyword\t\"env\"\n"+
		"1:4\t'.'\t\".\"\n"+
		"1:5\tvariable\t\"x\"\n"+
		"1:7\t'='\t\"=\"\n"+
		"1:9\tinteger\t\"1\"\n", stdout)

	stdout, _, err = executeCommand(t, fsys, "tokens", "one.tasks")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1:11\tcomment\t\"# set\"\n")
}

func TestAttrsTree(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"cairo.toml": "area = 1.5\n[gauge]\nid = \"03612500\"\n",
	})

	stdout, _, err := executeCommand(t, fsys, "attrs", "cairo.toml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "cairo.toml\n")
	assert.Contains(t, stdout, "[Float]  area = 1.5")
	assert.Contains(t, stdout, "gauge\n")
	assert.Contains(t, stdout, `[String]  id = "03612500"`)
}

func TestNetworkTree(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"ohio.network":     ohio,
		"attrs/cairo.toml": "area = 1.5\n",
	})

	stdout, stderr, err := executeCommand(t, fsys, "network", "-a", "attrs", "--show", "area", "ohio.network")
	require.NoError(t, err)
	assert.Contains(t, stdout, "cairo (area = 1.5)\n")
	assert.Contains(t, stdout, "golconda\n")
	assert.Contains(t, stdout, "smithland\n")
	assert.Contains(t, stdout, "lonely\n")
	assert.Equal(t, "5 nodes, 3 edges, 2 outlets\n", stderr)

	stdout, _, err = executeCommand(t, fsys, "network", "--edges", "--network", "ohio.network")
	require.NoError(t, err)
	assert.Equal(t, "smithland -> golconda\ngolconda -> cairo\nwabash -> golconda\n", stdout)

	_, _, err = executeCommand(t, fsys, "network")
	assert.EqualError(t, err, "no network file given")
}

func TestFunctionsCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, afero.NewMemMapFs(), "functions")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[node]  inputs_count")
	assert.Contains(t, stdout, "[network]  count")

	stdout, _, err = executeCommand(t, afero.NewMemMapFs(), "functions", "count")
	require.NoError(t, err)
	assert.Contains(t, stdout, "== Network Function: count")

	_, _, err = executeCommand(t, afero.NewMemMapFs(), "functions", "nothing")
	assert.EqualError(t, err, "Function nothing not found")
}

// scriptedReader feeds the repl fixed lines, then io.EOF.
type scriptedReader struct {
	lines   []string
	prompts []string
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) SetPrompt(prompt string) {
	r.prompts = append(r.prompts, prompt)
}

func TestRepl(t *testing.T) {
	net, err := loadNetwork("", nil)
	require.NoError(t, err)
	cmd := &cobra.Command{}
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	ctx := newTaskContext(cmd, net, nil)

	in := &scriptedReader{lines: []string{
		"env.x = 1",
		"",
		"env.x",
		"env.y = array(1,",
		"  2)",
		"env.y",
		"env.missing",
		"x = 2",
		"exit",
		"env.z = 3",
	}}
	require.NoError(t, repl(ctx, in, &errOut))

	assert.Equal(t, "1\n[1, 2]\n", out.String())
	assert.Contains(t, errOut.String(), "Error: env variable missing doesn't exist\n")
	assert.Contains(t, errOut.String(), "Lines should start with a keyword")
	assert.Equal(t, []string{
		replPrompt, replPrompt, continuePrompt, replPrompt,
		replPrompt, replPrompt, replPrompt, replPrompt,
	}, in.prompts)
	_, ok := ctx.Env.Get("z")
	assert.False(t, ok)
}
