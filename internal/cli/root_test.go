package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturesYAML = `
skills:
  - name: Go
  - name: PostgreSQL
users:
  - key: client
    name: Ольга
    email: olga@example.com
    role: client
  - key: senior
    name: Пётр
    email: petr@example.com
    role: freelancer
    profile:
      skills: [Go, PostgreSQL]
      experience_level: expert
      completed_projects: 12
      is_newcomer: false
  - key: newbie
    name: Вера
    email: vera@example.com
    role: freelancer
    profile:
      skills: [Go]
projects:
  - key: api
    client: client
    title: REST API
    description: Нужен бэкенд
    required_skills: [Go, PostgreSQL]
    budget: {min: 1000, max: 2000, currency: USD}
    fairness:
      newcomer_boost: true
`

func writeFixtures(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixturesYAML), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "fairlance", cmd.Use)
	assert.Contains(t, cmd.Long, "эскроу")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, path := range [][]string{
		{"serve"}, {"migrate"}, {"migrate", "up"}, {"migrate", "down"},
		{"migrate", "status"}, {"migrate", "version"}, {"seed"}, {"match"},
	} {
		t.Run(path[len(path)-1], func(t *testing.T) {
			sub, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestSubcommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	portFlag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, portFlag)
	assert.Equal(t, "p", portFlag.Shorthand)

	matchCmd, _, err := cmd.Find([]string{"match"})
	require.NoError(t, err)
	for _, name := range []string{"file", "project", "freelancer"} {
		assert.NotNil(t, matchCmd.Flags().Lookup(name), name)
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "match", "--format", "xml", "--file", "x.yaml", "--project", "api")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMatchCommand_JSON(t *testing.T) {
	out, err := execute(t, "match", "--format", "json", "--file", writeFixtures(t), "--project", "api")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   matchReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "freelancers", resp.Data.Mode)
	require.Len(t, resp.Data.Results, 2)

	top := resp.Data.Results[0]
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, "senior", top.Key)
	assert.InDelta(t, 86.0, top.Score, 1e-9)

	second := resp.Data.Results[1]
	assert.Equal(t, "newbie", second.Key)
	assert.InDelta(t, 50.0, second.Score, 1e-9)
	assert.True(t, second.Breakdown.NewcomerBoostApplied)
}

func TestMatchCommand_TextRecommendations(t *testing.T) {
	out, err := execute(t, "match", "--file", writeFixtures(t), "--freelancer", "newbie")
	require.NoError(t, err)
	assert.Contains(t, out, "projects для newbie")
	assert.Contains(t, out, "api")
	assert.Contains(t, out, "навыки 1/2")
	assert.Contains(t, out, "+новичок")
}

func TestMatchCommand_Errors(t *testing.T) {
	path := writeFixtures(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"both targets", []string{"match", "--file", path, "--project", "api", "--freelancer", "newbie"}, ExitCommandError},
		{"no target", []string{"match", "--file", path}, ExitCommandError},
		{"unknown project", []string{"match", "--file", path, "--project", "nope"}, ExitCommandError},
		{"missing file", []string{"match", "--file", filepath.Join(t.TempDir(), "none.yaml"), "--project", "api"}, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, GetExitCode(err))
		})
	}
}

func TestSeedCommand_MemoryDriver(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "memory")

	out, err := execute(t, "seed", "--file", writeFixtures(t))
	require.NoError(t, err)
	assert.Contains(t, out, "создано записей 6")
}

func TestMigrateCommand_RejectsMemoryDriver(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "memory")

	_, err := execute(t, "migrate", "up")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMigrateCommand_SQLite(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "cli.db"))

	out, err := execute(t, "--format", "json", "migrate", "up")
	require.NoError(t, err)

	var resp struct {
		Data migrateReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "up", resp.Data.Action)
	assert.Positive(t, resp.Data.Version)
}
