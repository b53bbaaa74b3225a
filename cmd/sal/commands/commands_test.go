package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCommand("test")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "insert dml",
			args:     []string{"render", "insert", "users", "--driver", "mysql", "--set", "name=O'Neil", "--set", "age=30", "--set", "note=null", "--set", "ts=``NOW()"},
			expected: "insert into `users` (`name`, `age`, `note`, `ts`) values ('O\\'Neil', 30, null, NOW())\n",
		},
		{
			name:     "insert bind",
			args:     []string{"render", "insert", "users", "--driver", "postgres", "--bind", "--set", "name=Al", "--set", "ts=``now()", "--set", "ok=true"},
			expected: "insert into \"users\" (\"name\", \"ts\", \"ok\") values ($1, now(), $2)\n[\"Al\",true]\n",
		},
		{
			name:     "non-decimal numbers stay text",
			args:     []string{"render", "insert", "t", "--driver", "sqlite", "--set", "a=nan", "--set", "b=Infinity", "--set", "c=0x1p3"},
			expected: "insert into \"t\" (\"a\", \"b\", \"c\") values ('nan', 'Infinity', '0x1p3')\n",
		},
		{
			name:     "update dml",
			args:     []string{"render", "update", "users", "--driver", "sqlite", "--set", "score=1.5", "--where", "id = 3", "--where", "active = 1"},
			expected: "update \"users\" set \"score\" = 1.5 where id = 3 and active = 1\n",
		},
		{
			name:     "upsert",
			args:     []string{"render", "upsert", "users", "--driver", "postgres", "--set", "id=1", "--set", "name=x", "--conflict", "id"},
			expected: "insert into \"users\" (\"id\", \"name\") values ($1, $2) on conflict (\"id\") do update set \"id\" = $3, \"name\" = $4\n[1,\"x\",1,\"x\"]\n",
		},
		{
			name:     "delete",
			args:     []string{"render", "delete", "users", "--driver", "mysql", "--where", "id = 3"},
			expected: "delete from `users` where id = 3\n",
		},
		{
			name:     "subst",
			args:     []string{"subst", "select ::col from t where id = :id and x = :missing", "--driver", "mysql", "--param", "col=name", "--param", "id=5"},
			expected: "select `name` from t where id = 5 and x = :missing\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRender_Errors(t *testing.T) {
	_, err := run(t, "render", "update", "users", "--driver", "mysql", "--set", "a=1")
	assert.EqualError(t, err, "where always needed")

	_, err = run(t, "render", "delete", "users", "--driver", "mysql", "--where", " ")
	assert.EqualError(t, err, "where always needed")

	_, err = run(t, "render", "insert", "users", "--driver", "mysql", "--set", "novalue")
	assert.ErrorContains(t, err, "invalid assignment")

	_, err = run(t, "render", "insert", "users", "--driver", "mysql", "--set", "ts=``1; drop table users")
	assert.ErrorContains(t, err, "unsafe literal expression")

	_, err = run(t, "render", "upsert", "users", "--driver", "postgres", "--set", "a=1")
	assert.ErrorContains(t, err, "conflict")

	_, err = run(t, "render", "delete", "users", "--driver", "oracle", "--where", "id = 1")
	assert.ErrorContains(t, err, "unsupported driver")
}

func TestExecAndFetch(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "cli.db")
	conn := []string{"--driver", "sqlite", "--dsn", dsn}
	with := func(args ...string) []string { return append(args, conn...) }

	_, err := run(t, with("exec", "create table items (id integer primary key, name text, price real)")...)
	require.NoError(t, err)

	out, err := run(t, with("exec", "insert into items (id, name, price) values (?, ?, ?), (?, ?, ?)", "1", "apple", "0.5", "2", "pear", "1.25")...)
	require.NoError(t, err)
	assert.Equal(t, "2 rows affected\n", out)

	out, err = run(t, with("fetch", "select id, name, price from items order by id")...)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"name":"apple","price":0.5}`+"\n"+`{"id":2,"name":"pear","price":1.25}`+"\n", out)

	out, err = run(t, with("fetch", "--row", "select name, id from items where id = ?", "2")...)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"pear","id":2}`+"\n", out)

	out, err = run(t, with("fetch", "--one", "select count(*) from items")...)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	_, err = run(t, with("fetch", "--one", "select name from items where id = ?", "9")...)
	assert.ErrorIs(t, err, errNoRows)

	out, err = run(t, with("fetch", "--table", "select id, name from items order by id")...)
	require.NoError(t, err)
	for _, cell := range []string{"name", "apple", "pear"} {
		assert.Contains(t, out, cell)
	}

	_, err = run(t, with("exec", "insert into items (id, name) values (?, ?)", "1", "dup")...)
	require.Error(t, err)
	assert.True(t, strings.Contains(strings.ToLower(err.Error()), "unique"), err.Error())
}

func TestExec_NoDSN(t *testing.T) {
	t.Setenv("SAL_DSN", "")

	_, err := run(t, "exec", "select 1", "--driver", "sqlite")
	assert.ErrorContains(t, err, "no dsn configured")
}

func TestParseValue(t *testing.T) {
	assert.Nil(t, parseValue("NULL"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, false, parseValue("False"))
	assert.Equal(t, int64(-7), parseValue("-7"))
	assert.Equal(t, 2.5, parseValue("2.5"))
	assert.Equal(t, "abc", parseValue("abc"))
	assert.Equal(t, "``NOW()", parseValue("``NOW()"))
	assert.Equal(t, "", parseValue(""))
	assert.Equal(t, 1000.0, parseValue("1e3"))
	assert.Equal(t, 0.5, parseValue(".5"))

	for _, s := range []string{"nan", "NaN", "inf", "-Inf", "infinity", "0x1p3", "1e400", "1_000"} {
		assert.Equal(t, s, parseValue(s), s)
	}
}

func TestParseAssignments_LastWins(t *testing.T) {
	fields, err := parseAssignments([]string{"a=1", "b=x=y", "a=2"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, fields.Names())
	assert.Equal(t, []any{int64(2), "x=y"}, fields.Values())
}

func TestConfigShowAndSave(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "cfg.db")

	out, err := run(t, "config", "show", "--driver", "sqlite", "--dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, `"driver":"sqlite"`)
	assert.Contains(t, out, `"dsn":"***"`)
	assert.NotContains(t, out, dsn)

	path := filepath.Join(t.TempDir(), "saved", "sal.yaml")
	out, err = run(t, "config", "save", "-o", path, "--driver", "sqlite", "--dsn", dsn)
	require.NoError(t, err)
	assert.Equal(t, "wrote "+path+"\n", out)

	out, err = run(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"driver":"sqlite"`)
}
