package task_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdkit/agentaudit/internal/domain/task"
)

func mustLookup(t *testing.T, name string) task.Action {
	t.Helper()
	a, ok := task.Lookup(name)
	require.True(t, ok, "action %s", name)
	return a
}

func TestLookup_UnknownAction(t *testing.T) {
	_, ok := task.Lookup("destroy")
	assert.False(t, ok)
}

func TestCatalog_ToolNames(t *testing.T) {
	want := []string{
		"td_status", "td_whoami", "td_start", "td_focus", "td_link", "td_log",
		"td_review", "td_approve", "td_reject", "td_handoff", "td_usage",
		"td_create", "td_epic", "td_tree", "td_dep", "td_ws", "td_query",
		"td_search", "td_critical_path", "td_next", "td_ready", "td_blocked",
		"td_in_review", "td_reviewable", "td_context", "td_comment",
		"td_update", "td_files", "td_unlink", "td_block", "td_unblock",
	}
	var got []string
	for _, a := range task.Catalog {
		got = append(got, a.ToolName())
	}
	assert.Equal(t, want, got)
}

func TestLookupTool(t *testing.T) {
	a, ok := task.LookupTool("td_in_review")
	require.True(t, ok)
	assert.Equal(t, "in_review", a.Name)

	_, ok = task.LookupTool("td_show")
	assert.False(t, ok)
}

func TestArgv_FixedCommands(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"status", []string{"status", "--json"}},
		{"whoami", []string{"whoami", "--json"}},
		{"usage", []string{"usage"}},
		{"critical_path", []string{"critical-path"}},
		{"next", []string{"next"}},
		{"ready", []string{"ready"}},
		{"blocked", []string{"blocked"}},
		{"in_review", []string{"in-review"}},
		{"reviewable", []string{"reviewable"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			argv, err := mustLookup(t, tt.name).Argv(nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, argv)
		})
	}
}

func TestArgv_SingleTaskCommands(t *testing.T) {
	for _, name := range []string{"start", "focus", "review", "context", "files", "block", "unblock"} {
		t.Run(name, func(t *testing.T) {
			argv, err := mustLookup(t, name).Argv(task.Args{"task": "td-5"})
			require.NoError(t, err)
			assert.Equal(t, []string{name, "td-5"}, argv)

			_, err = mustLookup(t, name).Argv(task.Args{"task": "   "})
			require.Error(t, err)
			assert.Contains(t, err.Error(), `missing required parameter "task"`)
		})
	}
}

func TestArgv_UsageNewSession(t *testing.T) {
	argv, err := mustLookup(t, "usage").Argv(task.Args{"newSession": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"usage", "--new-session"}, argv)

	argv, err = mustLookup(t, "usage").Argv(task.Args{"newSession": false})
	require.NoError(t, err)
	assert.Equal(t, []string{"usage"}, argv)
}

func TestArgv_CreateWithFlags(t *testing.T) {
	argv, err := mustLookup(t, "create").Argv(task.Args{
		"title":      "Fix login",
		"type":       "bug",
		"minor":      true,
		"points":     float64(5),
		"acceptance": "login works",
		"dependsOn":  "td-12",
		"blocks":     "td-13",
		"labels":     "",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"create", "Fix login", "--type", "bug", "--minor", "--points", "5",
		"--acceptance", "login works", "--depends-on", "td-12", "--blocks", "td-13",
	}, argv)
}

func TestArgv_CreateRejectsNonFibonacciPoints(t *testing.T) {
	_, err := mustLookup(t, "create").Argv(task.Args{"title": "x", "points": float64(4)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid points")
}

func TestArgv_CreateRejectsUnknownPriority(t *testing.T) {
	_, err := mustLookup(t, "create").Argv(task.Args{"title": "x", "priority": "P9"})
	require.Error(t, err)
}

func TestArgv_EpicCreate(t *testing.T) {
	argv, err := mustLookup(t, "epic").Argv(task.Args{"title": "Auth", "priority": "P1", "dependsOn": "td-2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"epic", "create", "Auth", "--priority", "P1", "--depends-on", "td-2"}, argv)
}

func TestArgv_LogTypeBecomesSwitch(t *testing.T) {
	argv, err := mustLookup(t, "log").Argv(task.Args{"message": "chose sqlite", "logType": "decision"})
	require.NoError(t, err)
	assert.Equal(t, []string{"log", "--decision", "chose sqlite"}, argv)
}

func TestArgv_LogWithoutType(t *testing.T) {
	argv, err := mustLookup(t, "log").Argv(task.Args{"message": "progress"})
	require.NoError(t, err)
	assert.Equal(t, []string{"log", "progress"}, argv)
}

func TestArgv_InvalidLogType(t *testing.T) {
	_, err := mustLookup(t, "log").Argv(task.Args{"message": "x", "logType": "rant"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid logType")
}

func TestArgv_ApproveAndRejectTakeOptionalTask(t *testing.T) {
	argv, err := mustLookup(t, "approve").Argv(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"approve", "--json"}, argv)

	argv, err = mustLookup(t, "approve").Argv(task.Args{"task": "td-1", "reason": "looks good"})
	require.NoError(t, err)
	assert.Equal(t, []string{"approve", "td-1", "--reason", "looks good", "--json"}, argv)

	argv, err = mustLookup(t, "reject").Argv(task.Args{"reason": "no tests"})
	require.NoError(t, err)
	assert.Equal(t, []string{"reject", "--reason", "no tests", "--json"}, argv)
}

func TestArgv_Handoff(t *testing.T) {
	argv, err := mustLookup(t, "handoff").Argv(task.Args{"task": "td-1", "done": "parser", "uncertain": "edge cases"})
	require.NoError(t, err)
	assert.Equal(t, []string{"handoff", "td-1", "--done", "parser", "--uncertain", "edge cases"}, argv)

	argv, err = mustLookup(t, "handoff").Argv(task.Args{"remaining": "docs"})
	require.NoError(t, err)
	assert.Equal(t, []string{"handoff", "--remaining", "docs"}, argv)
}

func TestArgv_Tree(t *testing.T) {
	argv, err := mustLookup(t, "tree").Argv(task.Args{"task": "td-epic"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tree", "td-epic"}, argv)

	argv, err = mustLookup(t, "tree").Argv(task.Args{"task": "td-epic", "childIssue": "td-9"})
	require.NoError(t, err)
	assert.Equal(t, []string{"update", "td-9", "--parent", "td-epic"}, argv)

	_, err = mustLookup(t, "tree").Argv(task.Args{"childIssue": "td-9"})
	require.Error(t, err)
}

func TestArgv_Dep(t *testing.T) {
	tests := []struct {
		name string
		args task.Args
		want []string
	}{
		{"defaults to list", task.Args{"task": "td-1"}, []string{"dep", "td-1"}},
		{"list", task.Args{"task": "td-1", "action": "list"}, []string{"dep", "td-1"}},
		{"blocking", task.Args{"task": "td-1", "action": "blocking"}, []string{"dep", "td-1", "--blocking"}},
		{"add", task.Args{"task": "td-1", "action": "add", "targetIssue": "td-2"}, []string{"dep", "add", "td-1", "td-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			argv, err := mustLookup(t, "dep").Argv(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, argv)
		})
	}

	_, err := mustLookup(t, "dep").Argv(task.Args{"task": "td-1", "action": "add"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "targetIssue")
}

func TestArgv_WorkSession(t *testing.T) {
	tests := []struct {
		name string
		args task.Args
		want []string
	}{
		{"start", task.Args{"action": "start", "name": "sprint-3"}, []string{"ws", "start", "sprint-3"}},
		{"tag", task.Args{"action": "tag", "issueIds": []any{"td-1", "td-2"}, "noStart": true}, []string{"ws", "tag", "td-1", "td-2", "--no-start"}},
		{"log", task.Args{"action": "log", "message": "halfway"}, []string{"ws", "log", "halfway"}},
		{"current", task.Args{"action": "current"}, []string{"ws", "current"}},
		{"handoff", task.Args{"action": "handoff", "done": "a", "decision": "b"}, []string{"ws", "handoff", "--done", "a", "--decision", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			argv, err := mustLookup(t, "ws").Argv(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, argv)
		})
	}
}

func TestArgv_WorkSessionMissingArguments(t *testing.T) {
	tests := []struct {
		args    task.Args
		missing string
	}{
		{task.Args{}, "action"},
		{task.Args{"action": "start"}, "name"},
		{task.Args{"action": "tag"}, "issueIds"},
		{task.Args{"action": "log"}, "message"},
	}
	for _, tt := range tests {
		_, err := mustLookup(t, "ws").Argv(tt.args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), tt.missing)
	}

	_, err := mustLookup(t, "ws").Argv(task.Args{"action": "pause"})
	assert.Error(t, err)
}

func TestArgv_QueryCommentUpdate(t *testing.T) {
	argv, err := mustLookup(t, "query").Argv(task.Args{"query": "status = open"})
	require.NoError(t, err)
	assert.Equal(t, []string{"query", "status = open"}, argv)

	argv, err = mustLookup(t, "search").Argv(task.Args{"query": "login"})
	require.NoError(t, err)
	assert.Equal(t, []string{"search", "login"}, argv)

	argv, err = mustLookup(t, "comment").Argv(task.Args{"task": "td-1", "text": "ping"})
	require.NoError(t, err)
	assert.Equal(t, []string{"comment", "td-1", "ping"}, argv)

	argv, err = mustLookup(t, "update").Argv(task.Args{"task": "td-1", "title": "New", "type": "chore", "labels": "x,y"})
	require.NoError(t, err)
	assert.Equal(t, []string{"update", "td-1", "--title", "New", "--type", "chore", "--labels", "x,y"}, argv)
}

func TestArgv_LinkRelativizesFiles(t *testing.T) {
	root := filepath.FromSlash("/work/repo")
	argv, err := mustLookup(t, "link").Argv(task.Args{
		"task":  "td-7",
		"files": []any{filepath.Join(root, "internal", "a.go"), "b.go"},
	}, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"link", "td-7", "internal/a.go", "b.go"}, argv)
}

func TestArgv_UnlinkRelativizesFiles(t *testing.T) {
	root := filepath.FromSlash("/work/repo")
	argv, err := mustLookup(t, "unlink").Argv(task.Args{
		"task":  "td-7",
		"files": []any{filepath.Join(root, "a.go")},
	}, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"unlink", "td-7", "a.go"}, argv)
}

func TestArgv_LinkFilesAsString(t *testing.T) {
	argv, err := mustLookup(t, "link").Argv(task.Args{"task": "td-7", "files": "a.go, b.go c.go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"link", "td-7", "a.go", "b.go", "c.go"}, argv)
}

func TestArgv_LinkRequiresFiles(t *testing.T) {
	_, err := mustLookup(t, "link").Argv(task.Args{"task": "td-7", "files": []any{}})
	require.Error(t, err)
}

func TestArgs_StringFormatsNumbers(t *testing.T) {
	args := task.Args{"n": float64(3), "b": true, "i": 4}
	assert.Equal(t, "3", args.String("n"))
	assert.Equal(t, "true", args.String("b"))
	assert.Equal(t, "4", args.String("i"))
	assert.Equal(t, "", args.String("missing"))
}

func TestArgs_Bool(t *testing.T) {
	args := task.Args{"a": true, "b": "true", "c": "nope", "d": float64(1)}
	assert.True(t, args.Bool("a"))
	assert.True(t, args.Bool("b"))
	assert.False(t, args.Bool("c"))
	assert.False(t, args.Bool("d"))
	assert.False(t, args.Bool("missing"))
}

func TestNames_Sorted(t *testing.T) {
	names := task.Names()
	assert.IsIncreasing(t, names)
	assert.Len(t, names, len(task.Catalog))
}
