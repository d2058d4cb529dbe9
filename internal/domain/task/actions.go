// Package task maps structured tool-call arguments onto td command lines.
// It knows nothing about processes; the tdcli adapter runs the result.
package task

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParamKind controls how a parameter is rendered into argv.
type ParamKind int

const (
	// Positional appends the value as a bare argument.
	Positional ParamKind = iota
	// Flag appends --<flag> <value>.
	Flag
	// Switch appends --<value>, e.g. logType "decision" → --decision.
	Switch
	// Bool appends --<flag> when the argument is true.
	Bool
	// Files appends each path, relativized against the known roots.
	Files
	// List appends each item unchanged.
	List
	// Option is read by the action's own argv builder and never rendered
	// directly.
	Option
)

// Param describes one tool-call argument.
type Param struct {
	Name        string
	Description string
	Kind        ParamKind
	FlagName    string
	Required    bool
	Enum        []string
	// Number marks a parameter carried as a JSON number.
	Number bool
}

// Action is one forwarded td command.
type Action struct {
	// Name is the tool suffix: the action is exposed as td_<Name>.
	Name string
	// Command is the argv head. Empty means Name.
	Command     []string
	Description string
	Params      []Param
	// Trailing is appended after every rendered parameter.
	Trailing []string

	build func(a Action, args Args, roots []string) ([]string, error)
}

// ToolName is the MCP tool name for the action.
func (a Action) ToolName() string {
	return "td_" + a.Name
}

func (a Action) head() []string {
	if len(a.Command) == 0 {
		return []string{a.Name}
	}
	return append([]string(nil), a.Command...)
}

// Enumerations shared by several actions.
var (
	LogTypes   = []string{"decision", "blocker", "hypothesis", "tried", "result"}
	IssueTypes = []string{"bug", "feature", "task", "epic", "chore"}
	Priorities = []string{"P0", "P1", "P2", "P3", "P4"}
	Points     = []string{"1", "2", "3", "5", "8", "13", "21"}
)

func taskParam(desc string) Param {
	return Param{Name: "task", Description: desc, Kind: Positional, Required: true}
}

func optionalTask(desc string) Param {
	return Param{Name: "task", Description: desc, Kind: Positional}
}

func flag(name, flagName, desc string) Param {
	return Param{Name: name, Description: desc, Kind: Flag, FlagName: flagName}
}

func option(name, desc string) Param {
	return Param{Name: name, Description: desc, Kind: Option}
}

func handoffFlags() []Param {
	return []Param{
		flag("done", "done", "What was completed"),
		flag("remaining", "remaining", "What still needs to be done"),
		flag("decision", "decision", "Key decisions made"),
		flag("uncertain", "uncertain", "Areas of uncertainty or questions"),
	}
}

func listing(name, desc string) Action {
	return Action{Name: name, Command: []string{strings.ReplaceAll(name, "_", "-")}, Description: desc}
}

// Catalog lists every forwarded action. Param order is argv order.
var Catalog = []Action{
	{Name: "status", Description: "Get TD status including active task and session info", Trailing: []string{"--json"}},
	{Name: "whoami", Description: "Get TD session identity", Trailing: []string{"--json"}},
	{Name: "start", Description: "Start working on a task", Params: []Param{taskParam("Task key/id to start")}},
	{Name: "focus", Description: "Focus on a different task", Params: []Param{taskParam("Task key/id to focus")}},
	{
		Name:        "link",
		Description: "Link files to a task",
		Params: []Param{
			taskParam("Task key/id"),
			{Name: "files", Description: "Files to link", Kind: Files, Required: true},
		},
	},
	{
		Name:        "log",
		Description: "Add a log entry to the active task",
		Params: []Param{
			{Name: "logType", Description: "Structured log type", Kind: Switch, Enum: LogTypes},
			{Name: "message", Description: "Log message", Kind: Positional, Required: true},
		},
	},
	{Name: "review", Description: "Submit task for review", Params: []Param{taskParam("Task key/id to review")}},
	{
		Name:        "approve",
		Description: "Approve a task in review",
		Params: []Param{
			optionalTask("Task key/id to approve (optional if focused)"),
			flag("reason", "reason", "Approval reason"),
		},
		Trailing: []string{"--json"},
	},
	{
		Name:        "reject",
		Description: "Reject a task in review",
		Params: []Param{
			optionalTask("Task key/id to reject (optional if focused)"),
			flag("reason", "reason", "Rejection reason"),
		},
		Trailing: []string{"--json"},
	},
	{
		Name:        "handoff",
		Description: "Create handoff notes for task or session",
		Params:      append([]Param{optionalTask("Task key/id (optional)")}, handoffFlags()...),
	},
	{
		Name:        "usage",
		Description: "Show TD usage stats",
		Params: []Param{
			{Name: "newSession", Description: "Start a new session", Kind: Bool, FlagName: "new-session"},
		},
	},
	{
		Name:        "create",
		Description: "Create a new TD task/issue",
		Params: []Param{
			{Name: "title", Description: "Task title", Kind: Positional, Required: true},
			{Name: "type", Description: "Issue type", Kind: Flag, FlagName: "type", Enum: IssueTypes},
			{Name: "priority", Description: "Priority", Kind: Flag, FlagName: "priority", Enum: Priorities},
			flag("labels", "labels", "Comma-separated labels"),
			flag("description", "description", "Description text"),
			flag("parent", "parent", "Parent issue ID for subtasks"),
			{Name: "minor", Description: "Mark as minor task (allows self-review)", Kind: Bool, FlagName: "minor"},
			{Name: "points", Description: "Story points (Fibonacci)", Kind: Flag, FlagName: "points", Enum: Points, Number: true},
			flag("acceptance", "acceptance", "Acceptance criteria"),
			flag("dependsOn", "depends-on", "Comma-separated issue IDs this depends on"),
			flag("blocks", "blocks", "Comma-separated issue IDs this blocks"),
		},
	},
	{
		Name:        "epic",
		Command:     []string{"epic", "create"},
		Description: "Create an epic",
		Params: []Param{
			{Name: "title", Description: "Epic title", Kind: Positional, Required: true},
			{Name: "priority", Description: "Priority", Kind: Flag, FlagName: "priority", Enum: Priorities},
			flag("labels", "labels", "Comma-separated labels"),
			flag("description", "description", "Description text"),
			flag("parent", "parent", "Parent epic ID"),
			flag("blocks", "blocks", "Comma-separated issue IDs this blocks"),
			flag("dependsOn", "depends-on", "Comma-separated issue IDs this depends on"),
		},
	},
	{
		Name:        "tree",
		Description: "Show or modify task tree structure",
		Params: []Param{
			{Name: "task", Description: "Task/epic to show tree for", Kind: Option, Required: true},
			option("childIssue", "Child issue to add under task"),
		},
		build: buildTree,
	},
	{
		Name:        "dep",
		Description: "Manage task dependencies",
		Params: []Param{
			{Name: "task", Description: "Task key/id", Kind: Option, Required: true},
			{Name: "action", Description: "Dependency action", Kind: Option, Enum: []string{"add", "list", "blocking"}},
			option("targetIssue", "Target issue for 'add' action"),
		},
		build: buildDep,
	},
	{
		Name:        "ws",
		Description: "Work session management",
		Params: []Param{
			{Name: "action", Description: "Work session action", Kind: Option, Required: true, Enum: []string{"start", "tag", "log", "current", "handoff"}},
			option("name", "Work session name (for start)"),
			{Name: "issueIds", Description: "Issue IDs to tag", Kind: List},
			{Name: "noStart", Description: "Don't auto-start tagged issues", Kind: Bool, FlagName: "no-start"},
			option("message", "Log message (for log)"),
			option("done", "What was completed (for handoff)"),
			option("remaining", "What remains (for handoff)"),
			option("decision", "Key decisions (for handoff)"),
			option("uncertain", "Uncertainties (for handoff)"),
		},
		build: buildWorkSession,
	},
	{
		Name:        "query",
		Description: "Execute TDQ query",
		Params:      []Param{{Name: "query", Description: "TDQ query string", Kind: Positional, Required: true}},
	},
	{
		Name:        "search",
		Description: "Full-text search across tasks",
		Params:      []Param{{Name: "query", Description: "Search keyword", Kind: Positional, Required: true}},
	},
	listing("critical_path", "Show optimal sequence to unblock the most work"),
	listing("next", "Show highest-priority open issue"),
	listing("ready", "Show all ready (open) issues by priority"),
	listing("blocked", "Show all blocked issues"),
	listing("in_review", "Show all issues in review"),
	listing("reviewable", "Show issues this session can review (not self-implemented)"),
	{
		Name:        "context",
		Description: "Show full task context (logs, files, deps, acceptance criteria)",
		Params:      []Param{taskParam("Task key/id")},
	},
	{
		Name:        "comment",
		Description: "Add a comment to a task",
		Params: []Param{
			taskParam("Task key/id"),
			{Name: "text", Description: "Comment text", Kind: Positional, Required: true},
		},
	},
	{
		Name:        "update",
		Description: "Update task metadata",
		Params: []Param{
			taskParam("Task key/id"),
			flag("title", "title", "New title"),
			flag("description", "description", "New description"),
			{Name: "priority", Description: "Priority", Kind: Flag, FlagName: "priority", Enum: Priorities},
			{Name: "type", Description: "Issue type", Kind: Flag, FlagName: "type", Enum: IssueTypes},
			flag("labels", "labels", "Comma-separated labels"),
		},
	},
	{Name: "files", Description: "Show files linked to a task", Params: []Param{taskParam("Task key/id")}},
	{
		Name:        "unlink",
		Description: "Unlink files from a task",
		Params: []Param{
			taskParam("Task key/id"),
			{Name: "files", Description: "Files to unlink", Kind: Files, Required: true},
		},
	},
	{Name: "block", Description: "Mark a task as blocked", Params: []Param{taskParam("Task key/id to block")}},
	{Name: "unblock", Description: "Unblock a task", Params: []Param{taskParam("Task key/id to unblock")}},
}

// Lookup returns the action with the given name.
func Lookup(name string) (Action, bool) {
	for _, a := range Catalog {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// LookupTool returns the action registered under an MCP tool name.
func LookupTool(tool string) (Action, bool) {
	for _, a := range Catalog {
		if a.ToolName() == tool {
			return a, true
		}
	}
	return Action{}, false
}

// Args are decoded tool-call arguments.
type Args map[string]any

// String returns the trimmed string form of a scalar argument.
func (a Args) String(name string) string {
	switch v := a[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// Bool reports whether a boolean argument is set.
func (a Args) Bool(name string) bool {
	switch v := a[name].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	}
	return false
}

// List returns a list argument given as an array or as a comma/whitespace
// separated string.
func (a Args) List(name string) []string {
	var raw []string
	switch v := a[name].(type) {
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case string:
		raw = strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})
	}
	var out []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Argv builds the td argument vector for args. Paths of Files parameters
// are made relative to the first root containing them.
func (a Action) Argv(args Args, roots ...string) ([]string, error) {
	if err := a.check(args); err != nil {
		return nil, err
	}
	if a.build != nil {
		return a.build(a, args, roots)
	}

	argv := a.head()
	for _, p := range a.Params {
		argv = p.render(argv, args, roots)
	}
	return append(argv, a.Trailing...), nil
}

// check enforces required parameters and enumerations.
func (a Action) check(args Args) error {
	for _, p := range a.Params {
		switch p.Kind {
		case Files, List:
			if p.Required && len(args.List(p.Name)) == 0 {
				return missingParam(a, p.Name)
			}
		case Bool:
		default:
			v := args.String(p.Name)
			if v == "" {
				if p.Required {
					return missingParam(a, p.Name)
				}
				continue
			}
			if len(p.Enum) > 0 && !containsString(p.Enum, v) {
				return fmt.Errorf("td %s: invalid %s %q (valid: %s)", a.Name, p.Name, v, strings.Join(p.Enum, ", "))
			}
		}
	}
	return nil
}

func (p Param) render(argv []string, args Args, roots []string) []string {
	switch p.Kind {
	case Files:
		return append(argv, RelativizeFiles(args.List(p.Name), roots...)...)
	case List:
		return append(argv, args.List(p.Name)...)
	case Bool:
		if args.Bool(p.Name) {
			argv = append(argv, "--"+p.FlagName)
		}
		return argv
	case Option:
		return argv
	}

	v := args.String(p.Name)
	if v == "" {
		return argv
	}
	switch p.Kind {
	case Flag:
		return append(argv, "--"+p.FlagName, v)
	case Switch:
		return append(argv, "--"+v)
	}
	return append(argv, v)
}

// buildTree shows the tree of task, or reparents childIssue under it.
func buildTree(_ Action, args Args, _ []string) ([]string, error) {
	parent := args.String("task")
	if child := args.String("childIssue"); child != "" {
		return []string{"update", child, "--parent", parent}, nil
	}
	return []string{"tree", parent}, nil
}

// buildDep lists, adds or inspects blocking dependencies. The default
// action is list.
func buildDep(a Action, args Args, _ []string) ([]string, error) {
	issue := args.String("task")
	switch args.String("action") {
	case "add":
		target := args.String("targetIssue")
		if target == "" {
			return nil, missingParam(a, "targetIssue")
		}
		return []string{"dep", "add", issue, target}, nil
	case "blocking":
		return []string{"dep", issue, "--blocking"}, nil
	}
	return []string{"dep", issue}, nil
}

// buildWorkSession renders the ws sub-commands.
func buildWorkSession(a Action, args Args, _ []string) ([]string, error) {
	switch args.String("action") {
	case "start":
		name := args.String("name")
		if name == "" {
			return nil, missingParam(a, "name")
		}
		return []string{"ws", "start", name}, nil
	case "tag":
		ids := args.List("issueIds")
		if len(ids) == 0 {
			return nil, missingParam(a, "issueIds")
		}
		argv := append([]string{"ws", "tag"}, ids...)
		if args.Bool("noStart") {
			argv = append(argv, "--no-start")
		}
		return argv, nil
	case "log":
		msg := args.String("message")
		if msg == "" {
			return nil, missingParam(a, "message")
		}
		return []string{"ws", "log", msg}, nil
	case "current":
		return []string{"ws", "current"}, nil
	}

	argv := []string{"ws", "handoff"}
	for _, p := range handoffFlags() {
		argv = p.render(argv, args, nil)
	}
	return argv, nil
}

// Names returns the sorted action names in the catalog.
func Names() []string {
	names := make([]string, 0, len(Catalog))
	for _, a := range Catalog {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

func missingParam(a Action, name string) error {
	return fmt.Errorf("td %s: missing required parameter %q", a.Name, name)
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
