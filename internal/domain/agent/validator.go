// Package agent validates the frontmatter of agent definition files.
//
// Parsing is line-oriented: the rules below are defined in terms
// of indentation and top-level `key:` lines, not YAML semantics, so nested or
// multi-line values are only inspected as far as these patterns reach.
package agent

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/tdkit/agentaudit/internal/domain"
)

// RequiredFields must appear with a non-empty value in every agent.
var RequiredFields = []string{"name", "description", "type", "model"}

// ValidTypes are the recognized agent types.
var ValidTypes = []string{"primary", "subagent"}

// ValidActions are the recognized permission actions.
var ValidActions = []string{"ask", "allow", "deny"}

var (
	kebabCaseRe     = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	modelRe         = regexp.MustCompile(`^[a-z0-9-]+/[A-Za-z0-9._-]+$`)
	wildcardAllowRe = regexp.MustCompile(`^\s{4}"\*":\s*allow\s*$`)
	permissionRowRe = regexp.MustCompile(`^\s{4}"[^"]+":\s*([A-Za-z]+)\s*$`)
)

// Validate checks one agent file. relPath is the root-relative path used
// for finding locations and the filename comparison. Malformed content
// only ever produces findings.
func Validate(relPath, content string) []domain.Finding {
	fm, ok := ExtractFrontmatter(content)
	if !ok {
		return []domain.Finding{{
			Severity:   domain.SeverityCritical,
			Code:       domain.CodeMissingFrontmatter,
			File:       relPath,
			Line:       1,
			Message:    "Missing or malformed YAML frontmatter.",
			Suggestion: "Add required frontmatter with name/description/type/model.",
		}}
	}

	v := &validator{file: relPath, fm: fm}
	v.checkRequired()
	v.checkName()
	v.checkType()
	v.checkModel()
	v.checkPermissions()
	return v.findings
}

type validator struct {
	file     string
	fm       Frontmatter
	findings []domain.Finding
}

func (v *validator) add(sev domain.Severity, code string, line int, msg, suggestion string) {
	v.findings = append(v.findings, domain.Finding{
		Severity:   sev,
		Code:       code,
		File:       v.file,
		Line:       line,
		Message:    msg,
		Suggestion: suggestion,
	})
}

// field returns a present, non-empty field value.
func (v *validator) field(key string) (string, bool) {
	val, ok := v.fm.Field(key)
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

func (v *validator) checkRequired() {
	for _, key := range RequiredFields {
		if _, ok := v.field(key); ok {
			continue
		}
		v.add(domain.SeverityCritical, domain.CodeMissingRequiredField, v.fm.StartLine,
			"Missing required frontmatter field: "+key,
			fmt.Sprintf("Add '%s:' to frontmatter.", key))
	}
}

func (v *validator) checkName() {
	name, ok := v.field("name")
	if !ok {
		return
	}
	if !kebabCaseRe.MatchString(name) {
		suggestion := "Use lowercase kebab-case for name."
		if kebab := KebabCase(name); kebab != "" && kebab != name {
			suggestion = fmt.Sprintf("Use lowercase kebab-case for name (e.g. '%s').", kebab)
		}
		v.add(domain.SeverityHigh, domain.CodeInvalidNameFormat, v.fm.StartLine,
			fmt.Sprintf("Agent name is not kebab-case: '%s'", name), suggestion)
	}
	base := strings.TrimSuffix(path.Base(v.file), ".md")
	if name != base {
		v.add(domain.SeverityHigh, domain.CodeNameFilenameMismatch, v.fm.StartLine,
			fmt.Sprintf("Frontmatter name '%s' does not match filename '%s'.", name, base),
			"Rename file or align name field.")
	}
}

func (v *validator) checkType() {
	typ, ok := v.field("type")
	if !ok || contains(ValidTypes, typ) {
		return
	}
	v.add(domain.SeverityHigh, domain.CodeInvalidType, v.fm.StartLine,
		fmt.Sprintf("Invalid agent type '%s'.", typ),
		"Use 'primary' or 'subagent'.")
}

func (v *validator) checkModel() {
	model, ok := v.field("model")
	if !ok || modelRe.MatchString(model) {
		return
	}
	v.add(domain.SeverityHigh, domain.CodeInvalidModelFormat, v.fm.StartLine,
		fmt.Sprintf("Malformed model value '%s'.", model),
		"Use provider/model format.")
}

func (v *validator) checkPermissions() {
	rows, ok := v.fm.PermissionBlock()
	if !ok {
		return
	}
	for _, row := range rows {
		line := v.fm.LineOf(row.Index)
		if wildcardAllowRe.MatchString(row.Text) {
			v.add(domain.SeverityCritical, domain.CodeWildcardAllowPermission, line,
				"Wildcard allow permission detected ('*': allow).",
				"Use ask/deny by default and explicit command patterns.")
		}
		m := permissionRowRe.FindStringSubmatch(row.Text)
		if m == nil || contains(ValidActions, m[1]) {
			continue
		}
		v.add(domain.SeverityHigh, domain.CodeInvalidPermissionAction, line,
			fmt.Sprintf("Invalid permission action '%s'.", m[1]),
			"Use only ask, allow, or deny.")
	}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
