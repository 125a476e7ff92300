package models

import "strings"

// Scope is the part of the institution a caller may act on. HODs are
// limited to their program and branch; the zero Scope is unrestricted.
type Scope struct {
	Program string `json:"program,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

// Unrestricted reports whether the scope covers everything.
func (s Scope) Unrestricted() bool {
	return s.Program == "" && s.Branch == ""
}

// Allows reports whether program and branch fall inside the scope.
func (s Scope) Allows(program, branch string) bool {
	if s.Program != "" && !strings.EqualFold(s.Program, strings.TrimSpace(program)) {
		return false
	}
	if s.Branch != "" && !strings.EqualFold(s.Branch, strings.TrimSpace(branch)) {
		return false
	}
	return true
}

// Narrow returns the requested program and branch, forced to the scope's
// values where the scope is restricted.
func (s Scope) Narrow(program, branch string) (string, string) {
	if s.Program != "" {
		program = s.Program
	}
	if s.Branch != "" {
		branch = s.Branch
	}
	return strings.TrimSpace(program), strings.TrimSpace(branch)
}
