package cil

import (
	"bytes"
	"strings"

	"github.com/artyom-smirnov/selinux/pkg/policy"
)

// testPdb builds a small base policy with class file (read, write), types
// a and b, role object_r plus r, user u, booleans b1 and b2, sensitivity
// s0 and categories c0, c1.
func testPdb() *policy.PolicyDB {
	pdb := &policy.PolicyDB{
		Type:     policy.PolicyBase,
		Platform: policy.PlatformSELinux,
	}

	pdb.ValToName[policy.SymClasses] = []string{"file"}
	pdb.ValToName[policy.SymTypes] = []string{"a", "b"}
	pdb.ValToName[policy.SymRoles] = []string{"object_r", "r"}
	pdb.ValToName[policy.SymUsers] = []string{"u"}
	pdb.ValToName[policy.SymBools] = []string{"b1", "b2"}
	pdb.ValToName[policy.SymLevels] = []string{"s0"}
	pdb.ValToName[policy.SymCats] = []string{"c0", "c1"}

	pdb.Classes = map[string]*policy.Class{
		"file": {
			Value:       1,
			Permissions: map[string]uint32{"read": 1, "write": 2},
		},
	}
	pdb.Types = map[string]*policy.Type{
		"a": {Value: 1, Flavor: policy.TypeType, Primary: true},
		"b": {Value: 2, Flavor: policy.TypeType, Primary: true},
	}
	pdb.Roles = map[string]*policy.Role{
		"object_r": {Value: 1, Flavor: policy.RoleRole},
		"r":        {Value: 2, Flavor: policy.RoleRole},
	}
	pdb.Users = map[string]*policy.User{
		"u": {Value: 1},
	}
	pdb.Bools = map[string]*policy.Bool{
		"b1": {Value: 1, State: true},
		"b2": {Value: 2, State: false},
	}
	pdb.Levels = map[string]*policy.Level{
		"s0": {Level: &policy.MLSLevel{Sens: 1}},
	}
	pdb.Cats = map[string]*policy.Category{
		"c0": {Value: 1},
		"c1": {Value: 2},
	}

	for sym := 0; sym < policy.SymNum; sym++ {
		pdb.Scope[sym] = map[string]*policy.ScopeDatum{}
	}

	return pdb
}

// testTranslator wires a translator around a buffer, collecting warnings.
func testTranslator(pdb *policy.PolicyDB) (*Translator, *bytes.Buffer, *[]string) {
	var out bytes.Buffer
	var warnings []string

	t := &Translator{
		pkg:    &policy.Package{Policy: pdb},
		pdb:    pdb,
		e:      NewEmitter(&out),
		module: "base",
		warn: func(format string, args ...interface{}) {
			warnings = append(warnings, format)
		},
	}

	return t, &out, &warnings
}

// simpleContext is a context over u, object_r and type a.
func simpleContext() policy.Context {
	return policy.Context{User: 1, Role: 1, Type: 1}
}

// splitNonEmpty returns the non-empty lines of s.
func splitNonEmpty(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// balancedParens reports whether every paren in s is matched.
func balancedParens(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
