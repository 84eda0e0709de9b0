package cil

import (
	"sort"

	"github.com/go-errors/errors"

	"github.com/artyom-smirnov/selinux/pkg/policy"
)

// isScopeSuperset reports whether sup covers every symbol and class
// permission of sub.
func isScopeSuperset(sup, sub *policy.ScopeIndex) bool {
	for sym := 0; sym < policy.SymNum; sym++ {
		if !sup.Scope[sym].ContainsAll(sub.Scope[sym]) {
			return false
		}
	}

	if len(sup.ClassPermsMap) < len(sub.ClassPermsMap) {
		return false
	}

	for i := range sub.ClassPermsMap {
		if !sup.ClassPermsMap[i].ContainsAll(sub.ClassPermsMap[i]) {
			return false
		}
	}

	return true
}

// declaredScopesToCIL lowers the symbols a declaration declares. Category
// and sensitivity orders follow their tables, reflecting the declared
// bitmap order.
func (t *Translator) declaredScopesToCIL(indent int, block *policy.AvruleBlock, decl *policy.AvruleDecl) error {
	for sym := 0; sym < policy.SymNum; sym++ {
		if symToCIL[sym] == nil {
			continue
		}

		m := decl.Declared.Scope[sym]
		var iterErr error
		m.ForEach(func(i int) {
			if iterErr != nil {
				return
			}
			key := t.pdb.ValToName[sym][i]
			datum, ok := t.pdb.Lookup(sym, key)
			if !ok {
				iterErr = errors.Errorf("unknown symbol: %s", key)
				return
			}
			scope, ok := t.pdb.Scope[sym][key]
			if !ok {
				iterErr = errors.Errorf("symbol has no scope: %s", key)
				return
			}
			iterErr = symToCIL[sym](t, indent, block, decl, key, datum, scope.Scope)
		})
		if iterErr != nil {
			return iterErr
		}

		if sym == policy.SymCats {
			t.catOrderToCIL(indent, m)
		}

		if sym == policy.SymLevels {
			t.sensOrderToCIL(indent, m)
		}
	}

	return nil
}

// requiredScopesToCIL lowers the symbols a declaration requires.
func (t *Translator) requiredScopesToCIL(indent int, block *policy.AvruleBlock, decl *policy.AvruleDecl) error {
	for sym := 0; sym < policy.SymNum; sym++ {
		if symToCIL[sym] == nil {
			continue
		}

		var iterErr error
		decl.Required.Scope[sym].ForEach(func(i int) {
			if iterErr != nil {
				return
			}
			key := t.pdb.ValToName[sym][i]
			datum, ok := t.pdb.Lookup(sym, key)
			if !ok {
				iterErr = errors.Errorf("unknown symbol: %s", key)
				return
			}
			iterErr = symToCIL[sym](t, indent, block, decl, key, datum, policy.ScopeRequired)
		})
		if iterErr != nil {
			return iterErr
		}
	}

	return nil
}

// additiveScopesToCIL lowers the declaration's local symtabs: symbols added
// to an enclosing scope rather than declared or required.
func (t *Translator) additiveScopesToCIL(indent int, block *policy.AvruleBlock, decl *policy.AvruleDecl) error {
	for sym := 0; sym < policy.SymNum; sym++ {
		if symToCIL[sym] == nil || len(decl.Symtabs[sym]) == 0 {
			continue
		}

		keys := make([]string, 0, len(decl.Symtabs[sym]))
		for key := range decl.Symtabs[sym] {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if err := symToCIL[sym](t, indent, block, decl, key, decl.Symtabs[sym][key], policy.ScopeRequired); err != nil {
				return err
			}
		}
	}

	return nil
}

// declRoles returns the roles declared somewhere in the policy, role
// attributes included, in value order, leaving out the default object role.
func (t *Translator) declRoles() []*policy.Role {
	var roles []*policy.Role

	for key, role := range t.pdb.Roles {
		if key == defaultObject {
			continue
		}
		scope, ok := t.pdb.Scope[policy.SymRoles][key]
		if !ok || scope.Scope != policy.ScopeDeclared {
			continue
		}
		roles = append(roles, role)
	}

	sort.Slice(roles, func(i, j int) bool {
		return roles[i].Value < roles[j].Value
	})

	return roles
}

// declRolesToCIL binds declared roles to the types this declaration
// declares. Role/type bindings live with the declaration of the type, so
// each decl emits only the bindings whose type mentions its decl id.
func (t *Translator) declRolesToCIL(indent int, decl *policy.AvruleDecl, declRoles []*policy.Role) error {
	roleNames := t.pdb.ValToName[policy.SymRoles]

	for _, role := range declRoles {
		types, err := t.typesetToNames(indent, &role.Types)
		if err != nil {
			return err
		}

		for _, typ := range types {
			scope, ok := t.pdb.Scope[policy.SymTypes][typ]
			if !ok {
				return errors.Errorf("type has no scope: %s", typ)
			}
			for _, id := range scope.DeclIDs {
				if id == decl.DeclID {
					t.e.Println(indent, "(roletype %s %s)", roleNames[role.Value-1], typ)
				}
			}
		}
	}

	return nil
}

// typealiasesToCIL lowers non-primary types from the global symtab. Aliases
// are only stored there, but for scoping they are treated as part of the
// global block.
func (t *Translator) typealiasesToCIL(block *policy.AvruleBlock, decl *policy.AvruleDecl) error {
	keys := make([]string, 0, len(t.pdb.Types))
	for key := range t.pdb.Types {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		typ := t.pdb.Types[key]
		if typ.Primary {
			continue
		}
		if err := typeToCIL(t, 0, block, decl, key, typ, policy.ScopeDeclared); err != nil {
			return err
		}
	}

	return nil
}

// commonsToCIL lowers the commons of the global symtab.
func (t *Translator) commonsToCIL() {
	keys := make([]string, 0, len(t.pdb.Commons))
	for key := range t.pdb.Commons {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		t.commonToCIL(key, t.pdb.Commons[key])
	}
}

// blocksToCIL walks the avrule block chain. Optionals nest by
// required-scope inclusion: an optional whose requirements do not include
// all of the enclosing optional's requirements closes enclosing optionals
// until they do. The global block's entry is never closed.
func (t *Translator) blocksToCIL() error {
	indent := 0
	var stack []*policy.ScopeIndex
	declRoles := t.declRoles()

	for _, block := range t.pdb.Blocks {
		if len(block.Decls) == 0 {
			continue
		}
		decl := block.Decls[0]

		if len(block.Decls) > 1 {
			t.warnf("Warning: 'else' blocks in optional statements are unsupported in CIL. Dropping from output.")
		}

		if block.Optional() {
			for len(stack) > 1 && !isScopeSuperset(&decl.Required, stack[len(stack)-1]) {
				stack = stack[:len(stack)-1]
				indent--
				t.e.Println(indent, ")")
			}

			t.e.Println(indent, "(optional %s_optional_%d", t.module, decl.DeclID)
			indent++
		}

		stack = append(stack, &decl.Required)

		if len(stack) == 1 {
			// type aliases and commons are only stored in the global
			// symtab. However, to get scoping correct, we assume they are
			// in the global block
			if err := t.typealiasesToCIL(block, decl); err != nil {
				return err
			}
			t.commonsToCIL()
		}

		if err := t.declRolesToCIL(indent, decl, declRoles); err != nil {
			return err
		}

		if err := t.declaredScopesToCIL(indent, block, decl); err != nil {
			return err
		}

		if err := t.requiredScopesToCIL(indent, block, decl); err != nil {
			return err
		}

		if err := t.additiveScopesToCIL(indent, block, decl); err != nil {
			return err
		}

		if err := t.avruleListToCIL(indent, decl.AvRules); err != nil {
			return err
		}

		if err := t.roleTransToCIL(indent, decl.RoleTrRules); err != nil {
			return err
		}

		if err := t.roleAllowsToCIL(indent, decl.RoleAllowRules); err != nil {
			return err
		}

		if err := t.rangeTransToCIL(indent, decl.RangeTrRules); err != nil {
			return err
		}

		if err := t.filenameTransToCIL(indent, decl.FilenameTrRules); err != nil {
			return err
		}

		if err := t.condListToCIL(indent, decl.CondList); err != nil {
			return err
		}
	}

	for indent > 0 {
		indent--
		t.e.Println(indent, ")")
	}

	return nil
}
