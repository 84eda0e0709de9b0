package cil

import (
	"github.com/go-errors/errors"

	"github.com/artyom-smirnov/selinux/pkg/policy"
)

// semanticLevelToCIL writes a semantic level as (SENS ) or
// (SENS (c0 range c1 c2 ...)); a category span is written as the bare
// tokens "range LOW HIGH", not wrapped in its own parens. Levels stored in the package carry the
// usual +1 value convention; sensOffset subtracts it, except inside
// optionals where user levels are stored without the offset.
func (t *Translator) semanticLevelToCIL(sensOffset uint32, level *policy.SemanticLevel) error {
	sensIdx := level.Sens - sensOffset
	if int(sensIdx) >= len(t.pdb.ValToName[policy.SymLevels]) {
		return errors.Errorf("invalid sensitivity value: %d", level.Sens)
	}
	t.e.Printf("(%s ", t.pdb.ValToName[policy.SymLevels][sensIdx])

	if len(level.Cats) > 0 {
		t.e.Printf("(")
	}

	catNames := t.pdb.ValToName[policy.SymCats]
	for i, cat := range level.Cats {
		if cat.Low == cat.High {
			t.e.Printf("%s", catNames[cat.Low-1])
		} else {
			t.e.Printf("range %s %s", catNames[cat.Low-1], catNames[cat.High-1])
		}
		if i < len(level.Cats)-1 {
			t.e.Printf(" ")
		}
	}

	if len(level.Cats) > 0 {
		t.e.Printf(")")
	}

	t.e.Printf(")")

	return nil
}

// avruleName resolves an avrule kind to its CIL operator.
func (t *Translator) avruleName(specified uint32) (string, error) {
	switch specified {
	case policy.AvruleAllowed:
		return "allow", nil
	case policy.AvruleAuditallow:
		return "auditallow", nil
	case policy.AvruleAuditdeny:
		// the historical translator emitted the misspelled operator;
		// compatAuditdeny opts in to the corrected spelling
		if t.compatAuditdeny {
			return "auditdeny", nil
		}
		return "auditdenty", nil
	case policy.AvruleDontaudit:
		return "dontaudit", nil
	case policy.AvruleNeverallow:
		return "neverallow", nil
	case policy.AvruleTransition:
		return "typetransition", nil
	case policy.AvruleMember:
		return "typemember", nil
	case policy.AvruleChange:
		return "typechange", nil
	}
	return "", errors.Errorf("unknown avrule type: %d", specified)
}

// avruleToCIL writes one avrule line per class-perm entry for a fixed
// source and target name.
func (t *Translator) avruleToCIL(indent int, specified uint32, src, tgt string, classperms []*policy.ClassPerm) error {
	rule, err := t.avruleName(specified)
	if err != nil {
		return err
	}

	classNames := t.pdb.ValToName[policy.SymClasses]
	typeNames := t.pdb.ValToName[policy.SymTypes]

	for _, cp := range classperms {
		if specified&policy.AvruleAV != 0 {
			perms, err := t.pdb.AvToPerms(cp.Class, cp.Data)
			if err != nil {
				return errors.Errorf("failed to generate permission string: %s", err)
			}
			t.e.Println(indent, "(%s %s %s (%s (%s)))",
				rule, src, tgt, classNames[cp.Class-1], nameListToString(perms))
		} else {
			t.e.Println(indent, "(%s %s %s %s %s)",
				rule, src, tgt, classNames[cp.Class-1], typeNames[cp.Data-1])
		}
	}

	return nil
}

// avruleListToCIL lowers a rule list, expanding each rule over the
// Cartesian product of its source and target names, plus a self pass when
// the rule carries the SELF flag.
func (t *Translator) avruleListToCIL(indent int, rules []*policy.AvRule) error {
	for _, rule := range rules {
		snames, err := t.typesetToNames(indent, &rule.SrcTypes)
		if err != nil {
			return err
		}
		tnames, err := t.typesetToNames(indent, &rule.TgtTypes)
		if err != nil {
			return err
		}

		for _, src := range snames {
			for _, tgt := range tnames {
				if err := t.avruleToCIL(indent, rule.Specified, src, tgt, rule.Perms); err != nil {
					return err
				}
			}

			if rule.Flags&policy.RuleSelf != 0 {
				if err := t.avruleToCIL(indent, rule.Specified, src, "self", rule.Perms); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// roleTransToCIL lowers role transitions, one line per
// role x type x class triple.
func (t *Translator) roleTransToCIL(indent int, rules []*policy.RoleTransRule) error {
	classNames := t.pdb.ValToName[policy.SymClasses]
	roleNames := t.pdb.ValToName[policy.SymRoles]

	for _, rule := range rules {
		roles, err := t.rolesetToNames(indent, &rule.Roles)
		if err != nil {
			return err
		}
		types, err := t.typesetToNames(indent, &rule.Types)
		if err != nil {
			return err
		}

		for _, role := range roles {
			for _, typ := range types {
				rule.Classes.ForEach(func(i int) {
					t.e.Println(indent, "(roletransition %s %s %s %s)",
						role, typ, classNames[i], roleNames[rule.NewRole-1])
				})
			}
		}
	}

	return nil
}

// roleAllowsToCIL lowers role allow rules over the product of the two role
// sets.
func (t *Translator) roleAllowsToCIL(indent int, rules []*policy.RoleAllowRule) error {
	for _, rule := range rules {
		roles, err := t.rolesetToNames(indent, &rule.Roles)
		if err != nil {
			return err
		}
		newRoles, err := t.rolesetToNames(indent, &rule.NewRoles)
		if err != nil {
			return err
		}

		for _, role := range roles {
			for _, newRole := range newRoles {
				t.e.Println(indent, "(roleallow %s %s)", role, newRole)
			}
		}
	}

	return nil
}

// rangeTransToCIL lowers MLS range transitions. Non-MLS policies cannot
// carry meaningful ranges, so nothing is emitted for them.
func (t *Translator) rangeTransToCIL(indent int, rules []*policy.RangeTransRule) error {
	if !t.pdb.MLS {
		return nil
	}

	classNames := t.pdb.ValToName[policy.SymClasses]

	for _, rule := range rules {
		stypes, err := t.typesetToNames(indent, &rule.STypes)
		if err != nil {
			return err
		}
		ttypes, err := t.typesetToNames(indent, &rule.TTypes)
		if err != nil {
			return err
		}

		for _, stype := range stypes {
			for _, ttype := range ttypes {
				var iterErr error
				rule.TClasses.ForEach(func(i int) {
					if iterErr != nil {
						return
					}
					t.e.Indent(indent)
					t.e.Printf("(rangetransition %s %s %s ", stype, ttype, classNames[i])
					t.e.Printf("(")
					if err := t.semanticLevelToCIL(1, &rule.TRange.Low); err != nil {
						iterErr = err
						return
					}
					t.e.Printf(" ")
					if err := t.semanticLevelToCIL(1, &rule.TRange.High); err != nil {
						iterErr = err
						return
					}
					t.e.Printf("))\n")
				})
				if iterErr != nil {
					return iterErr
				}
			}
		}
	}

	return nil
}

// filenameTransToCIL lowers filename transitions.
func (t *Translator) filenameTransToCIL(indent int, rules []*policy.FilenameTransRule) error {
	classNames := t.pdb.ValToName[policy.SymClasses]
	typeNames := t.pdb.ValToName[policy.SymTypes]

	for _, rule := range rules {
		stypes, err := t.typesetToNames(indent, &rule.STypes)
		if err != nil {
			return err
		}
		ttypes, err := t.typesetToNames(indent, &rule.TTypes)
		if err != nil {
			return err
		}

		for _, stype := range stypes {
			for _, ttype := range ttypes {
				t.e.Println(indent, "(typetransition %s %s %s %s %s)",
					stype, ttype, classNames[rule.TClass-1], rule.Name, typeNames[rule.OType-1])
			}
		}
	}

	return nil
}

// condListToCIL lowers a conditional list: header, true branch, false
// branch, close paren.
func (t *Translator) condListToCIL(indent int, conds []*policy.CondNode) error {
	for _, cond := range conds {
		if err := t.condExprToCIL(indent, cond.Expr, cond.Flags); err != nil {
			return err
		}

		if len(cond.TrueList) > 0 {
			t.e.Println(indent+1, "(true")
			if err := t.avruleListToCIL(indent+2, cond.TrueList); err != nil {
				return err
			}
			t.e.Println(indent+1, ")")
		}

		if len(cond.FalseList) > 0 {
			t.e.Println(indent+1, "(false")
			if err := t.avruleListToCIL(indent+2, cond.FalseList); err != nil {
				return err
			}
			t.e.Println(indent+1, ")")
		}

		t.e.Println(indent, ")")
	}

	return nil
}
