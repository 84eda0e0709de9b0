package cil

import (
	"fmt"

	"github.com/go-errors/errors"

	"github.com/artyom-smirnov/selinux/pkg/policy"
)

// Both expression kinds arrive in RPN order; lowering runs them through an
// explicit operand stack of built strings. The trees are iteratively built
// by the loader, so recursion buys nothing here.

// condExprToCIL writes the header line of a conditional: the tunableif or
// booleanif form with the fully prefix-converted expression. The matching
// close paren is written by the cond-list walker.
func (t *Translator) condExprToCIL(indent int, expr []*policy.CondExpr, flags uint32) error {
	var stack []string

	for _, node := range expr {
		if node.Type == policy.CondBool {
			if node.Bool == 0 || int(node.Bool) > len(t.pdb.ValToName[policy.SymBools]) {
				return errors.Errorf("invalid boolean value: %d", node.Bool)
			}
			stack = append(stack, fmt.Sprintf("(%s)", t.pdb.ValToName[policy.SymBools][node.Bool-1]))
			continue
		}

		var op string
		switch node.Type {
		case policy.CondNot:
			op = "not"
		case policy.CondOr:
			op = "or"
		case policy.CondAnd:
			op = "and"
		case policy.CondXor:
			op = "xor"
		case policy.CondEq:
			op = "eq"
		case policy.CondNeq:
			op = "neq"
		default:
			return errors.Errorf("unknown conditional expression type: %d", node.Type)
		}

		numParams := 2
		if node.Type == policy.CondNot {
			numParams = 1
		}

		if len(stack) < numParams {
			return errors.New("invalid conditional expression")
		}

		var val string
		if numParams == 1 {
			val1 := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			val = fmt.Sprintf("(%s %s)", op, val1)
		} else {
			val2 := stack[len(stack)-1]
			val1 := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			val = fmt.Sprintf("(%s %s %s)", op, val1, val2)
		}
		stack = append(stack, val)
	}

	if len(stack) != 1 {
		return errors.New("invalid conditional expression")
	}

	kind := "booleanif"
	if flags&policy.CondTunable != 0 {
		kind = "tunableif"
	}

	t.e.Println(indent, "(%s %s", kind, stack[0])

	return nil
}

// constraintExprToString converts an RPN constraint expression to its
// prefix CIL text.
func (t *Translator) constraintExprToString(indent int, exprs []*policy.ConstraintExpr) (string, error) {
	var stack []string

	for _, expr := range exprs {
		if expr.Type == policy.CexprAttr || expr.Type == policy.CexprNames {
			var op string
			switch expr.Op {
			case policy.CexprEq:
				op = "eq"
			case policy.CexprNeq:
				op = "neq"
			case policy.CexprDom:
				op = "dom"
			case policy.CexprDomby:
				op = "domby"
			case policy.CexprIncomp:
				op = "incomp"
			default:
				return "", errors.Errorf("unknown constraint operator type: %d", expr.Op)
			}

			var attr1, attr2 string
			switch expr.Attr {
			case policy.CexprUser:
				attr1, attr2 = "u1", "u2"
			case policy.CexprUser | policy.CexprTarget:
				attr1, attr2 = "u2", ""
			case policy.CexprUser | policy.CexprXtarget:
				attr1, attr2 = "u3", ""
			case policy.CexprRole:
				attr1, attr2 = "r1", "r2"
			case policy.CexprRole | policy.CexprTarget:
				attr1, attr2 = "r2", ""
			case policy.CexprRole | policy.CexprXtarget:
				attr1, attr2 = "r3", ""
			case policy.CexprType:
				attr1, attr2 = "t1", ""
			case policy.CexprType | policy.CexprTarget:
				attr1, attr2 = "t2", ""
			case policy.CexprType | policy.CexprXtarget:
				attr1, attr2 = "t3", ""
			case policy.CexprL1L2:
				attr1, attr2 = "l1", "l2"
			case policy.CexprL1H2:
				attr1, attr2 = "l1", "h2"
			case policy.CexprH1L2:
				attr1, attr2 = "h1", "l2"
			case policy.CexprH1H2:
				attr1, attr2 = "h1", "h2"
			case policy.CexprL1H1:
				attr1, attr2 = "l1", "h1"
			case policy.CexprL2H2:
				attr1, attr2 = "l2", "h2"
			default:
				return "", errors.Errorf("unknown expression attribute type: %d", expr.Attr)
			}

			if expr.Type == policy.CexprAttr {
				stack = append(stack, fmt.Sprintf("(%s %s %s)", op, attr1, attr2))
				continue
			}

			var names []string
			var err error
			switch {
			case expr.Attr&policy.CexprType != 0:
				names, err = t.typesetToNames(indent, expr.TypeNames)
			case expr.Attr&policy.CexprUser != 0:
				names = bitmapToNames(t.pdb.ValToName[policy.SymUsers], expr.Names)
			case expr.Attr&policy.CexprRole != 0:
				names = bitmapToNames(t.pdb.ValToName[policy.SymRoles], expr.Names)
			}
			if err != nil {
				return "", err
			}

			stack = append(stack, fmt.Sprintf("(%s %s %s)", op, attr1, nameListToString(names)))
			continue
		}

		var op string
		switch expr.Type {
		case policy.CexprNot:
			op = "not"
		case policy.CexprAnd:
			op = "and"
		case policy.CexprOr:
			op = "or"
		default:
			return "", errors.Errorf("unknown constraint expression type: %d", expr.Type)
		}

		numParams := 2
		if expr.Type == policy.CexprNot {
			numParams = 1
		}

		if len(stack) < numParams {
			return "", errors.New("invalid constraint expression")
		}

		var val string
		if numParams == 1 {
			val1 := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			val = fmt.Sprintf("(%s %s)", op, val1)
		} else {
			val2 := stack[len(stack)-1]
			val1 := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			val = fmt.Sprintf("(%s %s %s)", op, val1, val2)
		}
		stack = append(stack, val)
	}

	if len(stack) != 1 {
		return "", errors.New("invalid constraint expression")
	}

	return stack[0], nil
}
