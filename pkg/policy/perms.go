package policy

import (
	"sort"

	"github.com/go-errors/errors"
)

// ClassByValue resolves a class datum from its 1-based value.
func (p *PolicyDB) ClassByValue(val uint32) (*Class, error) {
	if val == 0 || int(val) > len(p.ValToName[SymClasses]) {
		return nil, errors.Errorf("invalid class value: %d", val)
	}
	name := p.ValToName[SymClasses][val-1]
	class, ok := p.Classes[name]
	if !ok {
		return nil, errors.Errorf("unknown class: %s", name)
	}
	return class, nil
}

// AvToPerms expands an access-vector permission mask for a class into
// permission names, in ascending value order. Permission values index the
// class's own table and its inherited common's.
func (p *PolicyDB) AvToPerms(classVal uint32, av uint32) ([]string, error) {
	class, err := p.ClassByValue(classVal)
	if err != nil {
		return nil, err
	}

	byValue := map[uint32]string{}
	if class.Common != nil {
		for name, val := range class.Common.Permissions {
			byValue[val] = name
		}
	}
	for name, val := range class.Permissions {
		byValue[val] = name
	}

	var perms []string
	for bit := 0; bit < 32; bit++ {
		if av&(1<<uint(bit)) == 0 {
			continue
		}
		name, ok := byValue[uint32(bit+1)]
		if !ok {
			return nil, errors.Errorf("unknown permission value %d in class %s", bit+1, p.ValToName[SymClasses][classVal-1])
		}
		perms = append(perms, name)
	}

	return perms, nil
}

// PermsInOrder returns a permission table's names sorted by value.
func PermsInOrder(perms map[string]uint32) []string {
	names := make([]string, 0, len(perms))
	for name := range perms {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return perms[names[i]] < perms[names[j]]
	})
	return names
}
