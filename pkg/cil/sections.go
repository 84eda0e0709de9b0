package cil

import (
	"strings"

	"github.com/go-errors/errors"

	"github.com/artyom-smirnov/selinux/pkg/utils"
)

// The text sections bundled in a package keep their legacy colon/space
// delimited grammars. The historical converter leaned on sscanf; these are
// small hand-written tokenizers for the same grammars.

// levelStringToCIL writes a textual level. A bare sensitivity stays bare;
// categories wrap the level in parens, with c1.c2 spans becoming range
// forms.
func (t *Translator) levelStringToCIL(levelstr string) error {
	sens, cats, found := strings.Cut(levelstr, ":")
	if sens == "" {
		return errors.Errorf("invalid level: %s", levelstr)
	}

	if !found {
		t.e.Printf("%s", sens)
		return nil
	}
	if cats == "" {
		return errors.Errorf("invalid level: %s", levelstr)
	}

	t.e.Printf("(%s (", sens)
	for i, token := range strings.Split(cats, ",") {
		if i > 0 {
			t.e.Printf(" ")
		}
		low, high, ranged := strings.Cut(token, ".")
		if ranged {
			t.e.Printf("(range %s %s)", low, high)
		} else {
			t.e.Printf("%s", token)
		}
	}
	t.e.Printf("))")

	return nil
}

// levelRangeStringToCIL writes a textual LOW[-HIGH] range as two levels. A
// single level stands for both ends.
func (t *Translator) levelRangeStringToCIL(rangestr string) error {
	low, high, found := strings.Cut(rangestr, "-")
	if !found {
		high = low
	}

	if err := t.levelStringToCIL(low); err != nil {
		return err
	}
	t.e.Printf(" ")
	return t.levelStringToCIL(high)
}

// contextStringToCIL writes a textual user:role:type[:range] context.
func (t *Translator) contextStringToCIL(contextstr string) error {
	parts := strings.SplitN(contextstr, ":", 4)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return errors.Errorf("invalid context: %s", contextstr)
	}

	t.e.Printf("(%s %s %s (", parts[0], parts[1], parts[2])

	if len(parts) == 3 {
		t.e.Printf("%s %s", defaultLevel, defaultLevel)
	} else {
		if err := t.levelRangeStringToCIL(parts[3]); err != nil {
			return err
		}
	}

	t.e.Printf("))")

	return nil
}

// seusersToCIL re-emits the seusers section: user:seuser[:levelrange]
// records become selinuxuser forms, the __default__ record a
// selinuxuserdefault.
func (t *Translator) seusersToCIL() error {
	if len(t.pkg.SeUsers) == 0 {
		return nil
	}

	for _, line := range utils.SplitLines(string(t.pkg.SeUsers)) {
		buf := strings.TrimSpace(line)
		if buf == "" || buf[0] == '#' {
			continue
		}

		parts := strings.SplitN(buf, ":", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return errors.Errorf("invalid seuser line: %s", line)
		}

		user := parts[0]
		seuser := parts[1]

		if user == "__default__" {
			t.e.Printf("(selinuxuserdefault %s (", seuser)
		} else {
			t.e.Printf("(selinuxuser %s %s (", user, seuser)
		}

		if len(parts) == 2 {
			t.e.Printf("%s %s", defaultLevel, defaultLevel)
		} else {
			if err := t.levelRangeStringToCIL(parts[2]); err != nil {
				return err
			}
		}

		t.e.Printf("))\n")
	}

	return nil
}

// netfilterToCIL drops a non-empty netfilter-contexts section with a
// warning; CIL has no equivalent statement.
func (t *Translator) netfilterToCIL() error {
	if len(t.pkg.NetfilterContexts) > 0 {
		t.warnf("Warning: netfilter_contexts are unsupported in CIL. Dropping from output.")
	}

	return nil
}

// userExtraToCIL re-emits "user NAME prefix PREFIX;" records as userprefix
// forms. A malformed line is fatal.
func (t *Translator) userExtraToCIL() error {
	if len(t.pkg.UserExtra) == 0 {
		return nil
	}

	for _, line := range utils.SplitLines(string(t.pkg.UserExtra)) {
		rest, hasUser := strings.CutPrefix(line, "user ")
		if !hasUser {
			return errors.Errorf("invalid user_extra line: %s", line)
		}

		user, rest, hasPrefix := strings.Cut(strings.TrimLeft(rest, " "), " ")
		if !hasPrefix || user == "" {
			return errors.Errorf("invalid user_extra line: %s", line)
		}

		rest, hasKeyword := strings.CutPrefix(strings.TrimLeft(rest, " "), "prefix ")
		if !hasKeyword {
			return errors.Errorf("invalid user_extra line: %s", line)
		}

		prefix, _, terminated := strings.Cut(strings.TrimLeft(rest, " "), ";")
		if !terminated || prefix == "" {
			return errors.Errorf("invalid user_extra line: %s", line)
		}

		t.e.Println(0, "(userprefix %s %s)", user, prefix)
	}

	return nil
}

// fcModes maps the legacy file-mode tokens to CIL file types.
var fcModes = map[string]string{
	"--": "file",
	"-d": "dir",
	"-c": "char",
	"-b": "block",
	"-s": "socket",
	"-p": "pipe",
	"-l": "symlink",
}

// fileContextsToCIL re-emits the file_contexts section as filecon forms.
// Records are REGEX [MODE] CONTEXT; a <<none>> context becomes an empty
// context list.
func (t *Translator) fileContextsToCIL() error {
	if len(t.pkg.FileContexts) == 0 {
		return nil
	}

	for _, line := range utils.SplitLines(string(t.pkg.FileContexts)) {
		buf := strings.TrimSpace(line)
		if buf == "" || buf[0] == '#' {
			continue
		}

		fields := strings.Fields(buf)
		if len(fields) < 2 || len(fields) > 3 {
			return errors.Errorf("invalid file context line: %s", line)
		}

		regex := fields[0]
		cilmode := "any"
		context := fields[len(fields)-1]

		if len(fields) == 3 {
			mode, ok := fcModes[fields[1]]
			if !ok {
				return errors.Errorf("invalid file context line: %s", line)
			}
			cilmode = mode
		}

		t.e.Printf("(filecon \"%s\" \"\" %s ", regex, cilmode)

		if context == "<<none>>" {
			t.e.Printf("()")
		} else {
			if err := t.contextStringToCIL(context); err != nil {
				return err
			}
		}

		t.e.Printf(")\n")
	}

	return nil
}
