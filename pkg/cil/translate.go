package cil

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"

	"github.com/artyom-smirnov/selinux/pkg/policy"
)

const (
	defaultLevel  = "systemlow"
	defaultObject = "object_r"
)

// Options configures a translation.
type Options struct {
	// Log receives debug and warning records. Optional.
	Log *logrus.Entry

	// Warn receives the one-line warnings for constructs CIL cannot
	// express. Defaults to stderr.
	Warn func(format string, args ...interface{})

	// CompatAuditdeny emits the corrected "auditdeny" operator instead of
	// the historical "auditdenty" spelling.
	CompatAuditdeny bool
}

// Translator lowers one package to CIL. It holds the fixed module name and
// the emitter; the policy database itself is never mutated.
type Translator struct {
	pkg *policy.Package
	pdb *policy.PolicyDB
	e   *Emitter

	module          string
	log             *logrus.Entry
	warn            func(format string, args ...interface{})
	compatAuditdeny bool
}

// Translate lowers a decoded module package to CIL text on w.
func Translate(pkg *policy.Package, w io.Writer, opts Options) error {
	if pkg == nil || pkg.Policy == nil {
		return errors.New("no policy database in package")
	}

	pdb := pkg.Policy
	if pdb.Type != policy.PolicyBase && pdb.Type != policy.PolicyModule {
		return errors.New("policy package is not a base or module")
	}

	t := &Translator{
		pkg:             pkg,
		pdb:             pdb,
		e:               NewEmitter(w),
		module:          fixModuleName(pdb),
		log:             opts.Log,
		warn:            opts.Warn,
		compatAuditdeny: opts.CompatAuditdeny,
	}

	if err := t.run(); err != nil {
		return err
	}

	return t.e.Err()
}

func (t *Translator) run() error {
	if t.pdb.Type == policy.PolicyBase && !t.pdb.MLS {
		// a base non-mls policy needs a default level range that other
		// non-mls modules can use for contexts, since CIL requires all
		// contexts to have a range even when it is ignored
		t.generateDefaultLevel()
	}

	if t.pdb.Type == policy.PolicyBase {
		// object_r is implicit in checkmodule, but not with CIL, create it
		// as part of base
		t.generateDefaultObject()

		// handle_unknown and mls are used from only the base module
		if err := t.handleUnknownToCIL(); err != nil {
			return err
		}
		t.generateMLS()
	}

	if err := t.polcapsToCIL(); err != nil {
		return err
	}

	if err := t.ocontextsToCIL(); err != nil {
		return err
	}

	if err := t.genfsconToCIL(); err != nil {
		return err
	}

	if err := t.seusersToCIL(); err != nil {
		return err
	}

	if err := t.netfilterToCIL(); err != nil {
		return err
	}

	if err := t.userExtraToCIL(); err != nil {
		return err
	}

	if err := t.fileContextsToCIL(); err != nil {
		return err
	}

	// everything that is scoped
	return t.blocksToCIL()
}

func (t *Translator) warnf(format string, args ...interface{}) {
	if t.log != nil {
		t.log.Warnf(format, args...)
	}
	if t.warn != nil {
		t.warn(format, args...)
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// fixModuleName returns the pdb's name made safe for autogenerated CIL
// identifiers such as optionals and synthesized attributes. Base modules
// carry no name, so "base" stands in; anything outside [A-Za-z0-9]
// becomes an underscore, since CIL is stricter about names than
// checkmodule.
func fixModuleName(pdb *policy.PolicyDB) string {
	name := pdb.Name
	if pdb.Type == policy.PolicyBase {
		name = "base"
	}

	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, name)
}

func (t *Translator) handleUnknownToCIL() error {
	var hu string
	switch t.pdb.HandleUnknown {
	case policy.DenyUnknown:
		hu = "deny"
	case policy.RejectUnknown:
		hu = "reject"
	case policy.AllowUnknown:
		hu = "allow"
	default:
		return errors.Errorf("unknown value for handle-unknown: %d", t.pdb.HandleUnknown)
	}

	t.e.Println(0, "(handleunknown %s)", hu)

	return nil
}

func (t *Translator) generateMLS() {
	mls := "false"
	if t.pdb.MLS {
		mls = "true"
	}
	t.e.Println(0, "(mls %s)", mls)
}

func (t *Translator) generateDefaultLevel() {
	t.e.Println(0, "(sensitivity s0)")
	t.e.Println(0, "(sensitivityorder (s0))")
	t.e.Println(0, "(level %s (s0))", defaultLevel)
}

func (t *Translator) generateDefaultObject() {
	t.e.Println(0, "(role %s)", defaultObject)
}
