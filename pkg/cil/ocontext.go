package cil

import (
	"github.com/go-errors/errors"

	"github.com/artyom-smirnov/selinux/pkg/policy"
)

// Initial SID names are not stored in pp files; the mappings are fixed,
// taken from the linux and xen kernels.
var selinuxSIDNames = []string{
	"null",
	"kernel",
	"security",
	"unlabeled",
	"fs",
	"file",
	"file_labels",
	"init",
	"any_socket",
	"port",
	"netif",
	"netmsg",
	"node",
	"igmp_packet",
	"icmp_socket",
	"tcp_socket",
	"sysctl_modprobe",
	"sysctl",
	"sysctl_fs",
	"sysctl_kernel",
	"sysctl_net",
	"sysctl_net_unix",
	"sysctl_vm",
	"sysctl_dev",
	"kmod",
	"policy",
	"scmp_packet",
	"devnull",
}

var xenSIDNames = []string{
	"null",
	"xen",
	"dom0",
	"domio",
	"domxen",
	"unlabeled",
	"security",
	"ioport",
	"iomem",
	"irq",
	"device",
}

// levelToCIL writes a concrete MLS level.
func (t *Translator) levelToCIL(level *policy.MLSLevel) {
	t.e.Printf("(%s", t.pdb.ValToName[policy.SymLevels][level.Sens-1])

	if !level.Cats.IsEmpty() {
		t.e.Printf("(")
		t.bitmapToCIL(level.Cats, policy.SymCats)
		t.e.Printf(")")
	}

	t.e.Printf(")")
}

// contextToCIL writes a full security context. Non-MLS policies still need
// a range in CIL, so systemlow stands in for both ends.
func (t *Translator) contextToCIL(con *policy.Context) {
	t.e.Printf("(%s %s %s (",
		t.pdb.ValToName[policy.SymUsers][con.User-1],
		t.pdb.ValToName[policy.SymRoles][con.Role-1],
		t.pdb.ValToName[policy.SymTypes][con.Type-1])

	if t.pdb.MLS {
		t.levelToCIL(&con.Range.Low)
		t.e.Printf(" ")
		t.levelToCIL(&con.Range.High)
	} else {
		t.e.Printf("%s %s", defaultLevel, defaultLevel)
	}

	t.e.Printf("))")
}

// isidsToCIL writes sid and sidcontext forms, then a sidorder listing the
// names in reverse of the input order.
func (t *Translator) isidsToCIL(sidNames []string, isids []*policy.InitialSID) error {
	var order []string

	for _, isid := range isids {
		if int(isid.SID) >= len(sidNames) {
			return errors.Errorf("unknown initial sid: %d", isid.SID)
		}
		name := sidNames[isid.SID]
		t.e.Println(0, "(sid %s)", name)
		t.e.Printf("(sidcontext %s ", name)
		t.contextToCIL(&isid.Context)
		t.e.Printf(")\n")

		order = append([]string{name}, order...)
	}

	if len(order) > 0 {
		t.e.Printf("(sidorder (")
		for _, name := range order {
			t.e.Printf("%s ", name)
		}
		t.e.Printf("))\n")
	}

	return nil
}

func (t *Translator) fsToCIL(fss []*policy.FSContext) error {
	if len(fss) > 0 {
		t.warnf("Warning: 'fscon' statement unsupported in CIL. Dropping from output.")
	}
	return nil
}

func (t *Translator) portsToCIL(ports []*policy.PortContext) error {
	for _, port := range ports {
		var protocol string
		switch port.Protocol {
		case policy.ProtoTCP:
			protocol = "tcp"
		case policy.ProtoUDP:
			protocol = "udp"
		default:
			return errors.Errorf("unknown portcon protocol: %d", port.Protocol)
		}

		if port.Low == port.High {
			t.e.Printf("(portcon %s %d ", protocol, port.Low)
		} else {
			t.e.Printf("(portcon %s (%d %d) ", protocol, port.Low, port.High)
		}

		t.contextToCIL(&port.Context)
		t.e.Printf(")\n")
	}

	return nil
}

func (t *Translator) netifsToCIL(netifs []*policy.NetifContext) error {
	for _, netif := range netifs {
		t.e.Printf("(netifcon %s ", netif.Name)
		t.contextToCIL(&netif.IfContext)
		t.e.Printf(" ")
		t.contextToCIL(&netif.MsgContext)
		t.e.Printf(")\n")
	}

	return nil
}

func (t *Translator) nodesToCIL(nodes []*policy.NodeContext) error {
	for _, node := range nodes {
		addr := node.Addr.To4()
		mask := node.Mask.To4()
		if addr == nil || mask == nil {
			return errors.New("nodecon address is invalid")
		}

		t.e.Printf("(nodecon %s %s ", addr.String(), mask.String())
		t.contextToCIL(&node.Context)
		t.e.Printf(")\n")
	}

	return nil
}

func (t *Translator) nodes6ToCIL(nodes []*policy.Node6Context) error {
	for _, node := range nodes {
		if node.Addr.To16() == nil || node.Mask.To16() == nil {
			return errors.New("nodecon address is invalid")
		}

		t.e.Printf("(nodecon %s %s ", node.Addr.String(), node.Mask.String())
		t.contextToCIL(&node.Context)
		t.e.Printf(")\n")
	}

	return nil
}

func (t *Translator) fsusesToCIL(fsuses []*policy.FSUseContext) error {
	for _, fsuse := range fsuses {
		var behavior string
		switch fsuse.Behavior {
		case policy.FSUseXattr:
			behavior = "xattr"
		case policy.FSUseTrans:
			behavior = "trans"
		case policy.FSUseTask:
			behavior = "task"
		default:
			return errors.Errorf("unknown fsuse behavior: %d", fsuse.Behavior)
		}

		t.e.Printf("(fsuse %s %s ", behavior, fsuse.Name)
		t.contextToCIL(&fsuse.Context)
		t.e.Printf(")\n")
	}

	return nil
}

func (t *Translator) pirqsToCIL(pirqs []*policy.PirqContext) error {
	for _, pirq := range pirqs {
		t.e.Printf("(pirqcon %d ", pirq.Pirq)
		t.contextToCIL(&pirq.Context)
		t.e.Printf(")\n")
	}

	return nil
}

func (t *Translator) ioportsToCIL(ioports []*policy.IoportContext) error {
	for _, ioport := range ioports {
		if ioport.Low == ioport.High {
			t.e.Printf("(ioportcon %d ", ioport.Low)
		} else {
			t.e.Printf("(ioportcon (%d %d) ", ioport.Low, ioport.High)
		}

		t.contextToCIL(&ioport.Context)
		t.e.Printf(")\n")
	}

	return nil
}

func (t *Translator) iomemsToCIL(iomems []*policy.IomemContext) error {
	for _, iomem := range iomems {
		if iomem.Low == iomem.High {
			t.e.Printf("(iomemcon %#X ", iomem.Low)
		} else {
			t.e.Printf("(iomemcon (%#X %#X) ", iomem.Low, iomem.High)
		}

		t.contextToCIL(&iomem.Context)
		t.e.Printf(")\n")
	}

	return nil
}

func (t *Translator) pcidevicesToCIL(pcids []*policy.PCIDeviceContext) error {
	for _, pcid := range pcids {
		t.e.Printf("(pcidevicecon %#x ", pcid.Device)
		t.contextToCIL(&pcid.Context)
		t.e.Printf(")\n")
	}

	return nil
}

// ocontextsToCIL dispatches object-context emission on the target
// platform, walking the per-kind lists in the fixed kind order.
func (t *Translator) ocontextsToCIL() error {
	switch t.pdb.Platform {
	case policy.PlatformSELinux:
		converters := []func() error{
			func() error { return t.isidsToCIL(selinuxSIDNames, t.pdb.InitialSIDs) },
			func() error { return t.fsToCIL(t.pdb.FSContexts) },
			func() error { return t.portsToCIL(t.pdb.Ports) },
			func() error { return t.netifsToCIL(t.pdb.Netifs) },
			func() error { return t.nodesToCIL(t.pdb.Nodes) },
			func() error { return t.fsusesToCIL(t.pdb.FSUses) },
			func() error { return t.nodes6ToCIL(t.pdb.Nodes6) },
		}
		for _, convert := range converters {
			if err := convert(); err != nil {
				return err
			}
		}

	case policy.PlatformXen:
		converters := []func() error{
			func() error { return t.isidsToCIL(xenSIDNames, t.pdb.InitialSIDs) },
			func() error { return t.pirqsToCIL(t.pdb.Pirqs) },
			func() error { return t.ioportsToCIL(t.pdb.Ioports) },
			func() error { return t.iomemsToCIL(t.pdb.Iomems) },
			func() error { return t.pcidevicesToCIL(t.pdb.PCIDevices) },
		}
		for _, convert := range converters {
			if err := convert(); err != nil {
				return err
			}
		}

	default:
		return errors.Errorf("unknown target platform: %d", t.pdb.Platform)
	}

	return nil
}

// genfsconToCIL writes one genfscon form per labeled path.
func (t *Translator) genfsconToCIL() error {
	for _, genfs := range t.pdb.Genfs {
		for _, entry := range genfs.Entries {
			t.e.Printf("(genfscon %s %s ", genfs.FSType, entry.Path)
			t.contextToCIL(&entry.Context)
			t.e.Printf(")\n")
		}
	}

	return nil
}
