package policy

import "net"

// Port protocols, as IP protocol numbers.
const (
	ProtoTCP uint8 = 6
	ProtoUDP uint8 = 17
)

// fs_use labeling behaviors.
const (
	FSUseXattr = 1
	FSUseTrans = 2
	FSUseTask  = 3
)

// InitialSID labels a numbered security identifier. The name is not stored
// in the package; it comes from the platform's hardcoded table.
type InitialSID struct {
	SID     uint32
	Context Context
}

// FSContext is a legacy fscon entry. CIL cannot express these; they are
// dropped with a warning.
type FSContext struct {
	Name    string
	Context [2]Context
}

// PortContext labels a port range of one protocol.
type PortContext struct {
	Protocol uint8
	Low      uint16
	High     uint16
	Context  Context
}

// NetifContext labels a network interface and its packets.
type NetifContext struct {
	Name       string
	IfContext  Context
	MsgContext Context
}

// NodeContext labels an IPv4 network node.
type NodeContext struct {
	Addr    net.IP
	Mask    net.IP
	Context Context
}

// Node6Context labels an IPv6 network node.
type Node6Context struct {
	Addr    net.IP
	Mask    net.IP
	Context Context
}

// FSUseContext sets the labeling behavior of a filesystem type.
type FSUseContext struct {
	Behavior int
	Name     string
	Context  Context
}

// PirqContext labels a Xen physical IRQ.
type PirqContext struct {
	Pirq    uint32
	Context Context
}

// IoportContext labels a Xen I/O port range.
type IoportContext struct {
	Low     uint32
	High    uint32
	Context Context
}

// IomemContext labels a Xen memory-mapped I/O range.
type IomemContext struct {
	Low     uint64
	High    uint64
	Context Context
}

// PCIDeviceContext labels a Xen PCI device.
type PCIDeviceContext struct {
	Device  uint32
	Context Context
}

// GenfsEntry labels one path of a genfs filesystem.
type GenfsEntry struct {
	Path    string
	Context Context
}

// Genfs labels paths of a filesystem without xattr support.
type Genfs struct {
	FSType  string
	Entries []*GenfsEntry
}
