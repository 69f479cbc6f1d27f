package driver

import (
	"fmt"

	"github.com/cn-pmlabs/gosai/lib/log"
	"github.com/cn-pmlabs/gosai/sai"

	"github.com/vishvananda/netlink"
)

type netdevDriver struct {
	DriverName string
}

var netdevDriverHandler = netdevDriver{
	DriverName: "netdev",
}

// Init register the netdev channel driver
func Init() error {
	if _, err := netlink.LinkList(); err != nil {
		return fmt.Errorf("netlink unavailable: %v", err)
	}
	sai.RegisterChannelProvisioner(netdevDriverHandler.DriverName, &netdevDriverHandler)
	return nil
}

// CreateChannel provision the kernel side of a host interface. Netdev
// channels get a dummy link brought up under the interface name, genetlink
// channels bind an existing family by name so there is nothing to create.
func (d *netdevDriver) CreateChannel(hostifType int32, name string, backing sai.ObjectID) error {
	switch hostifType {
	case sai.HostifTypeNetdev:
		log.Info("[Driver] create netdev %s for obj %v\n", name, backing)

		la := netlink.NewLinkAttrs()
		la.Name = name
		link := &netlink.Dummy{LinkAttrs: la}
		if err := netlink.LinkAdd(link); err != nil {
			return fmt.Errorf("create netdev %s: %v", name, err)
		}
		if err := netlink.LinkSetUp(link); err != nil {
			_ = netlink.LinkDel(link)
			return fmt.Errorf("bring up netdev %s: %v", name, err)
		}
	case sai.HostifTypeGenetlink:
		log.Info("[Driver] bind genetlink family %s\n", name)

		if _, err := netlink.GenlFamilyGet(name); err != nil {
			return fmt.Errorf("genetlink family %s: %v", name, err)
		}
	default:
		return fmt.Errorf("unsupported channel type %v", hostifType)
	}

	return nil
}

// DestroyChannel tear down what CreateChannel set up
func (d *netdevDriver) DestroyChannel(hostifType int32, name string) error {
	if hostifType != sai.HostifTypeNetdev {
		return nil
	}

	log.Info("[Driver] remove netdev %s\n", name)

	link, err := netlink.LinkByName(name)
	if err != nil {
		return fmt.Errorf("netdev %s not found: %v", name, err)
	}
	if err := netlink.LinkDel(link); err != nil {
		return fmt.Errorf("remove netdev %s: %v", name, err)
	}

	return nil
}
