package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	driver "github.com/cn-pmlabs/gosai/driver/netdev"
	gosai "github.com/cn-pmlabs/gosai/go_sai"
	"github.com/cn-pmlabs/gosai/lib/log"
	"github.com/cn-pmlabs/gosai/lib/metrics"
	odbc "github.com/cn-pmlabs/gosai/lib/ovsdb_client"
	"github.com/cn-pmlabs/gosai/sai"
)

var (
	version string = "0.0.0"
	help    bool   = false

	extensionFile string = ""
	metricsAddr   string = ""
)

func usage() {
	fmt.Fprintf(os.Stderr, `controller %s
Usage: controller [-h] [-c saidbAddr] [-e extensionFile] [-m metricsAddr]

Options:
`, version)
	flag.PrintDefaults()
}

func init() {
	flag.StringVar(&odbc.SaidbAddr, "c", odbc.SaidbAddr, "sai config database address")
	flag.StringVar(&extensionFile, "e", extensionFile, "custom attribute extension file")
	flag.StringVar(&metricsAddr, "m", metricsAddr, "metrics listening address")
	flag.BoolVar(&help, "h", false, "display this help message")
	flag.Usage = usage
}

// switchInit create the switch scope object and its default trap group
func switchInit() (sai.ObjectID, error) {
	switchID, status := sai.CreateObject(sai.ObjectTypeSwitch, sai.NullObjectID, nil)
	if status != sai.StatusSuccess {
		return sai.NullObjectID, fmt.Errorf("create switch: %v", status)
	}

	groupID, status := sai.CreateObject(sai.ObjectTypeHostifTrapGroup, switchID, nil)
	if status != sai.StatusSuccess {
		return sai.NullObjectID, fmt.Errorf("create default trap group: %v", status)
	}

	attr := sai.Attr{ID: sai.SwitchAttrDefaultTrapGroup, Value: sai.OidValue(groupID)}
	if status := sai.SetObjectAttr(switchID, attr); status != sai.StatusSuccess {
		return sai.NullObjectID, fmt.Errorf("set default trap group: %v", status)
	}

	return switchID, nil
}

func main() {
	flag.Parse()
	if help {
		flag.Usage()
		os.Exit(0)
	}

	// Custom attribute extensions must land before any object is created
	if extensionFile != "" {
		if err := sai.LoadExtensionFile(extensionFile); err != nil {
			log.Error("Load extension file %s failed: %v\n", extensionFile, err)
			os.Exit(1)
		}
	}

	switchID, err := switchInit()
	if err != nil {
		log.Error("Switch init failed: %v\n", err)
		os.Exit(1)
	}
	gosai.SwitchID = switchID

	// Channel driver init, hostifs still validate without it
	if err := driver.Init(); err != nil {
		log.Warning("Netdev driver init failed: %v\n", err)
	}

	// Start SAIDB connection and update Notifier
	gosai.NewSaiDbClient()

	if metricsAddr != "" {
		go metrics.Serve(metricsAddr)
	}

	// mainloop, do nothing for now
	for {
		time.Sleep(10 * time.Second)
	}
}
