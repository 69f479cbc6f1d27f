package gosai

import (
	"github.com/ebay/libovsdb"
)

type saidbNotifier struct {
	sdbi *ovsdbc
}

func (notify saidbNotifier) Update(context interface{}, updates libovsdb.TableUpdates) {
	notify.sdbi.saiNotifyUpdate(updates)
}

func (notify saidbNotifier) Locked([]interface{}) {
}
func (notify saidbNotifier) Stolen([]interface{}) {
}
func (notify saidbNotifier) Echo([]interface{}) {
}
func (notify saidbNotifier) Disconnected(client *libovsdb.OvsdbClient) {
	notify.sdbi.reConnect()
}
