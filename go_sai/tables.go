package gosai

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/cn-pmlabs/gosai/lib/log"
	odbc "github.com/cn-pmlabs/gosai/lib/ovsdb_client"
	"github.com/cn-pmlabs/gosai/sai"

	"github.com/ebay/libovsdb"
)

// rowBind maps config DB row uuids onto engine object ids, filled as rows
// are replayed in reference order
var rowBind = struct {
	sync.Mutex
	objs map[string]sai.ObjectID
}{objs: make(map[string]sai.ObjectID)}

func bindRow(uuid string, id sai.ObjectID) {
	rowBind.Lock()
	defer rowBind.Unlock()
	rowBind.objs[uuid] = id
}

func unbindRow(uuid string) {
	rowBind.Lock()
	defer rowBind.Unlock()
	delete(rowBind.objs, uuid)
}

func boundObj(uuid string) (sai.ObjectID, bool) {
	rowBind.Lock()
	defer rowBind.Unlock()
	id, ok := rowBind.objs[uuid]
	return id, ok
}

var saidbObjType = map[string]sai.ObjectType{
	odbc.SAI_Port:               sai.ObjectTypePort,
	odbc.SAI_Lag:                sai.ObjectTypeLag,
	odbc.SAI_Vlan:               sai.ObjectTypeVlan,
	odbc.SAI_Virtual_Router:     sai.ObjectTypeVirtualRouter,
	odbc.SAI_Policer:            sai.ObjectTypePolicer,
	odbc.SAI_Hostif_Trap_Group:  sai.ObjectTypeHostifTrapGroup,
	odbc.SAI_Hostif_Trap:        sai.ObjectTypeHostifTrap,
	odbc.SAI_Hostif_User_Trap:   sai.ObjectTypeHostifUserDefinedTrap,
	odbc.SAI_Host_Interface:     sai.ObjectTypeHostif,
	odbc.SAI_Hostif_Table_Entry: sai.ObjectTypeHostifTableEntry,
	odbc.SAI_Router_Interface:   sai.ObjectTypeRouterInterface,
}

// rows of these tables stand for objects owned elsewhere, the engine only
// tracks their identity for reference checks
var saidbExternalTable = map[string]bool{
	odbc.SAI_Port:           true,
	odbc.SAI_Lag:            true,
	odbc.SAI_Vlan:           true,
	odbc.SAI_Virtual_Router: true,
	odbc.SAI_Policer:        true,
}

// enum column spellings
var hostifTypeNames = map[string]int32{
	"netdev":    sai.HostifTypeNetdev,
	"fd":        sai.HostifTypeFd,
	"genetlink": sai.HostifTypeGenetlink,
}

var packetActionNames = map[string]int32{
	"drop":        sai.PacketActionDrop,
	"forward":     sai.PacketActionForward,
	"copy":        sai.PacketActionCopy,
	"copy_cancel": sai.PacketActionCopyCancel,
	"trap":        sai.PacketActionTrap,
	"log":         sai.PacketActionLog,
}

var trapTypeNames = map[string]int32{
	"lldp":                        sai.TrapTypeLldp,
	"arp_request":                 sai.TrapTypeArpRequest,
	"arp_response":                sai.TrapTypeArpResponse,
	"ipv6_neighbor_discovery":     sai.TrapTypeIPv6NeighborDiscovery,
	"ipv6_neighbor_solicitation":  sai.TrapTypeIPv6NeighborSolicitation,
	"ipv6_neighbor_advertisement": sai.TrapTypeIPv6NeighborAdvertisement,
	"ip2me":                       sai.TrapTypeIP2Me,
	"bgp":                         sai.TrapTypeBgp,
	"bgpv6":                       sai.TrapTypeBgpv6,
}

var tableEntryTypeNames = map[string]int32{
	"port":     sai.TableEntryTypePort,
	"lag":      sai.TableEntryTypeLag,
	"vlan":     sai.TableEntryTypeVlan,
	"trap_id":  sai.TableEntryTypeTrapID,
	"wildcard": sai.TableEntryTypeWildcard,
}

var channelTypeNames = map[string]int32{
	"cb":                   sai.ChannelTypeCb,
	"fd":                   sai.ChannelTypeFd,
	"netdev_physical_port": sai.ChannelTypeNetdevPhysicalPort,
	"netdev_logical_port":  sai.ChannelTypeNetdevLogicalPort,
	"netdev_l3":            sai.ChannelTypeNetdevL3,
	"genetlink":            sai.ChannelTypeGenetlink,
}

var rifTypeNames = map[string]int32{
	"port":        sai.RouterInterfaceTypePort,
	"vlan":        sai.RouterInterfaceTypeVlan,
	"loopback":    sai.RouterInterfaceTypeLoopback,
	"mpls_router": sai.RouterInterfaceTypeMplsRouter,
	"sub_port":    sai.RouterInterfaceTypeSubPort,
	"bridge":      sai.RouterInterfaceTypeBridge,
	"qinq_port":   sai.RouterInterfaceTypeQinqPort,
}

// fieldString get a string column, empty optional columns come as OvsSet
func fieldString(row libovsdb.Row, field string) (string, bool) {
	value, ok := row.Fields[field]
	if !ok {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, true
	case libovsdb.OvsSet:
		if len(v.GoSet) == 1 {
			if s, ok := v.GoSet[0].(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

func fieldInt(row libovsdb.Row, field string) (int, bool) {
	value, ok := row.Fields[field]
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case libovsdb.OvsSet:
		if len(v.GoSet) == 1 {
			switch n := v.GoSet[0].(type) {
			case int:
				return n, true
			case float64:
				return int(n), true
			}
		}
	}
	return 0, false
}

func fieldBool(row libovsdb.Row, field string) (bool, bool) {
	value, ok := row.Fields[field]
	if !ok {
		return false, false
	}
	switch v := value.(type) {
	case bool:
		return v, true
	case libovsdb.OvsSet:
		if len(v.GoSet) == 1 {
			if b, ok := v.GoSet[0].(bool); ok {
				return b, true
			}
		}
	}
	return false, false
}

func fieldUUID(row libovsdb.Row, field string) (string, bool) {
	value, ok := row.Fields[field]
	if !ok {
		return "", false
	}
	switch v := value.(type) {
	case libovsdb.UUID:
		return v.GoUUID, true
	case libovsdb.OvsSet:
		if len(v.GoSet) == 1 {
			if u, ok := v.GoSet[0].(libovsdb.UUID); ok {
				return u.GoUUID, true
			}
		}
	}
	return "", false
}

// fieldOid resolve a reference column to the engine id of the row it names
func fieldOid(row libovsdb.Row, field string) (sai.ObjectID, bool, error) {
	uuid, ok := fieldUUID(row, field)
	if !ok {
		return sai.NullObjectID, false, nil
	}
	id, ok := boundObj(uuid)
	if !ok {
		return sai.NullObjectID, false, fmt.Errorf("%s ref %s not bound", field, uuid)
	}
	return id, true, nil
}

func fieldEnum(row libovsdb.Row, field string, names map[string]int32) (int32, bool, error) {
	s, ok := fieldString(row, field)
	if !ok {
		return 0, false, nil
	}
	v, ok := names[s]
	if !ok {
		return 0, false, fmt.Errorf("%s unknown value %q", field, s)
	}
	return v, true, nil
}

func rowToTrapGroupAttrs(row libovsdb.Row) (sai.AttrList, error) {
	var attrs sai.AttrList

	if admin, ok := fieldBool(row, "admin_state"); ok {
		attrs = append(attrs, sai.Attr{ID: sai.TrapGroupAttrAdminState, Value: sai.BoolValue(admin)})
	}
	if queue, ok := fieldInt(row, "queue"); ok {
		attrs = append(attrs, sai.Attr{ID: sai.TrapGroupAttrQueue, Value: sai.U32Value(uint32(queue))})
	}
	policer, ok, err := fieldOid(row, "policer")
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.TrapGroupAttrPolicer, Value: sai.OidValue(policer)})
	}

	return attrs, nil
}

func rowToTrapAttrs(row libovsdb.Row) (sai.AttrList, error) {
	var attrs sai.AttrList

	trapType, ok, err := fieldEnum(row, "trap_type", trapTypeNames)
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.TrapAttrTrapType, Value: sai.S32Value(trapType)})
	}
	action, ok, err := fieldEnum(row, "packet_action", packetActionNames)
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.TrapAttrPacketAction, Value: sai.S32Value(action)})
	}
	if prio, ok := fieldInt(row, "trap_priority"); ok {
		attrs = append(attrs, sai.Attr{ID: sai.TrapAttrTrapPriority, Value: sai.U32Value(uint32(prio))})
	}
	group, ok, err := fieldOid(row, "trap_group")
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.TrapAttrTrapGroup, Value: sai.OidValue(group)})
	}

	return attrs, nil
}

func rowToUserTrapAttrs(row libovsdb.Row) (sai.AttrList, error) {
	var attrs sai.AttrList

	if trapType, ok := fieldInt(row, "trap_type"); ok {
		attrs = append(attrs, sai.Attr{ID: sai.UserTrapAttrTrapType, Value: sai.S32Value(int32(trapType))})
	}
	group, ok, err := fieldOid(row, "trap_group")
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.UserTrapAttrTrapGroup, Value: sai.OidValue(group)})
	}
	if prio, ok := fieldInt(row, "trap_priority"); ok {
		attrs = append(attrs, sai.Attr{ID: sai.UserTrapAttrTrapPriority, Value: sai.U32Value(uint32(prio))})
	}

	return attrs, nil
}

func rowToHostifAttrs(row libovsdb.Row) (sai.AttrList, error) {
	var attrs sai.AttrList

	hostifType, ok, err := fieldEnum(row, "type", hostifTypeNames)
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.HostifAttrType, Value: sai.S32Value(hostifType)})
	}
	obj, ok, err := fieldOid(row, "obj_id")
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.HostifAttrObjID, Value: sai.OidValue(obj)})
	}
	if name, ok := fieldString(row, "name"); ok && name != "" {
		attrs = append(attrs, sai.Attr{ID: sai.HostifAttrName, Value: sai.StrValue(name)})
	}
	if oper, ok := fieldBool(row, "oper_status"); ok {
		attrs = append(attrs, sai.Attr{ID: sai.HostifAttrOperStatus, Value: sai.BoolValue(oper)})
	}

	return attrs, nil
}

func rowToTableEntryAttrs(row libovsdb.Row) (sai.AttrList, error) {
	var attrs sai.AttrList

	entryType, ok, err := fieldEnum(row, "type", tableEntryTypeNames)
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.TableEntryAttrType, Value: sai.S32Value(entryType)})
	}
	obj, ok, err := fieldOid(row, "obj_id")
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.TableEntryAttrObjID, Value: sai.OidValue(obj)})
	}
	trap, ok, err := fieldOid(row, "trap_id")
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.TableEntryAttrTrapID, Value: sai.OidValue(trap)})
	}
	channel, ok, err := fieldEnum(row, "channel_type", channelTypeNames)
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.TableEntryAttrChannelType, Value: sai.S32Value(channel)})
	}
	hostif, ok, err := fieldOid(row, "host_if")
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.TableEntryAttrHostIf, Value: sai.OidValue(hostif)})
	}

	return attrs, nil
}

func rowToRouterInterfaceAttrs(row libovsdb.Row) (sai.AttrList, error) {
	var attrs sai.AttrList

	vr, ok, err := fieldOid(row, "virtual_router")
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.RouterInterfaceAttrVirtualRouter, Value: sai.OidValue(vr)})
	}
	rifType, ok, err := fieldEnum(row, "type", rifTypeNames)
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.RouterInterfaceAttrType, Value: sai.S32Value(rifType)})
	}
	port, ok, err := fieldOid(row, "port_id")
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.RouterInterfaceAttrPortID, Value: sai.OidValue(port)})
	}
	vlan, ok, err := fieldOid(row, "vlan_id")
	if err != nil {
		return nil, err
	}
	if ok {
		attrs = append(attrs, sai.Attr{ID: sai.RouterInterfaceAttrVlanID, Value: sai.OidValue(vlan)})
	}

	return attrs, nil
}

func rowToObjAttrs(table string, row libovsdb.Row) (sai.AttrList, error) {
	switch table {
	case odbc.SAI_Hostif_Trap_Group:
		return rowToTrapGroupAttrs(row)
	case odbc.SAI_Hostif_Trap:
		return rowToTrapAttrs(row)
	case odbc.SAI_Hostif_User_Trap:
		return rowToUserTrapAttrs(row)
	case odbc.SAI_Host_Interface:
		return rowToHostifAttrs(row)
	case odbc.SAI_Hostif_Table_Entry:
		return rowToTableEntryAttrs(row)
	case odbc.SAI_Router_Interface:
		return rowToRouterInterfaceAttrs(row)
	}
	return nil, fmt.Errorf("undefined sai table %s", table)
}

func saidbCreateObj(table string, uuid string, row libovsdb.Row) {
	objType, ok := saidbObjType[table]
	if !ok {
		return
	}

	if saidbExternalTable[table] {
		id, status := sai.CreateExternalObject(objType)
		if status != sai.StatusSuccess {
			log.Warning("[GoSAI] create %s %s failed: %v\n", table, uuid, status)
			return
		}
		bindRow(uuid, id)
		return
	}

	attrs, err := rowToObjAttrs(table, row)
	if err != nil {
		log.Warning("[GoSAI] convert %s %s failed: %v\n", table, uuid, err)
		faultStatusSet(table, uuid, err.Error())
		return
	}

	id, status := sai.CreateObject(objType, SwitchID, attrs)
	if status != sai.StatusSuccess {
		log.Warning("[GoSAI] create %s %s failed: %v\n", table, uuid, status)
		faultStatusSet(table, uuid, status.String())
		return
	}

	bindRow(uuid, id)
	faultStatusSet(table, uuid, "")
}

func saidbRemoveObj(table string, uuid string) {
	id, ok := boundObj(uuid)
	if !ok {
		log.Info("[GoSAI] remove %s %s skipped, row never created\n", table, uuid)
		return
	}

	var status sai.Status
	if saidbExternalTable[table] {
		status = sai.RemoveExternalObject(id)
	} else {
		status = sai.RemoveObject(id)
	}
	if status != sai.StatusSuccess {
		log.Warning("[GoSAI] remove %s %s failed: %v\n", table, uuid, status)
		return
	}

	unbindRow(uuid)
}

func saidbUpdateObj(table string, uuid string, newrow libovsdb.Row, oldrow libovsdb.Row) {
	if saidbExternalTable[table] {
		return
	}

	id, ok := boundObj(uuid)
	if !ok {
		// row failed at create time, a config fix comes in as an update
		saidbCreateObj(table, uuid, newrow)
		return
	}

	newattrs, err := rowToObjAttrs(table, newrow)
	if err != nil {
		log.Warning("[GoSAI] convert %s %s failed: %v\n", table, uuid, err)
		faultStatusSet(table, uuid, err.Error())
		return
	}
	oldattrs, _ := rowToObjAttrs(table, oldrow)

	// monitor updates carry only the changed columns in the old row, so an
	// attr converted out of the old row is an attr that changed
	fault := ""
	for _, attr := range newattrs {
		old, had := oldattrs.Find(attr.ID)
		if !had {
			if !columnTouched(table, attr.ID, oldrow) {
				continue
			}
		} else if reflect.DeepEqual(attr.Value, old) {
			continue
		}
		if status := sai.SetObjectAttr(id, attr); status != sai.StatusSuccess {
			log.Warning("[GoSAI] set %s %s attr %v failed: %v\n", table, uuid, attr.ID, status)
			fault = status.String()
		}
	}

	faultStatusSet(table, uuid, fault)
}

// columnTouched reports whether the attr's column is present in a partial
// old row, covering columns going from empty to set
func columnTouched(table string, id sai.AttrID, oldrow libovsdb.Row) bool {
	schema, status := sai.SchemaFor(saidbObjType[table], id)
	if status != sai.StatusSuccess {
		return false
	}
	_, ok := oldrow.Fields[schema.Name]
	return ok
}
