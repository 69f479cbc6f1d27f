package sai

// Host interface trap types, original numeric values preserved
const (
	TrapTypeLldp                      int32 = 0x00000003
	TrapTypeArpRequest                int32 = 0x00002000
	TrapTypeArpResponse               int32 = 0x00002001
	TrapTypeIPv6NeighborDiscovery     int32 = 0x00002009
	TrapTypeIPv6NeighborSolicitation  int32 = 0x00002012
	TrapTypeIPv6NeighborAdvertisement int32 = 0x00002013
	TrapTypeIP2Me                     int32 = 0x00004000
	TrapTypeBgp                       int32 = 0x00004003
	TrapTypeBgpv6                     int32 = 0x00004004
	TrapTypeEnd                       int32 = 0x0000a000
)

// Packet actions a trap can apply
const (
	PacketActionDrop int32 = iota
	PacketActionForward
	PacketActionCopy
	PacketActionCopyCancel
	PacketActionTrap
	PacketActionLog
)

// Host interface trap attribute ids
const (
	TrapAttrTrapType AttrID = iota
	TrapAttrPacketAction
	TrapAttrTrapPriority
	TrapAttrTrapGroup
	TrapAttrEnd
)

// User defined trap attribute ids
const (
	UserTrapAttrTrapType AttrID = iota
	UserTrapAttrTrapGroup
	UserTrapAttrTrapPriority
	UserTrapAttrEnd
)

type trapAPI struct{}

var trapAPIs = trapAPI{}

type userTrapAPI struct{}

var userTrapAPIs = userTrapAPI{}

func init() {
	registerSchemaTable(ObjectTypeHostifTrap, TrapAttrEnd, []AttrSchema{
		{
			ID:    TrapAttrTrapType,
			Name:  "trap_type",
			Kind:  ValueKindInt32,
			Flags: FlagMandatoryOnCreate | FlagCreateOnly | FlagKey,
		},
		{
			ID:    TrapAttrPacketAction,
			Name:  "packet_action",
			Kind:  ValueKindInt32,
			Flags: FlagMandatoryOnCreate | FlagCreateAndSet,
		},
		{
			ID:    TrapAttrTrapPriority,
			Name:  "trap_priority",
			Kind:  ValueKindUint32,
			Flags: FlagCreateAndSet,
			Default: &DefaultValue{
				FromType: ObjectTypeSwitch,
				FromAttr: SwitchAttrAclEntryMinimumPriority,
			},
			Condition: Condition{
				{Attr: TrapAttrPacketAction, Value: PacketActionTrap},
				{Attr: TrapAttrPacketAction, Value: PacketActionCopy},
			},
		},
		{
			ID:        TrapAttrTrapGroup,
			Name:      "trap_group",
			Kind:      ValueKindObject,
			Flags:     FlagCreateAndSet,
			AllowNull: true,
			Objects:   []ObjectType{ObjectTypeHostifTrapGroup},
			Default:   &DefaultValue{Literal: &Value{Kind: ValueKindObject, Oid: NullObjectID}},
		},
	})
	RegisterObjectAPI(ObjectTypeHostifTrap, trapAPIs)

	registerSchemaTable(ObjectTypeHostifUserDefinedTrap, UserTrapAttrEnd, []AttrSchema{
		{
			ID:    UserTrapAttrTrapType,
			Name:  "trap_type",
			Kind:  ValueKindInt32,
			Flags: FlagMandatoryOnCreate | FlagCreateOnly | FlagKey,
		},
		{
			ID:        UserTrapAttrTrapGroup,
			Name:      "trap_group",
			Kind:      ValueKindObject,
			Flags:     FlagCreateAndSet,
			AllowNull: true,
			Objects:   []ObjectType{ObjectTypeHostifTrapGroup},
			Default:   &DefaultValue{Literal: &Value{Kind: ValueKindObject, Oid: NullObjectID}},
		},
		{
			ID:    UserTrapAttrTrapPriority,
			Name:  "trap_priority",
			Kind:  ValueKindUint32,
			Flags: FlagCreateAndSet,
			Default: &DefaultValue{
				FromType: ObjectTypeSwitch,
				FromAttr: SwitchAttrAclEntryMinimumPriority,
			},
		},
	})
	RegisterObjectAPI(ObjectTypeHostifUserDefinedTrap, userTrapAPIs)
}

func (trapAPI) CreateObject(switchID ObjectID, attrs AttrList) (ObjectID, Status) {
	return createObject(ObjectTypeHostifTrap, attrs)
}

func (trapAPI) RemoveObject(id ObjectID) Status {
	return removeObject(id)
}

func (trapAPI) SetObjectAttr(id ObjectID, attr Attr) Status {
	return setObjectAttr(id, attr)
}

func (trapAPI) GetObjectAttr(id ObjectID, attrIDs []AttrID) (AttrList, Status) {
	return getObjectAttr(id, attrIDs)
}

func (userTrapAPI) CreateObject(switchID ObjectID, attrs AttrList) (ObjectID, Status) {
	return createObject(ObjectTypeHostifUserDefinedTrap, attrs)
}

func (userTrapAPI) RemoveObject(id ObjectID) Status {
	return removeObject(id)
}

func (userTrapAPI) SetObjectAttr(id ObjectID, attr Attr) Status {
	return setObjectAttr(id, attr)
}

func (userTrapAPI) GetObjectAttr(id ObjectID, attrIDs []AttrID) (AttrList, Status) {
	return getObjectAttr(id, attrIDs)
}
