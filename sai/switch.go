package sai

// Switch attribute ids
const (
	SwitchAttrAclEntryMinimumPriority AttrID = iota
	SwitchAttrDefaultTrapGroup
	SwitchAttrCpuPort
	SwitchAttrEnd
)

type switchAPI struct{}

var switchAPIs = switchAPI{}

func init() {
	registerSchemaTable(ObjectTypeSwitch, SwitchAttrEnd, []AttrSchema{
		{
			ID:      SwitchAttrAclEntryMinimumPriority,
			Name:    "acl_entry_minimum_priority",
			Kind:    ValueKindUint32,
			Flags:   FlagCreateAndSet,
			Default: &DefaultValue{Literal: &Value{Kind: ValueKindUint32}},
		},
		{
			ID:        SwitchAttrDefaultTrapGroup,
			Name:      "default_trap_group",
			Kind:      ValueKindObject,
			Flags:     FlagCreateAndSet,
			AllowNull: true,
			Objects:   []ObjectType{ObjectTypeHostifTrapGroup},
			Default:   &DefaultValue{Literal: &Value{Kind: ValueKindObject, Oid: NullObjectID}},
		},
		{
			ID:        SwitchAttrCpuPort,
			Name:      "cpu_port",
			Kind:      ValueKindObject,
			Flags:     FlagCreateOnly,
			AllowNull: true,
			Objects:   []ObjectType{ObjectTypePort},
			Default:   &DefaultValue{Literal: &Value{Kind: ValueKindObject, Oid: NullObjectID}},
		},
	})
	RegisterObjectAPI(ObjectTypeSwitch, switchAPIs)
}

func (switchAPI) CreateObject(switchID ObjectID, attrs AttrList) (ObjectID, Status) {
	return createObject(ObjectTypeSwitch, attrs)
}

func (switchAPI) RemoveObject(id ObjectID) Status {
	return removeObject(id)
}

func (switchAPI) SetObjectAttr(id ObjectID, attr Attr) Status {
	return setObjectAttr(id, attr)
}

func (switchAPI) GetObjectAttr(id ObjectID, attrIDs []AttrID) (AttrList, Status) {
	return getObjectAttr(id, attrIDs)
}
