package sai

// Host interface trap group attribute ids
const (
	TrapGroupAttrAdminState AttrID = iota
	TrapGroupAttrQueue
	TrapGroupAttrPolicer
	TrapGroupAttrEnd
)

type trapGroupAPI struct{}

var trapGroupAPIs = trapGroupAPI{}

func init() {
	adminUp := BoolValue(true)
	registerSchemaTable(ObjectTypeHostifTrapGroup, TrapGroupAttrEnd, []AttrSchema{
		{
			ID:      TrapGroupAttrAdminState,
			Name:    "admin_state",
			Kind:    ValueKindBool,
			Flags:   FlagCreateAndSet,
			Default: &DefaultValue{Literal: &adminUp},
		},
		{
			ID:      TrapGroupAttrQueue,
			Name:    "queue",
			Kind:    ValueKindUint32,
			Flags:   FlagCreateAndSet,
			Default: &DefaultValue{Literal: &Value{Kind: ValueKindUint32}},
		},
		{
			ID:        TrapGroupAttrPolicer,
			Name:      "policer",
			Kind:      ValueKindObject,
			Flags:     FlagCreateAndSet,
			AllowNull: true,
			Objects:   []ObjectType{ObjectTypePolicer},
			Default:   &DefaultValue{Literal: &Value{Kind: ValueKindObject, Oid: NullObjectID}},
		},
	})
	RegisterObjectAPI(ObjectTypeHostifTrapGroup, trapGroupAPIs)
}

func (trapGroupAPI) CreateObject(switchID ObjectID, attrs AttrList) (ObjectID, Status) {
	return createObject(ObjectTypeHostifTrapGroup, attrs)
}

func (trapGroupAPI) RemoveObject(id ObjectID) Status {
	return removeObject(id)
}

func (trapGroupAPI) SetObjectAttr(id ObjectID, attr Attr) Status {
	return setObjectAttr(id, attr)
}

func (trapGroupAPI) GetObjectAttr(id ObjectID, attrIDs []AttrID) (AttrList, Status) {
	return getObjectAttr(id, attrIDs)
}
