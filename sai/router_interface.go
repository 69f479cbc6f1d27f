package sai

// Router interface types
const (
	RouterInterfaceTypePort int32 = iota
	RouterInterfaceTypeVlan
	RouterInterfaceTypeLoopback
	RouterInterfaceTypeMplsRouter
	RouterInterfaceTypeSubPort
	RouterInterfaceTypeBridge
	RouterInterfaceTypeQinqPort
)

// Router interface attribute ids
const (
	RouterInterfaceAttrVirtualRouter AttrID = iota
	RouterInterfaceAttrType
	RouterInterfaceAttrPortID
	RouterInterfaceAttrVlanID
	RouterInterfaceAttrEnd
)

type routerInterfaceAPI struct{}

var routerInterfaceAPIs = routerInterfaceAPI{}

func init() {
	registerSchemaTable(ObjectTypeRouterInterface, RouterInterfaceAttrEnd, []AttrSchema{
		{
			ID:      RouterInterfaceAttrVirtualRouter,
			Name:    "virtual_router",
			Kind:    ValueKindObject,
			Flags:   FlagMandatoryOnCreate | FlagCreateOnly,
			Objects: []ObjectType{ObjectTypeVirtualRouter},
		},
		{
			ID:    RouterInterfaceAttrType,
			Name:  "type",
			Kind:  ValueKindInt32,
			Flags: FlagMandatoryOnCreate | FlagCreateOnly,
		},
		{
			ID:      RouterInterfaceAttrPortID,
			Name:    "port_id",
			Kind:    ValueKindObject,
			Flags:   FlagMandatoryOnCreate | FlagCreateOnly,
			Objects: []ObjectType{ObjectTypePort, ObjectTypeLag, ObjectTypeSystemPort},
			Condition: Condition{
				{Attr: RouterInterfaceAttrType, Value: RouterInterfaceTypePort},
				{Attr: RouterInterfaceAttrType, Value: RouterInterfaceTypeSubPort},
			},
		},
		{
			ID:      RouterInterfaceAttrVlanID,
			Name:    "vlan_id",
			Kind:    ValueKindObject,
			Flags:   FlagMandatoryOnCreate | FlagCreateOnly,
			Objects: []ObjectType{ObjectTypeVlan},
			Condition: Condition{
				{Attr: RouterInterfaceAttrType, Value: RouterInterfaceTypeVlan},
			},
		},
	})
	RegisterObjectAPI(ObjectTypeRouterInterface, routerInterfaceAPIs)
}

func (routerInterfaceAPI) CreateObject(switchID ObjectID, attrs AttrList) (ObjectID, Status) {
	return createObject(ObjectTypeRouterInterface, attrs)
}

func (routerInterfaceAPI) RemoveObject(id ObjectID) Status {
	return removeObject(id)
}

func (routerInterfaceAPI) SetObjectAttr(id ObjectID, attr Attr) Status {
	return setObjectAttr(id, attr)
}

func (routerInterfaceAPI) GetObjectAttr(id ObjectID, attrIDs []AttrID) (AttrList, Status) {
	return getObjectAttr(id, attrIDs)
}
