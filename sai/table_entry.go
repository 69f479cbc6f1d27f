package sai

// Host interface table entry match types
const (
	TableEntryTypePort int32 = iota
	TableEntryTypeLag
	TableEntryTypeVlan
	TableEntryTypeTrapID
	TableEntryTypeWildcard
)

// Host interface table entry delivery channels
const (
	ChannelTypeCb int32 = iota
	ChannelTypeFd
	ChannelTypeNetdevPhysicalPort
	ChannelTypeNetdevLogicalPort
	ChannelTypeNetdevL3
	ChannelTypeGenetlink
)

// Host interface table entry attribute ids
const (
	TableEntryAttrType AttrID = iota
	TableEntryAttrObjID
	TableEntryAttrTrapID
	TableEntryAttrChannelType
	TableEntryAttrHostIf
	TableEntryAttrEnd
)

type tableEntryAPI struct{}

var tableEntryAPIs = tableEntryAPI{}

func init() {
	registerSchemaTable(ObjectTypeHostifTableEntry, TableEntryAttrEnd, []AttrSchema{
		{
			ID:    TableEntryAttrType,
			Name:  "type",
			Kind:  ValueKindInt32,
			Flags: FlagMandatoryOnCreate | FlagCreateOnly,
		},
		{
			ID:      TableEntryAttrObjID,
			Name:    "obj_id",
			Kind:    ValueKindObject,
			Flags:   FlagMandatoryOnCreate | FlagCreateOnly,
			Objects: []ObjectType{ObjectTypePort, ObjectTypeLag, ObjectTypeRouterInterface},
			Condition: Condition{
				{Attr: TableEntryAttrType, Value: TableEntryTypePort},
				{Attr: TableEntryAttrType, Value: TableEntryTypeLag},
				{Attr: TableEntryAttrType, Value: TableEntryTypeVlan},
			},
		},
		{
			ID:      TableEntryAttrTrapID,
			Name:    "trap_id",
			Kind:    ValueKindObject,
			Flags:   FlagMandatoryOnCreate | FlagCreateOnly,
			Objects: []ObjectType{ObjectTypeHostifTrap, ObjectTypeHostifUserDefinedTrap},
			Condition: Condition{
				{Attr: TableEntryAttrType, Value: TableEntryTypePort},
				{Attr: TableEntryAttrType, Value: TableEntryTypeLag},
				{Attr: TableEntryAttrType, Value: TableEntryTypeVlan},
				{Attr: TableEntryAttrType, Value: TableEntryTypeTrapID},
			},
		},
		{
			ID:    TableEntryAttrChannelType,
			Name:  "channel_type",
			Kind:  ValueKindInt32,
			Flags: FlagMandatoryOnCreate | FlagCreateOnly,
		},
		{
			ID:      TableEntryAttrHostIf,
			Name:    "host_if",
			Kind:    ValueKindObject,
			Flags:   FlagMandatoryOnCreate | FlagCreateOnly,
			Objects: []ObjectType{ObjectTypeHostif},
			Condition: Condition{
				{Attr: TableEntryAttrChannelType, Value: ChannelTypeFd},
				{Attr: TableEntryAttrChannelType, Value: ChannelTypeGenetlink},
			},
		},
	})
	RegisterObjectAPI(ObjectTypeHostifTableEntry, tableEntryAPIs)
}

func (tableEntryAPI) CreateObject(switchID ObjectID, attrs AttrList) (ObjectID, Status) {
	return createObject(ObjectTypeHostifTableEntry, attrs)
}

func (tableEntryAPI) RemoveObject(id ObjectID) Status {
	return removeObject(id)
}

func (tableEntryAPI) SetObjectAttr(id ObjectID, attr Attr) Status {
	return setObjectAttr(id, attr)
}

func (tableEntryAPI) GetObjectAttr(id ObjectID, attrIDs []AttrID) (AttrList, Status) {
	return getObjectAttr(id, attrIDs)
}
