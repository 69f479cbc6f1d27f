package sai

import (
	"fmt"
	"sync"
	"testing"
)

func resetObjects(t *testing.T) {
	t.Helper()
	old := objTable
	objTable = newObjectTable()
	t.Cleanup(func() { objTable = old })
}

func mustCreate(t *testing.T, objType ObjectType, attrs AttrList) ObjectID {
	t.Helper()
	id, status := CreateObject(objType, NullObjectID, attrs)
	if status != StatusSuccess {
		t.Fatalf("create %s = %v, want success", objType, status)
	}
	return id
}

func mustGetOne(t *testing.T, id ObjectID, attrID AttrID) Value {
	t.Helper()
	attrs, status := GetObjectAttr(id, []AttrID{attrID})
	if status != StatusSuccess {
		t.Fatalf("get attr %d = %v, want success", attrID, status)
	}
	v, ok := attrs.Find(attrID)
	if !ok {
		t.Fatalf("get attr %d returned no value", attrID)
	}
	return v
}

func TestTrapGroupDefaults(t *testing.T) {
	resetObjects(t)

	group := mustCreate(t, ObjectTypeHostifTrapGroup, nil)

	if v := mustGetOne(t, group, TrapGroupAttrAdminState); !v.Bool {
		t.Fatalf("admin_state = %v, want true", v.Bool)
	}
	if v := mustGetOne(t, group, TrapGroupAttrQueue); v.U32 != 0 {
		t.Fatalf("queue = %d, want 0", v.U32)
	}
	if v := mustGetOne(t, group, TrapGroupAttrPolicer); v.Oid != NullObjectID {
		t.Fatalf("policer = %v, want null", v.Oid)
	}
}

func TestTrapGroupSetQueue(t *testing.T) {
	resetObjects(t)

	group := mustCreate(t, ObjectTypeHostifTrapGroup, nil)

	attr := Attr{ID: TrapGroupAttrQueue, Value: U32Value(5)}
	if status := SetObjectAttr(group, attr); status != StatusSuccess {
		t.Fatalf("set queue = %v, want success", status)
	}
	if v := mustGetOne(t, group, TrapGroupAttrQueue); v.U32 != 5 {
		t.Fatalf("queue = %d, want 5", v.U32)
	}
}

func TestTrapGroupPolicerRefcount(t *testing.T) {
	resetObjects(t)

	policer, _ := CreateExternalObject(ObjectTypePolicer)
	group := mustCreate(t, ObjectTypeHostifTrapGroup, AttrList{
		{ID: TrapGroupAttrPolicer, Value: OidValue(policer)},
	})

	if status := RemoveExternalObject(policer); status != StatusObjectInUse {
		t.Fatalf("remove referenced policer = %v, want ObjectInUse", status)
	}

	// detaching releases the hold
	attr := Attr{ID: TrapGroupAttrPolicer, Value: OidValue(NullObjectID)}
	if status := SetObjectAttr(group, attr); status != StatusSuccess {
		t.Fatalf("detach policer = %v, want success", status)
	}
	if status := RemoveExternalObject(policer); status != StatusSuccess {
		t.Fatalf("remove policer = %v, want success", status)
	}
}

func TestTrapMissingMandatory(t *testing.T) {
	resetObjects(t)

	_, status := CreateObject(ObjectTypeHostifTrap, NullObjectID, AttrList{
		{ID: TrapAttrTrapType, Value: S32Value(TrapTypeArpRequest)},
	})
	if status != StatusMissingMandatory {
		t.Fatalf("create without packet_action = %v, want MissingMandatory", status)
	}

	mustCreate(t, ObjectTypeHostifTrap, AttrList{
		{ID: TrapAttrTrapType, Value: S32Value(TrapTypeArpRequest)},
		{ID: TrapAttrPacketAction, Value: S32Value(PacketActionForward)},
	})
}

func TestTrapPriorityCondition(t *testing.T) {
	resetObjects(t)

	forward := mustCreate(t, ObjectTypeHostifTrap, AttrList{
		{ID: TrapAttrTrapType, Value: S32Value(TrapTypeLldp)},
		{ID: TrapAttrPacketAction, Value: S32Value(PacketActionForward)},
	})

	// priority only applies to trap/copy actions
	_, status := GetObjectAttr(forward, []AttrID{TrapAttrTrapPriority})
	if status != StatusInapplicableAttribute {
		t.Fatalf("get priority on forward trap = %v, want InapplicableAttribute", status)
	}

	_, status = CreateObject(ObjectTypeHostifTrap, NullObjectID, AttrList{
		{ID: TrapAttrTrapType, Value: S32Value(TrapTypeBgp)},
		{ID: TrapAttrPacketAction, Value: S32Value(PacketActionForward)},
		{ID: TrapAttrTrapPriority, Value: U32Value(7)},
	})
	if status != StatusInapplicableAttribute {
		t.Fatalf("create forward trap with priority = %v, want InapplicableAttribute", status)
	}
}

func TestTrapPriorityDefaultFromSwitch(t *testing.T) {
	resetObjects(t)

	mustCreate(t, ObjectTypeSwitch, AttrList{
		{ID: SwitchAttrAclEntryMinimumPriority, Value: U32Value(10)},
	})

	trap := mustCreate(t, ObjectTypeHostifTrap, AttrList{
		{ID: TrapAttrTrapType, Value: S32Value(TrapTypeBgp)},
		{ID: TrapAttrPacketAction, Value: S32Value(PacketActionTrap)},
	})

	if v := mustGetOne(t, trap, TrapAttrTrapPriority); v.U32 != 10 {
		t.Fatalf("trap_priority = %d, want switch minimum 10", v.U32)
	}
}

func TestTrapPriorityDefaultResolvedAtGet(t *testing.T) {
	resetObjects(t)

	// no switch live yet, so create stores no priority
	trap := mustCreate(t, ObjectTypeHostifTrap, AttrList{
		{ID: TrapAttrTrapType, Value: S32Value(TrapTypeBgp)},
		{ID: TrapAttrPacketAction, Value: S32Value(PacketActionTrap)},
	})
	if v := mustGetOne(t, trap, TrapAttrTrapPriority); v.U32 != 0 {
		t.Fatalf("trap_priority without switch = %d, want 0", v.U32)
	}

	// the attr-value default follows the source once it exists
	mustCreate(t, ObjectTypeSwitch, AttrList{
		{ID: SwitchAttrAclEntryMinimumPriority, Value: U32Value(10)},
	})
	if v := mustGetOne(t, trap, TrapAttrTrapPriority); v.U32 != 10 {
		t.Fatalf("trap_priority = %d, want switch minimum 10", v.U32)
	}
}

func TestGetDuplicateAttrIDs(t *testing.T) {
	resetObjects(t)

	group := mustCreate(t, ObjectTypeHostifTrapGroup, nil)
	_, status := GetObjectAttr(group, []AttrID{TrapGroupAttrQueue, TrapGroupAttrQueue})
	if status != StatusInvalidParameter {
		t.Fatalf("duplicate get ids = %v, want InvalidParameter", status)
	}
}

func TestTrapKeyCollision(t *testing.T) {
	resetObjects(t)

	first := mustCreate(t, ObjectTypeHostifTrap, AttrList{
		{ID: TrapAttrTrapType, Value: S32Value(TrapTypeArpRequest)},
		{ID: TrapAttrPacketAction, Value: S32Value(PacketActionTrap)},
	})

	_, status := CreateObject(ObjectTypeHostifTrap, NullObjectID, AttrList{
		{ID: TrapAttrTrapType, Value: S32Value(TrapTypeArpRequest)},
		{ID: TrapAttrPacketAction, Value: S32Value(PacketActionDrop)},
	})
	if status != StatusItemAlreadyExists {
		t.Fatalf("duplicate trap_type = %v, want ItemAlreadyExists", status)
	}

	// a different key coexists, the removed key frees its slot
	mustCreate(t, ObjectTypeHostifTrap, AttrList{
		{ID: TrapAttrTrapType, Value: S32Value(TrapTypeArpResponse)},
		{ID: TrapAttrPacketAction, Value: S32Value(PacketActionTrap)},
	})
	if status := RemoveObject(first); status != StatusSuccess {
		t.Fatalf("remove trap = %v, want success", status)
	}
	mustCreate(t, ObjectTypeHostifTrap, AttrList{
		{ID: TrapAttrTrapType, Value: S32Value(TrapTypeArpRequest)},
		{ID: TrapAttrPacketAction, Value: S32Value(PacketActionTrap)},
	})
}

func TestCreateDuplicateAttr(t *testing.T) {
	resetObjects(t)

	_, status := CreateObject(ObjectTypeHostifTrapGroup, NullObjectID, AttrList{
		{ID: TrapGroupAttrQueue, Value: U32Value(1)},
		{ID: TrapGroupAttrQueue, Value: U32Value(2)},
	})
	if status != StatusInvalidParameter {
		t.Fatalf("duplicate attr = %v, want InvalidParameter", status)
	}
}

func TestCreateWrongValueKind(t *testing.T) {
	resetObjects(t)

	_, status := CreateObject(ObjectTypeHostifTrapGroup, NullObjectID, AttrList{
		{ID: TrapGroupAttrAdminState, Value: U32Value(1)},
	})
	if status != StatusInvalidParameter {
		t.Fatalf("u32 for bool attr = %v, want InvalidParameter", status)
	}
}

func TestCreateInvalidReference(t *testing.T) {
	resetObjects(t)

	bogus := ObjectID(uint64(ObjectTypeHostifTrapGroup)<<objectIDTypeShift | 0xdead)
	_, status := CreateObject(ObjectTypeHostifTrap, NullObjectID, AttrList{
		{ID: TrapAttrTrapType, Value: S32Value(TrapTypeBgp)},
		{ID: TrapAttrPacketAction, Value: S32Value(PacketActionTrap)},
		{ID: TrapAttrTrapGroup, Value: OidValue(bogus)},
	})
	if status != StatusInvalidReference {
		t.Fatalf("dangling trap_group = %v, want InvalidReference", status)
	}

	// live object of a type the schema refuses
	policer, _ := CreateExternalObject(ObjectTypePolicer)
	_, status = CreateObject(ObjectTypeHostifTrap, NullObjectID, AttrList{
		{ID: TrapAttrTrapType, Value: S32Value(TrapTypeBgp)},
		{ID: TrapAttrPacketAction, Value: S32Value(PacketActionTrap)},
		{ID: TrapAttrTrapGroup, Value: OidValue(policer)},
	})
	if status != StatusInvalidReference {
		t.Fatalf("wrong-type trap_group = %v, want InvalidReference", status)
	}
}

func TestRemoveTrapGroupInUse(t *testing.T) {
	resetObjects(t)

	group := mustCreate(t, ObjectTypeHostifTrapGroup, nil)
	trap := mustCreate(t, ObjectTypeHostifTrap, AttrList{
		{ID: TrapAttrTrapType, Value: S32Value(TrapTypeArpRequest)},
		{ID: TrapAttrPacketAction, Value: S32Value(PacketActionForward)},
		{ID: TrapAttrTrapGroup, Value: OidValue(group)},
	})

	if status := RemoveObject(group); status != StatusObjectInUse {
		t.Fatalf("remove referenced group = %v, want ObjectInUse", status)
	}
	if status := RemoveObject(trap); status != StatusSuccess {
		t.Fatalf("remove trap = %v, want success", status)
	}
	if status := RemoveObject(group); status != StatusSuccess {
		t.Fatalf("remove group after trap = %v, want success", status)
	}
}

func TestSetCreateOnlyAttr(t *testing.T) {
	resetObjects(t)

	trap := mustCreate(t, ObjectTypeHostifTrap, AttrList{
		{ID: TrapAttrTrapType, Value: S32Value(TrapTypeLldp)},
		{ID: TrapAttrPacketAction, Value: S32Value(PacketActionDrop)},
	})

	attr := Attr{ID: TrapAttrTrapType, Value: S32Value(TrapTypeBgp)}
	if status := SetObjectAttr(trap, attr); status != StatusImmutableAttribute {
		t.Fatalf("set trap_type = %v, want ImmutableAttribute", status)
	}
}

func TestRemoveUnknownObject(t *testing.T) {
	resetObjects(t)

	if status := RemoveObject(ObjectID(uint64(ObjectTypeHostifTrap) << objectIDTypeShift)); status != StatusItemNotFound {
		t.Fatalf("remove unknown = %v, want ItemNotFound", status)
	}
}

func TestTableEntryConditions(t *testing.T) {
	resetObjects(t)

	port, _ := CreateExternalObject(ObjectTypePort)
	trap := mustCreate(t, ObjectTypeHostifTrap, AttrList{
		{ID: TrapAttrTrapType, Value: S32Value(TrapTypeIP2Me)},
		{ID: TrapAttrPacketAction, Value: S32Value(PacketActionTrap)},
	})

	// wildcard entries carry no object and no trap id
	mustCreate(t, ObjectTypeHostifTableEntry, AttrList{
		{ID: TableEntryAttrType, Value: S32Value(TableEntryTypeWildcard)},
		{ID: TableEntryAttrChannelType, Value: S32Value(ChannelTypeCb)},
	})

	// port entries need both
	_, status := CreateObject(ObjectTypeHostifTableEntry, NullObjectID, AttrList{
		{ID: TableEntryAttrType, Value: S32Value(TableEntryTypePort)},
		{ID: TableEntryAttrChannelType, Value: S32Value(ChannelTypeCb)},
	})
	if status != StatusMissingMandatory {
		t.Fatalf("port entry without obj_id = %v, want MissingMandatory", status)
	}

	mustCreate(t, ObjectTypeHostifTableEntry, AttrList{
		{ID: TableEntryAttrType, Value: S32Value(TableEntryTypePort)},
		{ID: TableEntryAttrObjID, Value: OidValue(port)},
		{ID: TableEntryAttrTrapID, Value: OidValue(trap)},
		{ID: TableEntryAttrChannelType, Value: S32Value(ChannelTypeCb)},
	})

	// obj_id is inapplicable on a wildcard entry
	_, status = CreateObject(ObjectTypeHostifTableEntry, NullObjectID, AttrList{
		{ID: TableEntryAttrType, Value: S32Value(TableEntryTypeWildcard)},
		{ID: TableEntryAttrObjID, Value: OidValue(port)},
		{ID: TableEntryAttrChannelType, Value: S32Value(ChannelTypeCb)},
	})
	if status != StatusInapplicableAttribute {
		t.Fatalf("wildcard entry with obj_id = %v, want InapplicableAttribute", status)
	}
}

func TestRouterInterfaceConditions(t *testing.T) {
	resetObjects(t)

	vr, _ := CreateExternalObject(ObjectTypeVirtualRouter)
	port, _ := CreateExternalObject(ObjectTypePort)
	vlan, _ := CreateExternalObject(ObjectTypeVlan)

	mustCreate(t, ObjectTypeRouterInterface, AttrList{
		{ID: RouterInterfaceAttrVirtualRouter, Value: OidValue(vr)},
		{ID: RouterInterfaceAttrType, Value: S32Value(RouterInterfaceTypePort)},
		{ID: RouterInterfaceAttrPortID, Value: OidValue(port)},
	})

	mustCreate(t, ObjectTypeRouterInterface, AttrList{
		{ID: RouterInterfaceAttrVirtualRouter, Value: OidValue(vr)},
		{ID: RouterInterfaceAttrType, Value: S32Value(RouterInterfaceTypeVlan)},
		{ID: RouterInterfaceAttrVlanID, Value: OidValue(vlan)},
	})

	// loopback interfaces bind neither a port nor a vlan
	mustCreate(t, ObjectTypeRouterInterface, AttrList{
		{ID: RouterInterfaceAttrVirtualRouter, Value: OidValue(vr)},
		{ID: RouterInterfaceAttrType, Value: S32Value(RouterInterfaceTypeLoopback)},
	})

	_, status := CreateObject(ObjectTypeRouterInterface, NullObjectID, AttrList{
		{ID: RouterInterfaceAttrVirtualRouter, Value: OidValue(vr)},
		{ID: RouterInterfaceAttrType, Value: S32Value(RouterInterfaceTypeVlan)},
		{ID: RouterInterfaceAttrPortID, Value: OidValue(port)},
	})
	if status != StatusInapplicableAttribute {
		t.Fatalf("vlan rif with port_id = %v, want InapplicableAttribute", status)
	}
}

func TestObjectIDCarriesType(t *testing.T) {
	resetObjects(t)

	group := mustCreate(t, ObjectTypeHostifTrapGroup, nil)
	if group.Type() != ObjectTypeHostifTrapGroup {
		t.Fatalf("id type = %v, want %v", group.Type(), ObjectTypeHostifTrapGroup)
	}
	objType, ok := ObjectTypeOf(group)
	if !ok || objType != ObjectTypeHostifTrapGroup {
		t.Fatalf("ObjectTypeOf = %v %v, want trap group", objType, ok)
	}
}

func TestConcurrentCreateRemove(t *testing.T) {
	resetObjects(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id, status := CreateObject(ObjectTypeHostifTrapGroup, NullObjectID, AttrList{
					{ID: TrapGroupAttrQueue, Value: U32Value(uint32(n))},
				})
				if status != StatusSuccess {
					panic(fmt.Sprintf("create = %v", status))
				}
				if status := RemoveObject(id); status != StatusSuccess {
					panic(fmt.Sprintf("remove = %v", status))
				}
			}
		}(i)
	}
	wg.Wait()

	objTable.mutex.Lock()
	live := len(objTable.objects)
	objTable.mutex.Unlock()
	if live != 0 {
		t.Fatalf("%d objects leaked", live)
	}
}
