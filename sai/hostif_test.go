package sai

import (
	"errors"
	"strings"
	"testing"
)

type fakeProvisioner struct {
	failCreate bool
	created    []string
	destroyed  []string
}

func (p *fakeProvisioner) CreateChannel(hostifType int32, name string, backing ObjectID) error {
	if p.failCreate {
		return errors.New("no such device")
	}
	p.created = append(p.created, name)
	return nil
}

func (p *fakeProvisioner) DestroyChannel(hostifType int32, name string) error {
	p.destroyed = append(p.destroyed, name)
	return nil
}

func withProvisioner(t *testing.T, p ChannelProvisioner) {
	t.Helper()
	old := activeChannelProvisioner()
	RegisterChannelProvisioner("fake", p)
	t.Cleanup(func() { RegisterChannelProvisioner("restore", old) })
}

func netdevHostifAttrs(port ObjectID, name string) AttrList {
	return AttrList{
		{ID: HostifAttrType, Value: S32Value(HostifTypeNetdev)},
		{ID: HostifAttrObjID, Value: OidValue(port)},
		{ID: HostifAttrName, Value: StrValue(name)},
	}
}

func TestHostifCreateProvisionsChannel(t *testing.T) {
	resetObjects(t)
	fake := &fakeProvisioner{}
	withProvisioner(t, fake)

	port, _ := CreateExternalObject(ObjectTypePort)
	hostif := mustCreate(t, ObjectTypeHostif, netdevHostifAttrs(port, "Ethernet0"))

	if len(fake.created) != 1 || fake.created[0] != "Ethernet0" {
		t.Fatalf("created channels = %v, want [Ethernet0]", fake.created)
	}

	if status := RemoveObject(hostif); status != StatusSuccess {
		t.Fatalf("remove hostif = %v, want success", status)
	}
	if len(fake.destroyed) != 1 || fake.destroyed[0] != "Ethernet0" {
		t.Fatalf("destroyed channels = %v, want [Ethernet0]", fake.destroyed)
	}
}

func TestHostifCreateRollsBackOnChannelFailure(t *testing.T) {
	resetObjects(t)
	withProvisioner(t, &fakeProvisioner{failCreate: true})

	port, _ := CreateExternalObject(ObjectTypePort)
	id, status := CreateObject(ObjectTypeHostif, NullObjectID, netdevHostifAttrs(port, "Ethernet0"))
	if status != StatusFailure {
		t.Fatalf("create with failing channel = %v, want Failure", status)
	}
	if id != NullObjectID {
		t.Fatalf("failed create returned id %v", id)
	}

	// the rollback released the backing port
	if status := RemoveExternalObject(port); status != StatusSuccess {
		t.Fatalf("remove port after rollback = %v, want success", status)
	}
}

func TestHostifFdSkipsChannel(t *testing.T) {
	resetObjects(t)
	fake := &fakeProvisioner{}
	withProvisioner(t, fake)

	mustCreate(t, ObjectTypeHostif, AttrList{
		{ID: HostifAttrType, Value: S32Value(HostifTypeFd)},
	})
	if len(fake.created) != 0 {
		t.Fatalf("fd hostif provisioned channels %v", fake.created)
	}
}

func TestHostifNameLength(t *testing.T) {
	resetObjects(t)
	withProvisioner(t, &fakeProvisioner{})

	port, _ := CreateExternalObject(ObjectTypePort)
	long := strings.Repeat("e", HostifNameSize)
	_, status := CreateObject(ObjectTypeHostif, NullObjectID, netdevHostifAttrs(port, long))
	if status != StatusInvalidParameter {
		t.Fatalf("overlong name = %v, want InvalidParameter", status)
	}

	mustCreate(t, ObjectTypeHostif, netdevHostifAttrs(port, strings.Repeat("e", HostifNameSize-1)))
}

func TestHostifNetdevRequiresBacking(t *testing.T) {
	resetObjects(t)
	withProvisioner(t, &fakeProvisioner{})

	_, status := CreateObject(ObjectTypeHostif, NullObjectID, AttrList{
		{ID: HostifAttrType, Value: S32Value(HostifTypeNetdev)},
		{ID: HostifAttrName, Value: StrValue("Ethernet0")},
	})
	if status != StatusMissingMandatory {
		t.Fatalf("netdev hostif without obj_id = %v, want MissingMandatory", status)
	}
}

func TestHostifOperStatus(t *testing.T) {
	resetObjects(t)
	withProvisioner(t, &fakeProvisioner{})

	port, _ := CreateExternalObject(ObjectTypePort)
	hostif := mustCreate(t, ObjectTypeHostif, netdevHostifAttrs(port, "Ethernet0"))

	if v := mustGetOne(t, hostif, HostifAttrOperStatus); v.Bool {
		t.Fatal("oper_status defaults up, want down")
	}
	attr := Attr{ID: HostifAttrOperStatus, Value: BoolValue(true)}
	if status := SetObjectAttr(hostif, attr); status != StatusSuccess {
		t.Fatalf("set oper_status = %v, want success", status)
	}
	if v := mustGetOne(t, hostif, HostifAttrOperStatus); !v.Bool {
		t.Fatal("oper_status = false after set true")
	}
}
