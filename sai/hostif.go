package sai

import (
	"sync"

	"github.com/cn-pmlabs/gosai/lib/log"
)

// HostifNameSize is the channel name capacity, terminator included
const HostifNameSize = 16

// Host interface types
const (
	HostifTypeNetdev int32 = iota
	HostifTypeFd
	HostifTypeGenetlink
)

// Host interface attribute ids
const (
	HostifAttrType AttrID = iota
	HostifAttrObjID
	HostifAttrName
	HostifAttrOperStatus
	HostifAttrEnd
)

// ChannelProvisioner creates and destroys the kernel-visible channel backing
// a host interface. Called outside every engine lock; a create failure after
// validation rolls the object back.
type ChannelProvisioner interface {
	CreateChannel(hostifType int32, name string, backing ObjectID) error
	DestroyChannel(hostifType int32, name string) error
}

var (
	channelProvisioner      ChannelProvisioner
	channelProvisionerName  string
	channelProvisionerMutex = &sync.Mutex{}
)

// RegisterChannelProvisioner register the channel provisioning driver
func RegisterChannelProvisioner(name string, p ChannelProvisioner) {
	channelProvisionerMutex.Lock()
	defer channelProvisionerMutex.Unlock()
	channelProvisioner = p
	channelProvisionerName = name
	log.Info("[SAI] channel provisioner %s registered\n", name)
}

func activeChannelProvisioner() ChannelProvisioner {
	channelProvisionerMutex.Lock()
	defer channelProvisionerMutex.Unlock()
	return channelProvisioner
}

type hostifAPI struct{}

var hostifAPIs = hostifAPI{}

func init() {
	operDown := BoolValue(false)
	registerSchemaTable(ObjectTypeHostif, HostifAttrEnd, []AttrSchema{
		{
			ID:    HostifAttrType,
			Name:  "type",
			Kind:  ValueKindInt32,
			Flags: FlagMandatoryOnCreate | FlagCreateOnly,
		},
		{
			ID:      HostifAttrObjID,
			Name:    "obj_id",
			Kind:    ValueKindObject,
			Flags:   FlagMandatoryOnCreate | FlagCreateOnly,
			Objects: []ObjectType{ObjectTypePort, ObjectTypeLag, ObjectTypeVlan, ObjectTypeSystemPort},
			Condition: Condition{
				{Attr: HostifAttrType, Value: HostifTypeNetdev},
			},
		},
		{
			ID:     HostifAttrName,
			Name:   "name",
			Kind:   ValueKindString,
			Flags:  FlagMandatoryOnCreate | FlagCreateOnly,
			StrLen: HostifNameSize,
			Condition: Condition{
				{Attr: HostifAttrType, Value: HostifTypeNetdev},
				{Attr: HostifAttrType, Value: HostifTypeGenetlink},
			},
		},
		{
			ID:      HostifAttrOperStatus,
			Name:    "oper_status",
			Kind:    ValueKindBool,
			Flags:   FlagCreateAndSet,
			Default: &DefaultValue{Literal: &operDown},
		},
	})
	RegisterObjectAPI(ObjectTypeHostif, hostifAPIs)
}

func (hostifAPI) CreateObject(switchID ObjectID, attrs AttrList) (ObjectID, Status) {
	id, status := createObject(ObjectTypeHostif, attrs)
	if status != StatusSuccess {
		return NullObjectID, status
	}

	hostifType, name, backing := hostifChannelSpec(id)
	if hostifType == HostifTypeFd {
		return id, StatusSuccess
	}

	p := activeChannelProvisioner()
	if p == nil {
		log.Warning("[SAI] hostif %s created without channel provisioner\n", name)
		return id, StatusSuccess
	}

	// collaborator call after commit, outside every lock; compensate on
	// failure so no Live object survives without its channel
	if err := p.CreateChannel(hostifType, name, backing); err != nil {
		log.Warning("[SAI] hostif %s channel create failed: %v\n", name, err)
		if st := removeObject(id); st != StatusSuccess {
			log.Error("[SAI] hostif %s rollback failed: %s\n", name, st)
		}
		return NullObjectID, StatusFailure
	}
	return id, StatusSuccess
}

func (hostifAPI) RemoveObject(id ObjectID) Status {
	hostifType, name, _ := hostifChannelSpec(id)

	status := removeObject(id)
	if status != StatusSuccess {
		return status
	}

	if hostifType != HostifTypeFd && name != "" {
		if p := activeChannelProvisioner(); p != nil {
			if err := p.DestroyChannel(hostifType, name); err != nil {
				log.Warning("[SAI] hostif %s channel destroy failed: %v\n", name, err)
			}
		}
	}
	return StatusSuccess
}

func (hostifAPI) SetObjectAttr(id ObjectID, attr Attr) Status {
	return setObjectAttr(id, attr)
}

func (hostifAPI) GetObjectAttr(id ObjectID, attrIDs []AttrID) (AttrList, Status) {
	return getObjectAttr(id, attrIDs)
}

// hostifChannelSpec snapshot the provisioning inputs of a live hostif
func hostifChannelSpec(id ObjectID) (hostifType int32, name string, backing ObjectID) {
	t := objTable
	t.mutex.Lock()
	obj, ok := t.objects[id]
	t.mutex.Unlock()
	if !ok {
		return HostifTypeFd, "", NullObjectID
	}
	obj.mutex.Lock()
	defer obj.mutex.Unlock()
	return obj.attrs[HostifAttrType].S32, obj.attrs[HostifAttrName].Str, obj.attrs[HostifAttrObjID].Oid
}
