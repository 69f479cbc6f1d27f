package sai

import (
	"errors"
	"sync"

	"github.com/cn-pmlabs/gosai/lib/log"
	"github.com/cn-pmlabs/gosai/lib/metrics"
)

// ObjectType tags which attribute schema applies to an object.
type ObjectType int

// SAI object types. Port through Policer are owned by other subsystems and
// only appear here as reference targets.
const (
	ObjectTypeNull ObjectType = iota
	ObjectTypeSwitch
	ObjectTypePort
	ObjectTypeLag
	ObjectTypeVlan
	ObjectTypeSystemPort
	ObjectTypeVirtualRouter
	ObjectTypePolicer
	ObjectTypeHostif
	ObjectTypeHostifTrapGroup
	ObjectTypeHostifTrap
	ObjectTypeHostifUserDefinedTrap
	ObjectTypeHostifTableEntry
	ObjectTypeRouterInterface
	objectTypeMax
)

// ObjectTypeOrder is object type name order
var ObjectTypeOrder = []string{
	ObjectTypeNull:                  "Null",
	ObjectTypeSwitch:                "Switch",
	ObjectTypePort:                  "Port",
	ObjectTypeLag:                   "Lag",
	ObjectTypeVlan:                  "Vlan",
	ObjectTypeSystemPort:            "SystemPort",
	ObjectTypeVirtualRouter:         "VirtualRouter",
	ObjectTypePolicer:               "Policer",
	ObjectTypeHostif:                "Hostif",
	ObjectTypeHostifTrapGroup:       "HostifTrapGroup",
	ObjectTypeHostifTrap:            "HostifTrap",
	ObjectTypeHostifUserDefinedTrap: "HostifUserDefinedTrap",
	ObjectTypeHostifTableEntry:      "HostifTableEntry",
	ObjectTypeRouterInterface:       "RouterInterface",
}

func (t ObjectType) String() string {
	if t <= ObjectTypeNull || t >= objectTypeMax {
		return "Unknown"
	}
	return ObjectTypeOrder[t]
}

// externalObjectTypes are reference targets owned by other subsystems
var externalObjectTypes = map[ObjectType]bool{
	ObjectTypePort:          true,
	ObjectTypeLag:           true,
	ObjectTypeVlan:          true,
	ObjectTypeSystemPort:    true,
	ObjectTypeVirtualRouter: true,
	ObjectTypePolicer:       true,
}

// ObjectID identifies one live object. The object type lives in the top
// byte, a process-unique sequence number in the rest; ids are never reused.
type ObjectID uint64

// NullObjectID is the null object reference
const NullObjectID ObjectID = 0

const objectIDTypeShift = 56

// Type decodes the object type tag carried in the id
func (id ObjectID) Type() ObjectType {
	t := ObjectType(uint64(id) >> objectIDTypeShift)
	if t <= ObjectTypeNull || t >= objectTypeMax {
		return ObjectTypeNull
	}
	return t
}

// Status is the result of one CRUD verb
type Status int

// verb status codes
const (
	StatusSuccess Status = iota
	StatusFailure
	StatusInvalidParameter
	StatusItemAlreadyExists
	StatusItemNotFound
	StatusObjectInUse
	StatusNotSupported
	StatusInvalidReference
	StatusMissingMandatory
	StatusImmutableAttribute
	StatusInapplicableAttribute
)

var statusOrder = []string{
	StatusSuccess:               "Success",
	StatusFailure:               "Failure",
	StatusInvalidParameter:      "InvalidParameter",
	StatusItemAlreadyExists:     "ItemAlreadyExists",
	StatusItemNotFound:          "ItemNotFound",
	StatusObjectInUse:           "ObjectInUse",
	StatusNotSupported:          "NotSupported",
	StatusInvalidReference:      "InvalidReference",
	StatusMissingMandatory:      "MissingMandatory",
	StatusImmutableAttribute:    "ImmutableAttribute",
	StatusInapplicableAttribute: "InapplicableAttribute",
}

func (s Status) String() string {
	if s < StatusSuccess || int(s) >= len(statusOrder) {
		return "Unknown"
	}
	return statusOrder[s]
}

// ObjectAPI is the per-family CRUD surface
type ObjectAPI interface {
	CreateObject(switchID ObjectID, attrs AttrList) (ObjectID, Status)
	RemoveObject(id ObjectID) Status
	SetObjectAttr(id ObjectID, attr Attr) Status
	GetObjectAttr(id ObjectID, attrIDs []AttrID) (AttrList, Status)
}

var (
	objectAPIs      = make(map[ObjectType]ObjectAPI)
	objectAPIsMutex = &sync.Mutex{}
)

// RegisterObjectAPI register one object family implementation
func RegisterObjectAPI(objType ObjectType, api ObjectAPI) {
	objectAPIsMutex.Lock()
	defer objectAPIsMutex.Unlock()
	objectAPIs[objType] = api
}

func objectAPIFor(objType ObjectType) (ObjectAPI, error) {
	objectAPIsMutex.Lock()
	defer objectAPIsMutex.Unlock()
	if api, ok := objectAPIs[objType]; ok {
		return api, nil
	}
	return nil, errors.New("no API registered for object type " + objType.String())
}

// CreateObject create an object of objType from attrs, scoped to switchID
func CreateObject(objType ObjectType, switchID ObjectID, attrs AttrList) (ObjectID, Status) {
	api, err := objectAPIFor(objType)
	if err != nil {
		log.Warning("[SAI] create %s: %v\n", objType, err)
		return NullObjectID, StatusNotSupported
	}
	id, status := api.CreateObject(switchID, attrs)
	metrics.OperationObserved(objType.String(), "create", status.String())
	return id, status
}

// RemoveObject remove the object behind id
func RemoveObject(id ObjectID) Status {
	api, err := objectAPIFor(id.Type())
	if err != nil {
		log.Warning("[SAI] remove %v: %v\n", id, err)
		return StatusNotSupported
	}
	status := api.RemoveObject(id)
	metrics.OperationObserved(id.Type().String(), "remove", status.String())
	return status
}

// SetObjectAttr set a single attribute on a live object
func SetObjectAttr(id ObjectID, attr Attr) Status {
	api, err := objectAPIFor(id.Type())
	if err != nil {
		log.Warning("[SAI] set %v: %v\n", id, err)
		return StatusNotSupported
	}
	status := api.SetObjectAttr(id, attr)
	metrics.OperationObserved(id.Type().String(), "set", status.String())
	return status
}

// GetObjectAttr fetch attribute values from a live object
func GetObjectAttr(id ObjectID, attrIDs []AttrID) (AttrList, Status) {
	api, err := objectAPIFor(id.Type())
	if err != nil {
		log.Warning("[SAI] get %v: %v\n", id, err)
		return nil, StatusNotSupported
	}
	attrs, status := api.GetObjectAttr(id, attrIDs)
	metrics.OperationObserved(id.Type().String(), "get", status.String())
	return attrs, status
}
