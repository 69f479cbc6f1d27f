package sai

import (
	"sync"

	"github.com/cn-pmlabs/gosai/lib/log"
	"github.com/cn-pmlabs/gosai/lib/metrics"
)

// object is one live instance: its resolved value store plus the inbound
// reference count other objects hold against it
type object struct {
	id       ObjectID
	objType  ObjectType
	mutex    sync.Mutex
	attrs    map[AttrID]Value
	refCount int
}

// objectTable owns every live object. The table mutex guards table
// membership, the key index and every refCount; each object's own mutex
// guards its value store. Lock order is table then object.
type objectTable struct {
	mutex   sync.Mutex
	objects map[ObjectID]*object
	keys    map[ObjectType]map[int32]ObjectID
	nextSeq uint64
}

func newObjectTable() *objectTable {
	return &objectTable{
		objects: make(map[ObjectID]*object),
		keys:    make(map[ObjectType]map[int32]ObjectID),
	}
}

var objTable = newObjectTable()

// allocateID mint a fresh id with the type tag in the top byte; sequence
// numbers only grow, removed ids never come back
func (t *objectTable) allocateID(objType ObjectType) ObjectID {
	t.nextSeq++
	return ObjectID(uint64(objType)<<objectIDTypeShift | t.nextSeq)
}

func (t *objectTable) lookupLocked(id ObjectID) (ObjectType, bool) {
	if obj, ok := t.objects[id]; ok {
		return obj.objType, true
	}
	return ObjectTypeNull, false
}

// defaultSourceLocked reads an attribute of the first live object of a type,
// feeding attr-value defaults (the switch scope object in practice)
func (t *objectTable) defaultSourceLocked(objType ObjectType, attrID AttrID) (Value, bool) {
	for _, obj := range t.objects {
		if obj.objType != objType {
			continue
		}
		if v, ok := obj.attrs[attrID]; ok {
			return v, true
		}
		return Value{}, false
	}
	return Value{}, false
}

// ObjectTypeOf is the object-type directory: resolve a live id to its type
func ObjectTypeOf(id ObjectID) (ObjectType, bool) {
	objTable.mutex.Lock()
	defer objTable.mutex.Unlock()
	return objTable.lookupLocked(id)
}

// createObject validates attrs and commits a new object. Table lock covers
// the whole validate+commit step and nothing beyond it.
func createObject(objType ObjectType, attrs AttrList) (ObjectID, Status) {
	t := objTable
	t.mutex.Lock()
	defer t.mutex.Unlock()

	resolved, status := validateCreate(objType, attrs, t.lookupLocked, t.defaultSourceLocked)
	if status != StatusSuccess {
		return NullObjectID, status
	}

	tbl := schemaTableFor(objType)
	if tbl.hasKey {
		key := resolved[tbl.keyAttr].S32
		if _, exists := t.keys[objType][key]; exists {
			return NullObjectID, StatusItemAlreadyExists
		}
	}

	id := t.allocateID(objType)
	obj := &object{
		id:      id,
		objType: objType,
		attrs:   resolved,
	}
	t.objects[id] = obj

	for _, v := range resolved {
		for _, ref := range v.references() {
			t.objects[ref].refCount++
		}
	}

	if tbl.hasKey {
		if t.keys[objType] == nil {
			t.keys[objType] = make(map[int32]ObjectID)
		}
		t.keys[objType][resolved[tbl.keyAttr].S32] = id
	}

	metrics.ObjectAdded(objType.String())
	return id, StatusSuccess
}

// removeObject deregisters an object; refused while anything still points at
// it, never cascading
func removeObject(id ObjectID) Status {
	t := objTable
	t.mutex.Lock()
	defer t.mutex.Unlock()

	obj, ok := t.objects[id]
	if !ok {
		return StatusItemNotFound
	}
	if obj.refCount > 0 {
		return StatusObjectInUse
	}

	for _, v := range obj.attrs {
		for _, ref := range v.references() {
			if referent, ok := t.objects[ref]; ok {
				referent.refCount--
			}
		}
	}

	if tbl := schemaTableFor(obj.objType); tbl != nil && tbl.hasKey {
		if key, ok := obj.attrs[tbl.keyAttr]; ok {
			delete(t.keys[obj.objType], key.S32)
		}
	}

	delete(t.objects, id)
	metrics.ObjectRemoved(obj.objType.String())
	return StatusSuccess
}

// setObjectAttr replace one attribute value in place. The table lock makes
// the value swap and the referent refcount handover one step.
func setObjectAttr(id ObjectID, attr Attr) Status {
	t := objTable
	t.mutex.Lock()
	defer t.mutex.Unlock()

	obj, ok := t.objects[id]
	if !ok {
		return StatusItemNotFound
	}

	newVal, status := validateSet(obj.objType, attr, obj.attrs, t.lookupLocked)
	if status != StatusSuccess {
		return status
	}

	old, hadOld := obj.attrs[attr.ID]

	obj.mutex.Lock()
	obj.attrs[attr.ID] = newVal
	obj.mutex.Unlock()

	if hadOld {
		for _, ref := range old.references() {
			if referent, ok := t.objects[ref]; ok {
				referent.refCount--
			}
		}
	}
	for _, ref := range newVal.references() {
		t.objects[ref].refCount++
	}

	return StatusSuccess
}

// getObjectAttr return stored values; attributes never stored fall back to
// their schema default, attr-value defaults read from the current live
// source object. Inapplicable attributes are refused, not zeroed. The table
// lock is held throughout so default source reads stay consistent.
func getObjectAttr(id ObjectID, attrIDs []AttrID) (AttrList, Status) {
	t := objTable
	t.mutex.Lock()
	defer t.mutex.Unlock()

	obj, ok := t.objects[id]
	if !ok {
		return nil, StatusItemNotFound
	}
	if _, dup := duplicateAttrID(attrIDs); dup {
		return nil, StatusInvalidParameter
	}

	obj.mutex.Lock()
	defer obj.mutex.Unlock()

	out := make(AttrList, 0, len(attrIDs))
	for _, attrID := range attrIDs {
		schema, status := SchemaFor(obj.objType, attrID)
		if status != StatusSuccess {
			return nil, status
		}
		if !schema.Condition.holds(obj.attrs) {
			return nil, StatusInapplicableAttribute
		}
		v, ok := obj.attrs[attrID]
		if !ok {
			if d, ok := resolveDefault(schema, t.defaultSourceLocked); ok {
				v = d
			} else {
				log.Info("[SAI] get %s attr %d: no stored value, returning zero %s\n",
					obj.objType, attrID, schema.Kind)
				v = Value{Kind: schema.Kind}
			}
		}
		out = append(out, Attr{ID: attrID, Value: v})
	}
	return out, StatusSuccess
}

// createExternalObject registers a placeholder for an object family owned by
// another subsystem, so references to it resolve and block its removal
func createExternalObject(objType ObjectType) (ObjectID, Status) {
	if !externalObjectTypes[objType] {
		return NullObjectID, StatusInvalidParameter
	}
	t := objTable
	t.mutex.Lock()
	defer t.mutex.Unlock()

	id := t.allocateID(objType)
	t.objects[id] = &object{
		id:      id,
		objType: objType,
		attrs:   make(map[AttrID]Value),
	}
	metrics.ObjectAdded(objType.String())
	return id, StatusSuccess
}

// CreateExternalObject public entry for registering reference targets
// (ports, LAGs, VLANs, virtual routers, policers) owned elsewhere
func CreateExternalObject(objType ObjectType) (ObjectID, Status) {
	id, status := createExternalObject(objType)
	metrics.OperationObserved(objType.String(), "create", status.String())
	return id, status
}

// RemoveExternalObject drop a reference target placeholder
func RemoveExternalObject(id ObjectID) Status {
	if !externalObjectTypes[id.Type()] {
		return StatusInvalidParameter
	}
	status := removeObject(id)
	metrics.OperationObserved(id.Type().String(), "remove", status.String())
	return status
}
