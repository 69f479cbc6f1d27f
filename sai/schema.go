package sai

import (
	"fmt"
	"sort"
)

// AttrFlags is the mutability class of an attribute
type AttrFlags uint32

// attribute schema flags
const (
	FlagMandatoryOnCreate AttrFlags = 1 << iota
	FlagCreateOnly
	FlagCreateAndSet
	FlagKey
)

// Has check one flag bit
func (f AttrFlags) Has(flag AttrFlags) bool {
	return f&flag != 0
}

// ConditionTerm is one "attribute == enum value" clause
type ConditionTerm struct {
	Attr  AttrID
	Value int32
}

// Condition is the OR of its terms; an attribute with a condition only
// applies to an object when some term holds. Conditions may only reference
// int32 (enum) attributes of the same object.
type Condition []ConditionTerm

// holds evaluate the condition against one attribute view
func (c Condition) holds(view map[AttrID]Value) bool {
	if len(c) == 0 {
		return true
	}
	for _, term := range c {
		if v, ok := view[term.Attr]; ok && v.Kind == ValueKindInt32 && v.S32 == term.Value {
			return true
		}
	}
	return false
}

// DefaultValue describes how an absent attribute resolves on create.
// Literal wins over FromType/FromAttr, which read the named attribute of the
// first live object of FromType (the switch scope object in practice).
type DefaultValue struct {
	Literal  *Value
	FromType ObjectType
	FromAttr AttrID
}

// AttrSchema is the declarative contract of one attribute
type AttrSchema struct {
	ID        AttrID
	Name      string
	Kind      ValueKind
	Flags     AttrFlags
	Default   *DefaultValue
	Condition Condition
	AllowNull bool
	Objects   []ObjectType
	StrLen    int
}

func (s *AttrSchema) allowsObjectType(t ObjectType) bool {
	for _, allowed := range s.Objects {
		if allowed == t {
			return true
		}
	}
	return false
}

type schemaTable struct {
	objType ObjectType
	attrEnd AttrID
	attrs   map[AttrID]*AttrSchema
	keyAttr AttrID
	hasKey  bool
}

// schemaRegistry is built by family init funcs plus startup custom
// registration and never mutated afterwards, so reads take no lock
var schemaRegistry [objectTypeMax]*schemaTable

func registerSchemaTable(objType ObjectType, attrEnd AttrID, schemas []AttrSchema) {
	if objType <= ObjectTypeNull || objType >= objectTypeMax {
		panic(fmt.Sprintf("schema table for invalid object type %d", objType))
	}
	if schemaRegistry[objType] != nil {
		panic(fmt.Sprintf("duplicate schema table for %s", objType))
	}

	tbl := &schemaTable{
		objType: objType,
		attrEnd: attrEnd,
		attrs:   make(map[AttrID]*AttrSchema, len(schemas)),
	}
	for i := range schemas {
		s := schemas[i]
		if s.ID >= attrEnd {
			panic(fmt.Sprintf("%s attribute %s id out of standard range", objType, s.Name))
		}
		if _, ok := tbl.attrs[s.ID]; ok {
			panic(fmt.Sprintf("%s attribute id %d registered twice", objType, s.ID))
		}
		if s.Flags.Has(FlagKey) {
			tbl.keyAttr = s.ID
			tbl.hasKey = true
		}
		tbl.attrs[s.ID] = &s
	}
	schemaRegistry[objType] = tbl
}

func schemaTableFor(objType ObjectType) *schemaTable {
	if objType <= ObjectTypeNull || objType >= objectTypeMax {
		return nil
	}
	return schemaRegistry[objType]
}

// SchemaFor look up the schema of (objType, id). Unregistered ids inside the
// standard range report NotSupported, everything else outside a registered
// schema is InvalidParameter.
func SchemaFor(objType ObjectType, id AttrID) (*AttrSchema, Status) {
	tbl := schemaTableFor(objType)
	if tbl == nil {
		return nil, StatusInvalidParameter
	}
	if s, ok := tbl.attrs[id]; ok {
		return s, StatusSuccess
	}
	if id < tbl.attrEnd {
		return nil, StatusNotSupported
	}
	return nil, StatusInvalidParameter
}

// sortedAttrIDs return the table's attribute ids in ascending order, so
// validation walks mandatory checks deterministically
func (t *schemaTable) sortedAttrIDs() []AttrID {
	ids := make([]AttrID, 0, len(t.attrs))
	for id := range t.attrs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// RegisterCustomAttr register one vendor attribute for objType at startup.
// The id must sit inside the custom band and must not collide with any
// registered id; failures are fatal to startup, never deferred to request
// time.
func RegisterCustomAttr(objType ObjectType, schema AttrSchema) error {
	tbl := schemaTableFor(objType)
	if tbl == nil {
		return fmt.Errorf("object type %s carries no attribute schema", objType)
	}
	if schema.ID < CustomRangeStart || schema.ID >= CustomRangeEnd {
		return fmt.Errorf("%s custom attribute %s id 0x%x outside custom range", objType, schema.Name, uint32(schema.ID))
	}
	if _, ok := tbl.attrs[schema.ID]; ok {
		return fmt.Errorf("%s custom attribute id 0x%x already registered", objType, uint32(schema.ID))
	}
	if schema.Flags.Has(FlagKey) {
		return fmt.Errorf("%s custom attribute %s must not carry the key flag", objType, schema.Name)
	}
	s := schema
	tbl.attrs[s.ID] = &s
	return nil
}
