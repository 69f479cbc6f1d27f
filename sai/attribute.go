package sai

// AttrID is an attribute ordinal scoped to one object type. Standard
// attributes occupy [0, attrEnd) of their family; vendor attributes live in
// the shared custom band.
type AttrID uint32

// vendor custom attribute band, per object type
const (
	CustomRangeStart AttrID = 0x10000000
	CustomRangeEnd   AttrID = 0x20000000
)

// ValueKind tags the payload carried by a Value
type ValueKind int

// attribute value kinds
const (
	ValueKindBool ValueKind = iota
	ValueKindUint32
	ValueKindInt32
	ValueKindString
	ValueKindObject
	ValueKindObjectList
)

var valueKindOrder = []string{
	ValueKindBool:       "bool",
	ValueKindUint32:     "uint32",
	ValueKindInt32:      "int32",
	ValueKindString:     "string",
	ValueKindObject:     "object",
	ValueKindObjectList: "objectlist",
}

func (k ValueKind) String() string {
	if k < ValueKindBool || int(k) >= len(valueKindOrder) {
		return "unknown"
	}
	return valueKindOrder[k]
}

// Value is a tagged attribute payload. Only the field matching Kind is
// meaningful; enum attributes ride in S32.
type Value struct {
	Kind ValueKind
	Bool bool
	U32  uint32
	S32  int32
	Str  string
	Oid  ObjectID
	Oids []ObjectID
}

// BoolValue build a bool Value
func BoolValue(b bool) Value {
	return Value{Kind: ValueKindBool, Bool: b}
}

// U32Value build a uint32 Value
func U32Value(v uint32) Value {
	return Value{Kind: ValueKindUint32, U32: v}
}

// S32Value build an int32 (enum) Value
func S32Value(v int32) Value {
	return Value{Kind: ValueKindInt32, S32: v}
}

// StrValue build a string Value
func StrValue(s string) Value {
	return Value{Kind: ValueKindString, Str: s}
}

// OidValue build an object reference Value
func OidValue(id ObjectID) Value {
	return Value{Kind: ValueKindObject, Oid: id}
}

// OidListValue build an object reference list Value
func OidListValue(ids ...ObjectID) Value {
	return Value{Kind: ValueKindObjectList, Oids: ids}
}

// references collects the object ids a value points at, nulls excluded
func (v Value) references() []ObjectID {
	switch v.Kind {
	case ValueKindObject:
		if v.Oid != NullObjectID {
			return []ObjectID{v.Oid}
		}
	case ValueKindObjectList:
		var refs []ObjectID
		for _, oid := range v.Oids {
			if oid != NullObjectID {
				refs = append(refs, oid)
			}
		}
		return refs
	}
	return nil
}

// Attr is one (id, value) pair
type Attr struct {
	ID    AttrID
	Value Value
}

// AttrList is the attribute list a verb carries
type AttrList []Attr

// Find return the value for id and whether it is present
func (l AttrList) Find(id AttrID) (Value, bool) {
	for _, a := range l {
		if a.ID == id {
			return a.Value, true
		}
	}
	return Value{}, false
}

// duplicateID reports the first attribute id supplied more than once
func (l AttrList) duplicateID() (AttrID, bool) {
	seen := make(map[AttrID]bool, len(l))
	for _, a := range l {
		if seen[a.ID] {
			return a.ID, true
		}
		seen[a.ID] = true
	}
	return 0, false
}

// duplicateAttrID is duplicateID for a bare id list (get requests)
func duplicateAttrID(ids []AttrID) (AttrID, bool) {
	seen := make(map[AttrID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return id, true
		}
		seen[id] = true
	}
	return 0, false
}
