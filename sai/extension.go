package sai

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vendor extension table file format. Attribute ids are offsets from the
// custom range base of their object type.
type extensionTable struct {
	Attributes []extensionAttr `yaml:"attributes"`
}

type extensionAttr struct {
	Object  string            `yaml:"object"`
	Offset  uint32            `yaml:"offset"`
	Name    string            `yaml:"name"`
	Kind    string            `yaml:"kind"`
	Flags   []string          `yaml:"flags"`
	Default *extensionDefault `yaml:"default,omitempty"`
	Objects []string          `yaml:"objects,omitempty"`
	StrLen  int               `yaml:"str_len,omitempty"`
}

type extensionDefault struct {
	Bool *bool   `yaml:"bool,omitempty"`
	U32  *uint32 `yaml:"uint32,omitempty"`
	S32  *int32  `yaml:"int32,omitempty"`
	Str  *string `yaml:"string,omitempty"`
}

var extensionKinds = map[string]ValueKind{
	"bool":       ValueKindBool,
	"uint32":     ValueKindUint32,
	"int32":      ValueKindInt32,
	"string":     ValueKindString,
	"object":     ValueKindObject,
	"objectlist": ValueKindObjectList,
}

var extensionFlags = map[string]AttrFlags{
	"mandatory_on_create": FlagMandatoryOnCreate,
	"create_only":         FlagCreateOnly,
	"create_and_set":      FlagCreateAndSet,
}

func objectTypeByName(name string) (ObjectType, bool) {
	for t, n := range ObjectTypeOrder {
		if n == name && ObjectType(t) != ObjectTypeNull {
			return ObjectType(t), true
		}
	}
	return ObjectTypeNull, false
}

// LoadExtensionFile read a vendor extension table and register every
// attribute it declares. Any failure is returned for the caller to treat as
// fatal; a partially applied table must not serve requests.
func LoadExtensionFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read extension table: %w", err)
	}

	var table extensionTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("parse extension table: %w", err)
	}

	for _, ext := range table.Attributes {
		schema, objType, err := ext.toSchema()
		if err != nil {
			return fmt.Errorf("extension attribute %s: %w", ext.Name, err)
		}
		if err := RegisterCustomAttr(objType, schema); err != nil {
			return fmt.Errorf("register extension attribute %s: %w", ext.Name, err)
		}
	}
	return nil
}

func (e extensionAttr) toSchema() (AttrSchema, ObjectType, error) {
	objType, ok := objectTypeByName(e.Object)
	if !ok {
		return AttrSchema{}, ObjectTypeNull, fmt.Errorf("unknown object type %q", e.Object)
	}

	kind, ok := extensionKinds[e.Kind]
	if !ok {
		return AttrSchema{}, ObjectTypeNull, fmt.Errorf("unknown value kind %q", e.Kind)
	}

	var flags AttrFlags
	for _, f := range e.Flags {
		bit, ok := extensionFlags[f]
		if !ok {
			return AttrSchema{}, ObjectTypeNull, fmt.Errorf("unknown flag %q", f)
		}
		flags |= bit
	}
	if flags == 0 {
		flags = FlagCreateAndSet
	}

	schema := AttrSchema{
		ID:     CustomRangeStart + AttrID(e.Offset),
		Name:   e.Name,
		Kind:   kind,
		Flags:  flags,
		StrLen: e.StrLen,
	}
	if AttrID(e.Offset) >= CustomRangeEnd-CustomRangeStart {
		return AttrSchema{}, ObjectTypeNull, fmt.Errorf("offset 0x%x exceeds custom range", e.Offset)
	}

	for _, name := range e.Objects {
		refType, ok := objectTypeByName(name)
		if !ok {
			return AttrSchema{}, ObjectTypeNull, fmt.Errorf("unknown referent object type %q", name)
		}
		schema.Objects = append(schema.Objects, refType)
	}

	if e.Default != nil {
		v, err := e.Default.toValue(kind)
		if err != nil {
			return AttrSchema{}, ObjectTypeNull, err
		}
		schema.Default = &DefaultValue{Literal: &v}
		if kind == ValueKindObject {
			schema.AllowNull = true
		}
	}

	return schema, objType, nil
}

func (d extensionDefault) toValue(kind ValueKind) (Value, error) {
	switch kind {
	case ValueKindBool:
		if d.Bool != nil {
			return BoolValue(*d.Bool), nil
		}
	case ValueKindUint32:
		if d.U32 != nil {
			return U32Value(*d.U32), nil
		}
	case ValueKindInt32:
		if d.S32 != nil {
			return S32Value(*d.S32), nil
		}
	case ValueKindString:
		if d.Str != nil {
			return StrValue(*d.Str), nil
		}
	case ValueKindObject:
		// reference defaults always settle to null
		return OidValue(NullObjectID), nil
	}
	return Value{}, fmt.Errorf("default does not match value kind %s", kind)
}
