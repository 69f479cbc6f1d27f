package sai

// objectLookup resolves an object id to its live type. Reference validation
// runs against the same table the commit will run against, under the same
// lock.
type objectLookup func(ObjectID) (ObjectType, bool)

// checkValueKind schema-checked coercion of one supplied value
func checkValueKind(schema *AttrSchema, v Value) Status {
	if v.Kind != schema.Kind {
		return StatusInvalidParameter
	}
	if schema.Kind == ValueKindString && schema.StrLen > 0 && len(v.Str) >= schema.StrLen {
		return StatusInvalidParameter
	}
	return StatusSuccess
}

// checkReference verify a reference value points at a live object of an
// allowed type, honoring allow-null
func checkReference(schema *AttrSchema, v Value, lookup objectLookup) Status {
	if v.Kind != ValueKindObject && v.Kind != ValueKindObjectList {
		return StatusSuccess
	}

	oids := v.Oids
	if v.Kind == ValueKindObject {
		oids = []ObjectID{v.Oid}
	}
	for _, oid := range oids {
		if oid == NullObjectID {
			if !schema.AllowNull {
				return StatusInvalidParameter
			}
			continue
		}
		refType, live := lookup(oid)
		if !live {
			return StatusInvalidReference
		}
		if !schema.allowsObjectType(refType) {
			return StatusInvalidReference
		}
	}
	return StatusSuccess
}

// resolveDefault produce the value an absent attribute settles to, or false
// when the schema carries no resolvable default
func resolveDefault(schema *AttrSchema, lookup defaultSource) (Value, bool) {
	d := schema.Default
	if d == nil {
		return Value{}, false
	}
	if d.Literal != nil {
		return *d.Literal, true
	}
	if d.FromType != ObjectTypeNull {
		if v, ok := lookup(d.FromType, d.FromAttr); ok {
			return v, true
		}
	}
	return Value{}, false
}

// defaultSource reads the named attribute of the first live object of a
// type, for attr-value defaults
type defaultSource func(ObjectType, AttrID) (Value, bool)

// validateCreate checks attrs against objType's schema and returns the
// resolved value store for the new object: explicit values plus defaults for
// every applicable attribute. All-or-nothing; the first violation aborts.
func validateCreate(objType ObjectType, attrs AttrList, lookup objectLookup, defaults defaultSource) (map[AttrID]Value, Status) {
	tbl := schemaTableFor(objType)
	if tbl == nil {
		return nil, StatusInvalidParameter
	}

	if _, dup := attrs.duplicateID(); dup {
		return nil, StatusInvalidParameter
	}

	// pass 1: schema-check every explicit value
	for _, a := range attrs {
		schema, status := SchemaFor(objType, a.ID)
		if status != StatusSuccess {
			return nil, status
		}
		if status := checkValueKind(schema, a.Value); status != StatusSuccess {
			return nil, status
		}
	}

	// build the condition view: explicit values with defaults substituted
	view := make(map[AttrID]Value, len(tbl.attrs))
	for id, schema := range tbl.attrs {
		if v, ok := attrs.Find(id); ok {
			view[id] = v
			continue
		}
		if v, ok := resolveDefault(schema, defaults); ok {
			view[id] = v
		}
	}

	// pass 2: explicitly supplied attrs must be applicable
	for _, a := range attrs {
		schema, _ := SchemaFor(objType, a.ID)
		if !schema.Condition.holds(view) {
			return nil, StatusInapplicableAttribute
		}
	}

	// pass 3: every applicable mandatory attribute present or defaulted
	for _, id := range tbl.sortedAttrIDs() {
		schema := tbl.attrs[id]
		if !schema.Flags.Has(FlagMandatoryOnCreate) {
			continue
		}
		if !schema.Condition.holds(view) {
			continue
		}
		if _, ok := view[id]; !ok {
			return nil, StatusMissingMandatory
		}
	}

	// pass 4: commit view, applicable attributes only, references verified
	resolved := make(map[AttrID]Value, len(view))
	for id, v := range view {
		schema := tbl.attrs[id]
		if !schema.Condition.holds(view) {
			// inapplicable defaults are silently omitted
			continue
		}
		if status := checkReference(schema, v, lookup); status != StatusSuccess {
			return nil, status
		}
		resolved[id] = v
	}

	return resolved, StatusSuccess
}

// validateSet checks a single-attribute Set against the object's stored
// state. Applicability conditions are evaluated against the stored
// discriminators, which are create-only and therefore fixed since create.
func validateSet(objType ObjectType, attr Attr, stored map[AttrID]Value, lookup objectLookup) (Value, Status) {
	schema, status := SchemaFor(objType, attr.ID)
	if status != StatusSuccess {
		return Value{}, status
	}
	if !schema.Flags.Has(FlagCreateAndSet) {
		return Value{}, StatusImmutableAttribute
	}
	if status := checkValueKind(schema, attr.Value); status != StatusSuccess {
		return Value{}, status
	}
	if !schema.Condition.holds(stored) {
		return Value{}, StatusInapplicableAttribute
	}
	if status := checkReference(schema, attr.Value, lookup); status != StatusSuccess {
		return Value{}, status
	}
	return attr.Value, StatusSuccess
}
