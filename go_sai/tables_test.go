package gosai

import (
	"testing"

	odbc "github.com/cn-pmlabs/gosai/lib/ovsdb_client"
	"github.com/cn-pmlabs/gosai/sai"

	"github.com/ebay/libovsdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(fields map[string]interface{}) libovsdb.Row {
	return libovsdb.Row{Fields: fields}
}

func TestFieldHelpers(t *testing.T) {
	r := row(map[string]interface{}{
		"name":      "Ethernet0",
		"queue":     7,
		"raw":       float64(3),
		"up":        true,
		"policer":   libovsdb.UUID{GoUUID: "aa-bb"},
		"empty":     libovsdb.OvsSet{GoSet: []interface{}{}},
		"boxed":     libovsdb.OvsSet{GoSet: []interface{}{5}},
		"boxeduuid": libovsdb.OvsSet{GoSet: []interface{}{libovsdb.UUID{GoUUID: "cc-dd"}}},
	})

	s, ok := fieldString(r, "name")
	require.True(t, ok)
	assert.Equal(t, "Ethernet0", s)

	n, ok := fieldInt(r, "queue")
	require.True(t, ok)
	assert.Equal(t, 7, n)

	n, ok = fieldInt(r, "raw")
	require.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = fieldInt(r, "boxed")
	require.True(t, ok)
	assert.Equal(t, 5, n)

	b, ok := fieldBool(r, "up")
	require.True(t, ok)
	assert.True(t, b)

	u, ok := fieldUUID(r, "policer")
	require.True(t, ok)
	assert.Equal(t, "aa-bb", u)

	u, ok = fieldUUID(r, "boxeduuid")
	require.True(t, ok)
	assert.Equal(t, "cc-dd", u)

	// empty optional columns read as absent
	if _, ok := fieldInt(r, "empty"); ok {
		t.Fatal("empty set read as a value")
	}
	if _, ok := fieldString(r, "missing"); ok {
		t.Fatal("missing column read as a value")
	}
}

func TestRowToTrapGroupAttrs(t *testing.T) {
	policer, status := sai.CreateExternalObject(sai.ObjectTypePolicer)
	require.Equal(t, sai.StatusSuccess, status)
	bindRow("policer-row", policer)
	defer unbindRow("policer-row")

	attrs, err := rowToTrapGroupAttrs(row(map[string]interface{}{
		"admin_state": false,
		"queue":       4,
		"policer":     libovsdb.UUID{GoUUID: "policer-row"},
	}))
	require.NoError(t, err)

	v, ok := attrs.Find(sai.TrapGroupAttrAdminState)
	require.True(t, ok)
	assert.False(t, v.Bool)
	v, ok = attrs.Find(sai.TrapGroupAttrQueue)
	require.True(t, ok)
	assert.Equal(t, uint32(4), v.U32)
	v, ok = attrs.Find(sai.TrapGroupAttrPolicer)
	require.True(t, ok)
	assert.Equal(t, policer, v.Oid)
}

func TestRowToTrapGroupAttrsUnboundRef(t *testing.T) {
	_, err := rowToTrapGroupAttrs(row(map[string]interface{}{
		"policer": libovsdb.UUID{GoUUID: "never-seen"},
	}))
	require.Error(t, err)
}

func TestRowToTrapAttrs(t *testing.T) {
	attrs, err := rowToTrapAttrs(row(map[string]interface{}{
		"trap_type":     "arp_request",
		"packet_action": "trap",
		"trap_priority": 9,
	}))
	require.NoError(t, err)

	v, ok := attrs.Find(sai.TrapAttrTrapType)
	require.True(t, ok)
	assert.Equal(t, sai.TrapTypeArpRequest, v.S32)
	v, ok = attrs.Find(sai.TrapAttrPacketAction)
	require.True(t, ok)
	assert.Equal(t, sai.PacketActionTrap, v.S32)
	v, ok = attrs.Find(sai.TrapAttrTrapPriority)
	require.True(t, ok)
	assert.Equal(t, uint32(9), v.U32)
}

func TestRowToTrapAttrsUnknownEnum(t *testing.T) {
	_, err := rowToTrapAttrs(row(map[string]interface{}{
		"trap_type": "no_such_trap",
	}))
	require.Error(t, err)
}

func TestSaidbCreateRemoveFlow(t *testing.T) {
	saidbCreateObj(odbc.SAI_Virtual_Router, "vr-row", row(nil))
	vr, ok := boundObj("vr-row")
	require.True(t, ok)
	assert.Equal(t, sai.ObjectTypeVirtualRouter, vr.Type())

	saidbCreateObj(odbc.SAI_Hostif_Trap_Group, "group-row", row(map[string]interface{}{
		"queue": 2,
	}))
	_, ok = boundObj("group-row")
	require.True(t, ok)

	saidbCreateObj(odbc.SAI_Hostif_Trap, "trap-row", row(map[string]interface{}{
		"trap_type":     "bgp",
		"packet_action": "drop",
		"trap_group":    libovsdb.UUID{GoUUID: "group-row"},
	}))
	_, ok = boundObj("trap-row")
	require.True(t, ok)

	// the trap holds the group, removal order matters
	saidbRemoveObj(odbc.SAI_Hostif_Trap_Group, "group-row")
	_, ok = boundObj("group-row")
	assert.True(t, ok, "in-use group must stay bound")

	saidbRemoveObj(odbc.SAI_Hostif_Trap, "trap-row")
	_, ok = boundObj("trap-row")
	assert.False(t, ok)

	saidbRemoveObj(odbc.SAI_Hostif_Trap_Group, "group-row")
	_, ok = boundObj("group-row")
	assert.False(t, ok)

	saidbRemoveObj(odbc.SAI_Virtual_Router, "vr-row")
	_, ok = boundObj("vr-row")
	assert.False(t, ok)
	_, live := sai.ObjectTypeOf(vr)
	assert.False(t, live)
}

func TestSaidbCreateObjBadRow(t *testing.T) {
	saidbCreateObj(odbc.SAI_Hostif_Trap, "bad-row", row(map[string]interface{}{
		"trap_type": "not_a_trap",
	}))
	if _, ok := boundObj("bad-row"); ok {
		t.Fatal("row with a bad enum bound an object")
	}
}

func TestSaidbUpdateObj(t *testing.T) {
	saidbCreateObj(odbc.SAI_Hostif_Trap_Group, "upd-row", row(map[string]interface{}{
		"queue": 1,
	}))
	id, ok := boundObj("upd-row")
	require.True(t, ok)
	defer saidbRemoveObj(odbc.SAI_Hostif_Trap_Group, "upd-row")

	saidbUpdateObj(odbc.SAI_Hostif_Trap_Group, "upd-row",
		row(map[string]interface{}{"admin_state": true, "queue": 6}),
		row(map[string]interface{}{"queue": 1}),
	)

	attrs, status := sai.GetObjectAttr(id, []sai.AttrID{sai.TrapGroupAttrQueue})
	require.Equal(t, sai.StatusSuccess, status)
	v, ok := attrs.Find(sai.TrapGroupAttrQueue)
	require.True(t, ok)
	assert.Equal(t, uint32(6), v.U32)
}

func TestSaidbUpdateObjAfterFailedCreate(t *testing.T) {
	// first sight of the row is invalid, the fixed row arrives as an update
	saidbCreateObj(odbc.SAI_Hostif_Trap, "late-row", row(map[string]interface{}{
		"trap_type": "lldp",
	}))
	_, ok := boundObj("late-row")
	require.False(t, ok)

	saidbUpdateObj(odbc.SAI_Hostif_Trap, "late-row",
		row(map[string]interface{}{"trap_type": "lldp", "packet_action": "trap"}),
		row(map[string]interface{}{}),
	)
	_, ok = boundObj("late-row")
	require.True(t, ok)
	saidbRemoveObj(odbc.SAI_Hostif_Trap, "late-row")
}
