package ovsdbclient

import (
	"encoding/hex"
	"reflect"

	"github.com/ebay/libovsdb"
	"github.com/google/uuid"
)

// defeault ovsdb server listening socket addr
var (
	SaidbAddr string = "tcp:0.0.0.0:6650"
)

// operation set
const (
	OpInsert string = "insert"
	OpMutate string = "mutate"
	OpDelete string = "delete"
	OpSelect string = "select"
	OpUpdate string = "update"
)

// DB name
const (
	SAIDB string = "CONTROLLER_SAI"
)

// SAIDB Table name
const (
	SAI_Port               string = "Port"
	SAI_Lag                string = "Lag"
	SAI_Vlan               string = "Vlan"
	SAI_Virtual_Router     string = "Virtual_Router"
	SAI_Policer            string = "Policer"
	SAI_Hostif_Trap_Group  string = "Hostif_Trap_Group"
	SAI_Hostif_Trap        string = "Hostif_Trap"
	SAI_Hostif_User_Trap   string = "Hostif_User_Trap"
	SAI_Host_Interface     string = "Host_Interface"
	SAI_Hostif_Table_Entry string = "Hostif_Table_Entry"
	SAI_Router_Interface   string = "Router_Interface"
)

// SAITablesOrder lists tables in reference order: targets before the rows
// that point at them
var SAITablesOrder = []string{
	SAI_Port,
	SAI_Lag,
	SAI_Vlan,
	SAI_Virtual_Router,
	SAI_Policer,
	SAI_Hostif_Trap_Group,
	SAI_Hostif_Trap,
	SAI_Hostif_User_Trap,
	SAI_Host_Interface,
	SAI_Router_Interface,
	SAI_Hostif_Table_Entry,
}

// Float64ToInt libovsdb get interger by by float64
func Float64ToInt(row libovsdb.Row) {
	for field, value := range row.Fields {
		if v, ok := value.(float64); ok {
			n := int(v)
			if float64(n) == v {
				row.Fields[field] = n
			}
		}
	}
}

// RowUpdateOptimize convert float64 and save uuid to row field
func RowUpdateOptimize(rowUpdate libovsdb.RowUpdate, uuid string) libovsdb.RowUpdate {
	Float64ToInt(rowUpdate.New)
	Float64ToInt(rowUpdate.Old)

	if rowUpdate.New.Fields != nil {
		rowUpdate.New.Fields["_uuid"] = libovsdb.UUID{GoUUID: uuid}
	}
	if rowUpdate.Old.Fields != nil {
		rowUpdate.Old.Fields["_uuid"] = libovsdb.UUID{GoUUID: uuid}
	}

	return rowUpdate
}

// StringToGoUUID convert uuid string to libovsdb.UUID
func StringToGoUUID(uuid string) libovsdb.UUID {
	return libovsdb.UUID{GoUUID: uuid}
}

func encodeHex(dst []byte, id uuid.UUID) {
	hex.Encode(dst, id[:4])
	dst[8] = '_'
	hex.Encode(dst[9:13], id[4:6])
	dst[13] = '_'
	hex.Encode(dst[14:18], id[6:8])
	dst[18] = '_'
	hex.Encode(dst[19:23], id[8:10])
	dst[23] = '_'
	hex.Encode(dst[24:], id[10:])
}

// NewRowUUID generate a random UUID
func NewRowUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	var buf [36 + 3]byte
	copy(buf[:], "row")
	encodeHex(buf[3:], id)
	return string(buf[:]), nil
}

// NewUUIDString generate a random UUID string
func NewUUIDString() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// GetRowUpdateOp get the update operation
func GetRowUpdateOp(rowUpdate libovsdb.RowUpdate) string {
	var op string
	empty := libovsdb.Row{}
	if !reflect.DeepEqual(rowUpdate.New, empty) {
		if reflect.DeepEqual(rowUpdate.Old, empty) {
			op = OpInsert
		} else {
			op = OpUpdate
		}
	} else {
		if !reflect.DeepEqual(rowUpdate.Old, empty) {
			op = OpDelete
		}
	}
	return op
}
