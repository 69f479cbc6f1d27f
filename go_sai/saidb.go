package gosai

import (
	"math"
	"time"

	"github.com/cn-pmlabs/gosai/lib/log"
	odbc "github.com/cn-pmlabs/gosai/lib/ovsdb_client"
	"github.com/cn-pmlabs/gosai/sai"

	"github.com/ebay/libovsdb"
)

type ovsdbc struct {
	odbc.OvsdbC
}

var saiDBClient = ovsdbc{
	odbc.OvsdbC{
		Db:         odbc.SAIDB,
		MonitorAll: true,
		TLSConfig:  nil,
		Client:     nil,
	},
}

// SwitchID is the scope object every DB-driven create lands in, set by the
// controller before the DB connection comes up
var SwitchID sai.ObjectID

// NewSaiDbClient connect and subscribe the SAI config DB
func NewSaiDbClient() {
	saiDBClient.Addr = odbc.SaidbAddr
	err := saiDBClient.NewOvsDbClient()
	if err != nil {
		log.Warning("[GoSAI] Connect ovsdb %s[%s] failed, retry later\n", saiDBClient.Db, saiDBClient.Addr)
		go saiDBClient.reConnect()
	} else {
		log.Warning("[GoSAI] Connect ovsdb %s successed\n", saiDBClient.Db)
		initial, err := saiDBClient.Client.MonitorAll(saiDBClient.Db, "")
		if err != nil || initial == nil {
			log.Warning("[GoSAI] Monitor ovsdb %s failed: %v, retry later\n", saiDBClient.Db, err)
			go saiDBClient.reConnect()
			return
		}
		saiDBClient.saiProcessInitial(*initial)
		notifier := saidbNotifier{&saiDBClient}
		saiDBClient.Client.Register(notifier)
	}
}

func (c *ovsdbc) reConnect() {
	if c == nil {
		return
	}

	retryCnt := 0
	cycleTime := time.NewTimer(time.Second * time.Duration(math.Exp2(float64(retryCnt))))
	for {
		select {
		case <-cycleTime.C:
			client, err := libovsdb.Connect(c.Addr, c.TLSConfig)
			if err == nil && client != nil {
				c.Client = client
				initial, err := c.MonitorDbTables(c.Db, c.MonitorAll, c.MonitorTables, "")
				if err == nil && initial != nil {
					log.Warning("[GoSAI] Reconnect ovsdb %s successed\n", c.Db)
					c.saiProcessInitial(*initial)
					notifier := saidbNotifier{c}
					c.Client.Register(notifier)

					cycleTime.Stop()
					return
				}
			}

			log.Info("[GoSAI] Try to connect ovsdb %s[%s] failed, retry after %v seconds\n",
				c.Db, c.Addr, math.Exp2(float64(retryCnt)))

			cycleTime.Reset(time.Second * time.Duration(math.Exp2(float64(retryCnt))))
			if retryCnt <= 2 {
				retryCnt++
			}
		}
	}
}

// saiProcessInitial replays the DB snapshot in reference order, so rows that
// point at other rows land after their targets
func (c *ovsdbc) saiProcessInitial(updates libovsdb.TableUpdates) {
	for _, table := range odbc.SAITablesOrder {
		tableupdate, ok := updates.Updates[table]
		if !ok {
			continue
		}

		log.Info("[GoSAI] >>> table %v tableupdate %+v\n", table, tableupdate)

		for uuid, rowUpdate := range tableupdate.Rows {
			rowUpdate = odbc.RowUpdateOptimize(rowUpdate, uuid)
			op := odbc.GetRowUpdateOp(rowUpdate)

			switch op {
			case odbc.OpInsert:
				saidbCreateObj(table, uuid, rowUpdate.New)
			case odbc.OpDelete:
				saidbRemoveObj(table, uuid)
			case odbc.OpUpdate:
				saidbUpdateObj(table, uuid, rowUpdate.New, rowUpdate.Old)
			}
		}
	}
}

func (c *ovsdbc) saiNotifyUpdate(updates libovsdb.TableUpdates) {
	for _, table := range odbc.SAITablesOrder {
		tableupdate, ok := updates.Updates[table]
		if !ok {
			continue
		}

		log.Info("[GoSAI] >>> table %v tableupdate %+v\n", table, tableupdate)

		for uuid, rowUpdate := range tableupdate.Rows {
			rowUpdate = odbc.RowUpdateOptimize(rowUpdate, uuid)
			op := odbc.GetRowUpdateOp(rowUpdate)

			switch op {
			case odbc.OpInsert:
				saidbCreateObj(table, uuid, rowUpdate.New)
			case odbc.OpDelete:
				saidbRemoveObj(table, uuid)
			case odbc.OpUpdate:
				saidbUpdateObj(table, uuid, rowUpdate.New, rowUpdate.Old)
			}
		}
	}
}

// faultStatusSet write a verb failure back to the row, cleared on success
func faultStatusSet(table string, uuid string, reason string) {
	if saiDBClient.Client == nil {
		return
	}
	conditions := []interface{}{
		libovsdb.NewCondition("_uuid", "==", odbc.StringToGoUUID(uuid)),
	}
	updates := map[string]interface{}{
		"fault_status": reason,
	}
	saiDBClient.UpdateRows(odbc.SAIDB, table, updates, conditions)
}
