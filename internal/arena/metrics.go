package arena

import "expvar"

var (
	metricRoomCreateTotal  = expvar.NewInt("room_create_total")
	metricRoomEvictedTotal = expvar.NewInt("room_evicted_total")
	metricRoomsActive      = expvar.NewInt("rooms_active")

	metricPumpTicksTotal     = expvar.NewInt("pump_ticks_total")
	metricArchiveWriteErrors = expvar.NewInt("archive_write_errors_total")
)
