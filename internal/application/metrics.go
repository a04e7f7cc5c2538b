package application

import "expvar"

// Counters published on /api/debug/vars when debug metrics are enabled.
var (
	metricRecordsCreated = expvar.NewInt("vault_records_created")
	metricRecordsUpdated = expvar.NewInt("vault_records_updated")
	metricRecordsDeleted = expvar.NewInt("vault_records_deleted")
	metricGenerated      = expvar.NewInt("passwords_generated")
	metricLogins         = expvar.NewInt("logins")
)
