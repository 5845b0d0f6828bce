package config

import (
	"storefront.GO/cron/jobs"
)

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

var CronJobs = map[string]CronJob{
	"selection:flush": {Schedule: "@every 1m", Job: jobs.SelectionFlushJob},
	"facets:refresh":  {Schedule: "0 * * * *", Job: jobs.FacetRefreshJob},
	// Add more jobs here
}
