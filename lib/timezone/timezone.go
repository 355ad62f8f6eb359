package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Denver")
	if err != nil {
		panic(err)
	}
}

// pin scrape timestamps to one timezone so that "same day" bucketing
// of observations doesn't shift when the process runs on a host in a
// different region
func Now() time.Time {
	return time.Now().In(Location)
}
