package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Dubai")
	if err != nil {
		panic(err)
	}
}

// force timezone to be in Dubai because the insurer portals render
// UAE-local dates while our servers may end up anywhere, which will
// cause disturbances when manipulating dates based on
// <time.Time>.Year()/Month()/Day()/Hour()/...
func Now() time.Time {
	return time.Now().In(Location)
}
