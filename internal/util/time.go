package util

import "time"

var istLocation *time.Location

func init() {
	var err error
	istLocation, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		istLocation = time.FixedZone("IST", 5*60*60+30*60)
	}
}

func FormatIST(t time.Time, layout string) string {
	return t.In(istLocation).Format(layout)
}
