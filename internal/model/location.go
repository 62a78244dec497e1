package model

// LocationMasterEntry is one row of the facility's static location master.
// Loaded once per run; keyed by (device id, direction) with secondary
// lookups by display name and gate name.
type LocationMasterEntry struct {
	DeviceID          string
	DisplayName       string
	GateName          string
	Zone              ZoneCode
	Direction         Direction
	AllowedActivities []ActivityCode
}

// Allows reports whether the master marks this location as valid for the
// given activity. An empty allow-list permits everything.
func (l *LocationMasterEntry) Allows(a ActivityCode) bool {
	if len(l.AllowedActivities) == 0 {
		return true
	}
	for _, allowed := range l.AllowedActivities {
		if allowed == a {
			return true
		}
	}
	return false
}
