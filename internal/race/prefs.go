package race

// Preferences holds notification flags. A nil field is unset: in a merge it
// keeps the stored value, in a match it means "don't care".
type Preferences struct {
	DailyAlert *bool `json:"daily_alert,omitempty"`
	RaceAlert  *bool `json:"race_alert,omitempty"`
}

// IsEmpty reports whether no field is set.
func (p Preferences) IsEmpty() bool {
	return p.DailyAlert == nil && p.RaceAlert == nil
}

// Merge returns p with every field set in update overwritten.
func (p Preferences) Merge(update Preferences) Preferences {
	merged := p
	if update.DailyAlert != nil {
		v := *update.DailyAlert
		merged.DailyAlert = &v
	}
	if update.RaceAlert != nil {
		v := *update.RaceAlert
		merged.RaceAlert = &v
	}
	return merged
}

// Bool returns a pointer to b, for building partial Preferences.
func Bool(b bool) *bool {
	return &b
}
