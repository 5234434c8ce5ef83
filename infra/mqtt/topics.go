package mqtt

// Topics derives the bridge topics from a prefix.
type Topics struct {
	Prefix string
}

func (t Topics) Submit() string           { return t.Prefix + "/jobs/submit" }
func (t Topics) Rejected() string         { return t.Prefix + "/jobs/rejected" }
func (t Topics) AddVehicle() string       { return t.Prefix + "/vehicles/add" }
func (t Topics) State() string            { return t.Prefix + "/state" }
func (t Topics) Event(kind string) string { return t.Prefix + "/events/" + kind }
