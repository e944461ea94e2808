package models

// Port is one of the six fixed ferry-terminal entities tracked by the
// dashboard. The set is static reference data, not a database table.
type Port struct {
	ID     string
	Name   string
	Region string
	Lat    float64
	Lng    float64
}

// DocumentTemplate is one of the fixed required document kinds every port
// must eventually supply. Order in the registry defines table row order.
type DocumentTemplate struct {
	ID    string
	Title string
}
