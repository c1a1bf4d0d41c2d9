package model

// DBListEntry is one line of the governing DB list: a data block name and the
// base key its custom keys are derived from. List order is the output order.
type DBListEntry struct {
	Name    string `json:"name" yaml:"name"`
	BaseKey int    `json:"base_key" yaml:"base_key"`
}
