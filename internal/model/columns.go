package model

// AlarmColumns is the header of the exported alarm table.
// Column order matters: the HMI import reads cells by position.
var AlarmColumns = []string{
	"Name", "Folder", "Tag", "ActivationType", "Value", "AlarmType", "Message",
	"Priority", "PageType", "Page", "IsLogged", "IsPrinted", "HasAcknowledgeTag",
	"AcknowledgeType", "AcknowledgeTag", "AcknowledgeValue", "RangeMin", "RangeMax",
	"SingleInstance", "NegativeLogic", "CustomKey", "Tag OPC", "OPC-Folder",
	"Identifier", "Node Id", "Num. Path",
}

// Presentation holds the alarm table columns that are the same for every record.
type Presentation struct {
	Folder            string
	ActivationType    string
	AlarmType         string
	PageType          string
	Page              string
	IsLogged          bool
	IsPrinted         bool
	HasAcknowledgeTag bool
	AcknowledgeType   string
	AcknowledgeTag    string
	AcknowledgeValue  int
	RangeMin          string
	RangeMax          string
	SingleInstance    bool
	NegativeLogic     bool
	TagOPC            bool
	OPCFolder         string
	Identifier        string
	NodeID            int
	NumPath           string
}

// AlarmDefaults are the fixed presentation values attached at export time.
var AlarmDefaults = Presentation{
	Folder:            "",
	ActivationType:    "Bit",
	AlarmType:         "SimpleEvent",
	IsLogged:          true,
	IsPrinted:         true,
	HasAcknowledgeTag: false,
	AcknowledgeType:   "Equal",
	AcknowledgeValue:  0,
	SingleInstance:    false,
	NegativeLogic:     false,
	TagOPC:            false,
	OPCFolder:         "ESA",
	NodeID:            0,
}
