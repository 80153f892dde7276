package eits

// Module is a top-level grouping of measures, e.g. "ISMS.1".
type Module struct {
	Code        string `json:"code"`
	Name        string `json:"title"`
	Description string `json:"purpose"`
	// Category is the top-level category code the module was listed under (ISMS, NET, ...).
	Category       string        `json:"group"`
	Responsibility string        `json:"responsibility"`
	Limits         string        `json:"limits"`
	AdditionalInfo string        `json:"additional_info"`
	Threats        []ElementInfo `json:"risks"`
	Measures       []Measure     `json:"measures"`
}

// Measure is a single control within a module. Measures are owned by their
// module and keep page order.
type Measure struct {
	Code         string   `json:"code"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ModuleCode   string   `json:"module_code"`
	Group        string   `json:"group"`
	SecurityCode string   `json:"security_code"`
	Assignees    []string `json:"assignees"`
	RiskCodes    []string `json:"risks"`
}

// ElementInfo is a titled block of (possibly HTML) content.
type ElementInfo struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Risk is an entry in the basic risk catalogue.
type Risk struct {
	Code          string `json:"code"`
	Title         string `json:"title"`
	CombinedTitle string `json:"combined_title"`
	Description   string `json:"description"`
}

// Snapshot is the complete ordered module collection for one framework year.
type Snapshot struct {
	Year int `json:"year"`
	// Version, ValidFrom and ValidTo are copied from the catalog as served,
	// ValidTo is empty for the edition in force.
	Version   string   `json:"version"`
	ValidFrom string   `json:"valid_from"`
	ValidTo   string   `json:"valid_to"`
	Modules   []Module `json:"modules"`
}

// Module returns the module with the given code.
func (s Snapshot) Module(code string) (Module, bool) {
	for _, m := range s.Modules {
		if m.Code == code {
			return m, true
		}
	}
	return Module{}, false
}

// MeasureCount is the total number of measures across all modules.
func (s Snapshot) MeasureCount() int {
	n := 0
	for _, m := range s.Modules {
		n += len(m.Measures)
	}
	return n
}
