package eits

type DiffKind string

const (
	DIFF_ADDED    DiffKind = "ADDED"
	DIFF_REMOVED  DiffKind = "REMOVED"
	DIFF_MODIFIED DiffKind = "MODIFIED"
)

type EntityKind string

const (
	ENTITY_MODULE  EntityKind = "MODULE"
	ENTITY_MEASURE EntityKind = "MEASURE"
)

// EntitySnapshot is the compared state of a module or measure on one side
// of a diff.
type EntitySnapshot struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type DiffRecord struct {
	Kind       DiffKind        `json:"kind"`
	EntityKind EntityKind      `json:"entity_kind"`
	Code       string          `json:"code"`
	ModuleCode string          `json:"module_code"`
	Before     *EntitySnapshot `json:"before,omitempty"`
	After      *EntitySnapshot `json:"after,omitempty"`
}

func ModuleState(m Module) *EntitySnapshot {
	return &EntitySnapshot{Code: m.Code, Title: m.Name, Description: m.Description}
}

func MeasureState(m Measure) *EntitySnapshot {
	return &EntitySnapshot{Code: m.Code, Title: m.Title, Description: m.Description}
}
