package parser

// the json shapes served by the portal's /api/2 endpoints, null values
// decode into their zero values.

type apiElementInfo struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type apiMeasureDetail struct {
	MeasureId     string   `json:"measureId"`
	MeasureTitle  string   `json:"measureTitle"`
	Body          string   `json:"body"`
	Assignees     []string `json:"assignees"`
	SecurityCodes []string `json:"securityCodes"`
	MeasureCode   string   `json:"measureCode"`
}

type apiMeasureGroup struct {
	GroupId    string             `json:"groupId"`
	GroupTitle string             `json:"groupTitle"`
	Measures   []apiMeasureDetail `json:"measures"`
	GroupCode  string             `json:"groupCode"`
}

type apiModule struct {
	ModuleId       string            `json:"moduleId"`
	GroupId        string            `json:"groupId"`
	ModuleTitle    string            `json:"moduleTitle"`
	Link           string            `json:"link"`
	MeasureDetails []apiMeasureGroup `json:"measureDetails"`
	ModuleCode     string            `json:"moduleCode"`
	Description    []apiElementInfo  `json:"description"`
}

type apiModuleContent struct {
	Version        string            `json:"version"`
	Lang           string            `json:"lang"`
	ValidFrom      string            `json:"validFrom"`
	ValidTo        string            `json:"validTo"`
	ModuleId       string            `json:"moduleId"`
	ModuleTitle    string            `json:"moduleTitle"`
	Description    []apiElementInfo  `json:"description"`
	Risks          []apiElementInfo  `json:"risks"`
	AdditionalInfo string            `json:"additionalInfo"`
	MeasureDetails []apiMeasureGroup `json:"measureDetails"`
	ModuleCode     string            `json:"moduleCode"`
}

type apiModuleGroup struct {
	GroupId         string           `json:"groupId"`
	GroupTitle      string           `json:"groupTitle"`
	ParentGroupId   string           `json:"parentGroupId"`
	ModuleSubgroups []apiModuleGroup `json:"moduleSubgroups"`
	Modules         []apiModule      `json:"modules"`
	GroupCode       string           `json:"groupCode"`
}

type apiCatalog struct {
	Version      string           `json:"version"`
	Lang         string           `json:"lang"`
	ValidFrom    string           `json:"validFrom"`
	ValidTo      string           `json:"validTo"`
	Id           string           `json:"id"`
	ModuleGroups []apiModuleGroup `json:"moduleGroups"`
}

type apiDiffReplaced struct {
	OldValue *apiModuleGroup `json:"oldValue"`
	NewValue *apiModuleGroup `json:"newValue"`
}

type apiDiffCatalog struct {
	OldVersion string            `json:"oldVersion"`
	NewVersion string            `json:"newVersion"`
	Lang       string            `json:"lang"`
	Added      []apiModuleGroup  `json:"added"`
	Removed    []apiModuleGroup  `json:"removed"`
	Replaced   []apiDiffReplaced `json:"replaced"`
}

type apiMaterial struct {
	Title        string           `json:"title"`
	ChildObjects []apiElementInfo `json:"child_objects"`
}

// modulesRecursive lists a group's modules, subgroups first.
func (g apiModuleGroup) modulesRecursive() []apiModule {
	var modules []apiModule
	for _, sub := range g.ModuleSubgroups {
		modules = append(modules, sub.modulesRecursive()...)
	}
	return append(modules, g.Modules...)
}
