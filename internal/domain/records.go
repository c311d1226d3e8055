package domain

// Objective is a learning objective (TP) derived from an outcome narrative.
type Objective struct {
	ID         string `json:"id" yaml:"id"`
	OutcomeID  string `json:"cpId" yaml:"cp_id"`
	Statement  string `json:"statement" yaml:"statement"`
	Competency string `json:"competency" yaml:"competency"`
	Content    string `json:"content" yaml:"content"`
	BloomLevel string `json:"bloomLevel" yaml:"bloom_level"`
}

// FlowItem is one sequenced module of the objective flow (ATP).
// ObjectiveID is not checked against the objective list.
type FlowItem struct {
	ID              string   `json:"id" yaml:"id"`
	ObjectiveID     string   `json:"tpId" yaml:"tp_id"`
	Sequence        int      `json:"sequence" yaml:"sequence"`
	ModuleName      string   `json:"moduleName" yaml:"module_name"`
	DurationPeriods float64  `json:"durationJP" yaml:"duration_jp"`
	CharacterTags   []string `json:"p3Elements" yaml:"p3_elements"`
}

// AnnualProgramItem is one row of the annual program (Prota).
type AnnualProgramItem struct {
	No               int     `json:"no" yaml:"no"`
	Outcome          string  `json:"cp" yaml:"cp"`
	FlowRef          string  `json:"atp" yaml:"atp"`
	LearningMaterial string  `json:"learningMaterial" yaml:"learning_material"`
	TotalPeriods     float64 `json:"totalJP" yaml:"total_jp"`
	AssessmentType   string  `json:"assessmentType" yaml:"assessment_type"`
}

// SemesterProgramItem is one row of the semester program (Promes).
type SemesterProgramItem struct {
	No               int      `json:"no" yaml:"no"`
	Semester         Semester `json:"semester" yaml:"semester"`
	Outcome          string   `json:"cp" yaml:"cp"`
	FlowRef          string   `json:"atp" yaml:"atp"`
	LearningMaterial string   `json:"learningMaterial" yaml:"learning_material"`
	Periods          float64  `json:"jp" yaml:"jp"`
	AssessmentForm   string   `json:"assessmentForm" yaml:"assessment_form"`
}

// PartitionBySemester splits a semester program into its two halves,
// preserving order. Rows with an unknown tag are dropped.
func PartitionBySemester(items []SemesterProgramItem) (first, second []SemesterProgramItem) {
	for _, it := range items {
		switch it.Semester {
		case SemesterFirst:
			first = append(first, it)
		case SemesterSecond:
			second = append(second, it)
		}
	}
	return first, second
}

// ObjectiveIndex maps objective IDs to their records for display lookups.
func ObjectiveIndex(objectives []Objective) map[string]Objective {
	idx := make(map[string]Objective, len(objectives))
	for _, o := range objectives {
		idx[o.ID] = o
	}
	return idx
}

// SumFlowPeriods totals DurationPeriods across the flow.
func SumFlowPeriods(items []FlowItem) float64 {
	var total float64
	for _, it := range items {
		total += it.DurationPeriods
	}
	return total
}

// SumAnnualPeriods totals TotalPeriods across the annual program.
func SumAnnualPeriods(items []AnnualProgramItem) float64 {
	var total float64
	for _, it := range items {
		total += it.TotalPeriods
	}
	return total
}

// SumSemesterPeriods totals Periods across the semester program.
func SumSemesterPeriods(items []SemesterProgramItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Periods
	}
	return total
}
