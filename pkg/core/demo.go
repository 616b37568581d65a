package core

// StepKind classifies a scripted pipeline step.
type StepKind string

// Step kind constants.
const (
	// StepStructured is a structured-query operation (SQL in the paper).
	StepStructured StepKind = "sql"
	// StepSemantic is a language-model operation.
	StepSemantic StepKind = "llm"
)

// Valid reports whether k is a known step kind.
func (k StepKind) Valid() bool {
	return k == StepStructured || k == StepSemantic
}

// ExecutionStep is one pre-authored step of a demo script.
// Steps are addressed only by their position in DemoExample.Steps.
type ExecutionStep struct {
	Kind StepKind `yaml:"kind" json:"kind"`
	// Title is the short headline shown next to the step number
	Title string `yaml:"title" json:"title"`
	// Description is the operation text displayed to the reader
	Description string `yaml:"description" json:"description"`
	// Result is revealed once the step has completed
	Result string `yaml:"result" json:"result"`
}

// Table is the input table of a demo example.
type Table struct {
	Name    string     `yaml:"name" json:"name"`
	Headers []string   `yaml:"headers" json:"headers"`
	Rows    [][]string `yaml:"rows" json:"rows"`
}

// DemoExample is an immutable scripted walkthrough of the pipeline.
type DemoExample struct {
	ID        string          `yaml:"id" json:"id"`
	Title     string          `yaml:"title" json:"title"`
	Question  string          `yaml:"question" json:"question"`
	Table     Table           `yaml:"table" json:"table"`
	Steps     []ExecutionStep `yaml:"steps" json:"steps"`
	Answer    string          `yaml:"answer" json:"answer"`
	Reasoning string          `yaml:"reasoning" json:"reasoning"`
}

// StepCount returns the number of scripted steps.
func (e *DemoExample) StepCount() int {
	if e == nil {
		return 0
	}
	return len(e.Steps)
}
