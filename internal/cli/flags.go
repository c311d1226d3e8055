package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/spf13/pflag"
)

// levelValue is a pflag.Value accepting education level codes and aliases.
type levelValue struct{ v *domain.EducationLevel }

func (l levelValue) String() string {
	if l.v == nil {
		return ""
	}
	return string(*l.v)
}

func (l levelValue) Set(s string) error {
	lv, err := domain.ParseEducationLevel(s)
	if err != nil {
		return err
	}
	*l.v = lv
	return nil
}

func (levelValue) Type() string { return "level" }

// approachValue is a pflag.Value accepting learning approach labels and aliases.
type approachValue struct{ v *domain.LearningApproach }

func (a approachValue) String() string {
	if a.v == nil {
		return ""
	}
	return string(*a.v)
}

func (a approachValue) Set(s string) error {
	ap, err := domain.ParseLearningApproach(s)
	if err != nil {
		return err
	}
	*a.v = ap
	return nil
}

func (approachValue) Type() string { return "approach" }

// stageValue is a pflag.Value accepting stage names and abbreviations.
type stageValue struct{ v *domain.Stage }

func (s stageValue) String() string {
	if s.v == nil {
		return ""
	}
	return string(*s.v)
}

func (s stageValue) Set(raw string) error {
	st, err := domain.ParseStage(raw)
	if err != nil {
		return err
	}
	*s.v = st
	return nil
}

func (stageValue) Type() string { return "stage" }

var (
	_ pflag.Value = levelValue{}
	_ pflag.Value = approachValue{}
	_ pflag.Value = stageValue{}
)

// addNarrativeFlags registers --narrative and --narrative-file.
func addNarrativeFlags(f *pflag.FlagSet, text, file *string) {
	f.StringVarP(text, "narrative", "n", "", "learning-outcome (CP) narrative text")
	f.StringVar(file, "narrative-file", "", "read the narrative from a plain-text file ('-' for stdin)")
}

// readNarrative returns the narrative from --narrative or --narrative-file.
// Both empty yields "".
func readNarrative(text, file string, stdin io.Reader) (string, error) {
	if text != "" && file != "" {
		return "", fmt.Errorf("use either --narrative or --narrative-file, not both")
	}
	if file == "" {
		return strings.TrimSpace(text), nil
	}
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("reading narrative: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
