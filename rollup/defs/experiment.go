package defs

import (
	"fmt"
	"os"
	"strings"
)

// Experiment is one named run configuration with its resolved arguments.
type Experiment struct {
	Name  string
	Knobs string // space-joined resolved argument tokens
}

// UndefinedVariableError reports a $-reference to a variable not declared
// on an earlier line of the experiment file.
type UndefinedVariableError struct {
	Variable   string
	Experiment string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("%s is not defined before exp %s", e.Variable, e.Experiment)
}

// varMarker prefixes a variable reference, e.g. $(BASE) or $BASE.
const varMarker = "$"

// stripVarRef removes the marker and grouping punctuation from a reference.
var stripVarRef = strings.NewReplacer("$", "", "(", "", ")", "")

// ParseExpFile reads an experiment definition file.
//
// "VAR = v1 v2" lines declare variables; any other line is "NAME arg...".
// References resolve against variables declared so far, so a forward
// reference fails exactly like an undeclared one.
func ParseExpFile(path string) ([]Experiment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening experiment file: %w", err)
	}
	defer func() { _ = file.Close() }()

	vars := make(map[string]string)
	var exps []Experiment

	scanner := newLineScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) >= 2 && tokens[1] == "=" {
			vars[tokens[0]] = strings.Join(tokens[2:], " ")
			continue
		}

		name := tokens[0]
		args := make([]string, 0, len(tokens)-1)
		for _, tok := range tokens[1:] {
			if !strings.HasPrefix(tok, varMarker) {
				args = append(args, tok)
				continue
			}
			key := stripVarRef.Replace(tok)
			val, ok := vars[key]
			if !ok {
				return nil, &UndefinedVariableError{Variable: key, Experiment: name}
			}
			args = append(args, val)
		}
		exps = append(exps, Experiment{Name: name, Knobs: strings.Join(args, " ")})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading experiment file %s: %w", path, err)
	}
	return exps, nil
}
