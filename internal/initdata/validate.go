package initdata

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// ValidationError reports every schema violation found in one init-data set.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "init data invalid: " + e.Problems[0]
	}
	return fmt.Sprintf("init data invalid (%d problems):\n  %s",
		len(e.Problems), strings.Join(e.Problems, "\n  "))
}

// Validate checks data against a CUE schema.
//
// The schema must define #InitData, a struct whose fields are model names.
// Missing required models, unknown fields and out-of-range values are all
// reported together.
func Validate(data Data, schema []byte) error {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileBytes(schema, cue.Filename("schema.cue"))
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	def := schemaVal.LookupPath(cue.ParsePath("#InitData"))
	if !def.Exists() {
		return fmt.Errorf("compile schema: #InitData not defined")
	}

	plain, err := data.Plain()
	if err != nil {
		return err
	}
	val := ctx.Encode(plain)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode init data: %w", err)
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var problems []string
		for _, e := range cueerrors.Errors(err) {
			problems = append(problems, e.Error())
		}
		return &ValidationError{Problems: problems}
	}
	return nil
}
