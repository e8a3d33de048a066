// Package schema validates action input values ("with:" entries) against
// an optional schema hint, compiling each distinct shape to a JSON Schema
// document via santhosh-tekuri/jsonschema and caching compiled schemas by
// fingerprint so repeated steps of the same action don't recompile.
package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Kind is the shape an action input declares via its optional schema hint.
type Kind string

const (
	StringKind  Kind = "string"
	NumberKind  Kind = "number"
	BooleanKind Kind = "boolean"
	EnumKind    Kind = "enum"
)

// ParamSchema describes one input's expected shape.
type ParamSchema struct {
	Kind Kind
	Enum []string
}

func (p *ParamSchema) document() map[string]any {
	switch p.Kind {
	case NumberKind:
		return map[string]any{"type": "number"}
	case BooleanKind:
		return map[string]any{"type": "boolean"}
	case EnumKind:
		vals := make([]any, len(p.Enum))
		for i, v := range p.Enum {
			vals[i] = v
		}
		return map[string]any{"type": "string", "enum": vals}
	default:
		return map[string]any{"type": "string"}
	}
}

func (p *ParamSchema) fingerprint() (string, []byte, error) {
	doc, err := json.Marshal(p.document())
	if err != nil {
		return "", nil, err
	}
	sum := sha256.Sum256(doc)
	return hex.EncodeToString(sum[:]), doc, nil
}

// Validator compiles and caches JSON Schemas by fingerprint.
type Validator struct {
	mu    sync.Mutex
	cache map[string]*jsonschema.Schema
}

// NewValidator returns an empty, ready-to-use Validator.
func NewValidator() *Validator {
	return &Validator{cache: make(map[string]*jsonschema.Schema)}
}

func (v *Validator) compiled(p *ParamSchema) (*jsonschema.Schema, error) {
	fp, doc, err := p.fingerprint()
	if err != nil {
		return nil, fmt.Errorf("schema: marshal: %w", err)
	}

	v.mu.Lock()
	if sch, ok := v.cache[fp]; ok {
		v.mu.Unlock()
		return sch, nil
	}
	v.mu.Unlock()

	url := "mem://param/" + fp
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(string(doc))); err != nil {
		return nil, fmt.Errorf("schema: add resource: %w", err)
	}
	sch, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema: compile: %w", err)
	}

	v.mu.Lock()
	v.cache[fp] = sch
	v.mu.Unlock()
	return sch, nil
}

// ValidateInput coerces raw (the string value of a "with:" entry) to the
// shape p declares, then validates it. String and Enum kinds validate the
// raw string directly; Number and Boolean kinds parse raw before
// validating, failing if raw isn't parseable as that type.
func (v *Validator) ValidateInput(p *ParamSchema, raw string) error {
	sch, err := v.compiled(p)
	if err != nil {
		return err
	}

	var parsed any
	switch p.Kind {
	case NumberKind:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("schema: %q is not a number", raw)
		}
		parsed = f
	case BooleanKind:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("schema: %q is not a boolean", raw)
		}
		parsed = b
	default:
		parsed = raw
	}

	if err := sch.Validate(parsed); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
