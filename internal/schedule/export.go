package schedule

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/tariffscan/tariffscan/internal/rule"
)

// Export is the serialized contract handed to downstream consumers (the
// comparison UI, persistence, whoever). Category and basis are closed
// enums; the embedded schema makes contract drift fail loudly.
type Export struct {
	Bank  string      `json:"bank"`
	Rules []rule.Rule `json:"rules"`
}

//go:embed rules_schema.json
var rulesSchema string

// MarshalRules serializes an export document deterministically (stable
// field order, two-space indent) and validates it against the schema
// before returning it.
func MarshalRules(bank string, rules []rule.Rule) ([]byte, error) {
	if rules == nil {
		rules = []rule.Rule{}
	}
	data, err := json.MarshalIndent(Export{Bank: bank, Rules: rules}, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := ValidateExport(data); err != nil {
		return nil, err
	}
	return data, nil
}

// ValidateExport checks a serialized export document against the embedded
// JSON Schema.
func ValidateExport(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rules_schema.json", strings.NewReader(rulesSchema)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("rules_schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("decode export: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("export does not match schema: %w", err)
	}
	return nil
}
