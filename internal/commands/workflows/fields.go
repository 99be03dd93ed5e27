// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package workflows

import (
	"fmt"
	"strings"

	"github.com/simplex-sh/simplex-go/sdk"
)

// validFieldTypes are the schema types the service accepts.
var validFieldTypes = map[string]bool{
	"string":  true,
	"number":  true,
	"boolean": true,
	"enum":    true,
}

// ParseFieldSpec parses one schema field from its command-line form:
//
//	name[!]:type[:description]
//
// "!" marks the field required. Enum types list their values in
// parentheses: status!:enum(open|closed). Omitting the type means string.
func ParseFieldSpec(spec string) (sdk.WorkflowField, error) {
	var field sdk.WorkflowField

	namePart, rest, hasType := strings.Cut(spec, ":")
	if strings.HasSuffix(namePart, "!") {
		field.Required = true
		namePart = strings.TrimSuffix(namePart, "!")
	}
	if namePart == "" {
		return field, fmt.Errorf("field spec %q has no name", spec)
	}
	field.Name = namePart

	if !hasType || rest == "" {
		field.Type = "string"
		return field, nil
	}

	typePart, description, _ := strings.Cut(rest, ":")
	field.Description = description

	if open := strings.Index(typePart, "("); open != -1 {
		if !strings.HasSuffix(typePart, ")") {
			return field, fmt.Errorf("field spec %q has an unclosed enum list", spec)
		}
		values := typePart[open+1 : len(typePart)-1]
		typePart = typePart[:open]
		for _, v := range strings.Split(values, "|") {
			v = strings.TrimSpace(v)
			if v != "" {
				field.EnumValues = append(field.EnumValues, v)
			}
		}
		if len(field.EnumValues) == 0 {
			return field, fmt.Errorf("field spec %q has an empty enum list", spec)
		}
	}

	if !validFieldTypes[typePart] {
		return field, fmt.Errorf("field spec %q has unknown type %q", spec, typePart)
	}
	if typePart == "enum" && len(field.EnumValues) == 0 {
		return field, fmt.Errorf("field spec %q needs enum values, e.g. %s:enum(a|b)", spec, field.Name)
	}
	if typePart != "enum" && len(field.EnumValues) > 0 {
		return field, fmt.Errorf("field spec %q lists values but is not an enum", spec)
	}
	field.Type = typePart

	return field, nil
}

// ParseFieldSpecs parses a list of field specs, rejecting duplicates.
func ParseFieldSpecs(specs []string) ([]sdk.WorkflowField, error) {
	fields := make([]sdk.WorkflowField, 0, len(specs))
	seen := map[string]bool{}
	for _, spec := range specs {
		field, err := ParseFieldSpec(spec)
		if err != nil {
			return nil, err
		}
		if seen[field.Name] {
			return nil, fmt.Errorf("duplicate field %q", field.Name)
		}
		seen[field.Name] = true
		fields = append(fields, field)
	}
	return fields, nil
}
