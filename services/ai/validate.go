package aisvc

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/farmwise/farmwise/core/tutor"
)

var schemaCache sync.Map // {name: *jsonschema.Schema}

// validateResponse checks that raw is a JSON document valid against schema.
func validateResponse(schema tutor.Schema, raw json.RawMessage) error {
	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &InvalidResponseError{Content: raw, Err: errors.Wrap(err, "invalid JSON")}
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return &InvalidResponseError{Content: raw, Err: errors.Wrapf(err, "compiling schema %q", schema.Name)}
	}
	if err = compiled.Validate(parsed); err != nil {
		return &InvalidResponseError{Content: raw, Err: errors.Wrap(err, "schema validation failed")}
	}
	return nil
}

func compileSchema(schema tutor.Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// the compiler wants plain decoded JSON values
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling schema definition")
	}
	var def interface{}
	if err = json.Unmarshal(defBytes, &def); err != nil {
		return nil, errors.Wrap(err, "parsing schema definition")
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", schema.Name)
	if err = c.AddResource(url, def); err != nil {
		return nil, errors.Wrap(err, "adding schema resource")
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, err
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
