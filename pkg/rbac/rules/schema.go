// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package rules

import (
	"sync"

	"github.com/invopop/jsonschema"
	jsoniter "github.com/json-iterator/go"
	"github.com/xeipuuv/gojsonschema"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	policySchemaOnce sync.Once
	policySchemaJSON []byte
	policySchema     *gojsonschema.Schema
	policySchemaErr  error
)

func buildPolicySchema() {
	reflector := jsonschema.Reflector{DoNotReference: true}

	data, err := json.Marshal(reflector.Reflect(&PolicyDef{}))
	if err != nil {
		policySchemaErr = err
		return
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		policySchemaErr = err
		return
	}
	// the validator only implements drafts up to 07, leave the dialect
	// unpinned so it falls back to its hybrid mode
	delete(doc, "$schema")

	if policySchemaJSON, err = json.Marshal(doc); err != nil {
		policySchemaErr = err
		return
	}

	policySchema, policySchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(policySchemaJSON))
}

// PolicyJSONSchema returns the JSON schema describing the policy file format
func PolicyJSONSchema() ([]byte, error) {
	policySchemaOnce.Do(buildPolicySchema)
	return policySchemaJSON, policySchemaErr
}

// validatePolicyDoc checks a decoded policy document against the policy schema
func validatePolicyDoc(doc interface{}) error {
	policySchemaOnce.Do(buildPolicySchema)
	if policySchemaErr != nil {
		return policySchemaErr
	}

	result, err := policySchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return err
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		details = append(details, resultErr.String())
	}
	return &ErrSchemaValidation{Details: details}
}
