// Package contract embeds the OpenAPI description of the contact JSON API and
// checks request and response bodies against it.
package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	// OpSubmit is the operation id of the JSON submission endpoint.
	OpSubmit = "submitContact"
	// OpValidateField is the operation id of the blur validation endpoint.
	OpValidateField = "validateField"
)

var (
	// ErrUnknownOperation is returned for operation ids the contract lacks.
	ErrUnknownOperation = errors.New("contract: unknown operation")
	// ErrInvalidBody wraps every body that does not match its schema.
	ErrInvalidBody = errors.New("contract: body does not match schema")
)

//go:embed openapi.yaml
var specYAML []byte

// Spec returns the embedded OpenAPI document as YAML.
func Spec() []byte {
	return append([]byte(nil), specYAML...)
}

type operation struct {
	method string
	path   string
	op     *openapi3.Operation
}

// Contract is a loaded and validated OpenAPI document.
type Contract struct {
	doc        *openapi3.T
	operations map[string]operation
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*Contract, error) {
	return LoadFromData(ctx, specYAML)
}

// LoadFromData parses and validates an OpenAPI document.
func LoadFromData(ctx context.Context, data []byte) (*Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate document: %w", err)
	}

	c := &Contract{doc: doc, operations: make(map[string]operation)}
	if doc.Paths != nil {
		for path, item := range doc.Paths.Map() {
			if item == nil {
				continue
			}
			for method, op := range item.Operations() {
				if op == nil || op.OperationID == "" {
					continue
				}
				c.operations[op.OperationID] = operation{method: method, path: path, op: op}
			}
		}
	}
	return c, nil
}

// Operations lists the operation ids in the contract.
func (c *Contract) Operations() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.operations))
	for id := range c.operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Route returns the method and path of an operation.
func (c *Contract) Route(operationID string) (string, string, bool) {
	if c == nil {
		return "", "", false
	}
	op, ok := c.operations[operationID]
	return op.method, op.path, ok
}

// JSON renders the document as JSON, the form served to API clients.
func (c *Contract) JSON() ([]byte, error) {
	if c == nil || c.doc == nil {
		return nil, errors.New("contract: document not loaded")
	}
	return c.doc.MarshalJSON()
}

// ValidateRequest checks a JSON request body against the operation's schema.
// Violations are reported as a *ViolationError wrapping ErrInvalidBody.
func (c *Contract) ValidateRequest(operationID string, body []byte) error {
	if c == nil {
		return ErrUnknownOperation
	}
	op, ok := c.operations[operationID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOperation, operationID)
	}
	if op.op.RequestBody == nil || op.op.RequestBody.Value == nil {
		return nil
	}
	return validateMedia(op.op.RequestBody.Value.Content, body)
}

// ValidateResponse checks a JSON response body for the given status code.
func (c *Contract) ValidateResponse(operationID string, status int, body []byte) error {
	if c == nil {
		return ErrUnknownOperation
	}
	op, ok := c.operations[operationID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOperation, operationID)
	}
	ref := op.op.Responses.Status(status)
	if ref == nil || ref.Value == nil {
		return fmt.Errorf("%w: status %d not documented for %s", ErrInvalidBody, status, operationID)
	}
	return validateMedia(ref.Value.Content, body)
}

func validateMedia(content openapi3.Content, body []byte) error {
	media := content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return &ViolationError{Violations: map[string][]string{"": {"body must be valid JSON"}}, cause: err}
	}
	if err := media.Schema.Value.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return &ViolationError{Violations: violations(err), cause: err}
	}
	return nil
}

// ViolationError lists schema violations keyed by JSON pointer ("/email").
// The empty key holds violations of the body as a whole.
type ViolationError struct {
	Violations map[string][]string
	cause      error
}

func (e *ViolationError) Error() string {
	keys := make([]string, 0, len(e.Violations))
	for key := range e.Violations {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		label := key
		if label == "" {
			label = "body"
		}
		parts = append(parts, label+": "+strings.Join(e.Violations[key], "; "))
	}
	return ErrInvalidBody.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ViolationError) Unwrap() []error {
	return []error{ErrInvalidBody, e.cause}
}

func violations(err error) map[string][]string {
	out := map[string][]string{}
	var collect func(error)
	collect = func(err error) {
		var multi openapi3.MultiError
		if errors.As(err, &multi) {
			for _, inner := range multi {
				collect(inner)
			}
			return
		}
		var schemaErr *openapi3.SchemaError
		if errors.As(err, &schemaErr) {
			key := ""
			if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
				key = "/" + strings.Join(pointer, "/")
			}
			out[key] = append(out[key], schemaErr.Reason)
			return
		}
		out[""] = append(out[""], err.Error())
	}
	collect(err)
	return out
}
