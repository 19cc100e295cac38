package contactform

import (
	"context"

	"github.com/goliatone/go-contactform/internal/contract"
)

// ContractYAML returns the OpenAPI document of the JSON API.
func ContractYAML() []byte {
	return contract.Spec()
}

// ContractJSON loads, validates and renders the OpenAPI document as JSON.
func ContractJSON(ctx context.Context) ([]byte, error) {
	c, err := contract.Load(ctx)
	if err != nil {
		return nil, err
	}
	return c.JSON()
}
