// Package template defines the template engine contract page renderers use.
// The pongo subpackage provides the production implementation.
package template
