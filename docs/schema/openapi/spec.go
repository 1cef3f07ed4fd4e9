// Package openapi embeds the todoapi OpenAPI document served at
// /openapi.yaml.
package openapi

import _ "embed"

//go:embed todoapi.yaml
var todoAPISpec []byte

// Spec returns a copy of the embedded OpenAPI YAML.
func Spec() []byte {
	return append([]byte(nil), todoAPISpec...)
}
