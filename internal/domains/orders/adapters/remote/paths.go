// Package remote adapts the users and inventory services to the orders ports
// through the shared service client.
package remote

import (
	"github.com/oapi-codegen/runtime"
)

// resourcePath renders prefix + "/" + id with id escaped as a simple-style path parameter.
func resourcePath(prefix, name, id string, suffix ...string) (string, error) {
	escaped, err := runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, id)
	if err != nil {
		return "", err
	}
	path := prefix + "/" + escaped
	for _, s := range suffix {
		path += "/" + s
	}
	return path, nil
}
