// Package generate derives a checkfile Policy from a Module Summary,
// expressing the module's current shape as strict expectations, and
// serialises that Policy back to checkfile YAML.
package generate
