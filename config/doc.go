// Package config reads process-start environment configuration: the
// complexity risk thresholds that partition a module's cyclomatic
// complexity mean into Low/Medium/High.
package config
