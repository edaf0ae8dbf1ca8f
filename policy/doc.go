// Package policy models the checkfile: a tree of independently optional
// validation clauses, and the YAML loader that builds one.
//
// Load is the entry point:
//
//	p, err := policy.Load(yamlBytes, policy.DefaultFetcher)
//
// A checkfile whose validate: mapping contains only a url: key is replaced
// by the policy fetched from that URL; this indirection is followed at
// most once. Unknown keys are collected onto Policy.UnknownFields rather
// than failing the load, with one exception: an unknown key inside an
// import or export matcher entry fails the load with a field_unknown error
// and is not collected.
package policy
