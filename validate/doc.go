// Package validate evaluates a Policy against a Module Summary and
// produces a Report: an ordered, deterministic list of pass/fail Outcomes,
// one or more per clause present in the policy.
package validate
