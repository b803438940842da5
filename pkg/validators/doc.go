// Package validators provides the built-in validator catalog.
//
// Each validator checks one value and, when it fails, applies the on-fail
// policy declared on the element (on-fail-<name>):
//
//	exception  fail the validation with a *schema.ValidatorFailure (default)
//	reask      same as exception, flagged so the caller can re-prompt
//	fix        replace the value with the validator's correction
//	filter     remove the entry from its container
//	refrain    replace the entry with nil
//	noop       keep the value unchanged
package validators
