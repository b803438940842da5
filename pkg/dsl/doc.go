/*
Package dsl provides a fluent builder for constructing rail schemas in Go.

It produces the same element tree a <rail> document parses into, so the
result is accepted by rail.New and schema.Load. This is useful when the
schema is generated at runtime or declared next to the code that consumes
its output.

Example usage:

	b := dsl.New()
	b.Add("string", "name").
		Format("two-words").
		OnFail("two-words", "fix")
	b.Add("integer", "age").
		Format("valid-range: 0 130")
	b.Add("list", "tags").
		Item("string").Format("lower-case").OnFail("lower-case", "fix")

	doc, err := b.Build()
	if err != nil {
		return err
	}
	guard, err := rail.New(ctx, doc)
*/
package dsl
