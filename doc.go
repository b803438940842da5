/*
Package rail validates and corrects structured output against a schema
declared in a small markup language.

A rail document describes the expected shape of a JSON-like value. Every
element is a typed field, and its `format` attribute lists the validators
that run on the field, each with an optional `on-fail-<name>` policy:

	<rail>
	<output>
	    <string name="name" format="two-words" on-fail-two-words="fix"/>
	    <integer name="age" format="valid-range: 0 130"/>
	    <list name="tags">
	        <string format="lower-case" on-fail-lower-case="fix"/>
	    </list>
	</output>
	</rail>

# Concept

Loading a document builds an immutable tree of schema nodes. Validators
are resolved once, at build time, against a catalog (package validators
provides the built-in one). Validation walks the tree depth-first over a
copy of the input: each value is coerced to its declared type, stored, and
handed to the node's validators, which may correct it in place, drop it or
fail.

# Usage

	guard, err := rail.LoadFile(ctx, "profile.rail")
	if err != nil {
		log.Fatal(err)
	}

	out, err := guard.Validate(ctx, map[string]any{"name": "Ada Lovelace King", "age": "36"})
	// out: map[age:36 name:Ada Lovelace tags:<nil>]

Errors are typed (see package schema) and carry the path of the failing
value, e.g. `tags[2]: ...`.

# Packages

  - schema: node tree, tag registry, coercion and validation.
  - directive: parser for `format` attributes.
  - expr: the closed expression grammar used for `{...}` arguments.
  - validators: built-in validator catalog and on-fail policies.
  - adapters: model registries (memory, file, loam, redis), HTTP and MCP servers.
  - observability: Prometheus metrics fed by validation hooks.
*/
package rail
