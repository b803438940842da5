/*
Package ports defines the driven ports (interfaces) for the rail schema engine.

These interfaces decouple the engine from the validators it runs and from
the places structured model definitions are stored. The engine never decides
how a validator passes, fails or rewrites a value; it only binds and calls them.

# Key Interfaces

  - Validator: a bound validator invocation that may correct the container.
  - Catalog: resolves validator names to constructed Validators per data type.
  - ModelRegistry: resolves named structured models (e.g. from Loam, Redis or Memory).
  - ModelStore: a ModelRegistry that can also persist and enumerate models.
*/
package ports
