/*
Package domain contains the value types shared by the schema engine, the
validator catalog and the adapters.

It is kept free of I/O and of schema logic so that validators written
outside of this module only need to depend on it and on package ports.

# Key Entities

  - Key: addresses an entry of a container (field name or list position).
  - Container: the mutable structure a validation call corrects in place
    (Object over maps, Items over lists).
  - Path: the key sequence from the document root, used in errors and events.
  - Hooks: lifecycle callbacks fired while a schema tree is walked.
*/
package domain
