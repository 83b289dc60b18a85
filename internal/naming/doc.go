// Package naming provides identifier sanitisation, case conversion and
// deterministic collision resolution for generated connector artefacts.
//
// Raw names come from API documents (operation ids, schema names, titles,
// property names) and may contain any characters. This package splits them
// into words, folds diacritics, and renders them in one of several styles:
//
//   - Kebab: file, module and package names ("get-pets-by-id")
//   - Camel: configuration field keys ("petId")
//   - Pascal: Go type names ("GetPetsById")
//   - Snake: environment-style keys ("pet_id")
//
// A [Resolver] hands out unique names in first-seen order. The first
// occurrence of a name keeps it; later colliding occurrences receive numeric
// suffixes starting at 2. The same input sequence always yields the same
// outputs.
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
