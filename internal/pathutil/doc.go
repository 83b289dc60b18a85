// Package pathutil provides helpers for OpenAPI path templates and for the
// output paths the command writes to.
//
// Path templates such as "/pets/{petId}/owners/{ownerId}" carry named
// placeholders. [Params] lists them in order:
//
//	pathutil.Params("/pets/{petId}/owners/{ownerId}") // ["petId", "ownerId"]
//
// [SanitizeOutputPath] cleans a user-provided output path and rejects
// symlinks before anything is written there.
package pathutil
