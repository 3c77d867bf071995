// Package ast defines the typed document produced from a parsed schema.
//
// A Document is a plain tree of pointers: declarations own their members,
// members own their type references, and every TypeRef level owns its Elem.
// Nothing is shared between documents, so a Document can be cached,
// serialized with msgpack or JSON, and handed to another goroutine as is.
//
// The tree is built by package astbuild and validated by package sema; after
// validation it is treated as read-only.
package ast
