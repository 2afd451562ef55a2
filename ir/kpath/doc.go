// Package kpath provides key paths: the addressing scheme for every node of
// a document.
//
// A path is an ordered sequence of keys from the document root. A key is
// either an object field name or an array index:
//
//	p, err := kpath.Parse("users[0].name")
//	p.String()         // "users[0].name"
//	p.Parent()         // users[0]
//	p.Append(kpath.Field("email"))
//
// Fields that contain syntax characters are quoted:
//
//	kpath.Path{kpath.Field("a.b"), kpath.Index(2)}.String() // "'a.b'[2]"
//
// The empty path addresses the root. Paths marshal to JSON as arrays of
// strings and integers, e.g. ["users", 0, "name"], and can be converted to
// and from RFC 6901 JSON Pointers.
//
// A path is only meaningful relative to one document version. After a
// mutation, paths below the mutated point may no longer resolve.
package kpath
