// Package extension models extension configurations: an extension's metadata,
// its identifier, and the dependencies it needs, split into the ones the
// installer can download and the ones a user must install by hand. It also
// loads and validates the extension index those configurations live in.
package extension
