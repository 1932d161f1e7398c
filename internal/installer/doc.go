// Package installer places extension dependencies into a product
// installation. It maps dependency usages to jars/ and bundles/ directories,
// reports what is already installed, downloads the auto-downloadable
// dependencies, and lists instructions for the ones that must be installed
// by hand.
package installer
