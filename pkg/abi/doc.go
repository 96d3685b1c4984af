// Package abi holds structs that mirror kernel ABI types field for field, so
// the runtime can keep its own names and methods on them and still hand them
// straight to system calls.
//
// Each shim is aliased to its golang.org/x/sys/unix counterpart through
// layout.Reinterpret. The same size and alignment equalities are also asserted
// as constant expressions, so a platform where they do not hold fails to build
// instead of failing at run time.
package abi
