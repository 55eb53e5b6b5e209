// Package core contains the canonical ERP record contracts, filter domains,
// lookup selectors and the named operations built on top of a generic record
// store. Transport and authentication adapters depend on this package; core
// must not depend on them.
package core
