// Package manifest provides the YAML front end for mixin declarations.
//
// A manifest declares the same records as "//mixin:" directives and may also
// describe types that have no Go source, which makes it usable without
// loading packages.
//
// # Schema Overview
//
//	version: "1"
//	package: example.com/shop   # package of unqualified names
//	types:
//	  - name: Entity
//	  - name: Order
//	    base: Entity
//	    interfaces: Priced
//	  - name: Priced
//	    kind: interface
//	  - name: Pricing
//	    params:
//	      - name: T
//	        types: Priced          # T must be assignable to Priced
//	        reference: true
//	extends:
//	  - mixin: Auditing
//	    target: Entity
//	    visibility: public
//	    deps: Clock
//	uses:
//	  - target: Order
//	    mixin: Pricing
//	    args: Order
//	mix:
//	  - target: Repository[Order]
//	    mixin: Tracing
//	    kind: used
//	complete_interfaces:
//	  - interface: OrderFacade
//	    target: Order
//	ignores:
//	  - target: Draft
//	    mixins: [Timestamps, Auditing]
//
// Every list of type references accepts a single string or a sequence.
package manifest
