// Package pivotreg registers pivot functions from declarative YAML
// definition files.
//
// A definition names a handler by its namespace key and binds it to one or
// more entity types. Registration is all-or-stop: the first definition that
// references an unknown entity type or an unresolvable handler aborts with
// a configuration error, and definitions registered earlier in the same
// file stay in place.
//
//	pivot_providers:
//	  whois:
//	    description: WhoIs lookup for IP addresses
//	    func_ref: whois_handler
//	    entities:
//	      - entity: IpAddress
//	        param: ip_address
package pivotreg
