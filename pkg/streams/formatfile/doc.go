// Package formatfile declares scan formats in YAML.
//
//	buffer: 256        # receive buffer capacity
//	chunks: 128        # chunk store capacity
//	formats:
//	  - name: data
//	    match:
//	      - token: "DATA"
//	      - chunk:
//	          terminator:
//	            - token: ":"
//	  - name: reading
//	    match:
//	      - hex: "aa55"
//	      - scalar: {name: celsius, width: 2}
//
// Environment variables in the document are expanded before parsing.
// Matches are decoded into a Record: scalars by name, chunk payloads in the
// record's chunk store.
package formatfile
