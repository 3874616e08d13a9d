// Package formquery implements the bidirectional codec between the state of
// a filter form and a compact, human-editable query string.
//
// A Form holds the live value of every control declared by a
// schema.Config. Read extracts a State from it (the Form Reader and Range
// Collector), Apply writes a State back (the Form Writer). Encode and Decode
// translate a State to and from the query string:
//
//	state := form.Read()
//	search := formquery.Search(cfg, state)      // "?cuadricula&year=1950"
//	decoded, rejected := formquery.Decode(cfg, search)
//	form.Apply(decoded)
//
// Values equal to a flag select's default vanish from the query, non-default
// flag tokens appear bare, ranges covering their full native span are
// dropped and open-ended ranges collapse to a single bound. Whole queries
// registered in the alias table are replaced by their alias.
//
// Encode and Decode are pure functions of their inputs; the Config is never
// mutated, so they are safe for concurrent use.
package formquery
