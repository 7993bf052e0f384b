// Package dataset knows the record layout of the supported benchmark corpora.
//
// Every corpus stores records as JSON objects with an "emb" embedding field,
// but each one names and encodes its vector id differently:
//
//   - wikipedia: "id" is an integer
//   - beir-bioasq: "_id" is a decimal string
//   - miracl: "docid" is "<doc>#<passage>", folded into one integer as
//     doc followed by the passage number zero-padded to four digits
package dataset
