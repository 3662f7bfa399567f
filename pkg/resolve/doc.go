/*
Package resolve finds vocabulary cities in free-form messages and decides which
mention is the travel source and which is the destination.

Resolution is purely lexical: case-insensitive substring search against the
vocabulary, ordered by first occurrence, with the literal anchors "from " and
"to " as positional hints. There is no tokenization, so an anchor embedded in a
longer word (for example "Toronto ") still counts as an anchor.
*/
package resolve
