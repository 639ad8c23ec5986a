/*
Package hashset implements a generic set backed by an open-addressing hash
table.

Collisions are resolved by double hashing: an element with hash h starts at
slot h mod n and advances by 1 + (h mod n) mod (n-1). Table lengths are
always prime, taken from a fixed table of primes that roughly doubles, so the
step is coprime with the length and a probe sequence visits every slot.
Removed elements leave tombstones that keep later probes going; a table full
of tombstones is rehashed in place instead of grown.

Elements of comparable types use New. Any other type, or a custom notion of
equality, goes through NewWithStrategy.
*/
package hashset
