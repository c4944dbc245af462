/*
Package per implements the Packed Encoding Rules backend, both the
aligned variant (APER) and the unaligned variant (UPER). It registers
itself with the root asn1codec package's dispatch table from init(),
mirroring the database/sql driver pattern: callers never import this
package directly, only asn1codec.Marshal/asn1codec.Unmarshal with
asn1codec.Aper or asn1codec.Uper.

Tags carry no wire representation under PER (X.691 §18: an explicitly
or implicitly tagged type's encoding does not include the tag), so
every Encoder/Decoder method here ignores the tag argument entirely
except where the interface requires accepting one.

A constructed value's root fields are written into a scratch buffer
separate from its parent so that the preamble bitmap (one bit per
OPTIONAL/DEFAULT root field) can be assembled and emitted before the
field bodies it describes, even though the caller interleaves presence
and value calls in declaration order. See encoder.go.
*/
package per
