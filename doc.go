/*
Package asn1codec implements an abstract ASN.1 data model alongside a
family of interchangeable encoder/decoder backends — the Packed Encoding
Rules (Aligned and Unaligned) and the Octet Encoding Rules (OER/COER) —
that serialize and parse that model according to the encoding rules
selected at call time.

A type becomes codable by implementing three small capabilities: [AsnType],
[Encode] and [Decode]. Everything else — tag discrimination, constraint
enforcement, fragmentation, extension handling — is derived by the engine
from those three capabilities plus the backend selected via [Rule].

# Layout

The root package holds the capability interfaces, the type/constraint
metadata they consume ([Tag], [TagTree], [TypeDescriptor],
[Constraints]), the bit buffer, and the primitive value types shared by
every backend. The backends themselves live in sibling packages: per and
oer. BER/CER/DER/JER/XER are treated as external collaborators, not
backends this module provides — see DESIGN.md.

# Non-goals

This package does not parse ASN.1 module source, does not provide
cryptographic primitives, performs no network I/O, and does not support
resuming a partial decode of one value across multiple input buffers.
*/
package asn1codec
