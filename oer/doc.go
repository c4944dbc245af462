/*
Package oer implements the Octet Encoding Rules backend of §4.7: plain
OER and its canonical subset COER. It registers itself with the root
asn1codec package's dispatch table from init(), the same self-registration
idiom the per package uses — callers never import this package directly,
only asn1codec.Marshal/asn1codec.Unmarshal with asn1codec.Oer or asn1codec.Coer.

Unlike PER, OER is octet-oriented throughout: every length determinant
and every payload starts on an octet boundary. The backend still borrows
[asn1codec.BitWriter]/[asn1codec.BitReader] as its buffer because both
already provide AppendBytes/ReadBytes plus the handful of single-bit
operations the SEQUENCE/CHOICE preamble needs, but every call here is
immediately followed by AlignToByte — OER never leaves a partial byte
pending across a method boundary.

Tags carry no wire representation under OER except inside a CHOICE,
where the variant's own tag is transmitted as a canonical ASN.1
identifier octet sequence (§4.7 "CHOICE"); every other Encoder/Decoder
method ignores the tag argument it is handed.
*/
package oer
