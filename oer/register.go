package oer

import asn1codec "github.com/kestrel-oss/asn1codec"

func init() {
	asn1codec.RegisterBackend(asn1codec.Oer,
		func(cfg asn1codec.EngineConfig) asn1codec.Encoder { return NewEncoder(asn1codec.Oer, cfg) },
		func(data []byte, cfg asn1codec.EngineConfig) asn1codec.Decoder { return NewDecoder(data, asn1codec.Oer, cfg) },
	)
	asn1codec.RegisterBackend(asn1codec.Coer,
		func(cfg asn1codec.EngineConfig) asn1codec.Encoder { return NewEncoder(asn1codec.Coer, cfg) },
		func(data []byte, cfg asn1codec.EngineConfig) asn1codec.Decoder { return NewDecoder(data, asn1codec.Coer, cfg) },
	)
}
