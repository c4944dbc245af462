package per

import asn1codec "github.com/kestrel-oss/asn1codec"

func init() {
	asn1codec.RegisterBackend(asn1codec.Aper,
		func(cfg asn1codec.EngineConfig) asn1codec.Encoder { return NewEncoder(asn1codec.Aper, cfg) },
		func(data []byte, cfg asn1codec.EngineConfig) asn1codec.Decoder { return NewDecoder(data, asn1codec.Aper, cfg) },
	)
	asn1codec.RegisterBackend(asn1codec.Uper,
		func(cfg asn1codec.EngineConfig) asn1codec.Encoder { return NewEncoder(asn1codec.Uper, cfg) },
		func(data []byte, cfg asn1codec.EngineConfig) asn1codec.Decoder { return NewDecoder(data, asn1codec.Uper, cfg) },
	)
}
