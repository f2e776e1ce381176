package sslhs

// Handshake message type bytes, RFC 5246 §7.4.
const (
	msgTypeClientHello        = 1
	msgTypeServerHello        = 2
	msgTypeCertificate        = 11
	msgTypeServerKeyExchange  = 12
	msgTypeCertificateRequest = 13
	msgTypeServerHelloDone    = 14
	msgTypeCertificateVerify  = 15
	msgTypeClientKeyExchange  = 16
	msgTypeFinished           = 20
)

const (
	compressionNull    = 0
	compressionDeflate = 1
)

// encodeHandshakeMessage prepends the 4-byte handshake header (type, 24-bit
// length) to body, for transcript-hash feeding and for WriteHandshake.
func encodeHandshakeMessage(msgType byte, body []byte) []byte {
	out := make([]byte, 4+len(body))
	out[0] = msgType
	out[1] = byte(len(body) >> 16)
	out[2] = byte(len(body) >> 8)
	out[3] = byte(len(body))
	copy(out[4:], body)
	return out
}
