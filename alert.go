package sslhs

// alert is a TLS alert description as defined by RFC 5246 §7.2. The engine
// never writes an alert to the wire itself (that's the record layer's job,
// per the RecordLayer collaborator) — it only decides which one to send.
type alert uint8

const (
	alertCloseNotify            alert = 0
	alertUnexpectedMessage      alert = 10
	alertBadRecordMAC           alert = 20
	alertDecryptionFailed       alert = 21
	alertRecordOverflow         alert = 22
	alertDecompressionFailure   alert = 30
	alertHandshakeFailure       alert = 40
	alertBadCertificate         alert = 42
	alertUnsupportedCertificate alert = 43
	alertCertificateExpired     alert = 45
	alertCertificateUnknown     alert = 46
	alertIllegalParameter       alert = 47
	alertUnknownCA              alert = 48
	alertAccessDenied           alert = 49
	alertDecodeError            alert = 50
	alertDecryptError           alert = 51
	alertProtocolVersion        alert = 70
	alertInsufficientSecurity   alert = 71
	alertInternalError          alert = 80
	alertUnrecognizedName       alert = 112
	alertNoRenegotiation        alert = 100
)

func (a alert) String() string {
	switch a {
	case alertCloseNotify:
		return "close notify"
	case alertUnexpectedMessage:
		return "unexpected message"
	case alertBadRecordMAC:
		return "bad record MAC"
	case alertDecryptionFailed:
		return "decryption failed"
	case alertRecordOverflow:
		return "record overflow"
	case alertDecompressionFailure:
		return "decompression failure"
	case alertHandshakeFailure:
		return "handshake failure"
	case alertBadCertificate:
		return "bad certificate"
	case alertUnsupportedCertificate:
		return "unsupported certificate"
	case alertCertificateExpired:
		return "certificate expired"
	case alertCertificateUnknown:
		return "certificate unknown"
	case alertIllegalParameter:
		return "illegal parameter"
	case alertUnknownCA:
		return "unknown certificate authority"
	case alertAccessDenied:
		return "access denied"
	case alertDecodeError:
		return "decode error"
	case alertDecryptError:
		return "decrypt error"
	case alertProtocolVersion:
		return "protocol version"
	case alertInsufficientSecurity:
		return "insufficient security"
	case alertInternalError:
		return "internal error"
	case alertUnrecognizedName:
		return "unrecognized name"
	case alertNoRenegotiation:
		return "no renegotiation"
	default:
		return "alert(" + itoa(int(a)) + ")"
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// sendFatal asks the record-layer collaborator to send a fatal alert. It
// never returns an error of its own: if the record layer can't deliver the
// alert (connection already dead), the caller's original error still wins.
func sendFatal(rl RecordLayer, a alert) {
	if rl == nil {
		return
	}
	_ = rl.SendAlert(alertLevelFatal, uint8(a))
}

const alertLevelFatal = 2
