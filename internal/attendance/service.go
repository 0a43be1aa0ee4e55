package attendance

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// SessionTTL is how long a generated QR code is advertised as valid.
const SessionTTL = 5 * time.Minute

// SessionPrefix tags every generated session id.
const SessionPrefix = "SESSION_"

// TimestampLayout is the ISO-8601 form (millisecond precision, UTC) used for timestamps sent to clients.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Payload is the JSON document embedded in the QR code.
type Payload struct {
	SessionID string `json:"sessionId"`
	CourseID  string `json:"courseId"`
	Timestamp int64  `json:"timestamp"`
	Expiry    int64  `json:"expiry"`
}

// QRSession is returned to the client after a QR code is generated.
// Nothing on the server tracks it afterwards.
type QRSession struct {
	SessionID string `json:"sessionId"`
	QRCode    string `json:"qrCode"`
	Expiry    string `json:"expiry"`
	CourseID  string `json:"-"`
}

// Encoder turns text into a PNG image.
type Encoder interface {
	EncodePNG(content string) ([]byte, error)
}

// QREncoder encodes PNG QR codes with go-qrcode.
type QREncoder struct {
	Level qrcode.RecoveryLevel
	Size  int
}

// EncodePNG renders content as a square QR code image.
func (e QREncoder) EncodePNG(content string) ([]byte, error) {
	size := e.Size
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(content, e.Level, size)
}

// Service issues QR attendance sessions.
type Service struct {
	encoder Encoder
	ttl     time.Duration
	now     func() time.Time
}

// NewService creates a service. A nil encoder falls back to a medium-recovery QREncoder.
func NewService(encoder Encoder, ttl time.Duration) *Service {
	if encoder == nil {
		encoder = QREncoder{Level: qrcode.Medium}
	}
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &Service{encoder: encoder, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GenerateQR builds a session for courseID and encodes it as a data URI.
func (s *Service) GenerateQR(courseID string) (QRSession, error) {
	now := s.now()
	expiry := now.Add(s.ttl)

	payload := Payload{
		SessionID: SessionPrefix + strconv.FormatInt(now.UnixMilli(), 10),
		CourseID:  courseID,
		Timestamp: now.UnixMilli(),
		Expiry:    expiry.UnixMilli(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return QRSession{}, fmt.Errorf("marshal qr payload: %w", err)
	}

	png, err := s.encoder.EncodePNG(string(raw))
	if err != nil {
		return QRSession{}, fmt.Errorf("encode qr code: %w", err)
	}

	return QRSession{
		SessionID: payload.SessionID,
		QRCode:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		Expiry:    expiry.UTC().Format(TimestampLayout),
		CourseID:  courseID,
	}, nil
}
