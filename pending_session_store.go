package adminauth

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingSessionRecordVersion1 = 1

var (
	errPendingSessionNotFound = errors.New("pending mfa session not found")
	errPendingSessionExpired  = errors.New("pending mfa session expired")
	errPendingSessionBackend  = errors.New("pending mfa session backend unavailable")
)

type pendingSession struct {
	Code       string
	UserID     string
	RememberMe bool
	ExpiresAt  int64
}

type pendingSessionStore struct {
	redis  *redis.Client
	prefix string
}

func newPendingSessionStore(redisClient *redis.Client, prefix string) *pendingSessionStore {
	return &pendingSessionStore{redis: redisClient, prefix: prefix}
}

func (s *pendingSessionStore) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

func (s *pendingSessionStore) Save(
	ctx context.Context,
	sessionID string,
	record *pendingSession,
	ttl time.Duration,
) error {
	encoded, err := encodePendingSession(record)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.key(sessionID), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errPendingSessionBackend, err)
	}
	return nil
}

func (s *pendingSessionStore) Get(ctx context.Context, sessionID string) (*pendingSession, error) {
	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errPendingSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", errPendingSessionBackend, err)
	}

	record, err := decodePendingSession(data)
	if err != nil {
		return nil, err
	}
	if time.Now().Unix() > record.ExpiresAt {
		_, _ = s.redis.Del(ctx, s.key(sessionID)).Result()
		return nil, errPendingSessionExpired
	}
	return record, nil
}

// Delete reports whether a record was actually removed. A false result on a
// valid session id means another confirm already consumed it.
func (s *pendingSessionStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.redis.Del(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", errPendingSessionBackend, err)
	}
	return n > 0, nil
}

func encodePendingSession(record *pendingSession) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(pendingSessionRecordVersion1)

	var remember byte
	if record.RememberMe {
		remember = 1
	}
	buf.WriteByte(remember)

	if err := binary.Write(&buf, binary.BigEndian, record.ExpiresAt); err != nil {
		return nil, err
	}

	if len(record.Code) > 65535 || len(record.UserID) > 65535 {
		return nil, errors.New("pending mfa session field length exceeded")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.Code))); err != nil {
		return nil, err
	}
	buf.WriteString(record.Code)
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.UserID))); err != nil {
		return nil, err
	}
	buf.WriteString(record.UserID)

	return buf.Bytes(), nil
}

func decodePendingSession(data []byte) (*pendingSession, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != pendingSessionRecordVersion1 {
		return nil, errors.New("invalid pending mfa session version")
	}

	remember, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	record := &pendingSession{RememberMe: remember == 1}
	if err := binary.Read(reader, binary.BigEndian, &record.ExpiresAt); err != nil {
		return nil, err
	}

	var codeLen uint16
	if err := binary.Read(reader, binary.BigEndian, &codeLen); err != nil {
		return nil, err
	}
	code := make([]byte, codeLen)
	if _, err := io.ReadFull(reader, code); err != nil {
		return nil, err
	}
	record.Code = string(code)

	var userLen uint16
	if err := binary.Read(reader, binary.BigEndian, &userLen); err != nil {
		return nil, err
	}
	user := make([]byte, userLen)
	if _, err := io.ReadFull(reader, user); err != nil {
		return nil, err
	}
	record.UserID = string(user)

	return record, nil
}
