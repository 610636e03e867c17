package session

import (
	"context"
	"crypto/rand"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/Neon-Gen/finovix-sub000/internal/model"
)

// CodeTTL is how long a password-reset code stays valid.
const CodeTTL = 10 * time.Minute

// codeDigits is the fixed length of every reset code.
const codeDigits = 7

// CodeStore persists at most one live verification code per email.
// Put overwrites any prior code for the same email. Get returns
// ErrVerificationNotFound when no code is stored.
type CodeStore interface {
	Get(ctx context.Context, email string) (model.VerificationCode, error)
	Put(ctx context.Context, code model.VerificationCode) error
	Delete(ctx context.Context, email string) error
}

// CodeDelivery is the seam where a real mailer plugs in. The default
// implementation only logs; the code is never echoed to HTTP clients.
type CodeDelivery interface {
	Deliver(ctx context.Context, email, code string) error
}

// LogDelivery writes the code to the process log. It stands in for a
// mail backend in development.
type LogDelivery struct{}

func (LogDelivery) Deliver(_ context.Context, email, code string) error {
	log.Printf("session: verification code for %s issued (delivery backend not configured): %s", email, code)
	return nil
}

// GenerateCode returns a 7-digit numeric code. Each digit is drawn
// independently from crypto/rand; the first digit is 1-9 so the value
// always falls in [1000000, 9999999].
func GenerateCode() (string, error) {
	buf := make([]byte, codeDigits)
	for i := range buf {
		if i == 0 {
			n, err := rand.Int(rand.Reader, big.NewInt(9))
			if err != nil {
				return "", err
			}
			buf[i] = byte('1' + n.Int64())
			continue
		}
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + n.Int64())
	}
	return string(buf), nil
}

// MemoryCodeStore is a CodeStore backed by a map. It serves tests and
// Redis-less deployments; expiry is enforced by the authenticator, not
// by the store.
type MemoryCodeStore struct {
	mu    sync.Mutex
	codes map[string]model.VerificationCode
}

func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{codes: make(map[string]model.VerificationCode)}
}

func (s *MemoryCodeStore) Get(_ context.Context, email string) (model.VerificationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vc, ok := s.codes[email]
	if !ok {
		return model.VerificationCode{}, ErrVerificationNotFound
	}
	return vc, nil
}

func (s *MemoryCodeStore) Put(_ context.Context, code model.VerificationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code.Email] = code
	return nil
}

func (s *MemoryCodeStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	return nil
}
