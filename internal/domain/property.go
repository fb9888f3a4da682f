package domain

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"
)

const (
	CodeLength = 6

	// Excludes 0, O, 1 and I so codes survive being read over the phone.
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// Manager is the distinguished employee value that bypasses the
	// assignment filter and sees every room.
	Manager = "Manager"
)

var (
	alphabetLen = big.NewInt(int64(len(CodeAlphabet)))

	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidCode           = errors.New("property code must be 6 characters from the restricted alphabet")
	ErrPropertyNotFound      = errors.New("property not found")
	ErrPropertyAlreadyExists = errors.New("property already exists")
)

// Property is the root of all housekeeping data for one site. The code is
// both the document key and the capability token handed to staff.
type Property struct {
	Code      string    `bson:"_id" json:"code"`
	Name      string    `bson:"name" json:"name"`
	Employees []string  `bson:"employees" json:"employees"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type PropertyRepository interface {
	Create(ctx context.Context, property *Property) error
	GetByCode(ctx context.Context, code string) (*Property, error)
	AddEmployee(ctx context.Context, code string, name string) error
}

func NewProperty(name string) (*Property, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	code, err := GenerateCode()
	if err != nil {
		return nil, err
	}

	return &Property{
		Code:      code,
		Name:      name,
		Employees: []string{},
		CreatedAt: time.Now().UTC(),
	}, nil
}

// AddEmployee appends a name with set-union semantics. It reports whether
// the list actually changed.
func (p *Property) AddEmployee(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for _, existing := range p.Employees {
		if existing == name {
			return false
		}
	}
	p.Employees = append(p.Employees, name)
	return true
}

func (p *Property) HasEmployee(name string) bool {
	for _, existing := range p.Employees {
		if existing == name {
			return true
		}
	}
	return false
}

func GenerateCode() (string, error) {
	var sb strings.Builder
	sb.Grow(CodeLength)

	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(CodeAlphabet[n.Int64()])
	}

	return sb.String(), nil
}

// ValidCode is the single validity rule for property codes: exactly six
// characters, all drawn from the restricted alphabet.
func ValidCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(CodeAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
