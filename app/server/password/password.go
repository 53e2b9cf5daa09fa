package password

import (
	"errors"
	"fmt"
	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
	"strings"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"

	// BcryptCost 固定的工作因子
	BcryptCost = 10

	argon2idPrefix = "$argon2id$"
)

// ErrHashing 哈希或校验过程本身出错（例如摘要格式错误），与“密码不匹配”不同
var ErrHashing = errors.New("password hashing failed")

type Hasher struct {
	algorithm string
}

func New(algorithm string) (*Hasher, error) {
	switch algorithm {
	case AlgorithmBcrypt, AlgorithmArgon2id:
		return &Hasher{algorithm: algorithm}, nil
	case "":
		return &Hasher{algorithm: AlgorithmBcrypt}, nil
	default:
		return nil, fmt.Errorf("unknown password algorithm: %s", algorithm)
	}
}

func (h *Hasher) Algorithm() string {
	return h.algorithm
}

// Hash 生成加盐的单向摘要，错误信息中不包含明文
func (h *Hasher) Hash(plaintext string) (string, error) {
	switch h.algorithm {
	case AlgorithmArgon2id:
		digest, err := argon2id.CreateHash(plaintext, argon2id.DefaultParams)
		if err != nil {
			return "", fmt.Errorf("%w: argon2id: %w", ErrHashing, err)
		}
		return digest, nil
	default:
		digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), BcryptCost)
		if err != nil {
			return "", fmt.Errorf("%w: bcrypt: %w", ErrHashing, err)
		}
		return string(digest), nil
	}
}

// Verify 根据摘要前缀选择算法，两种格式的摘要都能校验，方便切换算法后旧密码仍可登录
func (h *Hasher) Verify(plaintext, digest string) (bool, error) {
	if strings.HasPrefix(digest, argon2idPrefix) {
		match, err := argon2id.ComparePasswordAndHash(plaintext, digest)
		if err != nil {
			return false, fmt.Errorf("%w: argon2id: %w", ErrHashing, err)
		}
		return match, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: bcrypt: %w", ErrHashing, err)
	}
}
