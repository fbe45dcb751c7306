package security

import "golang.org/x/crypto/bcrypt"

type BcryptService struct {
	cost int
}

// NewBcryptService clamps cost into the range bcrypt accepts; 0 means the
// library default.
func NewBcryptService(cost int) *BcryptService {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &BcryptService{cost: cost}
}

func (s *BcryptService) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *BcryptService) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
