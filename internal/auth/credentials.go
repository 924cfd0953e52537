package auth

import (
	"context"
	"errors"
)

// Authenticate verifies a name/password pair against the repository and
// returns the matching account.
//
// Unknown name and wrong password both collapse into ErrInvalidCredentials,
// and the unknown-name path burns a dummy hash verification so the two
// failures take comparable time. Storage failures pass through unchanged.
func Authenticate(ctx context.Context, repo UserRepository, name, password string) (*User, error) {
	user, err := repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			VerifyDummy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
