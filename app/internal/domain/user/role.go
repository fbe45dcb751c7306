package user

import (
	"errors"
	"regexp"
	"strings"
)

type RoleCode string

const (
	RoleCodeSuperAdmin RoleCode = "SUPER_ADMIN"
	RoleCodeAdmin      RoleCode = "ADMIN"
	RoleCodeCustomer   RoleCode = "CUSTOMER"
)

var roleCodeRegexp = regexp.MustCompile(`^[A-Z0-9_]{3,64}$`)

func (c RoleCode) IsValid() bool {
	return roleCodeRegexp.MatchString(string(c))
}

// IsStaff reports whether the role may use the back-office routes.
func (c RoleCode) IsStaff() bool {
	return c == RoleCodeAdmin || c == RoleCodeSuperAdmin
}

var ErrInvalidRoleCode = errors.New("invalid role code")

// ParseRoleCode normalises a role read from a token or the database.
func ParseRoleCode(s string) (RoleCode, error) {
	c := RoleCode(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", ErrInvalidRoleCode
	}
	return c, nil
}
